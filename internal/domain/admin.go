package domain

import (
	"context"
	"fmt"
	"strings"
)

// Tables exposed through the admin dump.
const (
	TableUsers        = "Users"
	TableWorkouts     = "Workouts"
	TableDiet         = "Diet"
	TableMuscleGroups = "MuscleGroups"
	TableRanks        = "Ranks"
	TableUserActivity = "UserActivity"
)

var adminTables = []string{TableUsers, TableWorkouts, TableDiet, TableMuscleGroups, TableRanks, TableUserActivity}

// TableDump holds the rows of one admin table. Only the slice matching Table is set.
type TableDump struct {
	Table        string
	Users        []User
	Workouts     []Workout
	Diets        []Diet
	MuscleGroups []MuscleGroup
	Ranks        []Rank
	Links        []ActivityLink
}

// DumpTable returns every row of the named table. Names match case-insensitively.
func (s *Service) DumpTable(ctx context.Context, name string) (TableDump, error) {
	table := ""
	for _, t := range adminTables {
		if strings.EqualFold(t, name) {
			table = t
			break
		}
	}

	dump := TableDump{Table: table}
	var err error
	switch table {
	case TableUsers:
		dump.Users, err = s.store.FindUsers(ctx)
	case TableWorkouts:
		dump.Workouts, err = s.store.FindWorkouts(ctx)
	case TableDiet:
		dump.Diets, err = s.store.FindDiets(ctx)
	case TableMuscleGroups:
		dump.MuscleGroups, err = s.store.FindMuscleGroups(ctx)
	case TableRanks:
		dump.Ranks, err = s.store.FindRanks(ctx)
	case TableUserActivity:
		dump.Links, err = s.store.FindActivityLinks(ctx)
	default:
		return TableDump{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	if err != nil {
		return TableDump{}, fmt.Errorf("dump %s: %w", table, err)
	}
	return dump, nil
}
