package domain

import (
	"context"
	"fmt"
	"strings"

	"example.com/topform/internal/workoutlog"
)

// MaxTrackedGroups is the number of muscle-group slots a user can fill.
const MaxTrackedGroups = 4

// MuscleGroupEntry is one tracked muscle group and the user's best lift for it.
type MuscleGroupEntry struct {
	Name string
	Kg   int
}

// MuscleGroupsForm is a submitted set of tracked muscle groups.
type MuscleGroupsForm struct {
	Men    uint8
	Groups []MuscleGroupEntry
}

// RecordMuscleGroups replaces the muscle groups shown for the user on the
// leaderboard and updates their men flag.
func (s *Service) RecordMuscleGroups(ctx context.Context, userID int64, form MuscleGroupsForm) (*MuscleGroup, error) {
	if len(form.Groups) == 0 {
		return nil, fmt.Errorf("%w: muscleGroups is required", ErrInvalidInput)
	}
	if len(form.Groups) > MaxTrackedGroups {
		return nil, fmt.Errorf("%w: at most %d muscle groups", ErrInvalidInput, MaxTrackedGroups)
	}

	today := s.today()
	group := MuscleGroup{Date: &today}
	names := []*string{&group.Name1, &group.Name2, &group.Name3, &group.Name4}
	kgs := []*int{&group.Kg1, &group.Kg2, &group.Kg3, &group.Kg4}
	for i, entry := range form.Groups {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: muscle group %d has no name", ErrInvalidInput, i+1)
		}
		if entry.Kg < 0 || entry.Kg > workoutlog.MaxWeightKg {
			return nil, fmt.Errorf("%w: kg for %s must be between 0 and %d", ErrInvalidInput, name, workoutlog.MaxWeightKg)
		}
		*names[i] = name
		*kgs[i] = entry.Kg
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	stored, err := s.store.RecordMuscleGroups(ctx, userID, MuscleGroupRecord{Men: form.Men, Group: group})
	if err != nil {
		return nil, fmt.Errorf("record muscle groups: %w", err)
	}
	return stored, nil
}
