package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"example.com/topform/internal/observability"
)

// LeaderboardInput is the full set of collections the leaderboard is built from.
type LeaderboardInput struct {
	Users        []User
	Links        []ActivityLink
	Workouts     []Workout
	Ranks        []Rank
	MuscleGroups []MuscleGroup
}

// BuildLeaderboard returns one row per user in input order. Each row embeds
// every workout referenced by the user's links in storage order. Rank and
// muscle group come from the user's first link only.
func BuildLeaderboard(in LeaderboardInput) []LeaderboardRow {
	linksByUser := make(map[int64][]ActivityLink, len(in.Users))
	for _, link := range in.Links {
		linksByUser[link.UserID] = append(linksByUser[link.UserID], link)
	}

	workoutPos := make(map[int64]int, len(in.Workouts))
	for i, w := range in.Workouts {
		if _, ok := workoutPos[w.ID]; !ok {
			workoutPos[w.ID] = i
		}
	}
	ranks := make(map[int64]Rank, len(in.Ranks))
	for _, r := range in.Ranks {
		if _, ok := ranks[r.ID]; !ok {
			ranks[r.ID] = r
		}
	}
	groups := make(map[int64]MuscleGroup, len(in.MuscleGroups))
	for _, g := range in.MuscleGroups {
		if _, ok := groups[g.ID]; !ok {
			groups[g.ID] = g
		}
	}

	rows := make([]LeaderboardRow, 0, len(in.Users))
	for _, user := range in.Users {
		links := linksByUser[user.ID]
		row := LeaderboardRow{
			ID:         user.ID,
			Username:   user.Username,
			ProfilePic: encodePicture(user.ProfilePicture),
			Workouts:   userWorkouts(links, in.Workouts, workoutPos),
		}

		if len(links) > 0 {
			first := links[0]
			if first.RankID != nil {
				if r, ok := ranks[*first.RankID]; ok {
					row.Rank = &r
				}
			}
			if first.MuscleGroupID != nil {
				if g, ok := groups[*first.MuscleGroupID]; ok {
					row.MuscleGroup = &g
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func userWorkouts(links []ActivityLink, workouts []Workout, pos map[int64]int) []Workout {
	seen := make(map[int64]struct{}, len(links))
	positions := make([]int, 0, len(links))
	for _, link := range links {
		if link.WorkoutID == nil {
			continue
		}
		id := *link.WorkoutID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := pos[id]; ok {
			positions = append(positions, p)
		}
	}
	sort.Ints(positions)

	out := make([]Workout, 0, len(positions))
	for _, p := range positions {
		out = append(out, workouts[p])
	}
	return out
}

func encodePicture(data []byte) *string {
	if data == nil {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return &encoded
}

// Leaderboard loads every collection and aggregates it. A failed load aborts
// the whole build.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	start := time.Now()

	var (
		in  LeaderboardInput
		err error
	)
	if in.Users, err = s.store.FindUsers(ctx); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if in.Links, err = s.store.FindActivityLinks(ctx); err != nil {
		return nil, fmt.Errorf("load activity links: %w", err)
	}
	if in.Workouts, err = s.store.FindWorkouts(ctx); err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}
	if in.Ranks, err = s.store.FindRanks(ctx); err != nil {
		return nil, fmt.Errorf("load ranks: %w", err)
	}
	if in.MuscleGroups, err = s.store.FindMuscleGroups(ctx); err != nil {
		return nil, fmt.Errorf("load muscle groups: %w", err)
	}

	rows := BuildLeaderboard(in)
	observability.ObserveLeaderboard(time.Since(start), len(rows))
	return rows, nil
}
