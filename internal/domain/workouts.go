package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"example.com/topform/internal/observability"
	"example.com/topform/internal/workoutlog"
)

// WorkoutDay is a stored workout with its payload parsed into exercises.
type WorkoutDay struct {
	ID      int64
	Details []workoutlog.Exercise
	Date    time.Time
}

// WorkoutForm is a session submitted for recording. Values arrive as strings
// and sets[i] counts the per-set weights and reps of names[i].
type WorkoutForm struct {
	Names   []string
	Weights []string
	Reps    []string
	Sets    []string
}

// WorkoutsByDate returns the user's workouts stored on day.
func (s *Service) WorkoutsByDate(ctx context.Context, userID int64, day time.Time) ([]WorkoutDay, error) {
	links, err := s.store.FindActivityLinksForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load activity links: %w", err)
	}
	if len(links) == 0 {
		return nil, ErrNoActivity
	}

	ids := distinctIDs(links, func(l ActivityLink) *int64 { return l.WorkoutID })
	var workouts []Workout
	if len(ids) > 0 {
		if workouts, err = s.store.FindWorkoutsForIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("load workouts: %w", err)
		}
	}

	days := make([]WorkoutDay, 0, len(workouts))
	for _, w := range workouts {
		if !SameDay(w.Date, day) {
			continue
		}
		days = append(days, WorkoutDay{
			ID:      w.ID,
			Details: s.parser.Parse(w.Data),
			Date:    w.Date,
		})
	}
	if len(days) == 0 {
		return nil, ErrNoWorkoutForDate
	}

	observability.RecordWorkoutsServed(len(days))
	return days, nil
}

// RecordWorkout validates and stores a session for the user, crediting its
// points to the user's rank.
func (s *Service) RecordWorkout(ctx context.Context, userID int64, form WorkoutForm) (*Workout, error) {
	if len(form.Names) == 0 || len(form.Weights) == 0 || len(form.Reps) == 0 || len(form.Sets) == 0 {
		return nil, fmt.Errorf("%w: workoutNames, weightsKg, reps and sets are required", ErrInvalidInput)
	}
	for _, name := range form.Names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: exercise names must not be blank", ErrInvalidInput)
		}
	}

	performed, err := workoutlog.FromForm(form.Names, form.Weights, form.Reps, form.Sets)
	if err != nil {
		if errors.Is(err, workoutlog.ErrInvalidNumber) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	payload, err := workoutlog.Encode(performed)
	if err != nil {
		return nil, err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	workout, err := s.store.RecordWorkout(ctx, userID, WorkoutRecord{
		Payload:   payload,
		Date:      s.today(),
		Exercises: len(performed),
		Points:    workoutlog.Points(performed),
		RankName:  workoutlog.RankName,
	})
	if err != nil {
		return nil, fmt.Errorf("record workout: %w", err)
	}

	observability.RecordWorkoutRecorded(s.now())
	return workout, nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	user, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}

func distinctIDs(links []ActivityLink, pick func(ActivityLink) *int64) []int64 {
	seen := make(map[int64]struct{}, len(links))
	ids := make([]int64, 0, len(links))
	for _, link := range links {
		id := pick(link)
		if id == nil {
			continue
		}
		if _, dup := seen[*id]; dup {
			continue
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	return ids
}
