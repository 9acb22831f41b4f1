package workoutlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned when a submitted weight, rep or set count is
// not an integer in range, or when set counts claim more values than were sent.
var ErrInvalidNumber = errors.New("invalid number")

// Upper bounds for a single set.
const (
	MaxWeightKg = 1_000
	MaxReps     = 1_000
)

// Performed is one exercise of a session being recorded.
type Performed struct {
	Name    string
	Weights []int
	Reps    []int
	Sets    int
}

type storedEntry struct {
	WorkoutDetails storedDetails `json:"workoutDetails"`
}

type storedDetails struct {
	ExerciseName string `json:"exerciseName"`
	Weights      []int  `json:"weights"`
	Reps         []int  `json:"reps"`
	Sets         []int  `json:"sets"`
}

// FromForm pairs submitted exercise names with their per-set values. sets[i]
// is the number of sets performed for names[i]; the next sets[i] entries of
// weights and reps belong to that exercise and must all be present.
func FromForm(names, weights, reps, sets []string) ([]Performed, error) {
	if len(sets) < len(names) {
		return nil, fmt.Errorf("%w: %d exercises but %d set counts", ErrInvalidNumber, len(names), len(sets))
	}

	weightValues, err := atoiAll("weight", weights, MaxWeightKg)
	if err != nil {
		return nil, err
	}
	repValues, err := atoiAll("reps", reps, MaxReps)
	if err != nil {
		return nil, err
	}
	available := min(len(weightValues), len(repValues))

	performed := make([]Performed, 0, len(names))
	cursor := 0
	for i, name := range names {
		count, err := strconv.Atoi(strings.TrimSpace(sets[i]))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: sets %q", ErrInvalidNumber, sets[i])
		}
		if count > available-cursor {
			return nil, fmt.Errorf("%w: %d sets of %s but only %d values left", ErrInvalidNumber, count, name, available-cursor)
		}
		performed = append(performed, Performed{
			Name:    strings.TrimSpace(name),
			Weights: window(weightValues, cursor, count),
			Reps:    window(repValues, cursor, count),
			Sets:    count,
		})
		cursor += count
	}
	return performed, nil
}

// Encode renders a session in the stored payload form read back by Parser.
func Encode(performed []Performed) (string, error) {
	entries := make([]storedEntry, 0, len(performed))
	for _, p := range performed {
		entries = append(entries, storedEntry{WorkoutDetails: storedDetails{
			ExerciseName: p.Name,
			Weights:      nonNil(p.Weights),
			Reps:         nonNil(p.Reps),
			Sets:         []int{p.Sets},
		}})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode workout: %w", err)
	}
	return string(data), nil
}

// Points scores a session as the sum of weight times reps over every recorded set.
func Points(performed []Performed) int {
	total := 0
	for _, p := range performed {
		n := len(p.Weights)
		if len(p.Reps) < n {
			n = len(p.Reps)
		}
		for i := 0; i < n; i++ {
			total += p.Weights[i] * p.Reps[i]
		}
	}
	return total
}

var rankThresholds = []struct {
	below int
	name  string
}{
	{below: 5_000, name: "Beginner"},
	{below: 20_000, name: "Intermediate"},
	{below: 50_000, name: "Advanced"},
	{below: 200_000, name: "Pro"},
	{below: 600_000, name: "Elite"},
	{below: 800_000, name: "Legend"},
	{below: 3_000_000, name: "Master"},
	{below: 10_000_000, name: "Champion"},
}

// RankName returns the rank title earned by a points total.
func RankName(points int) string {
	for _, t := range rankThresholds {
		if points < t.below {
			return t.name
		}
	}
	return "Titan"
}

func atoiAll(field string, raw []string, limit int) ([]int, error) {
	values := make([]int, 0, len(raw))
	for _, r := range raw {
		v, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil || v < 0 || v > limit {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidNumber, field, r)
		}
		values = append(values, v)
	}
	return values, nil
}

// window copies values[from:from+n]. Callers have checked the bounds.
func window(values []int, from, n int) []int {
	out := make([]int, n)
	copy(out, values[from:from+n])
	return out
}

func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
