// Package workoutlog decodes stored workout payloads into per-exercise records
// and encodes newly recorded sessions into the stored form.
package workoutlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"example.com/topform/internal/catalog"
)

// UnknownExercise replaces a missing exercise name.
const UnknownExercise = "Unknown"

var errMalformed = errors.New("malformed workout payload")

// Exercise is one parsed entry of a workout payload, tagged with the muscle
// groups it trains. Sequence lengths are not cross-checked.
type Exercise struct {
	ExerciseName string   `json:"exerciseName"`
	Weights      []int    `json:"weights"`
	Reps         []int    `json:"reps"`
	Sets         []int    `json:"sets"`
	MuscleGroups []string `json:"muscleGroups"`
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger overrides the logger used to report malformed payloads.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser turns stored workout payloads into exercises. Stored data is parsed
// leniently: a payload that cannot be decoded yields no exercises and is logged.
type Parser struct {
	catalog catalog.Catalog
	logger  *log.Logger
}

// NewParser builds a Parser that tags exercises using c.
func NewParser(c catalog.Catalog, opts ...Option) *Parser {
	p := &Parser{
		catalog: c,
		logger:  log.New(log.Writer(), "[workoutlog] ", log.LstdFlags|log.Lmsgprefix),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes a nullable stored payload.
func (p *Parser) Parse(payload *string) []Exercise {
	if payload == nil {
		return []Exercise{}
	}
	return p.ParseString(*payload)
}

// ParseString decodes payload. It never fails: blank and empty-list payloads
// produce an empty slice, and so does any malformed batch.
func (p *Parser) ParseString(payload string) []Exercise {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" || trimmed == "[]" {
		return []Exercise{}
	}

	entries, err := decodeEntries([]byte(trimmed))
	if err != nil {
		p.logger.Printf("discarding workout payload: %v", err)
		recordParseFailure()
		return []Exercise{}
	}

	exercises := make([]Exercise, 0, len(entries))
	for _, entry := range entries {
		exercises = append(exercises, Exercise{
			ExerciseName: entry.name,
			Weights:      entry.weights,
			Reps:         entry.reps,
			Sets:         entry.sets,
			MuscleGroups: p.catalog.GroupsFor(entry.name),
		})
	}
	return exercises
}

type decodedEntry struct {
	name    string
	weights []int
	reps    []int
	sets    []int
}

func decodeEntries(data []byte) ([]decodedEntry, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	entries := make([]decodedEntry, 0, len(elements))
	for i, element := range elements {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(element, &wrapper); err != nil || wrapper == nil {
			return nil, fmt.Errorf("%w: entry %d is not an object", errMalformed, i)
		}

		raw, ok := wrapper["workoutDetails"]
		if !ok {
			continue
		}

		entry, err := decodeDetails(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", errMalformed, i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeDetails(raw json.RawMessage) (decodedEntry, error) {
	var details map[string]json.RawMessage
	if err := json.Unmarshal(raw, &details); err != nil || details == nil {
		return decodedEntry{}, errors.New("workoutDetails is not an object")
	}

	entry := decodedEntry{name: UnknownExercise}
	if rawName, ok := details["exerciseName"]; ok && !isNull(rawName) {
		var name string
		if err := json.Unmarshal(rawName, &name); err != nil {
			return decodedEntry{}, errors.New("exerciseName is not a string")
		}
		if name != "" {
			entry.name = name
		}
	}

	var err error
	if entry.weights, err = intArray(details, "weights"); err != nil {
		return decodedEntry{}, err
	}
	if entry.reps, err = intArray(details, "reps"); err != nil {
		return decodedEntry{}, err
	}
	if entry.sets, err = intArray(details, "sets"); err != nil {
		return decodedEntry{}, err
	}
	return entry, nil
}

func intArray(details map[string]json.RawMessage, key string) ([]int, error) {
	raw, ok := details[key]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%s is missing", key)
	}
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%s is not an integer array", key)
	}
	return values, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
