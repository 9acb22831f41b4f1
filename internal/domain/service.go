// Package domain holds the fitness tracker's business rules over a pluggable store.
package domain

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"example.com/topform/internal/workoutlog"
)

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoActivity is returned when a user has no activity links at all.
	ErrNoActivity = errors.New("user has no recorded activity")
	// ErrNoWorkoutForDate is returned when none of the user's workouts fall on the requested day.
	ErrNoWorkoutForDate = errors.New("no workout recorded for this date")
	// ErrNoDietForDate is returned when none of the user's diets fall on the requested day.
	ErrNoDietForDate = errors.New("no diet recorded for this date")
	// ErrUnknownTable is returned for admin dumps of tables that are not exposed.
	ErrUnknownTable = errors.New("unknown table")
	// ErrUsernameTaken is returned when a username already belongs to another user.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned when a password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// ReadStore captures the queries the service needs. Full-table reads apply no filtering.
// Single-row lookups return nil, nil when the row does not exist.
type ReadStore interface {
	FindUsers(ctx context.Context) ([]User, error)
	FindActivityLinks(ctx context.Context) ([]ActivityLink, error)
	FindWorkouts(ctx context.Context) ([]Workout, error)
	FindDiets(ctx context.Context) ([]Diet, error)
	FindRanks(ctx context.Context) ([]Rank, error)
	FindMuscleGroups(ctx context.Context) ([]MuscleGroup, error)
	FindActivityLinksForUser(ctx context.Context, userID int64) ([]ActivityLink, error)
	FindWorkoutsForIDs(ctx context.Context, ids []int64) ([]Workout, error)
	FindDietsForIDs(ctx context.Context, ids []int64) ([]Diet, error)
	FindUser(ctx context.Context, id int64) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
}

// WriteStore captures the mutations. Each method is atomic.
type WriteStore interface {
	// CreateUser stores the user together with an empty activity link.
	CreateUser(ctx context.Context, user User) (*User, error)
	// UpdateUser returns nil, nil when the user does not exist.
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error)
	// DeleteUserCascade removes the user, their links and every workout, diet,
	// rank and muscle-group row referenced only by those links.
	DeleteUserCascade(ctx context.Context, id int64) (DeleteSummary, error)
	RecordWorkout(ctx context.Context, userID int64, record WorkoutRecord) (*Workout, error)
	RecordDiet(ctx context.Context, userID int64, diet Diet) (*Diet, error)
	// RecordMuscleGroups stores the group, sets the user's men flag and
	// attaches the group to the user's first link.
	RecordMuscleGroups(ctx context.Context, userID int64, record MuscleGroupRecord) (*MuscleGroup, error)
}

// Store is the full persistence contract.
type Store interface {
	ReadStore
	WriteStore
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithTokenIssuer sets the issuer used by Register and Login.
func WithTokenIssuer(issuer TokenIssuer) Option {
	return func(s *Service) {
		s.tokens = issuer
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to date new records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPasswordCost sets the bcrypt cost for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(s *Service) {
		s.passwordCost = cost
	}
}

// Service orchestrates the fitness tracker workflows.
type Service struct {
	store        Store
	parser       *workoutlog.Parser
	tokens       TokenIssuer
	logger       *log.Logger
	now          func() time.Time
	passwordCost int
}

// NewService constructs a Service.
func NewService(store Store, parser *workoutlog.Parser, opts ...Option) *Service {
	s := &Service{
		store:        store,
		parser:       parser,
		logger:       log.New(log.Writer(), "[domain] ", log.LstdFlags|log.Lmsgprefix),
		now:          time.Now,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day, each read in its own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
