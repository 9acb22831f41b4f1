// Package memory provides a process-local store for development and tests.
package memory

import (
	"context"
	"sync"

	"example.com/topform/internal/domain"
)

// Store keeps every table in insertion order behind a single lock. Each write
// builds its result before publishing it, so a failed write leaves no trace.
type Store struct {
	mu sync.RWMutex

	users    []domain.User
	links    []domain.ActivityLink
	workouts []domain.Workout
	diets    []domain.Diet
	ranks    []domain.Rank
	groups   []domain.MuscleGroup

	nextID int64
}

var _ domain.Store = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser inserts a user, assigning an id when none is set.
func (s *Store) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.bump(u.ID)
	s.users = append(s.users, u)
	return u
}

// AddWorkout inserts a workout, assigning an id when none is set.
func (s *Store) AddWorkout(w domain.Workout) domain.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.id()
	}
	s.bump(w.ID)
	s.workouts = append(s.workouts, w)
	return w
}

// AddDiet inserts a diet, assigning an id when none is set.
func (s *Store) AddDiet(d domain.Diet) domain.Diet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		d.ID = s.id()
	}
	s.bump(d.ID)
	s.diets = append(s.diets, d)
	return d
}

// AddRank inserts a rank, assigning an id when none is set.
func (s *Store) AddRank(r domain.Rank) domain.Rank {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.id()
	}
	s.bump(r.ID)
	s.ranks = append(s.ranks, r)
	return r
}

// AddMuscleGroup inserts a muscle group, assigning an id when none is set.
func (s *Store) AddMuscleGroup(g domain.MuscleGroup) domain.MuscleGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		g.ID = s.id()
	}
	s.bump(g.ID)
	s.groups = append(s.groups, g)
	return g
}

// AddLink inserts an activity link, assigning an id when none is set.
func (s *Store) AddLink(l domain.ActivityLink) domain.ActivityLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id()
	}
	s.bump(l.ID)
	s.links = append(s.links, l)
	return l
}

func (s *Store) bump(id int64) {
	if id > s.nextID {
		s.nextID = id
	}
}

// FindUsers implements domain.ReadStore.
func (s *Store) FindUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.users), ctx.Err()
}

// FindActivityLinks implements domain.ReadStore.
func (s *Store) FindActivityLinks(ctx context.Context) ([]domain.ActivityLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.links), ctx.Err()
}

// FindWorkouts implements domain.ReadStore.
func (s *Store) FindWorkouts(ctx context.Context) ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.workouts), ctx.Err()
}

// FindDiets implements domain.ReadStore.
func (s *Store) FindDiets(ctx context.Context) ([]domain.Diet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.diets), ctx.Err()
}

// FindRanks implements domain.ReadStore.
func (s *Store) FindRanks(ctx context.Context) ([]domain.Rank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.ranks), ctx.Err()
}

// FindMuscleGroups implements domain.ReadStore.
func (s *Store) FindMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.groups), ctx.Err()
}

// FindActivityLinksForUser implements domain.ReadStore.
func (s *Store) FindActivityLinksForUser(ctx context.Context, userID int64) ([]domain.ActivityLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.links, func(l domain.ActivityLink) bool { return l.UserID == userID }), ctx.Err()
}

// FindWorkoutsForIDs implements domain.ReadStore.
func (s *Store) FindWorkoutsForIDs(ctx context.Context, ids []int64) ([]domain.Workout, error) {
	set := newSet(ids)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.workouts, func(w domain.Workout) bool { return set.has(w.ID) }), ctx.Err()
}

// FindDietsForIDs implements domain.ReadStore.
func (s *Store) FindDietsForIDs(ctx context.Context, ids []int64) ([]domain.Diet, error) {
	set := newSet(ids)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.diets, func(d domain.Diet) bool { return set.has(d.ID) }), ctx.Err()
}

// FindUser implements domain.ReadStore.
func (s *Store) FindUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.userIndex(id); i >= 0 {
		u := s.users[i]
		return &u, ctx.Err()
	}
	return nil, ctx.Err()
}

// FindUserByUsername implements domain.ReadStore.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, ctx.Err()
		}
	}
	return nil, ctx.Err()
}

func (s *Store) userIndex(id int64) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) usernameTaken(username string, except int64) bool {
	for _, u := range s.users {
		if u.Username == username && u.ID != except {
			return true
		}
	}
	return false
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

type int64Set map[int64]struct{}

func newSet(values []int64) int64Set {
	set := make(int64Set, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s int64Set) has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s int64Set) add(id *int64) {
	if id != nil {
		s[*id] = struct{}{}
	}
}
