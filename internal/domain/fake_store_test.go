package domain

import (
	"context"
	"errors"
	"time"
)

type fakeStore struct {
	users    []User
	links    []ActivityLink
	workouts []Workout
	diets    []Diet
	ranks    []Rank
	groups   []MuscleGroup

	failOn map[string]error

	recordedWorkouts []WorkoutRecord
	recordedDiets    []Diet
	recordedGroups   []MuscleGroupRecord
	created          []User
	deleted          []int64
	updates          map[int64]UserUpdate
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == nil {
		return nil
	}
	return f.failOn[op]
}

func (f *fakeStore) FindUsers(context.Context) ([]User, error) {
	return f.users, f.fail("users")
}

func (f *fakeStore) FindActivityLinks(context.Context) ([]ActivityLink, error) {
	return f.links, f.fail("links")
}

func (f *fakeStore) FindWorkouts(context.Context) ([]Workout, error) {
	return f.workouts, f.fail("workouts")
}

func (f *fakeStore) FindDiets(context.Context) ([]Diet, error) {
	return f.diets, f.fail("diets")
}

func (f *fakeStore) FindRanks(context.Context) ([]Rank, error) {
	return f.ranks, f.fail("ranks")
}

func (f *fakeStore) FindMuscleGroups(context.Context) ([]MuscleGroup, error) {
	return f.groups, f.fail("groups")
}

func (f *fakeStore) FindActivityLinksForUser(_ context.Context, userID int64) ([]ActivityLink, error) {
	if err := f.fail("links"); err != nil {
		return nil, err
	}
	var out []ActivityLink
	for _, l := range f.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) FindWorkoutsForIDs(_ context.Context, ids []int64) ([]Workout, error) {
	if err := f.fail("workouts"); err != nil {
		return nil, err
	}
	var out []Workout
	for _, w := range f.workouts {
		if containsID(ids, w.ID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) FindDietsForIDs(_ context.Context, ids []int64) ([]Diet, error) {
	if err := f.fail("diets"); err != nil {
		return nil, err
	}
	var out []Diet
	for _, d := range f.diets {
		if containsID(ids, d.ID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) FindUser(_ context.Context, id int64) (*User, error) {
	if err := f.fail("user"); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user User) (*User, error) {
	if err := f.fail("create"); err != nil {
		return nil, err
	}
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, user)
	f.links = append(f.links, ActivityLink{ID: int64(len(f.links) + 1), UserID: user.ID})
	f.created = append(f.created, user)
	return &user, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id int64, update UserUpdate) (*User, error) {
	if err := f.fail("update"); err != nil {
		return nil, err
	}
	for i, u := range f.users {
		if u.ID != id {
			continue
		}
		if f.updates == nil {
			f.updates = make(map[int64]UserUpdate)
		}
		f.updates[id] = update
		f.users[i].Username = update.Username
		f.users[i].Email = update.Email
		f.users[i].Name = update.Name
		f.users[i].Men = update.Men
		u := f.users[i]
		return &u, nil
	}
	return nil, nil
}

func (f *fakeStore) DeleteUserCascade(_ context.Context, id int64) (DeleteSummary, error) {
	if err := f.fail("delete"); err != nil {
		return DeleteSummary{}, err
	}
	f.deleted = append(f.deleted, id)
	return DeleteSummary{Links: 1}, nil
}

func (f *fakeStore) RecordWorkout(_ context.Context, _ int64, record WorkoutRecord) (*Workout, error) {
	if err := f.fail("record"); err != nil {
		return nil, err
	}
	f.recordedWorkouts = append(f.recordedWorkouts, record)
	payload := record.Payload
	return &Workout{ID: int64(len(f.recordedWorkouts)), Data: &payload, Date: record.Date}, nil
}

func (f *fakeStore) RecordDiet(_ context.Context, _ int64, diet Diet) (*Diet, error) {
	if err := f.fail("record"); err != nil {
		return nil, err
	}
	f.recordedDiets = append(f.recordedDiets, diet)
	diet.ID = int64(len(f.recordedDiets))
	return &diet, nil
}

func (f *fakeStore) RecordMuscleGroups(_ context.Context, _ int64, record MuscleGroupRecord) (*MuscleGroup, error) {
	if err := f.fail("record"); err != nil {
		return nil, err
	}
	f.recordedGroups = append(f.recordedGroups, record)
	group := record.Group
	group.ID = int64(len(f.recordedGroups))
	return &group, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var errStorage = errors.New("storage unavailable")
