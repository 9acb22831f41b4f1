package memory

import (
	"context"

	"example.com/topform/internal/domain"
)

// CreateUser implements domain.WriteStore.
func (s *Store) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(user.Username, 0) {
		return nil, domain.ErrUsernameTaken
	}
	user.ID = s.id()
	s.users = append(s.users, user)
	s.links = append(s.links, domain.ActivityLink{ID: s.id(), UserID: user.ID})
	return &user, nil
}

// UpdateUser implements domain.WriteStore.
func (s *Store) UpdateUser(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return nil, nil
	}
	if s.usernameTaken(update.Username, id) {
		return nil, domain.ErrUsernameTaken
	}
	u := s.users[i]
	u.Username = update.Username
	u.Email = update.Email
	u.Name = update.Name
	u.Men = update.Men
	s.users[i] = u
	return &u, nil
}

// DeleteUserCascade implements domain.WriteStore.
func (s *Store) DeleteUserCascade(ctx context.Context, id int64) (domain.DeleteSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.DeleteSummary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(id) < 0 {
		return domain.DeleteSummary{}, domain.ErrUserNotFound
	}

	owned := struct{ workouts, diets, ranks, groups int64Set }{int64Set{}, int64Set{}, int64Set{}, int64Set{}}
	shared := struct{ workouts, diets, ranks, groups int64Set }{int64Set{}, int64Set{}, int64Set{}, int64Set{}}
	for _, l := range s.links {
		target := shared
		if l.UserID == id {
			target = owned
		}
		target.workouts.add(l.WorkoutID)
		target.diets.add(l.DietID)
		target.ranks.add(l.RankID)
		target.groups.add(l.MuscleGroupID)
	}
	doomed := func(own, other int64Set) func(int64) bool {
		return func(v int64) bool { return own.has(v) && !other.has(v) }
	}
	dropWorkout := doomed(owned.workouts, shared.workouts)
	dropDiet := doomed(owned.diets, shared.diets)
	dropRank := doomed(owned.ranks, shared.ranks)
	dropGroup := doomed(owned.groups, shared.groups)

	var summary domain.DeleteSummary
	workouts := filter(s.workouts, func(w domain.Workout) bool { return !dropWorkout(w.ID) })
	summary.Workouts = int64(len(s.workouts) - len(workouts))
	diets := filter(s.diets, func(d domain.Diet) bool { return !dropDiet(d.ID) })
	summary.Diets = int64(len(s.diets) - len(diets))
	ranks := filter(s.ranks, func(r domain.Rank) bool { return !dropRank(r.ID) })
	summary.Ranks = int64(len(s.ranks) - len(ranks))
	groups := filter(s.groups, func(g domain.MuscleGroup) bool { return !dropGroup(g.ID) })
	summary.MuscleGroups = int64(len(s.groups) - len(groups))
	links := filter(s.links, func(l domain.ActivityLink) bool { return l.UserID != id })
	summary.Links = int64(len(s.links) - len(links))
	users := filter(s.users, func(u domain.User) bool { return u.ID != id })

	s.workouts, s.diets, s.ranks, s.groups, s.links, s.users = workouts, diets, ranks, groups, links, users
	return summary, nil
}

// RecordWorkout implements domain.WriteStore using the same link rules as the
// Postgres repository.
func (s *Store) RecordWorkout(ctx context.Context, userID int64, record domain.WorkoutRecord) (*domain.Workout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := record.Payload
	workout := domain.Workout{ID: s.id(), Data: &payload, Date: record.Date}
	s.workouts = append(s.workouts, workout)

	var rankID *int64
	if i := s.firstLink(userID, func(l domain.ActivityLink) bool { return l.RankID != nil }); i >= 0 {
		rankID = s.links[i].RankID
		for j := range s.ranks {
			if s.ranks[j].ID == *rankID {
				s.ranks[j].Points += record.Points
				s.ranks[j].RankName = record.RankName(s.ranks[j].Points)
				break
			}
		}
	} else {
		rank := domain.Rank{ID: s.id(), Points: record.Points, RankName: record.RankName(record.Points)}
		s.ranks = append(s.ranks, rank)
		rankID = &rank.ID
		if j := s.firstLink(userID, func(l domain.ActivityLink) bool { return l.RankID == nil }); j >= 0 {
			s.links[j].RankID = rankID
		}
	}

	workoutID := workout.ID
	if i := s.firstLink(userID, func(l domain.ActivityLink) bool { return l.WorkoutID == nil }); i >= 0 {
		s.links[i].WorkoutID = &workoutID
	} else {
		var groupID *int64
		if j := s.firstLink(userID, func(l domain.ActivityLink) bool { return l.MuscleGroupID != nil && l.WorkoutID != nil }); j >= 0 {
			groupID = s.links[j].MuscleGroupID
		}
		s.links = append(s.links, domain.ActivityLink{
			ID: s.id(), UserID: userID, WorkoutID: &workoutID, RankID: rankID, MuscleGroupID: groupID,
		})
	}
	return &workout, nil
}

// RecordDiet implements domain.WriteStore.
func (s *Store) RecordDiet(ctx context.Context, userID int64, diet domain.Diet) (*domain.Diet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	diet.ID = s.id()
	s.diets = append(s.diets, diet)

	dietID := diet.ID
	if i := s.firstLink(userID, func(l domain.ActivityLink) bool { return l.DietID == nil }); i >= 0 {
		s.links[i].DietID = &dietID
	} else {
		var groupID *int64
		if j := s.firstLink(userID, func(l domain.ActivityLink) bool { return l.MuscleGroupID != nil && l.DietID != nil }); j >= 0 {
			groupID = s.links[j].MuscleGroupID
		}
		s.links = append(s.links, domain.ActivityLink{ID: s.id(), UserID: userID, DietID: &dietID, MuscleGroupID: groupID})
	}
	return &diet, nil
}

func (s *Store) firstLink(userID int64, match func(domain.ActivityLink) bool) int {
	for i, l := range s.links {
		if l.UserID == userID && match(l) {
			return i
		}
	}
	return -1
}

// RecordMuscleGroups implements domain.WriteStore.
func (s *Store) RecordMuscleGroups(ctx context.Context, userID int64, record domain.MuscleGroupRecord) (*domain.MuscleGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(userID)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	s.users[i].Men = record.Men

	group := record.Group
	group.ID = s.id()
	s.groups = append(s.groups, group)

	groupID := group.ID
	if j := s.firstLink(userID, func(domain.ActivityLink) bool { return true }); j >= 0 {
		s.links[j].MuscleGroupID = &groupID
	} else {
		s.links = append(s.links, domain.ActivityLink{ID: s.id(), UserID: userID, MuscleGroupID: &groupID})
	}
	return &group, nil
}
