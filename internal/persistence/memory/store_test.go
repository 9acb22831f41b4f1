package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/topform/internal/domain"
	"example.com/topform/internal/workoutlog"
)

func ptr(v int64) *int64 { return &v }

func TestDeleteUserCascadeKeepsSharedRows(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := s.AddUser(domain.User{Username: "ada"})
	bo := s.AddUser(domain.User{Username: "bo"})

	own := s.AddWorkout(domain.Workout{Date: time.Now()})
	shared := s.AddWorkout(domain.Workout{Date: time.Now()})
	diet := s.AddDiet(domain.Diet{FoodDate: time.Now()})
	rank := s.AddRank(domain.Rank{RankName: "Pro", Points: 60000})
	group := s.AddMuscleGroup(domain.MuscleGroup{Name1: "chest"})

	s.AddLink(domain.ActivityLink{UserID: ada.ID, WorkoutID: ptr(own.ID), DietID: ptr(diet.ID), RankID: ptr(rank.ID), MuscleGroupID: ptr(group.ID)})
	s.AddLink(domain.ActivityLink{UserID: ada.ID, WorkoutID: ptr(shared.ID)})
	s.AddLink(domain.ActivityLink{UserID: bo.ID, WorkoutID: ptr(shared.ID)})

	summary, err := s.DeleteUserCascade(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DeleteSummary{Workouts: 1, Diets: 1, Ranks: 1, MuscleGroups: 1, Links: 2}, summary)

	users, _ := s.FindUsers(ctx)
	require.Len(t, users, 1)
	require.Equal(t, "bo", users[0].Username)

	workouts, _ := s.FindWorkouts(ctx)
	require.Len(t, workouts, 1)
	require.Equal(t, shared.ID, workouts[0].ID)

	diets, _ := s.FindDiets(ctx)
	require.Empty(t, diets)
	ranks, _ := s.FindRanks(ctx)
	require.Empty(t, ranks)
	groups, _ := s.FindMuscleGroups(ctx)
	require.Empty(t, groups)

	links, _ := s.FindActivityLinks(ctx)
	require.Len(t, links, 1)
	require.Equal(t, bo.ID, links[0].UserID)

	_, err = s.DeleteUserCascade(ctx, ada.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateUserAddsEmptyLink(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	u, err := s.CreateUser(ctx, domain.User{Username: "ada"})
	require.NoError(t, err)

	links, err := s.FindActivityLinksForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Nil(t, links[0].WorkoutID)

	_, err = s.CreateUser(ctx, domain.User{Username: "ada"})
	require.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRecordWorkoutAccumulatesRank(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u, err := s.CreateUser(ctx, domain.User{Username: "ada"})
	require.NoError(t, err)
	today := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := s.RecordWorkout(ctx, u.ID, domain.WorkoutRecord{Payload: "[]", Date: today, Points: 4000, RankName: workoutlog.RankName})
	require.NoError(t, err)

	links, _ := s.FindActivityLinksForUser(ctx, u.ID)
	require.Len(t, links, 1, "first workout fills the empty link")
	require.Equal(t, first.ID, *links[0].WorkoutID)
	require.NotNil(t, links[0].RankID)

	second, err := s.RecordWorkout(ctx, u.ID, domain.WorkoutRecord{Payload: "[]", Date: today, Points: 2000, RankName: workoutlog.RankName})
	require.NoError(t, err)

	links, _ = s.FindActivityLinksForUser(ctx, u.ID)
	require.Len(t, links, 2)
	require.Equal(t, second.ID, *links[1].WorkoutID)
	require.Equal(t, *links[0].RankID, *links[1].RankID)

	ranks, _ := s.FindRanks(ctx)
	require.Len(t, ranks, 1)
	require.Equal(t, 6000, ranks[0].Points)
	require.Equal(t, "Intermediate", ranks[0].RankName)
}

func TestRecordDietFillsLink(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u, err := s.CreateUser(ctx, domain.User{Username: "ada"})
	require.NoError(t, err)

	meal := `[{"name":"Oats","portion":"80g","calories":300}]`
	diet, err := s.RecordDiet(ctx, u.ID, domain.Diet{Breakfast: &meal, FoodDate: time.Now()})
	require.NoError(t, err)

	diets, err := s.FindDietsForIDs(ctx, []int64{diet.ID})
	require.NoError(t, err)
	require.Len(t, diets, 1)

	links, _ := s.FindActivityLinksForUser(ctx, u.ID)
	require.Len(t, links, 1)
	require.Equal(t, diet.ID, *links[0].DietID)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := s.AddUser(domain.User{Username: "ada"})
	s.AddUser(domain.User{Username: "bo"})

	updated, err := s.UpdateUser(ctx, ada.ID, domain.UserUpdate{Username: "ada2", Email: "a@example.com"})
	require.NoError(t, err)
	require.Equal(t, "ada2", updated.Username)

	_, err = s.UpdateUser(ctx, ada.ID, domain.UserUpdate{Username: "bo"})
	require.ErrorIs(t, err, domain.ErrUsernameTaken)

	missing, err := s.UpdateUser(ctx, 999, domain.UserUpdate{Username: "x"})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRecordMuscleGroupsReplacesFirstLinkGroup(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := s.AddUser(domain.User{Username: "ada"})
	first := s.AddLink(domain.ActivityLink{UserID: ada.ID})
	s.AddLink(domain.ActivityLink{UserID: ada.ID})

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	group, err := s.RecordMuscleGroups(ctx, ada.ID, domain.MuscleGroupRecord{
		Men:   1,
		Group: domain.MuscleGroup{Name1: "arm", Kg1: 40, Date: &day},
	})
	require.NoError(t, err)

	links, err := s.FindActivityLinksForUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, links[0].ID)
	require.Equal(t, group.ID, *links[0].MuscleGroupID)
	require.Nil(t, links[1].MuscleGroupID)

	user, err := s.FindUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, uint8(1), user.Men)

	_, err = s.RecordMuscleGroups(ctx, 999, domain.MuscleGroupRecord{})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRecordMuscleGroupsCreatesLinkWhenNoneExists(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ada := s.AddUser(domain.User{Username: "ada"})

	group, err := s.RecordMuscleGroups(ctx, ada.ID, domain.MuscleGroupRecord{Group: domain.MuscleGroup{Name1: "calf", Kg1: 60}})
	require.NoError(t, err)

	links, err := s.FindActivityLinksForUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, group.ID, *links[0].MuscleGroupID)
}
