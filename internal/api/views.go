package api

import (
	"time"

	"example.com/topform/internal/domain"
	"example.com/topform/internal/workoutlog"
)

// RecordWorkoutRequest is the payload for POST /workouts. sets[i] counts the
// entries of weightsKg and reps that belong to workoutNames[i].
type RecordWorkoutRequest struct {
	WorkoutNames []string `json:"workoutNames"`
	WeightsKg    []string `json:"weightsKg"`
	Reps         []string `json:"reps"`
	Sets         []string `json:"sets"`
}

// RecordDietRequest is the payload for POST /diet.
type RecordDietRequest struct {
	Breakfast []domain.FoodItem `json:"breakfast"`
	Lunch     []domain.FoodItem `json:"lunch"`
	Diner     []domain.FoodItem `json:"diner"`
	Dessert   []domain.FoodItem `json:"dessert"`
}

// MuscleGroupEntryRequest is one tracked muscle group and its best lift.
type MuscleGroupEntryRequest struct {
	Name string `json:"name"`
	Kg   int    `json:"kg"`
}

// RecordMuscleGroupsRequest is the payload for POST /muscle-groups.
type RecordMuscleGroupsRequest struct {
	Men          uint8                     `json:"men"`
	MuscleGroups []MuscleGroupEntryRequest `json:"muscleGroups"`
}

// UpdateUserRequest is the payload for PUT /users/{id}.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Men      uint8  `json:"men"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a signed session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterResponse describes a newly created account.
type RegisterResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// RecordedView acknowledges a stored workout or diet.
type RecordedView struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
}

// DeletedCounts reports the rows removed with a user.
type DeletedCounts struct {
	Workouts     int64 `json:"workouts"`
	Diets        int64 `json:"diets"`
	Ranks        int64 `json:"ranks"`
	MuscleGroups int64 `json:"muscleGroups"`
	Links        int64 `json:"userActivity"`
}

// DeleteUserResponse is returned by DELETE /users/{id}.
type DeleteUserResponse struct {
	Message string        `json:"message"`
	Deleted DeletedCounts `json:"deleted"`
}

// UserView exposes a user without credentials.
type UserView struct {
	ID                int64   `json:"id"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	BirthDate         *string `json:"birthDate"`
	Men               uint8   `json:"men"`
	HasProfilePicture bool    `json:"hasProfilePicture"`
}

// WorkoutView is a stored workout with its raw payload.
type WorkoutView struct {
	ID   int64   `json:"id"`
	Data *string `json:"data"`
	Date string  `json:"date"`
}

// DietView is a stored diet with its raw meal columns.
type DietView struct {
	ID        int64   `json:"id"`
	Breakfast *string `json:"breakfast"`
	Lunch     *string `json:"lunch"`
	Diner     *string `json:"diner"`
	Dessert   *string `json:"dessert"`
	FoodDate  string  `json:"foodDate"`
}

// RankView is a user's accumulated rank.
type RankView struct {
	ID       int64  `json:"id"`
	RankName string `json:"rankName"`
	Points   int    `json:"points"`
}

// MuscleGroupView lists tracked muscle groups with their best lifts.
type MuscleGroupView struct {
	ID    int64   `json:"id"`
	Name1 string  `json:"name1"`
	Name2 string  `json:"name2"`
	Name3 string  `json:"name3"`
	Name4 string  `json:"name4"`
	Kg1   int     `json:"kg1"`
	Kg2   int     `json:"kg2"`
	Kg3   int     `json:"kg3"`
	Kg4   int     `json:"kg4"`
	Date  *string `json:"date"`
}

// ActivityLinkView is one user_activity row.
type ActivityLinkView struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	WorkoutID     *int64 `json:"workoutId"`
	DietID        *int64 `json:"dietId"`
	RankID        *int64 `json:"ranksId"`
	MuscleGroupID *int64 `json:"muscleGroupId"`
}

// LeaderboardRowView is one user's leaderboard entry.
type LeaderboardRowView struct {
	ID          int64            `json:"id"`
	Username    string           `json:"username"`
	ProfilePic  *string          `json:"profilPic"`
	Workouts    []WorkoutView    `json:"workouts"`
	Rank        *RankView        `json:"rank"`
	MuscleGroup *MuscleGroupView `json:"muscleGroup"`
}

// LeaderboardResponse wraps the leaderboard rows.
type LeaderboardResponse struct {
	Leaderboard []LeaderboardRowView `json:"Leaderboard"`
}

// WorkoutDayView is a workout with its parsed exercises.
type WorkoutDayView struct {
	ID             int64                 `json:"id"`
	WorkoutDetails []workoutlog.Exercise `json:"workoutDetails"`
	WorkoutDate    string                `json:"workoutDate"`
}

// DietDayView is a diet with its decoded meals.
type DietDayView struct {
	ID        int64             `json:"id"`
	FoodDate  string            `json:"foodDate"`
	Breakfast []domain.FoodItem `json:"breakfast"`
	Lunch     []domain.FoodItem `json:"lunch"`
	Diner     []domain.FoodItem `json:"diner"`
	Dessert   []domain.FoodItem `json:"dessert"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toUserView(u domain.User) UserView {
	return UserView{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Name:              u.Name,
		BirthDate:         formatDate(u.BirthDate),
		Men:               u.Men,
		HasProfilePicture: len(u.ProfilePicture) > 0,
	}
}

func toWorkoutView(w domain.Workout) WorkoutView {
	return WorkoutView{ID: w.ID, Data: w.Data, Date: w.Date.Format(dateLayout)}
}

func toDietView(d domain.Diet) DietView {
	return DietView{
		ID:        d.ID,
		Breakfast: d.Breakfast,
		Lunch:     d.Lunch,
		Diner:     d.Diner,
		Dessert:   d.Dessert,
		FoodDate:  d.FoodDate.Format(dateLayout),
	}
}

func toRankView(r domain.Rank) RankView {
	return RankView{ID: r.ID, RankName: r.RankName, Points: r.Points}
}

func toMuscleGroupView(g domain.MuscleGroup) MuscleGroupView {
	return MuscleGroupView{
		ID:    g.ID,
		Name1: g.Name1,
		Name2: g.Name2,
		Name3: g.Name3,
		Name4: g.Name4,
		Kg1:   g.Kg1,
		Kg2:   g.Kg2,
		Kg3:   g.Kg3,
		Kg4:   g.Kg4,
		Date:  formatDate(g.Date),
	}
}

func toActivityLinkView(l domain.ActivityLink) ActivityLinkView {
	return ActivityLinkView{
		ID:            l.ID,
		UserID:        l.UserID,
		WorkoutID:     l.WorkoutID,
		DietID:        l.DietID,
		RankID:        l.RankID,
		MuscleGroupID: l.MuscleGroupID,
	}
}

func toLeaderboardRowView(row domain.LeaderboardRow) LeaderboardRowView {
	view := LeaderboardRowView{
		ID:         row.ID,
		Username:   row.Username,
		ProfilePic: row.ProfilePic,
		Workouts:   mapSlice(row.Workouts, toWorkoutView),
	}
	if row.Rank != nil {
		rank := toRankView(*row.Rank)
		view.Rank = &rank
	}
	if row.MuscleGroup != nil {
		group := toMuscleGroupView(*row.MuscleGroup)
		view.MuscleGroup = &group
	}
	return view
}

func toWorkoutDayView(d domain.WorkoutDay) WorkoutDayView {
	return WorkoutDayView{ID: d.ID, WorkoutDetails: d.Details, WorkoutDate: d.Date.Format(dateLayout)}
}

func toDietDayView(d domain.DietDay) DietDayView {
	return DietDayView{
		ID:        d.ID,
		FoodDate:  d.FoodDate.Format(dateLayout),
		Breakfast: d.Breakfast,
		Lunch:     d.Lunch,
		Diner:     d.Diner,
		Dessert:   d.Dessert,
	}
}

// toTableView returns the rows of the dumped table as a JSON array.
func toTableView(dump domain.TableDump) interface{} {
	switch dump.Table {
	case domain.TableUsers:
		return mapSlice(dump.Users, toUserView)
	case domain.TableWorkouts:
		return mapSlice(dump.Workouts, toWorkoutView)
	case domain.TableDiet:
		return mapSlice(dump.Diets, toDietView)
	case domain.TableMuscleGroups:
		return mapSlice(dump.MuscleGroups, toMuscleGroupView)
	case domain.TableRanks:
		return mapSlice(dump.Ranks, toRankView)
	default:
		return mapSlice(dump.Links, toActivityLinkView)
	}
}

func mapSlice[T, V any](in []T, fn func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
