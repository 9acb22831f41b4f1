package domain

import "time"

// User is an account holder. PasswordHash is a bcrypt digest.
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	ProfilePicture []byte
	Name           string
	BirthDate      *time.Time
	Men            uint8
}

// Workout is one stored session. Data holds the serialized exercise list and
// Date has day granularity.
type Workout struct {
	ID   int64
	Data *string
	Date time.Time
}

// Diet is one stored day of meals. Each meal column holds a serialized food list.
type Diet struct {
	ID        int64
	Breakfast *string
	Lunch     *string
	Diner     *string
	Dessert   *string
	FoodDate  time.Time
}

// Rank accumulates a user's workout points.
type Rank struct {
	ID       int64
	RankName string
	Points   int
}

// MuscleGroup stores up to four tracked muscle groups with their best lifts.
type MuscleGroup struct {
	ID    int64
	Name1 string
	Name2 string
	Name3 string
	Name4 string
	Kg1   int
	Kg2   int
	Kg3   int
	Kg4   int
	Date  *time.Time
}

// ActivityLink ties a user to zero or more workout, diet, rank and muscle-group rows.
type ActivityLink struct {
	ID            int64
	UserID        int64
	WorkoutID     *int64
	DietID        *int64
	RankID        *int64
	MuscleGroupID *int64
}

// LeaderboardRow is the per-user summary shown on the leaderboard.
type LeaderboardRow struct {
	ID          int64
	Username    string
	ProfilePic  *string
	Workouts    []Workout
	Rank        *Rank
	MuscleGroup *MuscleGroup
}

// UserUpdate carries the editable user fields.
type UserUpdate struct {
	Username string
	Email    string
	Name     string
	Men      uint8
}

// WorkoutRecord is a new session handed to the store.
type WorkoutRecord struct {
	Payload   string
	Date      time.Time
	Exercises int
	Points    int
	// RankName names a rank by its new points total.
	RankName func(points int) string
}

// MuscleGroupRecord is a new set of tracked muscle groups handed to the store
// along with the user's men flag.
type MuscleGroupRecord struct {
	Men   uint8
	Group MuscleGroup
}

// Names returns the non-empty group names in slot order.
func (g MuscleGroup) Names() []string {
	names := make([]string, 0, 4)
	for _, n := range []string{g.Name1, g.Name2, g.Name3, g.Name4} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// DeleteSummary reports how many rows a cascade delete removed.
type DeleteSummary struct {
	Workouts     int64
	Diets        int64
	Ranks        int64
	MuscleGroups int64
	Links        int64
}
