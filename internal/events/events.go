// Package events defines the payloads published through the outbox.
package events

import "time"

// Event types, also used as the outbox event_type column and Kafka header.
const (
	TypeWorkoutRecorded = "workout.recorded"
	TypeDietRecorded    = "diet.recorded"
	TypeUserDeleted     = "user.deleted"

	TypeMuscleGroupsRecorded = "muscle_groups.recorded"
)

// Topics the events are published to.
const (
	TopicWorkouts = "topform.workouts"
	TopicDiets    = "topform.diets"
	TopicUsers    = "topform.users"
)

// TopicFor maps an event type to its Kafka topic.
func TopicFor(eventType string) string {
	switch eventType {
	case TypeWorkoutRecorded:
		return TopicWorkouts
	case TypeDietRecorded:
		return TopicDiets
	case TypeUserDeleted, TypeMuscleGroupsRecorded:
		return TopicUsers
	default:
		return ""
	}
}

// WorkoutRecorded is emitted when a user logs a workout session.
type WorkoutRecorded struct {
	UserID      int64     `json:"user_id"`
	WorkoutID   int64     `json:"workout_id"`
	WorkoutDate string    `json:"workout_date"`
	Exercises   int       `json:"exercises"`
	Points      int       `json:"points"`
	TotalPoints int       `json:"total_points"`
	RankName    string    `json:"rank_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// DietRecorded is emitted when a user logs a day's meals.
type DietRecorded struct {
	UserID     int64     `json:"user_id"`
	DietID     int64     `json:"diet_id"`
	FoodDate   string    `json:"food_date"`
	Meals      []string  `json:"meals"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MuscleGroupsRecorded is emitted when a user replaces their tracked muscle groups.
type MuscleGroupsRecorded struct {
	UserID        int64     `json:"user_id"`
	MuscleGroupID int64     `json:"muscle_group_id"`
	Groups        []string  `json:"groups"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// UserDeleted is emitted after a user and their exclusively owned records are removed.
type UserDeleted struct {
	UserID              int64     `json:"user_id"`
	WorkoutsDeleted     int64     `json:"workouts_deleted"`
	DietsDeleted        int64     `json:"diets_deleted"`
	RanksDeleted        int64     `json:"ranks_deleted"`
	MuscleGroupsDeleted int64     `json:"muscle_groups_deleted"`
	LinksDeleted        int64     `json:"links_deleted"`
	OccurredAt          time.Time `json:"occurred_at"`
}
