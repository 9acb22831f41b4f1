package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"example.com/topform/internal/domain"
	"example.com/topform/internal/events"
)

const dateLayout = "2006-01-02"

// CreateUser stores the user and an empty activity link in one transaction.
func (r *Repository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		const insertUser = `INSERT INTO users (username, email, password, profile_picture, name, birth_date, men)
        VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`
		if err := tx.QueryRow(ctx, insertUser,
			user.Username, user.Email, user.PasswordHash, user.ProfilePicture, user.Name, user.BirthDate, user.Men,
		).Scan(&user.ID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO user_activity (user_id) VALUES ($1)`, user.ID)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// UpdateUser overwrites the editable columns and returns the stored row.
func (r *Repository) UpdateUser(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	stmt, args, err := r.sb.Update("users").
		SetMap(map[string]any{
			"username": update.Username,
			"email":    update.Email,
			"name":     update.Name,
			"men":      update.Men,
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err)
	}
	user, err := pgx.CollectOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return &user, nil
}

// cascadeTargets lists the tables a user's links point into and the link column referencing each.
var cascadeTargets = []struct {
	table  string
	column string
}{
	{table: "workouts", column: "workout_id"},
	{table: "diet", column: "diet_id"},
	{table: "ranks", column: "ranks_id"},
	{table: "muscle_groups", column: "muscle_group_id"},
}

// DeleteUserCascade removes the user, their links and every row referenced
// only by those links. All statements share one transaction.
func (r *Repository) DeleteUserCascade(ctx context.Context, id int64) (domain.DeleteSummary, error) {
	var summary domain.DeleteSummary
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, id); err != nil {
			return err
		}

		counts := []*int64{&summary.Workouts, &summary.Diets, &summary.Ranks, &summary.MuscleGroups}
		for i, target := range cascadeTargets {
			n, err := r.exec(ctx, tx, r.sb.Delete(target.table).
				Where(squirrel.Expr("id IN (SELECT "+target.column+" FROM user_activity WHERE user_id = ?)", id)).
				Where(squirrel.Expr("NOT EXISTS (SELECT 1 FROM user_activity other WHERE other."+target.column+" = "+target.table+".id AND other.user_id <> ?)", id)))
			if err != nil {
				return fmt.Errorf("delete %s: %w", target.table, err)
			}
			*counts[i] = n
		}

		n, err := r.exec(ctx, tx, r.sb.Delete("user_activity").Where(squirrel.Eq{"user_id": id}))
		if err != nil {
			return fmt.Errorf("delete user_activity: %w", err)
		}
		summary.Links = n

		if _, err := r.exec(ctx, tx, r.sb.Delete("users").Where(squirrel.Eq{"id": id})); err != nil {
			return fmt.Errorf("delete users: %w", err)
		}

		return insertOutbox(ctx, tx, "user", id, events.TypeUserDeleted, events.UserDeleted{
			UserID:              id,
			WorkoutsDeleted:     summary.Workouts,
			DietsDeleted:        summary.Diets,
			RanksDeleted:        summary.Ranks,
			MuscleGroupsDeleted: summary.MuscleGroups,
			LinksDeleted:        summary.Links,
			OccurredAt:          time.Now().UTC(),
		})
	})
	if err != nil {
		return domain.DeleteSummary{}, mapError(err)
	}
	return summary, nil
}

// RecordWorkout stores the session, credits its points to the user's rank and
// links it to the user in one transaction.
func (r *Repository) RecordWorkout(ctx context.Context, userID int64, record domain.WorkoutRecord) (*domain.Workout, error) {
	payload := record.Payload
	workout := domain.Workout{Data: &payload, Date: record.Date}

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO workouts (workout_data, workout_date) VALUES ($1, $2) RETURNING id`,
			payload, record.Date,
		).Scan(&workout.ID); err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}

		rankID, total, err := creditRank(ctx, tx, userID, record)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `UPDATE user_activity SET workout_id = $1
        WHERE id = (SELECT id FROM user_activity WHERE user_id = $2 AND workout_id IS NULL ORDER BY id LIMIT 1)`,
			workout.ID, userID)
		if err != nil {
			return fmt.Errorf("attach workout: %w", err)
		}
		if tag.RowsAffected() == 0 {
			groupID, err := firstLinkedGroup(ctx, tx, userID, "workout_id")
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_activity (user_id, workout_id, ranks_id, muscle_group_id) VALUES ($1, $2, $3, $4)`,
				userID, workout.ID, rankID, groupID,
			); err != nil {
				return fmt.Errorf("insert activity link: %w", err)
			}
		}

		return insertOutbox(ctx, tx, "workout", workout.ID, events.TypeWorkoutRecorded, events.WorkoutRecorded{
			UserID:      userID,
			WorkoutID:   workout.ID,
			WorkoutDate: record.Date.Format(dateLayout),
			Exercises:   record.Exercises,
			Points:      record.Points,
			TotalPoints: total,
			RankName:    record.RankName(total),
			OccurredAt:  time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// lockUser takes the user's row lock so link and rank writes for one user
// apply one transaction at a time.
func lockUser(ctx context.Context, tx pgx.Tx, userID int64) error {
	var locked int64
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}

// creditRank adds the session points to the rank on the user's first ranked
// link, or creates a rank and attaches it to the first rank-less link.
func creditRank(ctx context.Context, tx pgx.Tx, userID int64, record domain.WorkoutRecord) (*int64, int, error) {
	var existing int64
	err := tx.QueryRow(ctx,
		`SELECT ranks_id FROM user_activity WHERE user_id = $1 AND ranks_id IS NOT NULL ORDER BY id LIMIT 1`,
		userID,
	).Scan(&existing)
	switch {
	case err == nil:
		var points int
		err := tx.QueryRow(ctx, `SELECT points FROM ranks WHERE id = $1 FOR UPDATE`, existing).Scan(&points)
		if errors.Is(err, pgx.ErrNoRows) {
			return &existing, record.Points, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("load rank: %w", err)
		}
		total := points + record.Points
		if _, err := tx.Exec(ctx, `UPDATE ranks SET points = $2, rank_name = $3 WHERE id = $1`,
			existing, total, record.RankName(total)); err != nil {
			return nil, 0, fmt.Errorf("update rank: %w", err)
		}
		return &existing, total, nil
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, 0, fmt.Errorf("find rank link: %w", err)
	}

	var created int64
	if err := tx.QueryRow(ctx, `INSERT INTO ranks (rank_name, points) VALUES ($1, $2) RETURNING id`,
		record.RankName(record.Points), record.Points,
	).Scan(&created); err != nil {
		return nil, 0, fmt.Errorf("insert rank: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE user_activity SET ranks_id = $1
        WHERE id = (SELECT id FROM user_activity WHERE user_id = $2 AND ranks_id IS NULL ORDER BY id LIMIT 1)`,
		created, userID); err != nil {
		return nil, 0, fmt.Errorf("attach rank: %w", err)
	}
	return &created, record.Points, nil
}

// firstLinkedGroup returns the muscle group of the user's first link that has
// both a muscle group and a value in column.
func firstLinkedGroup(ctx context.Context, tx pgx.Tx, userID int64, column string) (*int64, error) {
	var groupID int64
	err := tx.QueryRow(ctx,
		`SELECT muscle_group_id FROM user_activity
        WHERE user_id = $1 AND muscle_group_id IS NOT NULL AND `+column+` IS NOT NULL ORDER BY id LIMIT 1`,
		userID,
	).Scan(&groupID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find muscle group link: %w", err)
	}
	return &groupID, nil
}

// RecordDiet stores the meals and links them to the user in one transaction.
func (r *Repository) RecordDiet(ctx context.Context, userID int64, diet domain.Diet) (*domain.Diet, error) {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO diet (breakfast, lunch, diner, dessert, food_date) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			diet.Breakfast, diet.Lunch, diet.Diner, diet.Dessert, diet.FoodDate,
		).Scan(&diet.ID); err != nil {
			return fmt.Errorf("insert diet: %w", err)
		}

		tag, err := tx.Exec(ctx, `UPDATE user_activity SET diet_id = $1
        WHERE id = (SELECT id FROM user_activity WHERE user_id = $2 AND diet_id IS NULL ORDER BY id LIMIT 1)`,
			diet.ID, userID)
		if err != nil {
			return fmt.Errorf("attach diet: %w", err)
		}
		if tag.RowsAffected() == 0 {
			groupID, err := firstLinkedGroup(ctx, tx, userID, "diet_id")
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_activity (user_id, diet_id, muscle_group_id) VALUES ($1, $2, $3)`,
				userID, diet.ID, groupID,
			); err != nil {
				return fmt.Errorf("insert activity link: %w", err)
			}
		}

		return insertOutbox(ctx, tx, "diet", diet.ID, events.TypeDietRecorded, events.DietRecorded{
			UserID:     userID,
			DietID:     diet.ID,
			FoodDate:   diet.FoodDate.Format(dateLayout),
			Meals:      mealNames(diet),
			OccurredAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &diet, nil
}

// RecordMuscleGroups stores the group, updates the user's men flag and points
// the user's first link at the new group in one transaction.
func (r *Repository) RecordMuscleGroups(ctx context.Context, userID int64, record domain.MuscleGroupRecord) (*domain.MuscleGroup, error) {
	group := record.Group
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := r.exec(ctx, tx, r.sb.Update("users").Set("men", record.Men).Where(squirrel.Eq{"id": userID})); err != nil {
			return fmt.Errorf("update men: %w", err)
		}

		stmt, args, err := r.sb.Insert("muscle_groups").
			Columns("name1", "name2", "name3", "name4", "kg1", "kg2", "kg3", "kg4", "date").
			Values(group.Name1, group.Name2, group.Name3, group.Name4, group.Kg1, group.Kg2, group.Kg3, group.Kg4, group.Date).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, stmt, args...).Scan(&group.ID); err != nil {
			return fmt.Errorf("insert muscle groups: %w", err)
		}

		tag, err := tx.Exec(ctx, `UPDATE user_activity SET muscle_group_id = $1
        WHERE id = (SELECT id FROM user_activity WHERE user_id = $2 ORDER BY id LIMIT 1)`,
			group.ID, userID)
		if err != nil {
			return fmt.Errorf("attach muscle groups: %w", err)
		}
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_activity (user_id, muscle_group_id) VALUES ($1, $2)`, userID, group.ID,
			); err != nil {
				return fmt.Errorf("insert activity link: %w", err)
			}
		}

		return insertOutbox(ctx, tx, "muscle_groups", group.ID, events.TypeMuscleGroupsRecorded, events.MuscleGroupsRecorded{
			UserID:        userID,
			MuscleGroupID: group.ID,
			Groups:        group.Names(),
			OccurredAt:    time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *Repository) exec(ctx context.Context, q querier, builder squirrel.Sqlizer) (int64, error) {
	stmt, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func mealNames(d domain.Diet) []string {
	names := make([]string, 0, 4)
	for _, m := range []struct {
		name  string
		value *string
	}{{"breakfast", d.Breakfast}, {"lunch", d.Lunch}, {"diner", d.Diner}, {"dessert", d.Dessert}} {
		if m.value != nil {
			names = append(names, m.name)
		}
	}
	return names
}

func partitionKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
