// Package postgres implements the domain store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/topform/internal/domain"
)

const (
	userColumns    = "id, username, email, password, profile_picture, name, birth_date, men"
	workoutColumns = "id, workout_data, workout_date"
	dietColumns    = "id, breakfast, lunch, diner, dessert, food_date"
	rankColumns    = "id, rank_name, points"
	groupColumns   = "id, name1, name2, name3, name4, kg1, kg2, kg3, kg4, date"
	linkColumns    = "id, user_id, workout_id, diet_id, ranks_id, muscle_group_id"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides Postgres-backed persistence for users, their activity and outbox events.
type Repository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

var _ domain.Store = (*Repository)(nil)

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// inTx runs fn inside a transaction, committing only when fn succeeds.
func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func selectAll[T any](ctx context.Context, q querier, query squirrel.SelectBuilder, scan pgx.RowToFunc[T]) ([]T, error) {
	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// FindUsers implements domain.ReadStore.
func (r *Repository) FindUsers(ctx context.Context) ([]domain.User, error) {
	return selectAll(ctx, r.pool, r.sb.Select(userColumns).From("users").OrderBy("id"), scanUser)
}

// FindActivityLinks implements domain.ReadStore.
func (r *Repository) FindActivityLinks(ctx context.Context) ([]domain.ActivityLink, error) {
	return selectAll(ctx, r.pool, r.sb.Select(linkColumns).From("user_activity").OrderBy("id"), scanLink)
}

// FindWorkouts implements domain.ReadStore.
func (r *Repository) FindWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return selectAll(ctx, r.pool, r.sb.Select(workoutColumns).From("workouts").OrderBy("id"), scanWorkout)
}

// FindDiets implements domain.ReadStore.
func (r *Repository) FindDiets(ctx context.Context) ([]domain.Diet, error) {
	return selectAll(ctx, r.pool, r.sb.Select(dietColumns).From("diet").OrderBy("id"), scanDiet)
}

// FindRanks implements domain.ReadStore.
func (r *Repository) FindRanks(ctx context.Context) ([]domain.Rank, error) {
	return selectAll(ctx, r.pool, r.sb.Select(rankColumns).From("ranks").OrderBy("id"), scanRank)
}

// FindMuscleGroups implements domain.ReadStore.
func (r *Repository) FindMuscleGroups(ctx context.Context) ([]domain.MuscleGroup, error) {
	return selectAll(ctx, r.pool, r.sb.Select(groupColumns).From("muscle_groups").OrderBy("id"), scanGroup)
}

// FindActivityLinksForUser implements domain.ReadStore.
func (r *Repository) FindActivityLinksForUser(ctx context.Context, userID int64) ([]domain.ActivityLink, error) {
	query := r.sb.Select(linkColumns).From("user_activity").Where(squirrel.Eq{"user_id": userID}).OrderBy("id")
	return selectAll(ctx, r.pool, query, scanLink)
}

// FindWorkoutsForIDs implements domain.ReadStore.
func (r *Repository) FindWorkoutsForIDs(ctx context.Context, ids []int64) ([]domain.Workout, error) {
	if len(ids) == 0 {
		return []domain.Workout{}, nil
	}
	query := r.sb.Select(workoutColumns).From("workouts").Where(squirrel.Eq{"id": ids}).OrderBy("id")
	return selectAll(ctx, r.pool, query, scanWorkout)
}

// FindDietsForIDs implements domain.ReadStore.
func (r *Repository) FindDietsForIDs(ctx context.Context, ids []int64) ([]domain.Diet, error) {
	if len(ids) == 0 {
		return []domain.Diet{}, nil
	}
	query := r.sb.Select(dietColumns).From("diet").Where(squirrel.Eq{"id": ids}).OrderBy("id")
	return selectAll(ctx, r.pool, query, scanDiet)
}

// FindUser implements domain.ReadStore.
func (r *Repository) FindUser(ctx context.Context, id int64) (*domain.User, error) {
	return r.findUser(ctx, squirrel.Eq{"id": id})
}

// FindUserByUsername implements domain.ReadStore.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUser(ctx, squirrel.Eq{"username": username})
}

func (r *Repository) findUser(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	users, err := selectAll(ctx, r.pool, r.sb.Select(userColumns).From("users").Where(where).Limit(1), scanUser)
	if err != nil {
		return nil, mapError(err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func scanUser(row pgx.CollectableRow) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfilePicture, &u.Name, &u.BirthDate, &u.Men)
	return u, err
}

func scanWorkout(row pgx.CollectableRow) (domain.Workout, error) {
	var w domain.Workout
	err := row.Scan(&w.ID, &w.Data, &w.Date)
	return w, err
}

func scanDiet(row pgx.CollectableRow) (domain.Diet, error) {
	var d domain.Diet
	err := row.Scan(&d.ID, &d.Breakfast, &d.Lunch, &d.Diner, &d.Dessert, &d.FoodDate)
	return d, err
}

func scanRank(row pgx.CollectableRow) (domain.Rank, error) {
	var rk domain.Rank
	err := row.Scan(&rk.ID, &rk.RankName, &rk.Points)
	return rk, err
}

func scanGroup(row pgx.CollectableRow) (domain.MuscleGroup, error) {
	var g domain.MuscleGroup
	err := row.Scan(&g.ID, &g.Name1, &g.Name2, &g.Name3, &g.Name4, &g.Kg1, &g.Kg2, &g.Kg3, &g.Kg4, &g.Date)
	return g, err
}

func scanLink(row pgx.CollectableRow) (domain.ActivityLink, error) {
	var l domain.ActivityLink
	err := row.Scan(&l.ID, &l.UserID, &l.WorkoutID, &l.DietID, &l.RankID, &l.MuscleGroupID)
	return l, err
}

// mapError translates driver errors into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_username_key" {
		return domain.ErrUsernameTaken
	}
	return err
}
