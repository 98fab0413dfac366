// Package postgres implements the ledger storage contract on a Postgres pool.
// Every mutation is one remote call scoped to a single row, and errors are
// surfaced to the gateway so the in-memory state is only updated on success.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
)

// Repository provides Postgres-backed persistence for the three collections.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{pool: pool, logger: logger}
}

// EnsureSchema creates the collection tables if missing (idempotent).
// Convenience for early development; prefer migrations in production.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  seq BIGSERIAL,
  name TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  is_admin BOOLEAN NOT NULL DEFAULT false,
  avatar TEXT
);
CREATE TABLE IF NOT EXISTS activities (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  points DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS workouts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  activity_id TEXT NOT NULL,
  activity_name TEXT NOT NULL,
  points DOUBLE PRECISION NOT NULL,
  date TIMESTAMPTZ NOT NULL,
  notes TEXT
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_id ON workouts(user_id);
CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date);
`
	_, err := r.pool.Exec(ctx, ddl)
	return err
}

// Load fetches the three collections with independent reads. A failure in one
// collection leaves that collection empty without poisoning the other two;
// the joined error reports what went missing.
func (r *Repository) Load(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{}
	var errs []error

	users, err := r.selectUsers(ctx)
	if err != nil {
		r.logger.Warn("load users", zap.Error(err))
		errs = append(errs, fmt.Errorf("load users: %w", err))
		users = []domain.User{}
	}
	snap.Users = users

	activities, err := r.selectActivities(ctx)
	if err != nil {
		r.logger.Warn("load activities", zap.Error(err))
		errs = append(errs, fmt.Errorf("load activities: %w", err))
		activities = []domain.Activity{}
	}
	snap.Activities = activities

	workouts, err := r.selectWorkouts(ctx)
	if err != nil {
		r.logger.Warn("load workouts", zap.Error(err))
		errs = append(errs, fmt.Errorf("load workouts: %w", err))
		workouts = []domain.Workout{}
	}
	snap.Workouts = workouts

	return snap, errors.Join(errs...)
}

func (r *Repository) selectUsers(ctx context.Context) ([]domain.User, error) {
	// The ranking tie-break preserves roster order, so the read must be
	// deterministic: seq records insertion order across restarts.
	const query = `SELECT id, name, username, password, is_admin, COALESCE(avatar, '')
        FROM users ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Password, &u.IsAdmin, &u.Avatar); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) selectActivities(ctx context.Context) ([]domain.Activity, error) {
	const query = `SELECT id, name, points FROM activities ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Points); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *Repository) selectWorkouts(ctx context.Context) ([]domain.Workout, error) {
	const query = `SELECT id, user_id, activity_id, activity_name, points, date, COALESCE(notes, '')
        FROM workouts ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []domain.Workout{}
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.ActivityID, &w.ActivityName, &w.Points, &w.Date, &w.Notes); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// Seed upserts the seed dataset inside one transaction. Conflicting rows are
// left untouched, so repeated seeding attempts are safe.
func (r *Repository) Seed(ctx context.Context, snap domain.Snapshot) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const insertUser = `INSERT INTO users (id, name, username, password, is_admin, avatar)
        VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING`
	for _, u := range snap.Users {
		if _, err = tx.Exec(ctx, insertUser, u.ID, u.Name, u.Username, u.Password, u.IsAdmin, nullIfEmpty(u.Avatar)); err != nil {
			return err
		}
	}

	const insertActivity = `INSERT INTO activities (id, name, points)
        VALUES ($1,$2,$3) ON CONFLICT (id) DO NOTHING`
	for _, a := range snap.Activities {
		if _, err = tx.Exec(ctx, insertActivity, a.ID, a.Name, a.Points); err != nil {
			return err
		}
	}

	const insertWorkout = `INSERT INTO workouts (id, user_id, activity_id, activity_name, points, date, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (id) DO NOTHING`
	for _, w := range snap.Workouts {
		if _, err = tx.Exec(ctx, insertWorkout, w.ID, w.UserID, w.ActivityID, w.ActivityName, w.Points, w.Date, nullIfEmpty(w.Notes)); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// InsertWorkout persists one ledger entry.
func (r *Repository) InsertWorkout(ctx context.Context, w domain.Workout) error {
	const stmt = `INSERT INTO workouts (id, user_id, activity_id, activity_name, points, date, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, stmt, w.ID, w.UserID, w.ActivityID, w.ActivityName, w.Points, w.Date, nullIfEmpty(w.Notes))
	return err
}

// DeleteWorkout removes one ledger entry. Deleting an absent row is success:
// absence of an error is all the remote contract promises.
func (r *Repository) DeleteWorkout(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	return err
}

// UpsertUser inserts or fully updates one roster row.
func (r *Repository) UpsertUser(ctx context.Context, u domain.User) error {
	const stmt = `INSERT INTO users (id, name, username, password, is_admin, avatar)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name,
            username = EXCLUDED.username,
            password = EXCLUDED.password,
            is_admin = EXCLUDED.is_admin,
            avatar = EXCLUDED.avatar`

	_, err := r.pool.Exec(ctx, stmt, u.ID, u.Name, u.Username, u.Password, u.IsAdmin, nullIfEmpty(u.Avatar))
	return err
}

// DeleteUser removes one roster row. Workouts are not cascaded.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// UpsertActivity inserts or updates one catalog row.
func (r *Repository) UpsertActivity(ctx context.Context, a domain.Activity) error {
	const stmt = `INSERT INTO activities (id, name, points)
        VALUES ($1,$2,$3)
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name, points = EXCLUDED.points`

	_, err := r.pool.Exec(ctx, stmt, a.ID, a.Name, a.Points)
	return err
}

// Close releases the pool.
func (r *Repository) Close() {
	r.pool.Close()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
