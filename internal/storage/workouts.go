// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Workouts are the exercise intervals used by the local biometric source.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/bandwidth/internal/models"
)

const workoutColumns = `id, workout_type, started_at, duration_minutes, notes, created_at`

// CreateWorkout stores a new workout in the database.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	query := `
		INSERT INTO workouts (` + workoutColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.ExecContext(ctx, query,
		w.ID.String(),
		w.WorkoutType,
		formatTime(w.StartedAt),
		w.DurationMinutes,
		w.Notes,
		formatTime(w.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix.
func (d *DB) GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	id, err := d.resolveID(ctx, "workouts", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE id = ?`
	w, err := scanWorkoutRow(d.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan workout: %w", err)
	}
	return w, nil
}

// ListWorkouts retrieves workouts with optional filtering by type.
// Results are sorted by StartedAt descending (most recent first).
func (d *DB) ListWorkouts(ctx context.Context, workoutType *string, limit int) ([]*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts`
	var args []interface{}

	if workoutType != nil {
		query += ` WHERE LOWER(workout_type) = LOWER(?)`
		args = append(args, *workoutType)
	}
	query += ` ORDER BY started_at DESC`

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// ListWorkoutsBetween returns workouts starting in [from, to), oldest first.
func (d *DB) ListWorkoutsBetween(ctx context.Context, from, to time.Time) ([]*models.Workout, error) {
	query := `
		SELECT ` + workoutColumns + `
		FROM workouts
		WHERE started_at >= ? AND started_at < ?
		ORDER BY started_at ASC
	`
	rows, err := d.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("list workouts between: %w", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// DeleteWorkout removes a workout by ID or prefix.
func (d *DB) DeleteWorkout(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "workouts", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return d.deleteByID(ctx, "workouts", id, idOrPrefix)
}

func scanWorkoutRow(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var idStr, startedAt, createdAt string
	var notes sql.NullString

	if err := row.Scan(&idStr, &w.WorkoutType, &startedAt, &w.DurationMinutes, &notes, &createdAt); err != nil {
		return nil, err
	}

	w.ID, _ = uuid.Parse(idStr)
	w.StartedAt = parseTime(startedAt)
	w.CreatedAt = parseTime(createdAt)
	if notes.Valid {
		w.Notes = &notes.String
	}
	return &w, nil
}

func scanWorkouts(rows *sql.Rows) ([]*models.Workout, error) {
	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkoutRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}
