// ABOUTME: Daily task storage and status transitions.
// ABOUTME: Tasks move pending to completed or failed and are wiped per scheduling run.
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

const taskColumns = `id, user_id, timestamp, status, score, error, processed_at, created_at`

// CreateTask stores a daily task.
func (d *DB) CreateTask(ctx context.Context, t *models.DailyTask) error {
	var processedAt *string
	if t.ProcessedAt != nil {
		s := formatTime(*t.ProcessedAt)
		processedAt = &s
	}
	query := `INSERT INTO daily_tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query,
		t.ID.String(), t.UserID, formatTime(t.Timestamp), string(t.Status),
		t.Score, t.Error, processedAt, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetTask returns a task by full ID.
func (d *DB) GetTask(ctx context.Context, id string) (*models.DailyTask, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM daily_tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// LatestPendingTask returns the newest pending task for userID, or ErrNotFound.
func (d *DB) LatestPendingTask(ctx context.Context, userID string) (*models.DailyTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM daily_tasks
		WHERE user_id = ? AND status = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`
	t, err := scanTask(d.db.QueryRowContext(ctx, query, userID, string(models.TaskPending)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest pending task: %w", err)
	}
	return t, nil
}

// ListTasks returns tasks, newest first.
func (d *DB) ListTasks(ctx context.Context, limit int) ([]*models.DailyTask, error) {
	query := `SELECT ` + taskColumns + ` FROM daily_tasks ORDER BY timestamp DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.DailyTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CompleteTask records a successful run.
func (d *DB) CompleteTask(ctx context.Context, id string, score float64, processedAt time.Time) error {
	return d.finishTask(ctx, id, models.TaskCompleted, &score, nil, processedAt)
}

// FailTask records a failed run with its error message.
func (d *DB) FailTask(ctx context.Context, id, message string, processedAt time.Time) error {
	return d.finishTask(ctx, id, models.TaskFailed, nil, &message, processedAt)
}

func (d *DB) finishTask(ctx context.Context, id string, status models.TaskStatus, score *float64, message *string, processedAt time.Time) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE daily_tasks SET status = ?, score = ?, error = ?, processed_at = ? WHERE id = ?`,
		string(status), score, message, formatTime(processedAt), id)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAllTasks clears the task collection before a scheduling run.
func (d *DB) DeleteAllTasks(ctx context.Context) (int64, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM daily_tasks`)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return n, nil
}

func scanTask(row rowScanner) (*models.DailyTask, error) {
	var t models.DailyTask
	var idStr, ts, status, createdAt string
	var score sql.NullFloat64
	var message, processedAt sql.NullString

	if err := row.Scan(&idStr, &t.UserID, &ts, &status, &score, &message, &processedAt, &createdAt); err != nil {
		return nil, err
	}
	t.ID, _ = uuid.Parse(idStr)
	t.Timestamp = parseTime(ts)
	t.Status = models.TaskStatus(status)
	t.CreatedAt = parseTime(createdAt)
	if score.Valid {
		t.Score = &score.Float64
	}
	if message.Valid {
		t.Error = &message.String
	}
	if processedAt.Valid {
		p := parseTime(processedAt.String)
		t.ProcessedAt = &p
	}
	return &t, nil
}
