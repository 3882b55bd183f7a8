// ABOUTME: Sleep segment storage for the local biometric source.
// ABOUTME: Segments are selected by their start time.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/bandwidth/internal/models"
)

const sleepColumns = `id, state, started_at, ended_at, created_at`

// CreateSleepSegment stores a sleep segment.
func (d *DB) CreateSleepSegment(ctx context.Context, s *models.SleepSegment) error {
	query := `INSERT INTO sleep_segments (` + sleepColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query,
		s.ID.String(),
		string(s.State),
		formatTime(s.StartedAt),
		formatTime(s.EndedAt),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create sleep segment: %w", err)
	}
	return nil
}

// ListSleepSegments returns the most recent segments first.
func (d *DB) ListSleepSegments(ctx context.Context, limit int) ([]*models.SleepSegment, error) {
	query := `SELECT ` + sleepColumns + ` FROM sleep_segments ORDER BY started_at DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sleep segments: %w", err)
	}
	defer rows.Close()
	return scanSleepSegments(rows)
}

// ListSleepSegmentsBetween returns segments starting in [from, to), oldest first.
func (d *DB) ListSleepSegmentsBetween(ctx context.Context, from, to time.Time) ([]*models.SleepSegment, error) {
	query := `
		SELECT ` + sleepColumns + `
		FROM sleep_segments
		WHERE started_at >= ? AND started_at < ?
		ORDER BY started_at ASC
	`
	rows, err := d.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("list sleep segments between: %w", err)
	}
	defer rows.Close()
	return scanSleepSegments(rows)
}

// DeleteSleepSegment removes a segment by ID or prefix.
func (d *DB) DeleteSleepSegment(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "sleep_segments", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete sleep segment: %w", err)
	}
	return d.deleteByID(ctx, "sleep_segments", id, idOrPrefix)
}

func scanSleepSegments(rows *sql.Rows) ([]*models.SleepSegment, error) {
	var segments []*models.SleepSegment
	for rows.Next() {
		var s models.SleepSegment
		var idStr, state, startedAt, endedAt, createdAt string
		if err := rows.Scan(&idStr, &state, &startedAt, &endedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan sleep segment: %w", err)
		}
		s.ID, _ = uuid.Parse(idStr)
		s.State = models.SleepState(state)
		s.StartedAt = parseTime(startedAt)
		s.EndedAt = parseTime(endedAt)
		s.CreatedAt = parseTime(createdAt)
		segments = append(segments, &s)
	}
	return segments, rows.Err()
}
