// ABOUTME: Sample log CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for raw biometric samples.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/bandwidth/internal/models"
)

const sampleColumns = `id, sample_type, value, unit, recorded_at, notes, created_at`

// CreateSample stores a new sample in the database.
func (d *DB) CreateSample(ctx context.Context, s *models.Sample) error {
	query := `
		INSERT INTO samples (` + sampleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.ExecContext(ctx, query,
		s.ID.String(),
		string(s.SampleType),
		s.Value,
		s.Unit,
		formatTime(s.RecordedAt),
		s.Notes,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create sample: %w", err)
	}
	return nil
}

// GetSample retrieves a sample by ID or ID prefix.
func (d *DB) GetSample(ctx context.Context, idOrPrefix string) (*models.Sample, error) {
	id, err := d.resolveID(ctx, "samples", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + sampleColumns + ` FROM samples WHERE id = ?`
	return scanSample(d.db.QueryRowContext(ctx, query, id))
}

// ListSamples retrieves samples with optional filtering by type.
// Results are sorted by RecordedAt descending (most recent first).
func (d *DB) ListSamples(ctx context.Context, sampleType *models.SampleType, limit int) ([]*models.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples`
	var args []interface{}

	if sampleType != nil {
		query += ` WHERE sample_type = ?`
		args = append(args, string(*sampleType))
	}
	query += ` ORDER BY recorded_at DESC`

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// ListSamplesBetween returns samples of one type with from <= recorded_at < to, oldest first.
func (d *DB) ListSamplesBetween(ctx context.Context, sampleType models.SampleType, from, to time.Time) ([]*models.Sample, error) {
	query := `
		SELECT ` + sampleColumns + `
		FROM samples
		WHERE sample_type = ? AND recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at ASC
	`
	rows, err := d.db.QueryContext(ctx, query, string(sampleType), formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("list samples between: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// DeleteSample removes a sample by ID or prefix.
func (d *DB) DeleteSample(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "samples", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	return d.deleteByID(ctx, "samples", id, idOrPrefix)
}

// resolveID finds the full ID from a prefix.
func (d *DB) resolveID(ctx context.Context, table, idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	// table is always a package constant
	query := `SELECT id FROM ` + table + ` WHERE id LIKE ? || '%'`
	rows, err := d.db.QueryContext(ctx, query, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%s: %w", idOrPrefix, ErrNotFound)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}

	return matches[0], nil
}

func (d *DB) deleteByID(ctx context.Context, table, id, label string) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", label, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSampleRow(row rowScanner) (*models.Sample, error) {
	var s models.Sample
	var idStr, sampleType, recordedAt, createdAt string
	var notes sql.NullString

	if err := row.Scan(&idStr, &sampleType, &s.Value, &s.Unit, &recordedAt, &notes, &createdAt); err != nil {
		return nil, err
	}

	s.ID, _ = uuid.Parse(idStr)
	s.SampleType = models.SampleType(sampleType)
	s.RecordedAt = parseTime(recordedAt)
	s.CreatedAt = parseTime(createdAt)
	if notes.Valid {
		s.Notes = &notes.String
	}
	return &s, nil
}

// scanSample scans a single row into a Sample struct.
func scanSample(row *sql.Row) (*models.Sample, error) {
	s, err := scanSampleRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan sample: %w", err)
	}
	return s, nil
}

// scanSamples scans multiple rows into a slice of Samples.
func scanSamples(rows *sql.Rows) ([]*models.Sample, error) {
	var samples []*models.Sample
	for rows.Next() {
		s, err := scanSampleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
