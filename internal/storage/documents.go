// ABOUTME: Day-document storage keyed by user, collection, and calendar day.
// ABOUTME: Each field upserts independently so writes merge, never delete.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// DayDocument is the merged view of users/{userID}/{collection}/{day}.
type DayDocument struct {
	UserID    string             `json:"user_id" yaml:"user_id"`
	Namespace models.Namespace   `json:"collection" yaml:"collection"`
	Day       string             `json:"day" yaml:"day"`
	Fields    map[string]float64 `json:"fields" yaml:"fields"`
	UpdatedAt time.Time          `json:"timestamp" yaml:"timestamp"`
}

// Path returns the document path.
func (d *DayDocument) Path() string {
	return models.DocumentPath(d.UserID, d.Namespace, d.Day)
}

// Value returns a field and whether it is present.
func (d *DayDocument) Value(field string) (float64, bool) {
	v, ok := d.Fields[field]
	return v, ok
}

// UpsertDayField writes one field into a day document.
func (d *DB) UpsertDayField(ctx context.Context, userID string, ns models.Namespace, day, field string, value float64, writtenAt time.Time) error {
	query := `
		INSERT INTO day_documents (user_id, collection, day, field, value, written_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, collection, day, field)
		DO UPDATE SET value = excluded.value, written_at = excluded.written_at
	`
	_, err := d.db.ExecContext(ctx, query, userID, string(ns), day, field, value, formatTime(writtenAt))
	if err != nil {
		return fmt.Errorf("upsert day field %s: %w", field, err)
	}
	return nil
}

// GetDayDocument returns the merged document, or ErrNotFound when no field exists.
func (d *DB) GetDayDocument(ctx context.Context, userID string, ns models.Namespace, day string) (*DayDocument, error) {
	docs, err := d.ListDayDocuments(ctx, userID, ns, day, day)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("day document %s: %w", models.DocumentPath(userID, ns, day), ErrNotFound)
	}
	return docs[0], nil
}

// ListDayDocuments returns documents with fromDay <= day <= toDay, oldest first.
func (d *DB) ListDayDocuments(ctx context.Context, userID string, ns models.Namespace, fromDay, toDay string) ([]*DayDocument, error) {
	query := `
		SELECT day, field, value, written_at
		FROM day_documents
		WHERE user_id = ? AND collection = ? AND day >= ? AND day <= ?
		ORDER BY day ASC, field ASC
	`
	rows, err := d.db.QueryContext(ctx, query, userID, string(ns), fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("list day documents: %w", err)
	}
	defer rows.Close()

	var docs []*DayDocument
	var current *DayDocument
	for rows.Next() {
		var day, field, writtenAt string
		var value float64
		if err := rows.Scan(&day, &field, &value, &writtenAt); err != nil {
			return nil, fmt.Errorf("scan day document: %w", err)
		}
		if current == nil || current.Day != day {
			current = &DayDocument{UserID: userID, Namespace: ns, Day: day, Fields: map[string]float64{}}
			docs = append(docs, current)
		}
		current.Fields[field] = value
		if ts := parseTime(writtenAt); ts.After(current.UpdatedAt) {
			current.UpdatedAt = ts
		}
	}
	return docs, rows.Err()
}

// listAllDayDocuments is used by export.
func (d *DB) listAllDayDocuments(ctx context.Context) ([]*DayDocument, error) {
	query := `
		SELECT user_id, collection, day, field, value, written_at
		FROM day_documents
		ORDER BY user_id, collection, day, field
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list day documents: %w", err)
	}
	defer rows.Close()

	var docs []*DayDocument
	var current *DayDocument
	for rows.Next() {
		var userID, collection, day, field, writtenAt string
		var value float64
		if err := rows.Scan(&userID, &collection, &day, &field, &value, &writtenAt); err != nil {
			return nil, fmt.Errorf("scan day document: %w", err)
		}
		if current == nil || current.UserID != userID || string(current.Namespace) != collection || current.Day != day {
			current = &DayDocument{UserID: userID, Namespace: models.Namespace(collection), Day: day, Fields: map[string]float64{}}
			docs = append(docs, current)
		}
		current.Fields[field] = value
		if ts := parseTime(writtenAt); ts.After(current.UpdatedAt) {
			current.UpdatedAt = ts
		}
	}
	return docs, rows.Err()
}
