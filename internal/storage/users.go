// ABOUTME: User profile storage: names, pairing, device tokens, time zones.
// ABOUTME: Profiles are upserted whole; the device token can be cleared alone.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/bandwidth/internal/models"
)

const userColumns = `id, name, paired_with, device_token, time_zone, utc_offset_seconds, updated_at`

// UpsertUser creates or replaces a user profile.
func (d *DB) UpsertUser(ctx context.Context, u *models.UserProfile) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			paired_with = excluded.paired_with,
			device_token = excluded.device_token,
			time_zone = excluded.time_zone,
			utc_offset_seconds = excluded.utc_offset_seconds,
			updated_at = excluded.updated_at
	`
	_, err := d.db.ExecContext(ctx, query,
		u.ID, u.Name, u.PairedWith, u.DeviceToken, u.TimeZone, u.UTCOffsetSeconds, formatTime(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser returns a profile or ErrNotFound.
func (d *DB) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers returns every known profile.
func (d *DB) ListUsers(ctx context.Context) ([]*models.UserProfile, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.UserProfile
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ClearDeviceToken drops a token the notification provider rejected.
func (d *DB) ClearDeviceToken(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `UPDATE users SET device_token = '' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clear device token: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*models.UserProfile, error) {
	var u models.UserProfile
	var updatedAt string
	if err := row.Scan(&u.ID, &u.Name, &u.PairedWith, &u.DeviceToken, &u.TimeZone, &u.UTCOffsetSeconds, &updatedAt); err != nil {
		return nil, err
	}
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}
