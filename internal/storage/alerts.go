// ABOUTME: Alert storage in each partner's alert collection.
// ABOUTME: Supports listing unread alerts and marking them read.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/bandwidth/internal/models"
)

const alertColumns = `id, user_id, alert_type, from_user_id, from_user_name, score, percentile, timestamp, status`

// CreateAlert stores an alert for a.UserID.
func (d *DB) CreateAlert(ctx context.Context, a *models.Alert) error {
	query := `INSERT INTO alerts (` + alertColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query,
		a.ID.String(), a.UserID, string(a.Type), a.FromUserID, a.FromUserName,
		a.Score, a.Percentile, formatTime(a.Timestamp), string(a.Status))
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// ListAlerts returns a user's alerts, newest first.
func (d *DB) ListAlerts(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE user_id = ?`
	args := []interface{}{userID}
	if unreadOnly {
		query += ` AND status = ?`
		args = append(args, string(models.AlertUnread))
	}
	query += ` ORDER BY timestamp DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		var a models.Alert
		var idStr, alertType, ts, status string
		if err := rows.Scan(&idStr, &a.UserID, &alertType, &a.FromUserID, &a.FromUserName,
			&a.Score, &a.Percentile, &ts, &status); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.ID, _ = uuid.Parse(idStr)
		a.Type = models.AlertType(alertType)
		a.Timestamp = parseTime(ts)
		a.Status = models.AlertStatus(status)
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}

// MarkAlertRead flags one of userID's alerts as read.
func (d *DB) MarkAlertRead(ctx context.Context, userID, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "alerts", idOrPrefix)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	result, err := d.db.ExecContext(ctx,
		`UPDATE alerts SET status = ? WHERE id = ? AND user_id = ?`,
		string(models.AlertRead), id, userID)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %s: %w", idOrPrefix, ErrNotFound)
	}
	return nil
}
