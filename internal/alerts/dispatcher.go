// ABOUTME: Dispatcher records a low-bandwidth alert for the paired partner
// ABOUTME: and pushes a notification to the partner's device.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/notify"
	"github.com/harperreed/bandwidth/internal/storage"
	"go.uber.org/zap"
)

// ErrDispatch wraps every failure while alerting a partner.
var ErrDispatch = errors.New("alert dispatch failed")

// NotificationTitle is the push title for partner alerts.
const NotificationTitle = "Bandwidth Alert"

// NotificationBody renders the push body for name.
func NotificationBody(name string) string {
	return fmt.Sprintf("Today, %s's Bandwidth score is in the lowest 20%% of historical data.", name)
}

// Directory is the user and alert storage the dispatcher needs.
type Directory interface {
	GetUser(ctx context.Context, id string) (*models.UserProfile, error)
	CreateAlert(ctx context.Context, a *models.Alert) error
	ClearDeviceToken(ctx context.Context, id string) error
}

// Dispatcher creates partner alerts and sends their notifications.
type Dispatcher struct {
	dir    Directory
	sender notify.Sender
	logger *zap.Logger
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(dir Directory, sender notify.Sender, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{dir: dir, sender: sender, logger: logger}
}

// Dispatch alerts fromUserID's partner. It returns the created alert, or nil
// when the user has no name or partner. A non-nil alert with an error means
// the alert was stored but delivery failed.
func (d *Dispatcher) Dispatch(ctx context.Context, fromUserID string, score, percentile float64, at time.Time) (*models.Alert, error) {
	log := d.logger.With(zap.String("user_id", fromUserID))

	user, err := d.dir.GetUser(ctx, fromUserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug("no profile, skipping alert")
			return nil, nil
		}
		return nil, fmt.Errorf("%w: look up user: %v", ErrDispatch, err)
	}
	if user.PairedWith == "" || user.Name == "" {
		log.Debug("no partner or name, skipping alert")
		return nil, nil
	}

	alert := models.NewLowBandwidthAlert(user.PairedWith, fromUserID, user.Name, score, percentile, at)
	if err := d.dir.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("%w: create alert: %v", ErrDispatch, err)
	}
	log.Info("created partner alert", zap.String("partner_id", user.PairedWith), zap.String("alert_id", alert.ID.String()))

	partner, err := d.dir.GetUser(ctx, user.PairedWith)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return alert, nil
		}
		return alert, fmt.Errorf("%w: look up partner: %v", ErrDispatch, err)
	}
	if partner.DeviceToken == "" {
		log.Debug("partner has no device token")
		return alert, nil
	}

	msg := notify.Message{
		Token: partner.DeviceToken,
		Title: NotificationTitle,
		Body:  NotificationBody(user.Name),
		Data: map[string]string{
			"type":       string(models.AlertLowBandwidth),
			"alertId":    alert.ID.String(),
			"fromUserId": fromUserID,
		},
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, notify.ErrInvalidToken) {
			log.Warn("partner device token rejected, clearing", zap.String("partner_id", partner.ID))
			if clearErr := d.dir.ClearDeviceToken(ctx, partner.ID); clearErr != nil {
				return alert, fmt.Errorf("%w: clear device token: %v", ErrDispatch, clearErr)
			}
		}
		return alert, fmt.Errorf("%w: send notification: %w", ErrDispatch, err)
	}
	return alert, nil
}
