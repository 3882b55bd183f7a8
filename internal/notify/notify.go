// ABOUTME: Push notification delivery for partner alerts.
// ABOUTME: Senders classify rejected device tokens as ErrInvalidToken.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrInvalidToken means the provider rejected the device token for good.
var ErrInvalidToken = errors.New("invalid device token")

// Message is one push notification.
type Message struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Sender delivers a notification.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes notifications to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender returns a LogSender. A nil logger discards output.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.Token == "" {
		return ErrInvalidToken
	}
	s.logger.Info("notification",
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
		zap.Any("data", msg.Data))
	return nil
}
