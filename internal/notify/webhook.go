// ABOUTME: WebhookSender posts notifications to an HTTP push gateway.
// ABOUTME: 404, 410, and unregistered-token error codes map to ErrInvalidToken.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var invalidTokenCodes = map[string]bool{
	"BadDeviceToken":      true,
	"Unregistered":        true,
	"NotRegistered":       true,
	"InvalidRegistration": true,
}

type gatewayError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WebhookSender delivers through an HTTP gateway.
type WebhookSender struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhookSender targets url, authenticating with token when set.
func NewWebhookSender(url, token string, timeout time.Duration, logger *zap.Logger) *WebhookSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &WebhookSender{client: client, url: url, logger: logger}
}

// Send implements Sender.
func (s *WebhookSender) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return ErrInvalidToken
	}

	var gwErr gatewayError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(msg).
		SetError(&gwErr).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	switch {
	case resp.IsSuccess():
		s.logger.Debug("notification delivered", zap.Int("status", resp.StatusCode()))
		return nil
	case resp.StatusCode() == http.StatusNotFound, resp.StatusCode() == http.StatusGone:
		return ErrInvalidToken
	case invalidTokenCodes[gwErr.Code], invalidTokenCodes[gwErr.Error]:
		return fmt.Errorf("%w: %s", ErrInvalidToken, gwErr.Code+gwErr.Error)
	default:
		return fmt.Errorf("send notification: gateway returned %s", resp.Status())
	}
}
