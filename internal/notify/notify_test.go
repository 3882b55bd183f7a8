// ABOUTME: Tests for notification senders and invalid-token classification.
// ABOUTME: Uses httptest for the webhook and a fake publisher for Redis.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMsg = Message{
	Token: "tok-1",
	Title: "Bandwidth Alert",
	Body:  "Today, Sam's Bandwidth score is in the lowest 20% of historical data.",
	Data:  map[string]string{"type": "lowBandwidthAlert"},
}

func TestLogSenderRequiresToken(t *testing.T) {
	s := NewLogSender(nil)
	assert.NoError(t, s.Send(context.Background(), testMsg))
	assert.ErrorIs(t, s.Send(context.Background(), Message{Title: "x"}), ErrInvalidToken)
}

func TestWebhookSenderDelivers(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, "secret", time.Second, nil)
	require.NoError(t, s.Send(context.Background(), testMsg))
	assert.Equal(t, testMsg, got)
	assert.Equal(t, "Bearer secret", auth)
}

func TestWebhookSenderClassifiesInvalidToken(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"gone", http.StatusGone, ``},
		{"not found", http.StatusNotFound, ``},
		{"unregistered code", http.StatusBadRequest, `{"code":"Unregistered"}`},
		{"bad token error", http.StatusBadRequest, `{"error":"BadDeviceToken"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := NewWebhookSender(srv.URL, "", time.Second, nil).Send(context.Background(), testMsg)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestWebhookSenderOtherFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, "", time.Second, nil).Send(context.Background(), testMsg)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	cmd := redis.NewIntResult(1, f.err)
	return cmd
}

func TestRedisSenderPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	s := NewRedisSender(pub, "bandwidth:notifications")
	require.NoError(t, s.Send(context.Background(), testMsg))

	assert.Equal(t, "bandwidth:notifications", pub.channel)
	var got Message
	require.NoError(t, json.Unmarshal(pub.payload, &got))
	assert.Equal(t, testMsg, got)
}

func TestRedisSenderPropagatesError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	err := NewRedisSender(pub, "c").Send(context.Background(), testMsg)
	assert.ErrorContains(t, err, "connection refused")
}
