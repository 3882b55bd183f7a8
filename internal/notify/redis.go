// ABOUTME: RedisSender publishes notifications to a Redis channel as JSON.
// ABOUTME: A separate push worker subscribes to the channel and delivers them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher is the slice of the Redis client RedisSender uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSender publishes to a channel.
type RedisSender struct {
	client  Publisher
	channel string
}

// NewRedisSender publishes on channel.
func NewRedisSender(client Publisher, channel string) *RedisSender {
	return &RedisSender{client: client, channel: channel}
}

// Send implements Sender.
func (s *RedisSender) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return ErrInvalidToken
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
