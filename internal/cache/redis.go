// ABOUTME: MetricStore backed by Redis hashes, one hash per day document.
// ABOUTME: HSET merges fields natively; unparsable values count as misses.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HashClient is the subset of *redis.Client the store uses.
type HashClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisStore implements Store with a hash at each document path.
type RedisStore struct {
	client HashClient
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisStore wraps client.
func NewRedisStore(client HashClient, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger, now: time.Now}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, userID string, kind models.MetricKind, day string) (float64, bool, error) {
	key := models.DocumentPath(userID, kind.Namespace(), day)
	raw, err := s.client.HGet(ctx, key, kind.CacheKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis hget %s: %w", key, err)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.logger.Warn("discarding cached value",
			zap.String("path", key),
			zap.String("field", kind.CacheKey()),
			zap.Error(fmt.Errorf("%w: %v", ErrInvalidData, err)))
		return 0, false, nil
	}
	return v, true, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, userID string, kind models.MetricKind, day string, value float64) error {
	key := models.DocumentPath(userID, kind.Namespace(), day)
	err := s.client.HSet(ctx, key,
		kind.CacheKey(), strconv.FormatFloat(value, 'g', -1, 64),
		TimestampField, s.now().UTC().Format(time.RFC3339),
	).Err()
	if err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}
