// ABOUTME: Tests for the document, Redis, and memory MetricStore backends.
// ABOUTME: Redis is replaced by an in-memory HashClient.
package cache

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHash struct {
	mu   sync.Mutex
	data map[string]map[string]string
	err  error
}

func newFakeHash() *fakeHash {
	return &fakeHash{data: map[string]map[string]string{}}
}

func (f *fakeHash) HGet(_ context.Context, key, field string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeHash) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[key] == nil {
		f.data[key] = map[string]string{}
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.data[key][values[i].(string)] = values[i+1].(string)
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeHash()
	s := NewRedisStore(client, nil)

	_, ok, err := s.Get(ctx, "u1", models.KindHeartRateVariability, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "u1", models.KindHeartRateVariability, "2024-01-01", 47.5))
	require.NoError(t, s.Put(ctx, "u1", models.KindRestingHeartRate, "2024-01-01", 58))

	v, ok, err := s.Get(ctx, "u1", models.KindHeartRateVariability, "2024-01-01")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 47.5, v)

	doc := client.data["users/u1/healthData/2024-01-01"]
	assert.Contains(t, doc, "rhr")
	assert.Contains(t, doc, TimestampField)
}

func TestRedisStoreInvalidDataIsMiss(t *testing.T) {
	ctx := context.Background()
	client := newFakeHash()
	client.data["users/u1/computedData/2024-01-01"] = map[string]string{"bandwidth": "not-a-number"}
	s := NewRedisStore(client, nil)

	_, ok, err := s.Get(ctx, "u1", models.KindBandwidth, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreTransportError(t *testing.T) {
	client := newFakeHash()
	client.err = errors.New("connection refused")
	s := NewRedisStore(client, nil)

	_, _, err := s.Get(context.Background(), "u1", models.KindBandwidth, "2024-01-01")
	assert.Error(t, err)
}

func TestDocumentStoreUsesNamespaces(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(filepath.Join(t.TempDir(), "bandwidth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := NewDocumentStore(db)

	require.NoError(t, s.Put(ctx, "u1", models.KindBandwidth, "2024-02-02", 1.5))
	require.NoError(t, s.Put(ctx, "u1", models.KindSteps, "2024-02-02", 9000))

	v, ok, err := s.Get(ctx, "u1", models.KindBandwidth, "2024-02-02")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok, err = s.Get(ctx, "u1", models.KindSleepComponent, "2024-02-02")
	require.NoError(t, err)
	assert.False(t, ok, "missing field in an existing document is a miss")

	doc, err := db.GetDayDocument(ctx, "u1", models.NamespaceRaw, "2024-02-02")
	require.NoError(t, err)
	assert.Len(t, doc.Fields, 1)
}

func TestMemoryCounts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Put(ctx, "u", models.KindBandwidth, "d", 1)
	_, ok, _ := m.Get(ctx, "u", models.KindBandwidth, "d")
	assert.True(t, ok)
	assert.Equal(t, 1, m.Puts())
	assert.Equal(t, 1, m.Gets())
}
