// ABOUTME: In-memory MetricStore for tests and dry runs.
// ABOUTME: Counts reads and writes so callers can assert cache behaviour.
package cache

import (
	"context"
	"sync"

	"github.com/harperreed/bandwidth/internal/models"
)

// Memory is a goroutine-safe map-backed Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]float64
	gets   int
	puts   int
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{values: map[string]float64{}}
}

func memoryKey(userID string, kind models.MetricKind, day string) string {
	return models.DocumentPath(userID, kind.Namespace(), day) + "#" + kind.CacheKey()
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, userID string, kind models.MetricKind, day string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.values[memoryKey(userID, kind, day)]
	return v, ok, nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, userID string, kind models.MetricKind, day string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.values[memoryKey(userID, kind, day)] = value
	return nil
}

// Puts returns the number of writes so far.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Gets returns the number of reads so far.
func (m *Memory) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}
