// ABOUTME: MetricStore implementation over Charm KV day documents.
// ABOUTME: Each document is a JSON object keyed by users/{id}/{collection}/{day}.
package charm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/bandwidth/internal/cache"
	"github.com/harperreed/bandwidth/internal/models"
	"go.uber.org/zap"
)

func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

// MetricStore implements cache.Store on a Charm client.
type MetricStore struct {
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

var _ cache.Store = (*MetricStore)(nil)

// NewMetricStore wraps client.
func NewMetricStore(client *Client, logger *zap.Logger) *MetricStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricStore{client: client, logger: logger, now: time.Now}
}

type document map[string]any

func (s *MetricStore) readDocument(key string) (document, error) {
	raw, err := s.client.get(key)
	if err != nil || raw == nil {
		return nil, err
	}
	doc, err := unmarshalJSON[document](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", cache.ErrInvalidData, key, err)
	}
	return *doc, nil
}

// Get implements cache.Store.
func (s *MetricStore) Get(_ context.Context, userID string, kind models.MetricKind, day string) (float64, bool, error) {
	key := models.DocumentPath(userID, kind.Namespace(), day)
	doc, err := s.readDocument(key)
	if err != nil {
		if errors.Is(err, cache.ErrInvalidData) {
			s.logger.Warn("discarding cached document", zap.String("path", key), zap.Error(err))
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("charm get %s: %w", key, err)
	}

	raw, ok := doc[kind.CacheKey()]
	if !ok {
		return 0, false, nil
	}
	v, ok := raw.(float64)
	if !ok {
		s.logger.Warn("discarding cached value",
			zap.String("path", key),
			zap.String("field", kind.CacheKey()),
			zap.Error(cache.ErrInvalidData))
		return 0, false, nil
	}
	return v, true, nil
}

// Put implements cache.Store. Existing fields in the document are kept.
func (s *MetricStore) Put(_ context.Context, userID string, kind models.MetricKind, day string, value float64) error {
	key := models.DocumentPath(userID, kind.Namespace(), day)
	err := s.client.update(key, func(current []byte) ([]byte, error) {
		doc := document{}
		if current != nil {
			if parsed, err := unmarshalJSON[document](current); err == nil {
				doc = *parsed
			} else {
				s.logger.Warn("overwriting malformed document", zap.String("path", key), zap.Error(err))
			}
		}
		doc[kind.CacheKey()] = value
		doc[cache.TimestampField] = s.now().UTC().Format(time.RFC3339)
		return marshalJSON(doc)
	})
	if err != nil {
		return fmt.Errorf("charm put %s: %w", key, err)
	}
	return nil
}

// ListDays returns the day keys stored for a user's collection, oldest first.
func (s *MetricStore) ListDays(userID string, ns models.Namespace) ([]string, error) {
	prefix := models.DocumentPath(userID, ns, "")
	keys, err := s.client.keysByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	days := make([]string, 0, len(keys))
	for _, k := range keys {
		days = append(days, k[len(prefix):])
	}
	sort.Strings(days)
	return days, nil
}

// DeleteDay removes a whole day document.
func (s *MetricStore) DeleteDay(userID string, ns models.Namespace, day string) error {
	return s.client.delete(models.DocumentPath(userID, ns, day))
}
