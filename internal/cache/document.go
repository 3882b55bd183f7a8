// ABOUTME: MetricStore backed by the SQLite day-document repository.
// ABOUTME: One row per field, so a write never disturbs sibling fields.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/storage"
)

// DocumentRepository is the slice of storage.Repository the store needs.
type DocumentRepository interface {
	UpsertDayField(ctx context.Context, userID string, ns models.Namespace, day, field string, value float64, writtenAt time.Time) error
	GetDayDocument(ctx context.Context, userID string, ns models.Namespace, day string) (*storage.DayDocument, error)
}

// DocumentStore implements Store on top of day documents.
type DocumentStore struct {
	repo DocumentRepository
	now  func() time.Time
}

// NewDocumentStore wraps repo.
func NewDocumentStore(repo DocumentRepository) *DocumentStore {
	return &DocumentStore{repo: repo, now: time.Now}
}

// Get implements Store.
func (s *DocumentStore) Get(ctx context.Context, userID string, kind models.MetricKind, day string) (float64, bool, error) {
	doc, err := s.repo.GetDayDocument(ctx, userID, kind.Namespace(), day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get %s: %w", models.DocumentPath(userID, kind.Namespace(), day), err)
	}
	v, ok := doc.Value(kind.CacheKey())
	return v, ok, nil
}

// Put implements Store.
func (s *DocumentStore) Put(ctx context.Context, userID string, kind models.MetricKind, day string, value float64) error {
	if err := s.repo.UpsertDayField(ctx, userID, kind.Namespace(), day, kind.CacheKey(), value, s.now()); err != nil {
		return fmt.Errorf("put %s.%s: %w", models.DocumentPath(userID, kind.Namespace(), day), kind.CacheKey(), err)
	}
	return nil
}
