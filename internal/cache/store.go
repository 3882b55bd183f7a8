// ABOUTME: MetricStore contract: per-day scalar cache keyed by user, kind, and day.
// ABOUTME: The namespace comes from the kind; writes merge into the day document.
package cache

import (
	"context"
	"errors"

	"github.com/harperreed/bandwidth/internal/models"
)

// ErrInvalidData marks a cached document that could not be decoded.
// Backends log it and report a miss so the value is recomputed.
var ErrInvalidData = errors.New("invalid cached data")

// Store is the per-day metric cache.
type Store interface {
	// Get returns the cached value and true, or false on a miss.
	Get(ctx context.Context, userID string, kind models.MetricKind, day string) (float64, bool, error)
	// Put upserts the value into the day document and stamps a write time.
	Put(ctx context.Context, userID string, kind models.MetricKind, day string, value float64) error
}

// TimestampField is stamped on every document write.
const TimestampField = "timestamp"
