// ABOUTME: BiometricSource contract for raw per-day health signals.
// ABOUTME: Implementations read the local sample log or a remote health API.
package biometrics

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// ErrSourceUnavailable means the source could not be reached or authorized.
var ErrSourceUnavailable = errors.New("biometric source unavailable")

// ErrUnsupportedKind is returned when a kind has no direct aggregate.
var ErrUnsupportedKind = errors.New("unsupported metric kind")

// Source supplies raw signals for a calendar day. day is midnight in the
// reference location; the day spans [day, day+1).
type Source interface {
	// DailyAggregate sums cumulative kinds and averages rate kinds.
	DailyAggregate(ctx context.Context, kind models.MetricKind, day time.Time) (float64, error)
	SleepSegments(ctx context.Context, day time.Time) ([]models.SleepSegment, error)
	HeartRateSamples(ctx context.Context, day time.Time) ([]models.HeartRateSample, error)
	ExerciseIntervals(ctx context.Context, day time.Time) ([]models.Interval, error)
}

// DayBounds returns [start, end) for the day containing t.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := models.StartOfDay(day, day.Location())
	return start, models.AddDays(start, 1)
}
