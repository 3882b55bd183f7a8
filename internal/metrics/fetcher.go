// ABOUTME: Per-day metric fetch with the cache policy for raw signals.
// ABOUTME: Today always comes from the source; past days are read through the cache.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/biometrics"
	"github.com/harperreed/bandwidth/internal/cache"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/settings"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotRawKind is returned when a computed kind is requested from the source.
var ErrNotRawKind = errors.New("not a raw metric kind")

// Deps are the collaborators shared by the fetcher and scorers.
type Deps struct {
	Store    cache.Store
	Source   biometrics.Source
	Settings settings.Provider
	Clock    Clock
	Location *time.Location
	Logger   *zap.Logger
}

// Fetcher reads raw per-day metrics.
type Fetcher struct {
	store    cache.Store
	source   biometrics.Source
	settings settings.Provider
	clock    Clock
	loc      *time.Location
	logger   *zap.Logger
}

// NewFetcher builds a Fetcher. Nil clock, location, and logger get defaults.
func NewFetcher(d Deps) *Fetcher {
	f := &Fetcher{
		store:    d.Store,
		source:   d.Source,
		settings: d.Settings,
		clock:    d.Clock,
		loc:      d.Location,
		logger:   d.Logger,
	}
	if f.clock == nil {
		f.clock = SystemClock{}
	}
	if f.loc == nil {
		f.loc = time.Local
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

// Location is the reference time zone for day truncation.
func (f *Fetcher) Location() *time.Location { return f.loc }

// Clock returns the fetcher's clock.
func (f *Fetcher) Clock() Clock { return f.clock }

// Today is midnight of the current day in the reference location.
func (f *Fetcher) Today() time.Time {
	return models.StartOfDay(f.clock.Now(), f.loc)
}

// IsToday reports whether day falls on the current calendar day.
func (f *Fetcher) IsToday(day time.Time) bool {
	return models.SameDay(day, f.clock.Now(), f.loc)
}

// DailyMetric returns a raw metric for one day.
func (f *Fetcher) DailyMetric(ctx context.Context, userID string, kind models.MetricKind, day time.Time) (float64, error) {
	info, ok := models.Lookup(kind)
	if !ok || info.Computed {
		return 0, fmt.Errorf("%w: %s", ErrNotRawKind, kind)
	}

	day = models.StartOfDay(day, f.loc)
	dayKey := day.Format(models.DayLayout)
	isToday := f.IsToday(day)
	log := f.logger.With(zap.String("user_id", userID), zap.String("date", dayKey), zap.String("kind", string(kind)))

	if !isToday && info.ShouldCache {
		if v, hit := f.cached(ctx, log, userID, kind, dayKey); hit {
			return v, nil
		}
	}

	v, err := f.fromSource(ctx, kind, day)
	if err != nil {
		return 0, fmt.Errorf("fetch %s for %s: %w", kind, dayKey, err)
	}

	if info.ShouldCache {
		if err := f.store.Put(ctx, userID, kind, dayKey, v); err != nil {
			if !isToday {
				return 0, err
			}
			log.Warn("cache write for today failed", zap.Error(err))
		}
	}
	return v, nil
}

// Sleep returns asleep and in-bed totals. Only the asleep total is cached, so
// a cache hit reports zero in-bed time.
func (f *Fetcher) Sleep(ctx context.Context, userID string, day time.Time) (biometrics.SleepTotals, error) {
	day = models.StartOfDay(day, f.loc)
	dayKey := day.Format(models.DayLayout)
	isToday := f.IsToday(day)
	log := f.logger.With(zap.String("user_id", userID), zap.String("date", dayKey), zap.String("kind", string(models.KindSleepTime)))

	if !isToday {
		if v, hit := f.cached(ctx, log, userID, models.KindSleepTime, dayKey); hit {
			return biometrics.SleepTotals{Sleep: v}, nil
		}
	}

	segments, err := f.source.SleepSegments(ctx, day)
	if err != nil {
		return biometrics.SleepTotals{}, fmt.Errorf("fetch sleep for %s: %w", dayKey, err)
	}
	totals := biometrics.Totals(segments)

	if err := f.store.Put(ctx, userID, models.KindSleepTime, dayKey, totals.Sleep); err != nil {
		if !isToday {
			return biometrics.SleepTotals{}, err
		}
		log.Warn("cache write for today failed", zap.Error(err))
	}
	return totals, nil
}

func (f *Fetcher) cached(ctx context.Context, log *zap.Logger, userID string, kind models.MetricKind, dayKey string) (float64, bool) {
	v, ok, err := f.store.Get(ctx, userID, kind, dayKey)
	if err != nil {
		log.Warn("cache read failed, recomputing", zap.Error(err))
		return 0, false
	}
	return v, ok
}

func (f *Fetcher) fromSource(ctx context.Context, kind models.MetricKind, day time.Time) (float64, error) {
	switch kind {
	case models.KindSleepTime:
		segments, err := f.source.SleepSegments(ctx, day)
		if err != nil {
			return 0, err
		}
		return biometrics.Totals(segments).Sleep, nil

	case models.KindElevatedHeartRateTime:
		var samples []models.HeartRateSample
		var intervals []models.Interval
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			samples, err = f.source.HeartRateSamples(gctx, day)
			return err
		})
		g.Go(func() error {
			var err error
			intervals, err = f.source.ExerciseIntervals(gctx, day)
			return err
		})
		if err := g.Wait(); err != nil {
			return 0, err
		}
		start, end := biometrics.DayBounds(day)
		threshold := f.settings.Current().ElevatedHeartRateThreshold
		return biometrics.ElevatedTime(samples, intervals, end.Sub(start), threshold), nil

	default:
		return f.source.DailyAggregate(ctx, kind, day)
	}
}

// DayMetrics holds one day's raw signals.
type DayMetrics struct {
	HRV             float64
	RHR             float64
	ElevatedTime    float64
	ExerciseMinutes float64
	Steps           float64
	ActiveEnergy    float64
	SleepSeconds    float64
}

// NonExerciseSeconds is the day length minus exercise, clamped at zero.
func (d DayMetrics) NonExerciseSeconds() float64 {
	v := float64(models.SecondsPerDay) - d.ExerciseMinutes*60
	if v < 0 {
		return 0
	}
	return v
}

func (d *DayMetrics) set(kind models.MetricKind, v float64) {
	switch kind {
	case models.KindHeartRateVariability:
		d.HRV = v
	case models.KindRestingHeartRate:
		d.RHR = v
	case models.KindElevatedHeartRateTime:
		d.ElevatedTime = v
	case models.KindExerciseMinutes:
		d.ExerciseMinutes = v
	case models.KindSteps:
		d.Steps = v
	case models.KindActiveEnergy:
		d.ActiveEnergy = v
	case models.KindSleepTime:
		d.SleepSeconds = v
	}
}

// Day fetches the given kinds for one day concurrently. Any failure fails the day.
func (f *Fetcher) Day(ctx context.Context, userID string, day time.Time, kinds []models.MetricKind) (DayMetrics, error) {
	values := make([]float64, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			v, err := f.DailyMetric(gctx, userID, kind, day)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DayMetrics{}, err
	}

	var dm DayMetrics
	for i, kind := range kinds {
		dm.set(kind, values[i])
	}
	return dm, nil
}
