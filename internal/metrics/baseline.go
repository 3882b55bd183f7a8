// ABOUTME: Rolling-window baselines over the days before today.
// ABOUTME: Plain metrics skip non-positive days; elevated time averages every day.
package metrics

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/harperreed/bandwidth/internal/biometrics"
	"github.com/harperreed/bandwidth/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SleepBaselineSeconds is the fixed eight-hour sleep reference.
const SleepBaselineSeconds = 8 * 3600

const baselineFetchLimit = 8

// BaselineCalculator averages raw metrics over a trailing window.
type BaselineCalculator struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewBaselineCalculator builds a calculator on top of f.
func NewBaselineCalculator(f *Fetcher) *BaselineCalculator {
	return &BaselineCalculator{fetcher: f, logger: f.logger}
}

// Baseline averages kind over the days calendar days ending yesterday.
// Returns 0 when no valid value exists.
func (b *BaselineCalculator) Baseline(ctx context.Context, userID string, kind models.MetricKind, days int) (float64, error) {
	if days <= 0 {
		return 0, nil
	}

	today := b.fetcher.Today()
	values := make([]float64, days)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(baselineFetchLimit)

	for i := 0; i < days; i++ {
		day := models.AddDays(today, -(i + 1))
		g.Go(func() error {
			v, err := b.fetcher.DailyMetric(gctx, userID, kind, day)
			if err != nil {
				if errors.Is(err, biometrics.ErrSourceUnavailable) || gctx.Err() != nil {
					return err
				}
				b.logger.Debug("skipping baseline day",
					zap.String("user_id", userID),
					zap.String("kind", string(kind)),
					zap.String("date", day.Format(models.DayLayout)),
					zap.Error(err))
				v = math.NaN()
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if kind == models.KindElevatedHeartRateTime {
		var total float64
		for _, v := range values {
			if !math.IsNaN(v) {
				total += v
			}
		}
		return total / float64(days), nil
	}

	var total float64
	var count int
	for _, v := range values {
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

// BaselineMetrics is the reference set for one user and window.
type BaselineMetrics struct {
	HRV             float64
	RHR             float64
	ElevatedTime    float64
	ExerciseMinutes float64
	Steps           float64
	ActiveEnergy    float64
	SleepSeconds    float64
}

func (b *BaselineMetrics) set(kind models.MetricKind, v float64) {
	switch kind {
	case models.KindHeartRateVariability:
		b.HRV = v
	case models.KindRestingHeartRate:
		b.RHR = v
	case models.KindElevatedHeartRateTime:
		b.ElevatedTime = v
	case models.KindExerciseMinutes:
		b.ExerciseMinutes = v
	case models.KindSteps:
		b.Steps = v
	case models.KindActiveEnergy:
		b.ActiveEnergy = v
	}
}

// BaselineKinds are the kinds with rolling baselines.
var BaselineKinds = []models.MetricKind{
	models.KindHeartRateVariability,
	models.KindRestingHeartRate,
	models.KindElevatedHeartRateTime,
	models.KindExerciseMinutes,
	models.KindSteps,
	models.KindActiveEnergy,
}

// BaselineMetrics computes every baseline concurrently.
func (b *BaselineCalculator) BaselineMetrics(ctx context.Context, userID string, days int) (BaselineMetrics, error) {
	return b.Select(ctx, userID, days, BaselineKinds)
}

// Select computes baselines for kinds only. Sleep always uses the fixed
// reference and is never averaged here.
func (b *BaselineCalculator) Select(ctx context.Context, userID string, days int, kinds []models.MetricKind) (BaselineMetrics, error) {
	out := BaselineMetrics{SleepSeconds: SleepBaselineSeconds}
	values := make([]float64, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		if kind == models.KindSleepTime {
			continue
		}
		g.Go(func() error {
			v, err := b.Baseline(gctx, userID, kind, days)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BaselineMetrics{}, err
	}

	for i, kind := range kinds {
		out.set(kind, values[i])
	}
	return out, nil
}

// Window returns the first and last day of the baseline window.
func (b *BaselineCalculator) Window(days int) (time.Time, time.Time) {
	today := b.fetcher.Today()
	return models.AddDays(today, -days), models.AddDays(today, -1)
}
