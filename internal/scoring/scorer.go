// ABOUTME: Scorer computes and caches one component over a three-day recency window.
// ABOUTME: A cached component value short-circuits every fetch.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/cache"
	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/settings"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scorer computes component scores.
type Scorer struct {
	fetcher   *metrics.Fetcher
	baselines *metrics.BaselineCalculator
	store     cache.Store
	settings  settings.Provider
	logger    *zap.Logger
}

// NewScorer builds a Scorer from the shared dependencies.
func NewScorer(d metrics.Deps) *Scorer {
	f := metrics.NewFetcher(d)
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		fetcher:   f,
		baselines: metrics.NewBaselineCalculator(f),
		store:     d.Store,
		settings:  d.Settings,
		logger:    logger,
	}
}

// Fetcher exposes the underlying metric fetcher.
func (s *Scorer) Fetcher() *metrics.Fetcher { return s.fetcher }

// Baselines exposes the underlying baseline calculator.
func (s *Scorer) Baselines() *metrics.BaselineCalculator { return s.baselines }

// Store exposes the metric store.
func (s *Scorer) Store() cache.Store { return s.store }

// Settings returns the current settings snapshot.
func (s *Scorer) Settings() settings.Settings { return s.settings.Current() }

// Component returns c's score for day, computing and caching it on a miss.
func (s *Scorer) Component(ctx context.Context, c Component, userID string, day time.Time) (float64, error) {
	day = models.StartOfDay(day, s.fetcher.Location())
	dayKey := day.Format(models.DayLayout)
	log := s.logger.With(zap.String("user_id", userID), zap.String("date", dayKey), zap.String("component", string(c.Kind())))

	if v, ok, err := s.store.Get(ctx, userID, c.Kind(), dayKey); err != nil {
		log.Warn("component cache read failed, recomputing", zap.Error(err))
	} else if ok {
		return v, nil
	}

	st := s.settings.Current()
	recency, err := weights(st.RecentDaysWeights, "recentDaysWeights", settings.RecencyKeys[:]...)
	if err != nil {
		return 0, err
	}

	base, err := s.baselines.Select(ctx, userID, st.AveragingPeriodDays, c.BaselineKinds())
	if err != nil {
		return 0, fmt.Errorf("%s baselines: %w", c.Kind(), err)
	}

	dayScores := make([]float64, len(recency))
	g, gctx := errgroup.WithContext(ctx)
	for offset := range recency {
		g.Go(func() error {
			dm, err := s.fetcher.Day(gctx, userID, models.AddDays(day, -offset), c.RawKinds())
			if err != nil {
				return err
			}
			ds, err := c.DayScore(dm, base, st)
			if err != nil {
				return err
			}
			dayScores[offset] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("%s: %w", c.Kind(), err)
	}

	var total float64
	for offset, ds := range dayScores {
		total += ds * recency[offset] / 100
	}

	if err := s.store.Put(ctx, userID, c.Kind(), dayKey, total); err != nil {
		return 0, err
	}
	log.Debug("computed component", zap.Float64("score", total))
	return total, nil
}
