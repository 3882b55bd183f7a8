// ABOUTME: Aggregator combines enabled components into the daily bandwidth score.
// ABOUTME: Identity is checked before any read so unauthenticated calls write nothing.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/identity"
	"github.com/harperreed/bandwidth/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregator computes bandwidth scores for the bound user.
type Aggregator struct {
	identity   identity.Provider
	scorer     *Scorer
	components []Component
}

// NewAggregator builds an Aggregator over the standard components.
func NewAggregator(id identity.Provider, scorer *Scorer) *Aggregator {
	return &Aggregator{identity: id, scorer: scorer, components: Components()}
}

// Scorer returns the component scorer.
func (a *Aggregator) Scorer() *Scorer { return a.scorer }

// UserID resolves the bound identity.
func (a *Aggregator) UserID(ctx context.Context) (string, error) {
	return a.identity.CurrentUserID(ctx)
}

// BandwidthScore returns the bound user's score for day.
func (a *Aggregator) BandwidthScore(ctx context.Context, day time.Time) (float64, error) {
	userID, err := a.identity.CurrentUserID(ctx)
	if err != nil {
		return 0, err
	}
	return a.ScoreFor(ctx, userID, day)
}

// ScoreFor returns userID's score for day, computing and caching it on a miss.
func (a *Aggregator) ScoreFor(ctx context.Context, userID string, day time.Time) (float64, error) {
	s := a.scorer
	day = models.StartOfDay(day, s.fetcher.Location())
	dayKey := day.Format(models.DayLayout)
	log := s.logger.With(zap.String("user_id", userID), zap.String("date", dayKey))

	if v, ok, err := s.store.Get(ctx, userID, models.KindBandwidth, dayKey); err != nil {
		log.Warn("bandwidth cache read failed, recomputing", zap.Error(err))
	} else if ok {
		return v, nil
	}

	st := s.settings.Current()
	var enabled []Component
	for _, c := range a.components {
		if st.Enabled(c.Category()) {
			enabled = append(enabled, c)
		}
	}

	values := make([]float64, len(enabled))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range enabled {
		g.Go(func() error {
			v, err := s.Component(gctx, c, userID, day)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("bandwidth score for %s: %w", dayKey, err)
	}

	var total float64
	for i, c := range enabled {
		w, err := weight(st.MainWeights, "mainWeights", string(c.Category()))
		if err != nil {
			return 0, err
		}
		total += values[i] * w
	}
	total /= 100

	if err := s.store.Put(ctx, userID, models.KindBandwidth, dayKey, total); err != nil {
		return 0, err
	}
	log.Info("computed bandwidth score", zap.Float64("score", total))
	return total, nil
}

// Breakdown is a day's bandwidth score with its cached component values.
type Breakdown struct {
	Day        string                        `json:"date"`
	Bandwidth  float64                       `json:"bandwidth"`
	Components map[models.MetricKind]float64 `json:"components"`
}

// Breakdown computes the score for day and reports each cached component.
func (a *Aggregator) Breakdown(ctx context.Context, day time.Time) (*Breakdown, error) {
	userID, err := a.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	score, err := a.ScoreFor(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	dayKey := models.DayKey(day, a.scorer.fetcher.Location())
	b := &Breakdown{Day: dayKey, Bandwidth: score, Components: map[models.MetricKind]float64{}}
	for _, c := range a.components {
		v, ok, err := a.scorer.store.Get(ctx, userID, c.Kind(), dayKey)
		if err != nil {
			return nil, err
		}
		if ok {
			b.Components[c.Kind()] = v
		}
	}
	return b, nil
}
