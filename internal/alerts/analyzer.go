// ABOUTME: Analyzer decides whether today's score is low enough to alert a partner.
// ABOUTME: Each window alerts at most once per day; failures land in LastError.
package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/bandwidth/internal/cache"
	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/settings"
	"go.uber.org/zap"
)

// Outcome describes what Analyze did.
type Outcome string

const (
	OutsideWindow  Outcome = "outside_window"
	AlreadyAlerted Outcome = "already_alerted"
	NoHistory      Outcome = "no_history"
	AboveThreshold Outcome = "above_threshold"
	NoPartner      Outcome = "no_partner"
	Alerted        Outcome = "alerted"
)

// Analyzer ranks scores against cached history.
type Analyzer struct {
	store      cache.Store
	dispatcher *Dispatcher
	settings   settings.Provider
	clock      metrics.Clock
	loc        *time.Location
	logger     *zap.Logger

	mu        sync.Mutex
	lastAlert map[string]string
	lastErr   error
}

// NewAnalyzer builds an Analyzer. Nil clock, location, and logger get defaults.
func NewAnalyzer(store cache.Store, dispatcher *Dispatcher, sp settings.Provider, clock metrics.Clock, loc *time.Location, logger *zap.Logger) *Analyzer {
	if clock == nil {
		clock = metrics.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		store:      store,
		dispatcher: dispatcher,
		settings:   sp,
		clock:      clock,
		loc:        loc,
		logger:     logger,
		lastAlert:  map[string]string{},
	}
}

// LastError is the most recent analysis failure. A later successful analysis clears it.
func (a *Analyzer) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// History returns the cached bandwidth scores from day minus the averaging
// period through day. Days without a cached score are skipped.
func (a *Analyzer) History(ctx context.Context, userID string, day time.Time, periodDays int) ([]float64, error) {
	day = models.StartOfDay(day, a.loc)
	var history []float64
	for i := periodDays; i >= 0; i-- {
		key := models.AddDays(day, -i).Format(models.DayLayout)
		v, ok, err := a.store.Get(ctx, userID, models.KindBandwidth, key)
		if err != nil {
			return nil, fmt.Errorf("read score for %s: %w", key, err)
		}
		if ok {
			history = append(history, v)
		}
	}
	return history, nil
}

// Analyze alerts the user's partner when score ranks in the lowest band of
// recent history and the current time is inside an unused window.
func (a *Analyzer) Analyze(ctx context.Context, userID string, score float64, day time.Time) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	window, ok := WindowAt(now, a.loc)
	if !ok {
		return OutsideWindow, nil
	}
	today := models.DayKey(now, a.loc)
	if a.lastAlert[window.Name] == today {
		return AlreadyAlerted, nil
	}

	log := a.logger.With(zap.String("user_id", userID), zap.String("window", window.Name))

	history, err := a.History(ctx, userID, day, a.settings.Current().AveragingPeriodDays)
	if err != nil {
		return "", a.fail(log, err)
	}
	a.lastErr = nil
	rank, ok := PercentileRank(score, history)
	if !ok {
		log.Debug("no score history, skipping analysis")
		return NoHistory, nil
	}
	if rank > LowPercentile {
		return AboveThreshold, nil
	}

	alert, err := a.dispatcher.Dispatch(ctx, userID, score, rank, now)
	if alert != nil {
		a.lastAlert[window.Name] = today
	}
	if err != nil {
		return "", a.fail(log, err)
	}
	if alert == nil {
		return NoPartner, nil
	}
	log.Info("low bandwidth alert sent", zap.Float64("score", score), zap.Float64("percentile", rank))
	return Alerted, nil
}

func (a *Analyzer) fail(log *zap.Logger, err error) error {
	log.Error("alert analysis failed", zap.Error(err))
	a.lastErr = err
	return err
}
