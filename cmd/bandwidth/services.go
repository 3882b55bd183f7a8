// ABOUTME: Builds the storage, scoring, alerting, and task services for a CLI run.
// ABOUTME: Everything opened here is released by services.Close.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/alerts"
	"github.com/harperreed/bandwidth/internal/config"
	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/scoring"
	"github.com/harperreed/bandwidth/internal/settings"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/harperreed/bandwidth/internal/tasks"
	"go.uber.org/zap"
)

type services struct {
	cfg      *config.Config
	logger   *zap.Logger
	repo     *storage.DB
	store    *config.MetricStore
	notifier *config.Notifier
	settings *settings.Manager
	clock    metrics.Clock
	loc      *time.Location
	agg      *scoring.Aggregator
	analyzer *alerts.Analyzer
}

func openServices(cfg *config.Config, logger *zap.Logger) (*services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	st, err := settings.NewManager(settings.DefaultPath())
	if err != nil {
		return nil, err
	}

	repo, err := cfg.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store, err := cfg.OpenMetricStore(repo, logger)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	source, err := cfg.OpenSource(repo, logger)
	if err != nil {
		_ = store.Close()
		_ = repo.Close()
		return nil, err
	}

	sender, err := cfg.OpenSender(logger)
	if err != nil {
		_ = store.Close()
		_ = repo.Close()
		return nil, err
	}

	clock := metrics.SystemClock{}
	scorer := scoring.NewScorer(metrics.Deps{
		Store:    store,
		Source:   source,
		Settings: st,
		Clock:    clock,
		Location: loc,
		Logger:   logger,
	})
	dispatcher := alerts.NewDispatcher(repo, sender, logger)

	return &services{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		store:    store,
		notifier: sender,
		settings: st,
		clock:    clock,
		loc:      loc,
		agg:      scoring.NewAggregator(store.Identity, scorer),
		analyzer: alerts.NewAnalyzer(store, dispatcher, st, clock, loc, logger),
	}, nil
}

func (s *services) orchestrator() *tasks.Orchestrator {
	return tasks.New(tasks.Config{
		Tasks:        s.repo,
		Scorer:       s.agg,
		Analyzer:     s.analyzer,
		Clock:        s.clock,
		Location:     s.loc,
		PollInterval: s.cfg.Tasks.PollInterval,
		Logger:       s.logger,
	})
}

func (s *services) userID(ctx context.Context) (string, error) {
	return s.agg.UserID(ctx)
}

func (s *services) today() time.Time {
	return models.StartOfDay(s.clock.Now(), s.loc)
}

// day parses a --date value, defaulting to today.
func (s *services) day(value string) (time.Time, error) {
	if value == "" {
		return s.today(), nil
	}
	d, err := models.ParseDay(value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", value)
	}
	return d, nil
}

func (s *services) Close() error {
	_ = s.logger.Sync()
	return errors.Join(s.notifier.Close(), s.store.Close(), s.repo.Close())
}
