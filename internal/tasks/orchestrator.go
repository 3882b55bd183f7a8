// ABOUTME: Orchestrator claims pending daily tasks, scores them, and runs alert analysis.
// ABOUTME: At most one task is processed at a time; overlapping tasks are dropped.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/bandwidth/internal/alerts"
	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/storage"
	"go.uber.org/zap"
)

// ErrBusy is returned when a task arrives while another is processing.
var ErrBusy = errors.New("already processing a task")

// DefaultPollInterval is how often Listen checks for a pending task.
const DefaultPollInterval = 30 * time.Second

const failWriteTimeout = 10 * time.Second

// TaskStore is the task storage the orchestrator needs.
type TaskStore interface {
	LatestPendingTask(ctx context.Context, userID string) (*models.DailyTask, error)
	CompleteTask(ctx context.Context, id string, score float64, processedAt time.Time) error
	FailTask(ctx context.Context, id, message string, processedAt time.Time) error
}

// Scorer computes a user's bandwidth score.
type Scorer interface {
	UserID(ctx context.Context) (string, error)
	ScoreFor(ctx context.Context, userID string, day time.Time) (float64, error)
}

// Analyzer runs partner alert analysis.
type Analyzer interface {
	Analyze(ctx context.Context, userID string, score float64, day time.Time) (alerts.Outcome, error)
}

// Result reports one processed task.
type Result struct {
	TaskID  uuid.UUID
	UserID  string
	Day     string
	Score   float64
	Outcome alerts.Outcome
	Err     error
}

// Config wires an Orchestrator.
type Config struct {
	Tasks        TaskStore
	Scorer       Scorer
	Analyzer     Analyzer
	Clock        metrics.Clock
	Location     *time.Location
	PollInterval time.Duration
	Logger       *zap.Logger
}

// Orchestrator is a session-scoped task processor.
type Orchestrator struct {
	tasks    TaskStore
	scorer   Scorer
	analyzer Analyzer
	clock    metrics.Clock
	loc      *time.Location
	interval time.Duration
	logger   *zap.Logger

	processing atomic.Bool
	completed  chan Result

	mu            sync.Mutex
	lastErr       error
	lastProcessed time.Time
	cancel        context.CancelFunc
}

// New builds an Orchestrator.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		tasks:     cfg.Tasks,
		scorer:    cfg.Scorer,
		analyzer:  cfg.Analyzer,
		clock:     cfg.Clock,
		loc:       cfg.Location,
		interval:  cfg.PollInterval,
		logger:    cfg.Logger,
		completed: make(chan Result, 1),
	}
	if o.clock == nil {
		o.clock = metrics.SystemClock{}
	}
	if o.loc == nil {
		o.loc = time.Local
	}
	if o.interval <= 0 {
		o.interval = DefaultPollInterval
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// IsProcessing reports whether a task is in flight.
func (o *Orchestrator) IsProcessing() bool { return o.processing.Load() }

// LastError is the most recent task or analysis failure. A later clean task clears it.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// LastProcessed is when the last task finished successfully.
func (o *Orchestrator) LastProcessed() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastProcessed
}

// Completed delivers task results. Results are dropped if nobody reads them.
func (o *Orchestrator) Completed() <-chan Result { return o.completed }

// Listen polls for the bound user's pending task until ctx ends or Stop is
// called. Tasks run in the background; one arriving mid-run is ignored.
func (o *Orchestrator) Listen(ctx context.Context) error {
	userID, err := o.scorer.UserID(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()
	defer cancel()

	log := o.logger.With(zap.String("user_id", userID))
	log.Info("listening for daily tasks", zap.Duration("interval", o.interval))

	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		o.poll(ctx, log, userID, &wg)
		select {
		case <-ctx.Done():
			log.Info("stopped listening")
			return nil
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) poll(ctx context.Context, log *zap.Logger, userID string, wg *sync.WaitGroup) {
	if o.IsProcessing() {
		return
	}
	task, err := o.tasks.LatestPendingTask(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || ctx.Err() != nil {
			return
		}
		log.Warn("poll for tasks failed", zap.Error(err))
		o.setErr(err)
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := o.Process(ctx, task); err != nil && !errors.Is(err, ErrBusy) {
			log.Debug("task finished with error", zap.Error(err))
		}
	}()
}

// Stop cancels Listen and any in-flight task.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// Process scores task's day, runs alert analysis, and marks the task.
// Analysis failures are recorded but do not fail the task.
func (o *Orchestrator) Process(ctx context.Context, task *models.DailyTask) error {
	if !o.processing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer o.processing.Store(false)

	day := models.StartOfDay(task.Timestamp, o.loc)
	dayKey := day.Format(models.DayLayout)
	log := o.logger.With(zap.String("task_id", task.ID.String()), zap.String("user_id", task.UserID), zap.String("date", dayKey))
	log.Info("processing daily task")

	result := Result{TaskID: task.ID, UserID: task.UserID, Day: dayKey}

	score, err := o.scorer.ScoreFor(ctx, task.UserID, day)
	if err != nil {
		return o.fail(ctx, log, task, result, err)
	}
	result.Score = score

	outcome, analyzeErr := o.analyzer.Analyze(ctx, task.UserID, score, day)
	if analyzeErr != nil {
		log.Warn("alert analysis failed", zap.Error(analyzeErr))
		o.setErr(analyzeErr)
	}
	result.Outcome = outcome

	if err := o.tasks.CompleteTask(ctx, task.ID.String(), score, o.clock.Now()); err != nil {
		return o.fail(ctx, log, task, result, err)
	}

	o.mu.Lock()
	o.lastProcessed = o.clock.Now()
	if analyzeErr == nil {
		o.lastErr = nil
	}
	o.mu.Unlock()

	log.Info("daily task completed", zap.Float64("score", score), zap.String("outcome", string(outcome)))
	o.emit(result)
	return nil
}

func (o *Orchestrator) fail(ctx context.Context, log *zap.Logger, task *models.DailyTask, result Result, cause error) error {
	err := fmt.Errorf("process daily task: %w", cause)
	log.Error("daily task failed", zap.Error(cause))
	o.setErr(err)

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failWriteTimeout)
	defer cancel()
	message := FailureMessage(cause)
	if markErr := o.tasks.FailTask(wctx, task.ID.String(), message, o.clock.Now()); markErr != nil {
		log.Error("could not mark task failed", zap.Error(markErr))
	}

	result.Err = err
	o.emit(result)
	return err
}

// FailureMessage is the text stored on a failed task.
func FailureMessage(cause error) string {
	return "Failed to process daily task: " + cause.Error()
}

func (o *Orchestrator) setErr(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = err
}

func (o *Orchestrator) emit(r Result) {
	select {
	case o.completed <- r:
	default:
	}
}
