// ABOUTME: Source backed by a remote health-data HTTP API via resty.
// ABOUTME: Transport, auth, and server failures map to ErrSourceUnavailable.
package biometrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/harperreed/bandwidth/internal/models"
	"go.uber.org/zap"
)

// HTTPConfig configures the remote source.
type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retries int
}

// HTTPSource implements Source against /v1 endpoints.
type HTTPSource struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

type valueResponse struct {
	Value float64 `json:"value"`
}

type segmentsResponse struct {
	Segments []struct {
		Start time.Time         `json:"start"`
		End   time.Time         `json:"end"`
		State models.SleepState `json:"state"`
	} `json:"segments"`
}

type samplesResponse struct {
	Samples []models.HeartRateSample `json:"samples"`
}

type intervalsResponse struct {
	Intervals []models.Interval `json:"intervals"`
}

// NewHTTPSource builds a client for cfg.
func NewHTTPSource(cfg HTTPConfig, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &HTTPSource{httpClient: client, logger: logger}
}

func (s *HTTPSource) get(ctx context.Context, path string, day time.Time, result any) error {
	dayKey := day.Format(models.DayLayout)
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("date", dayKey).
		SetResult(result).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("health API call failed", zap.String("path", path), zap.String("date", dayKey), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized, code == http.StatusForbidden, code >= http.StatusInternalServerError:
		s.logger.Warn("health API unavailable", zap.String("path", path), zap.Int("status_code", code))
		return fmt.Errorf("%w: %s returned %d", ErrSourceUnavailable, path, code)
	case code >= http.StatusBadRequest:
		return fmt.Errorf("health API %s returned %d: %s", path, code, resp.String())
	}
	return nil
}

// DailyAggregate implements Source.
func (s *HTTPSource) DailyAggregate(ctx context.Context, kind models.MetricKind, day time.Time) (float64, error) {
	if kind.IsComputed() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	var out valueResponse
	if err := s.get(ctx, "/v1/aggregates/"+kind.CacheKey(), day, &out); err != nil {
		return 0, err
	}
	return out.Value, nil
}

// SleepSegments implements Source.
func (s *HTTPSource) SleepSegments(ctx context.Context, day time.Time) ([]models.SleepSegment, error) {
	var out segmentsResponse
	if err := s.get(ctx, "/v1/sleep", day, &out); err != nil {
		return nil, err
	}
	segments := make([]models.SleepSegment, 0, len(out.Segments))
	for _, seg := range out.Segments {
		segments = append(segments, models.SleepSegment{State: seg.State, StartedAt: seg.Start, EndedAt: seg.End})
	}
	return segments, nil
}

// HeartRateSamples implements Source.
func (s *HTTPSource) HeartRateSamples(ctx context.Context, day time.Time) ([]models.HeartRateSample, error) {
	var out samplesResponse
	if err := s.get(ctx, "/v1/heart-rate", day, &out); err != nil {
		return nil, err
	}
	return out.Samples, nil
}

// ExerciseIntervals implements Source.
func (s *HTTPSource) ExerciseIntervals(ctx context.Context, day time.Time) ([]models.Interval, error) {
	var out intervalsResponse
	if err := s.get(ctx, "/v1/exercise", day, &out); err != nil {
		return nil, err
	}
	return out.Intervals, nil
}
