// ABOUTME: Tests for the resty-backed HTTP source.
// ABOUTME: Uses httptest servers to check decoding and failure mapping.
package biometrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceDailyAggregate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/aggregates/hrv", r.URL.Path)
		assert.Equal(t, "2024-03-03", r.URL.Query().Get("date"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]float64{"value": 48.5})
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{BaseURL: srv.URL, Token: "secret"}, nil)
	v, err := src.DailyAggregate(context.Background(), models.KindHeartRateVariability, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 48.5, v)
}

func TestHTTPSourceSamplesAndSegments(t *testing.T) {
	ts := time.Date(2024, 3, 3, 1, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/heart-rate":
			_ = json.NewEncoder(w).Encode(map[string]any{"samples": []map[string]any{{"timestamp": ts, "bpm": 88}}})
		case "/v1/sleep":
			_ = json.NewEncoder(w).Encode(map[string]any{"segments": []map[string]any{{"start": ts, "end": ts.Add(time.Hour), "state": "asleep"}}})
		case "/v1/exercise":
			_ = json.NewEncoder(w).Encode(map[string]any{"intervals": []map[string]any{{"start": ts, "end": ts.Add(time.Hour)}}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{BaseURL: srv.URL}, nil)
	ctx := context.Background()

	samples, err := src.HeartRateSamples(ctx, ts)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 88.0, samples[0].BPM)

	segments, err := src.SleepSegments(ctx, ts)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, time.Hour, segments[0].Duration())

	intervals, err := src.ExerciseIntervals(ctx, ts)
	require.NoError(t, err)
	assert.Len(t, intervals, 1)
}

func TestHTTPSourceUnavailable(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		src := NewHTTPSource(HTTPConfig{BaseURL: srv.URL}, nil)
		_, err := src.DailyAggregate(context.Background(), models.KindSteps, time.Now())
		assert.ErrorIs(t, err, ErrSourceUnavailable, "status %d", code)
		srv.Close()
	}
}

func TestHTTPSourceClientErrorIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{BaseURL: srv.URL}, nil)
	_, err := src.DailyAggregate(context.Background(), models.KindSteps, time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
}

func TestHTTPSourceRejectsComputedKinds(t *testing.T) {
	src := NewHTTPSource(HTTPConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	_, err := src.DailyAggregate(context.Background(), models.KindBandwidth, time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
