// ABOUTME: Tests for elevated heart rate time and sleep totals.
// ABOUTME: Exercise exclusion bounds are inclusive.
package biometrics

import (
	"testing"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/stretchr/testify/assert"
)

func hr(base time.Time, minute int, bpm float64) models.HeartRateSample {
	return models.HeartRateSample{Timestamp: base.Add(time.Duration(minute) * time.Minute), BPM: bpm}
}

func TestElevatedTimeEmpty(t *testing.T) {
	assert.Equal(t, 0.0, ElevatedTime(nil, nil, 24*time.Hour, 75))
}

func TestElevatedTimeCountsGapsAndTail(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// max 200 => target 150
	samples := []models.HeartRateSample{
		hr(base, 30, 160), // elevated, owns 30 min gap
		hr(base, 0, 100),
		hr(base, 60, 120),
		hr(base, 90, 200), // last, elevated, owns 86400/4
	}
	got := ElevatedTime(samples, nil, 24*time.Hour, 75)
	assert.InDelta(t, 1800+86400.0/4, got, 1e-9)
}

func TestElevatedTimeExcludesExercise(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := []models.HeartRateSample{
		hr(base, 0, 180),
		hr(base, 10, 180),
		hr(base, 20, 100),
	}
	exercise := []models.Interval{{Start: base, End: base.Add(10 * time.Minute)}}
	// both elevated samples fall on inclusive interval bounds
	assert.Equal(t, 0.0, ElevatedTime(samples, exercise, 24*time.Hour, 75))
}

func TestTotals(t *testing.T) {
	base := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	segments := []models.SleepSegment{
		{State: models.SleepInBed, StartedAt: base, EndedAt: base.Add(30 * time.Minute)},
		{State: models.SleepAsleep, StartedAt: base.Add(30 * time.Minute), EndedAt: base.Add(7*time.Hour + 30*time.Minute)},
	}
	got := Totals(segments)
	assert.Equal(t, 7*3600.0, got.Sleep)
	assert.Equal(t, 7.5*3600, got.InBed)
}
