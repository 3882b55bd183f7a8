// ABOUTME: Fixture is an in-memory Source keyed by day for tests and demos.
// ABOUTME: It counts calls so callers can assert that caching skipped the source.
package biometrics

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// Fixture serves canned values. Missing days return zero.
type Fixture struct {
	mu         sync.Mutex
	aggregates map[string]map[models.MetricKind]float64
	sleep      map[string][]models.SleepSegment
	heartRate  map[string][]models.HeartRateSample
	exercise   map[string][]models.Interval
	calls      int
	Err        error
}

// NewFixture returns an empty fixture.
func NewFixture() *Fixture {
	return &Fixture{
		aggregates: map[string]map[models.MetricKind]float64{},
		sleep:      map[string][]models.SleepSegment{},
		heartRate:  map[string][]models.HeartRateSample{},
		exercise:   map[string][]models.Interval{},
	}
}

func fixtureKey(day time.Time) string { return day.Format(models.DayLayout) }

// Set stores an aggregate value for kind on day.
func (f *Fixture) Set(day time.Time, kind models.MetricKind, v float64) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := fixtureKey(day)
	if f.aggregates[k] == nil {
		f.aggregates[k] = map[models.MetricKind]float64{}
	}
	f.aggregates[k][kind] = v
	return f
}

// SetSleep stores sleep segments for day.
func (f *Fixture) SetSleep(day time.Time, segments ...models.SleepSegment) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleep[fixtureKey(day)] = segments
	return f
}

// SetHeartRate stores heart rate samples for day.
func (f *Fixture) SetHeartRate(day time.Time, samples ...models.HeartRateSample) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartRate[fixtureKey(day)] = samples
	return f
}

// SetExercise stores exercise intervals for day.
func (f *Fixture) SetExercise(day time.Time, intervals ...models.Interval) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exercise[fixtureKey(day)] = intervals
	return f
}

// Calls is the number of source reads so far.
func (f *Fixture) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fixture) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.Err
}

// DailyAggregate implements Source.
func (f *Fixture) DailyAggregate(_ context.Context, kind models.MetricKind, day time.Time) (float64, error) {
	if err := f.begin(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aggregates[fixtureKey(day)][kind], nil
}

// SleepSegments implements Source.
func (f *Fixture) SleepSegments(_ context.Context, day time.Time) ([]models.SleepSegment, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sleep[fixtureKey(day)], nil
}

// HeartRateSamples implements Source.
func (f *Fixture) HeartRateSamples(_ context.Context, day time.Time) ([]models.HeartRateSample, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heartRate[fixtureKey(day)], nil
}

// ExerciseIntervals implements Source.
func (f *Fixture) ExerciseIntervals(_ context.Context, day time.Time) ([]models.Interval, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exercise[fixtureKey(day)], nil
}

var _ Source = (*Fixture)(nil)
