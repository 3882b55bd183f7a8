// ABOUTME: Source backed by the device sample log in SQLite.
// ABOUTME: Aggregates samples, workouts, and sleep segments per calendar day.
package biometrics

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// SampleLog is the slice of storage.Repository the local source reads.
type SampleLog interface {
	ListSamplesBetween(ctx context.Context, sampleType models.SampleType, from, to time.Time) ([]*models.Sample, error)
	ListWorkoutsBetween(ctx context.Context, from, to time.Time) ([]*models.Workout, error)
	ListSleepSegmentsBetween(ctx context.Context, from, to time.Time) ([]*models.SleepSegment, error)
}

// LocalSource implements Source over a SampleLog.
type LocalSource struct {
	log SampleLog
}

// NewLocalSource wraps log.
func NewLocalSource(log SampleLog) *LocalSource {
	return &LocalSource{log: log}
}

// DailyAggregate implements Source.
func (s *LocalSource) DailyAggregate(ctx context.Context, kind models.MetricKind, day time.Time) (float64, error) {
	start, end := DayBounds(day)

	if kind == models.KindExerciseMinutes {
		workouts, err := s.log.ListWorkoutsBetween(ctx, start, end)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		var minutes float64
		for _, w := range workouts {
			minutes += float64(w.DurationMinutes)
		}
		return minutes, nil
	}

	sampleType, ok := models.SampleTypeForKind[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	samples, err := s.log.ListSamplesBetween(ctx, sampleType, start, end)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(samples) == 0 {
		return 0, nil
	}

	var total float64
	for _, sample := range samples {
		total += sample.Value
	}
	if kind.Info().Aggregation == models.AggregateAverage {
		return total / float64(len(samples)), nil
	}
	return total, nil
}

// SleepSegments returns segments that end within the day, so last night's
// sleep counts toward today.
func (s *LocalSource) SleepSegments(ctx context.Context, day time.Time) ([]models.SleepSegment, error) {
	start, end := DayBounds(day)
	segments, err := s.log.ListSleepSegmentsBetween(ctx, models.AddDays(start, -1), end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var out []models.SleepSegment
	for _, seg := range segments {
		if seg.EndedAt.After(start) && !seg.EndedAt.After(end) {
			out = append(out, *seg)
		}
	}
	return out, nil
}

// HeartRateSamples implements Source.
func (s *LocalSource) HeartRateSamples(ctx context.Context, day time.Time) ([]models.HeartRateSample, error) {
	start, end := DayBounds(day)
	samples, err := s.log.ListSamplesBetween(ctx, models.SampleHeartRate, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	out := make([]models.HeartRateSample, 0, len(samples))
	for _, sample := range samples {
		out = append(out, models.HeartRateSample{Timestamp: sample.RecordedAt, BPM: sample.Value})
	}
	return out, nil
}

// ExerciseIntervals implements Source.
func (s *LocalSource) ExerciseIntervals(ctx context.Context, day time.Time) ([]models.Interval, error) {
	start, end := DayBounds(day)
	workouts, err := s.log.ListWorkoutsBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	out := make([]models.Interval, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, w.Interval())
	}
	return out, nil
}
