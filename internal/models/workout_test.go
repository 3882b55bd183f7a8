// ABOUTME: Tests for the Workout model.
// ABOUTME: Verifies builders and the exercise interval view.
package models

import (
	"testing"
	"time"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout("run").WithDuration(30).WithNotes("tempo")

	if w.WorkoutType != "run" {
		t.Errorf("WorkoutType = %s, want run", w.WorkoutType)
	}
	if w.DurationMinutes != 30 {
		t.Errorf("DurationMinutes = %d, want 30", w.DurationMinutes)
	}
	if w.Notes == nil || *w.Notes != "tempo" {
		t.Error("expected notes to be set")
	}
}

func TestWorkoutInterval(t *testing.T) {
	start := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	w := NewWorkout("lift").WithStartedAt(start).WithDuration(45)
	iv := w.Interval()

	if !iv.End.Equal(start.Add(45 * time.Minute)) {
		t.Errorf("End = %v", iv.End)
	}
	if !iv.Contains(start) || !iv.Contains(iv.End) {
		t.Error("interval bounds should be inclusive")
	}
	if iv.Contains(iv.End.Add(time.Second)) {
		t.Error("interval should not contain time after end")
	}
}

func TestSleepSegmentDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	s := NewSleepSegment(SleepAsleep, start, start.Add(7*time.Hour))
	if s.Duration() != 7*time.Hour {
		t.Errorf("Duration = %v", s.Duration())
	}
	neg := NewSleepSegment(SleepInBed, start, start.Add(-time.Hour))
	if neg.Duration() != 0 {
		t.Errorf("negative segment Duration = %v, want 0", neg.Duration())
	}
}
