// ABOUTME: Workout model for exercise sessions.
// ABOUTME: Workouts double as the exercise intervals excluded from elevated heart rate.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout represents an exercise session.
type Workout struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	WorkoutType     string    `json:"workout_type" yaml:"workout_type"`
	StartedAt       time.Time `json:"started_at" yaml:"started_at"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Notes           *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(workoutType string) *Workout {
	now := time.Now()
	return &Workout{
		ID:          uuid.New(),
		WorkoutType: workoutType,
		StartedAt:   now,
		CreatedAt:   now,
	}
}

// WithDuration sets the duration in minutes.
func (w *Workout) WithDuration(minutes int) *Workout {
	w.DurationMinutes = minutes
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = &notes
	return w
}

// WithStartedAt sets a custom start timestamp.
func (w *Workout) WithStartedAt(t time.Time) *Workout {
	w.StartedAt = t
	return w
}

// EndedAt is StartedAt plus the duration.
func (w *Workout) EndedAt() time.Time {
	return w.StartedAt.Add(time.Duration(w.DurationMinutes) * time.Minute)
}

// Interval returns the workout as an exercise interval.
func (w *Workout) Interval() Interval {
	return Interval{Start: w.StartedAt, End: w.EndedAt()}
}

// Interval is a closed time range.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the interval, bounds included.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}
