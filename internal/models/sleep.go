// ABOUTME: Sleep segment model.
// ABOUTME: Segments are either asleep or merely in bed.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SleepState distinguishes actual sleep from time in bed.
type SleepState string

const (
	SleepAsleep SleepState = "asleep"
	SleepInBed  SleepState = "in_bed"
)

// IsValidSleepState checks if a string is a valid sleep state.
func IsValidSleepState(s string) bool {
	return s == string(SleepAsleep) || s == string(SleepInBed)
}

// SleepSegment is one contiguous sleep or in-bed period.
type SleepSegment struct {
	ID        uuid.UUID  `json:"id" yaml:"id"`
	State     SleepState `json:"state" yaml:"state"`
	StartedAt time.Time  `json:"started_at" yaml:"started_at"`
	EndedAt   time.Time  `json:"ended_at" yaml:"ended_at"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
}

// NewSleepSegment creates a segment with a generated UUID.
func NewSleepSegment(state SleepState, start, end time.Time) *SleepSegment {
	return &SleepSegment{
		ID:        uuid.New(),
		State:     state,
		StartedAt: start,
		EndedAt:   end,
		CreatedAt: time.Now(),
	}
}

// Duration is the segment length, never negative.
func (s SleepSegment) Duration() time.Duration {
	if s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// HeartRateSample is a single bpm reading.
type HeartRateSample struct {
	Timestamp time.Time `json:"timestamp"`
	BPM       float64   `json:"bpm"`
}
