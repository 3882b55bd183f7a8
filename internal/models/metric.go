// ABOUTME: Sample model and SampleType enum for the device biometric log.
// ABOUTME: Samples are the raw readings the local biometric source aggregates.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SampleType is the kind of reading stored in the sample log.
type SampleType string

const (
	SampleHeartRate        SampleType = "heart_rate"
	SampleHRV              SampleType = "hrv"
	SampleRestingHeartRate SampleType = "resting_heart_rate"
	SampleSteps            SampleType = "steps"
	SampleActiveEnergy     SampleType = "active_energy"
)

// SampleUnits maps sample types to their display units.
var SampleUnits = map[SampleType]string{
	SampleHeartRate:        "bpm",
	SampleHRV:              "ms",
	SampleRestingHeartRate: "bpm",
	SampleSteps:            "steps",
	SampleActiveEnergy:     "kcal",
}

// AllSampleTypes returns all valid sample types.
var AllSampleTypes = []SampleType{
	SampleHeartRate, SampleHRV, SampleRestingHeartRate, SampleSteps, SampleActiveEnergy,
}

// SampleTypeForKind maps an aggregated metric kind to the samples it is built from.
var SampleTypeForKind = map[MetricKind]SampleType{
	KindRestingHeartRate:     SampleRestingHeartRate,
	KindHeartRateVariability: SampleHRV,
	KindSteps:                SampleSteps,
	KindActiveEnergy:         SampleActiveEnergy,
}

// IsValidSampleType checks if a string is a valid sample type.
func IsValidSampleType(s string) bool {
	for _, st := range AllSampleTypes {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Sample is a single timestamped reading.
type Sample struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	SampleType SampleType `json:"sample_type" yaml:"sample_type"`
	Value      float64    `json:"value" yaml:"value"`
	Unit       string     `json:"unit" yaml:"unit"`
	RecordedAt time.Time  `json:"recorded_at" yaml:"recorded_at"`
	Notes      *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// NewSample creates a new Sample with generated UUID and current timestamp.
func NewSample(sampleType SampleType, value float64) *Sample {
	now := time.Now()
	return &Sample{
		ID:         uuid.New(),
		SampleType: sampleType,
		Value:      value,
		Unit:       SampleUnits[sampleType],
		RecordedAt: now,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (s *Sample) WithRecordedAt(t time.Time) *Sample {
	s.RecordedAt = t
	return s
}

// WithNotes sets notes on the sample.
func (s *Sample) WithNotes(notes string) *Sample {
	s.Notes = &notes
	return s
}
