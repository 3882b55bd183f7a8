// ABOUTME: Tests for Sample model and SampleType.
// ABOUTME: Validates type constants, units mapping, and constructor.
package models

import (
	"testing"
)

func TestSampleTypeUnit(t *testing.T) {
	tests := []struct {
		sampleType SampleType
		wantUnit   string
	}{
		{SampleHeartRate, "bpm"},
		{SampleHRV, "ms"},
		{SampleSteps, "steps"},
		{SampleActiveEnergy, "kcal"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sampleType), func(t *testing.T) {
			got := SampleUnits[tt.sampleType]
			if got != tt.wantUnit {
				t.Errorf("SampleUnits[%s] = %s, want %s", tt.sampleType, got, tt.wantUnit)
			}
		})
	}
}

func TestNewSample(t *testing.T) {
	s := NewSample(SampleHRV, 48)

	if s.ID.String() == "" {
		t.Error("expected UUID to be set")
	}
	if s.SampleType != SampleHRV {
		t.Errorf("SampleType = %s, want hrv", s.SampleType)
	}
	if s.Unit != "ms" {
		t.Errorf("Unit = %s, want ms", s.Unit)
	}
	if s.RecordedAt.IsZero() {
		t.Error("expected RecordedAt to be set")
	}
}

func TestAllSampleTypesHaveUnits(t *testing.T) {
	for _, st := range AllSampleTypes {
		if _, ok := SampleUnits[st]; !ok {
			t.Errorf("sample type %s has no unit", st)
		}
	}
}

func TestIsValidSampleType(t *testing.T) {
	if !IsValidSampleType("heart_rate") {
		t.Error("heart_rate should be valid")
	}
	if IsValidSampleType("weight") {
		t.Error("weight should not be valid")
	}
}
