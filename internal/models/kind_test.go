// ABOUTME: Tests for the metric kind registry and day helpers.
// ABOUTME: Checks cache keys, namespaces, and DST-safe day arithmetic.
package models

import (
	"testing"
	"time"
)

func TestKindRegistry(t *testing.T) {
	tests := []struct {
		kind     MetricKind
		key      string
		computed bool
		ns       Namespace
	}{
		{KindRestingHeartRate, "rhr", false, NamespaceRaw},
		{KindHeartRateVariability, "hrv", false, NamespaceRaw},
		{KindSleepTime, "sleepTime", false, NamespaceRaw},
		{KindElevatedHeartRateTime, "elevatedHeartRateTime", false, NamespaceRaw},
		{KindHeartRateComponent, "heartRateComponent", true, NamespaceComputed},
		{KindBandwidth, "bandwidth", true, NamespaceComputed},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.CacheKey(); got != tt.key {
				t.Errorf("CacheKey() = %s, want %s", got, tt.key)
			}
			if got := tt.kind.IsComputed(); got != tt.computed {
				t.Errorf("IsComputed() = %v, want %v", got, tt.computed)
			}
			if got := tt.kind.Namespace(); got != tt.ns {
				t.Errorf("Namespace() = %s, want %s", got, tt.ns)
			}
		})
	}
}

func TestAllKindsCache(t *testing.T) {
	for _, k := range append(append([]MetricKind{}, RawKinds...), ComputedKinds...) {
		info, ok := Lookup(k)
		if !ok {
			t.Fatalf("kind %s not registered", k)
		}
		if !info.ShouldCache {
			t.Errorf("kind %s should cache", k)
		}
	}
}

func TestDocumentPath(t *testing.T) {
	got := DocumentPath("u1", NamespaceComputed, "2024-03-05")
	if got != "users/u1/computedData/2024-03-05" {
		t.Errorf("DocumentPath = %s", got)
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
	prev := AddDays(day, -1)
	if prev.Format(DayLayout) != "2024-03-10" || prev.Hour() != 0 {
		t.Errorf("AddDays(-1) = %v", prev)
	}
}

func TestDayKeyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC)
	if got := DayKey(ts, loc); got != "2024-06-01" {
		t.Errorf("DayKey = %s, want 2024-06-01", got)
	}
	if !SameDay(ts, time.Date(2024, 6, 1, 12, 0, 0, 0, loc), loc) {
		t.Error("expected same day")
	}
}
