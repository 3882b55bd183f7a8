// ABOUTME: Derived signals computed from raw samples: elevated HR time and sleep totals.
// ABOUTME: Pure functions shared by every source implementation.
package biometrics

import (
	"sort"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// ElevatedTime returns the seconds spent above thresholdPct of the day's
// maximum heart rate outside exercise. Each elevated sample owns the gap to
// the next sample; the last one owns dayLength divided by the sample count.
func ElevatedTime(samples []models.HeartRateSample, exercise []models.Interval, dayLength time.Duration, thresholdPct float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]models.HeartRateSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	var maxHR float64
	for _, s := range sorted {
		if s.BPM > maxHR {
			maxHR = s.BPM
		}
	}
	target := maxHR * thresholdPct / 100

	var total float64
	for i, s := range sorted {
		if s.BPM <= target || inAny(exercise, s.Timestamp) {
			continue
		}
		if i < len(sorted)-1 {
			total += sorted[i+1].Timestamp.Sub(s.Timestamp).Seconds()
		} else {
			total += dayLength.Seconds() / float64(len(sorted))
		}
	}
	return total
}

func inAny(intervals []models.Interval, t time.Time) bool {
	for _, iv := range intervals {
		if iv.Contains(t) {
			return true
		}
	}
	return false
}

// SleepTotals splits segments into asleep and in-bed seconds.
type SleepTotals struct {
	Sleep float64
	InBed float64
}

// Totals sums segment durations. Asleep counts toward both totals.
func Totals(segments []models.SleepSegment) SleepTotals {
	var t SleepTotals
	for _, s := range segments {
		d := s.Duration().Seconds()
		switch s.State {
		case models.SleepAsleep:
			t.Sleep += d
			t.InBed += d
		case models.SleepInBed:
			t.InBed += d
		}
	}
	return t
}
