// ABOUTME: Percentile rank of a score within a history and the alert windows.
// ABOUTME: Windows are fixed local-time hours compared in whole minutes, inclusive.
package alerts

import (
	"sort"
	"time"
)

// LowPercentile is the inclusive rank at or below which an alert fires.
const LowPercentile = 0.20

// PercentileRank is the index of the first history value >= current divided
// by the history length. ok is false for an empty history.
func PercentileRank(current float64, history []float64) (rank float64, ok bool) {
	if len(history) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(history))
	copy(sorted, history)
	sort.Float64s(sorted)

	pos := sort.SearchFloat64s(sorted, current)
	return float64(pos) / float64(len(sorted)), true
}

// Window is a daily alert window from StartHour:00 through the whole EndHour:00 minute.
type Window struct {
	Name      string
	StartHour int
	EndHour   int
}

// Windows are the two daily alert windows.
var Windows = []Window{
	{Name: "early", StartHour: 16, EndHour: 17},
	{Name: "late", StartHour: 18, EndHour: 19},
}

// Contains reports whether t's wall-clock time in loc is inside w.
func (w Window) Contains(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= w.StartHour*60 && minutes <= w.EndHour*60
}

// WindowAt returns the window containing t, if any.
func WindowAt(t time.Time, loc *time.Location) (Window, bool) {
	for _, w := range Windows {
		if w.Contains(t, loc) {
			return w, true
		}
	}
	return Window{}, false
}
