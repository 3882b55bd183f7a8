// ABOUTME: Calendar-day helpers and the day-document path scheme.
// ABOUTME: All cached values are keyed by a local calendar day, never finer.
package models

import (
	"fmt"
	"time"
)

// DayLayout is the date format used in document paths.
const DayLayout = "2006-01-02"

// SecondsPerDay is the length of a nominal day.
const SecondsPerDay = 86400

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a day boundary by n calendar days in its own location.
func AddDays(day time.Time, n int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+n, 0, 0, 0, 0, day.Location())
}

// DayKey formats t as YYYY-MM-DD in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return StartOfDay(t, loc).Format(DayLayout)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc) == DayKey(b, loc)
}

// ParseDay parses YYYY-MM-DD as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// DocumentPath returns users/{userID}/{namespace}/{YYYY-MM-DD}.
func DocumentPath(userID string, ns Namespace, dayKey string) string {
	return fmt.Sprintf("users/%s/%s/%s", userID, ns, dayKey)
}
