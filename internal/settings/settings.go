// ABOUTME: Per-user scoring settings: category toggles and weight maps.
// ABOUTME: Includes defaults, validation, and main-weight redistribution.
package settings

import (
	"fmt"
	"math"
)

// Category is one of the three scoring categories.
type Category string

const (
	CategorySleep     Category = "sleep"
	CategoryExercise  Category = "exercise"
	CategoryHeartRate Category = "heartRate"
)

// Categories is the fixed redistribution order.
var Categories = []Category{CategorySleep, CategoryExercise, CategoryHeartRate}

// Recency weight keys.
const (
	CurrentDay = "currentDay"
	Yesterday  = "yesterday"
	TwoDaysAgo = "twoDaysAgo"
)

// RecencyKeys maps a days-ago offset to its weight key.
var RecencyKeys = [3]string{CurrentDay, Yesterday, TwoDaysAgo}

// Exercise weight keys.
const (
	ExerciseMinutes  = "minutes"
	ExerciseCalories = "calories"
	ExerciseSteps    = "steps"
)

// Heart rate weight keys.
const (
	HeartRateElevated    = "elevated"
	HeartRateVariability = "variability"
	HeartRateResting     = "resting"
)

const (
	DefaultElevatedThreshold = 75
	DefaultAveragingDays     = 30
	MinElevatedThreshold     = 60
	MaxElevatedThreshold     = 90

	weightTolerance = 0.1
)

// AveragingPeriods are the accepted baseline window lengths.
var AveragingPeriods = []int{30, 60, 90}

// Settings configures how a user's bandwidth score is computed.
type Settings struct {
	SleepEnabled               bool               `json:"sleepEnabled"`
	ExerciseEnabled            bool               `json:"exerciseEnabled"`
	HeartRateEnabled           bool               `json:"heartRateEnabled"`
	MainWeights                map[string]float64 `json:"mainWeights"`
	RecentDaysWeights          map[string]float64 `json:"recentDaysWeights"`
	ExerciseWeights            map[string]float64 `json:"exerciseWeights"`
	HeartRateWeights           map[string]float64 `json:"heartRateWeights"`
	ElevatedHeartRateThreshold float64            `json:"elevatedHeartRateThreshold"`
	AveragingPeriodDays        int                `json:"averagingPeriodDays"`
}

func defaultExerciseWeights() map[string]float64 {
	return map[string]float64{ExerciseMinutes: 50, ExerciseCalories: 30, ExerciseSteps: 20}
}

func defaultHeartRateWeights() map[string]float64 {
	return map[string]float64{HeartRateElevated: 40, HeartRateVariability: 35, HeartRateResting: 25}
}

func zeroWeights(keys ...string) map[string]float64 {
	m := make(map[string]float64, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}

// Default returns the out-of-the-box settings: exercise and heart rate on, sleep off.
func Default() Settings {
	return Settings{
		SleepEnabled:     false,
		ExerciseEnabled:  true,
		HeartRateEnabled: true,
		MainWeights: map[string]float64{
			string(CategorySleep):     0,
			string(CategoryExercise):  60,
			string(CategoryHeartRate): 40,
		},
		RecentDaysWeights:          map[string]float64{CurrentDay: 70, Yesterday: 20, TwoDaysAgo: 10},
		ExerciseWeights:            defaultExerciseWeights(),
		HeartRateWeights:           defaultHeartRateWeights(),
		ElevatedHeartRateThreshold: DefaultElevatedThreshold,
		AveragingPeriodDays:        DefaultAveragingDays,
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	c := s
	c.MainWeights = cloneMap(s.MainWeights)
	c.RecentDaysWeights = cloneMap(s.RecentDaysWeights)
	c.ExerciseWeights = cloneMap(s.ExerciseWeights)
	c.HeartRateWeights = cloneMap(s.HeartRateWeights)
	return c
}

func cloneMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Enabled reports whether a category is switched on.
func (s Settings) Enabled(c Category) bool {
	switch c {
	case CategorySleep:
		return s.SleepEnabled
	case CategoryExercise:
		return s.ExerciseEnabled
	case CategoryHeartRate:
		return s.HeartRateEnabled
	}
	return false
}

// EnabledCategories lists switched-on categories in redistribution order.
func (s Settings) EnabledCategories() []Category {
	var out []Category
	for _, c := range Categories {
		if s.Enabled(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Settings) setEnabled(c Category, enabled bool) {
	switch c {
	case CategorySleep:
		s.SleepEnabled = enabled
	case CategoryExercise:
		s.ExerciseEnabled = enabled
	case CategoryHeartRate:
		s.HeartRateEnabled = enabled
	}
}

// ValidationError explains why settings were rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks weight sums, required keys, and ranges.
func (s Settings) Validate() error {
	var mainSum float64
	for _, c := range s.EnabledCategories() {
		w, ok := s.MainWeights[string(c)]
		if !ok {
			return invalid("Main weight for %s is missing", c)
		}
		mainSum += w
	}
	if !near100(mainSum) {
		return invalid("Enabled main category weights must sum to 100%%")
	}

	if err := requireKeys(s.RecentDaysWeights, "Recent days", RecencyKeys[:]...); err != nil {
		return err
	}
	if !near100(sum(s.RecentDaysWeights)) {
		return invalid("Recent days weights must sum to 100%%")
	}

	if s.ExerciseEnabled {
		if err := requireKeys(s.ExerciseWeights, "Exercise", ExerciseMinutes, ExerciseCalories, ExerciseSteps); err != nil {
			return err
		}
		if !near100(sum(s.ExerciseWeights)) {
			return invalid("Exercise weights must sum to 100%%")
		}
	}

	if s.HeartRateEnabled {
		if err := requireKeys(s.HeartRateWeights, "Heart rate", HeartRateElevated, HeartRateVariability, HeartRateResting); err != nil {
			return err
		}
		if !near100(sum(s.HeartRateWeights)) {
			return invalid("Heart rate weights must sum to 100%%")
		}
	}

	if s.ElevatedHeartRateThreshold < MinElevatedThreshold || s.ElevatedHeartRateThreshold > MaxElevatedThreshold {
		return invalid("Elevated heart rate threshold must be between %d%% and %d%%", MinElevatedThreshold, MaxElevatedThreshold)
	}

	validPeriod := false
	for _, p := range AveragingPeriods {
		if s.AveragingPeriodDays == p {
			validPeriod = true
		}
	}
	if !validPeriod {
		return invalid("Averaging period must be 30, 60, or 90 days")
	}
	return nil
}

func requireKeys(m map[string]float64, label string, keys ...string) error {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return invalid("%s weight %q is missing", label, k)
		}
	}
	return nil
}

func sum(m map[string]float64) float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

func near100(v float64) bool {
	return math.Abs(v-100) <= weightTolerance
}

// RedistributeMainWeights assigns main weights across the enabled categories.
// One category gets 100; two get 60/40 in order; three get 50/30/20.
func (s *Settings) RedistributeMainWeights() {
	enabled := s.EnabledCategories()
	weights := map[string]float64{}
	switch len(enabled) {
	case 1:
		weights[string(enabled[0])] = 100
	case 2:
		weights[string(enabled[0])] = 60
		weights[string(enabled[1])] = 40
	case 3:
		weights[string(CategorySleep)] = 50
		weights[string(CategoryExercise)] = 30
		weights[string(CategoryHeartRate)] = 20
	}
	s.MainWeights = weights
}

// ToggleCategory switches a category and rebalances the weights.
// Disabled categories leave mainWeights and have their sub-weights zeroed;
// enabled ones get their default sub-weights back.
func (s *Settings) ToggleCategory(c Category, enabled bool) {
	s.setEnabled(c, enabled)
	s.RedistributeMainWeights()

	if s.ExerciseEnabled {
		s.ExerciseWeights = defaultExerciseWeights()
	} else {
		s.ExerciseWeights = zeroWeights(ExerciseMinutes, ExerciseCalories, ExerciseSteps)
	}

	if s.HeartRateEnabled {
		s.HeartRateWeights = defaultHeartRateWeights()
	} else {
		s.HeartRateWeights = zeroWeights(HeartRateElevated, HeartRateVariability, HeartRateResting)
		s.ElevatedHeartRateThreshold = DefaultElevatedThreshold
	}
}

// ParseCategory converts user input into a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	switch s {
	case "heart-rate", "heart_rate", "heartrate", "hr":
		return CategoryHeartRate, nil
	}
	return "", fmt.Errorf("unknown category %q (want sleep, exercise, or heartRate)", s)
}
