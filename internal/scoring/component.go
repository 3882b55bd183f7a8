// ABOUTME: The three bandwidth components and their per-day deviation formulas.
// ABOUTME: Each turns one day's metrics and the baselines into a weighted fraction.
package scoring

import (
	"errors"
	"fmt"

	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/settings"
)

// ErrMissingWeight means a weight key was absent at compute time. Settings are
// validated on save, so this indicates a broken invariant.
var ErrMissingWeight = errors.New("missing configured weight")

// Component is one scoring category.
type Component interface {
	Category() settings.Category
	// Kind is the computed kind the component score is cached under.
	Kind() models.MetricKind
	// RawKinds are the per-day signals DayScore reads.
	RawKinds() []models.MetricKind
	// BaselineKinds are the rolling baselines DayScore reads.
	BaselineKinds() []models.MetricKind
	DayScore(day metrics.DayMetrics, base metrics.BaselineMetrics, st settings.Settings) (float64, error)
}

func weight(m map[string]float64, label, key string) (float64, error) {
	w, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrMissingWeight, label, key)
	}
	return w, nil
}

func weights(m map[string]float64, label string, keys ...string) ([]float64, error) {
	out := make([]float64, len(keys))
	for i, k := range keys {
		w, err := weight(m, label, k)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// deficit is (baseline - current) / baseline, or 0 for a zero baseline.
func deficit(baseline, current float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - current) / baseline
}

// HeartRate scores HRV drop, resting HR rise and elevated time outside exercise.
type HeartRate struct{}

func (HeartRate) Category() settings.Category { return settings.CategoryHeartRate }
func (HeartRate) Kind() models.MetricKind     { return models.KindHeartRateComponent }

func (HeartRate) RawKinds() []models.MetricKind {
	return []models.MetricKind{
		models.KindHeartRateVariability,
		models.KindRestingHeartRate,
		models.KindElevatedHeartRateTime,
		models.KindExerciseMinutes,
	}
}

func (HeartRate) BaselineKinds() []models.MetricKind {
	return []models.MetricKind{models.KindHeartRateVariability, models.KindRestingHeartRate}
}

func (HeartRate) DayScore(day metrics.DayMetrics, base metrics.BaselineMetrics, st settings.Settings) (float64, error) {
	w, err := weights(st.HeartRateWeights, "heartRateWeights",
		settings.HeartRateVariability, settings.HeartRateResting, settings.HeartRateElevated)
	if err != nil {
		return 0, err
	}

	hrv := deficit(base.HRV, day.HRV)
	rhr := -deficit(base.RHR, day.RHR)

	var elevated float64
	if nonExercise := day.NonExerciseSeconds(); nonExercise > 0 {
		elevated = day.ElevatedTime / nonExercise
	}

	return (hrv*w[0] + rhr*w[1] + elevated*w[2]) / 100, nil
}

// Exercise scores the shortfall in minutes, steps and active energy.
type Exercise struct{}

func (Exercise) Category() settings.Category { return settings.CategoryExercise }
func (Exercise) Kind() models.MetricKind     { return models.KindExerciseComponent }

func (Exercise) RawKinds() []models.MetricKind {
	return []models.MetricKind{models.KindExerciseMinutes, models.KindSteps, models.KindActiveEnergy}
}

func (e Exercise) BaselineKinds() []models.MetricKind { return e.RawKinds() }

func (Exercise) DayScore(day metrics.DayMetrics, base metrics.BaselineMetrics, st settings.Settings) (float64, error) {
	w, err := weights(st.ExerciseWeights, "exerciseWeights",
		settings.ExerciseMinutes, settings.ExerciseSteps, settings.ExerciseCalories)
	if err != nil {
		return 0, err
	}

	minutes := deficit(base.ExerciseMinutes, day.ExerciseMinutes)
	steps := deficit(base.Steps, day.Steps)
	calories := deficit(base.ActiveEnergy, day.ActiveEnergy)

	return (minutes*w[0] + steps*w[1] + calories*w[2]) / 100, nil
}

// Sleep scores the shortfall against a fixed eight-hour night.
type Sleep struct{}

func (Sleep) Category() settings.Category        { return settings.CategorySleep }
func (Sleep) Kind() models.MetricKind            { return models.KindSleepComponent }
func (Sleep) RawKinds() []models.MetricKind      { return []models.MetricKind{models.KindSleepTime} }
func (Sleep) BaselineKinds() []models.MetricKind { return nil }

func (Sleep) DayScore(day metrics.DayMetrics, base metrics.BaselineMetrics, _ settings.Settings) (float64, error) {
	return deficit(base.SleepSeconds, day.SleepSeconds), nil
}

// Components lists every component in settings category order.
func Components() []Component {
	return []Component{Sleep{}, Exercise{}, HeartRate{}}
}

// ForCategory returns the component for c.
func ForCategory(c settings.Category) (Component, bool) {
	for _, comp := range Components() {
		if comp.Category() == c {
			return comp, true
		}
	}
	return nil, false
}
