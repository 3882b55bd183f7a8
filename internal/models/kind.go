// ABOUTME: Canonical registry of metric kinds with cache keys and namespaces.
// ABOUTME: Single source of truth for cacheability and the computed flag.
package models

// MetricKind identifies a per-day scalar tracked by the scoring pipeline.
type MetricKind string

const (
	KindRestingHeartRate      MetricKind = "rhr"
	KindHeartRateVariability  MetricKind = "hrv"
	KindActiveEnergy          MetricKind = "activeEnergy"
	KindExerciseMinutes       MetricKind = "exerciseMinutes"
	KindSteps                 MetricKind = "steps"
	KindElevatedHeartRateTime MetricKind = "elevatedHeartRateTime"
	KindSleepTime             MetricKind = "sleepTime"

	KindHeartRateComponent MetricKind = "heartRateComponent"
	KindExerciseComponent  MetricKind = "exerciseComponent"
	KindSleepComponent     MetricKind = "sleepComponent"
	KindBandwidth          MetricKind = "bandwidth"
)

// Namespace separates raw signals from computed scores.
type Namespace string

const (
	NamespaceRaw      Namespace = "healthData"
	NamespaceComputed Namespace = "computedData"
)

// Aggregation describes how a raw kind collapses a day of samples.
type Aggregation int

const (
	AggregateNone Aggregation = iota
	AggregateSum
	AggregateAverage
	AggregateDerived
)

// KindInfo holds the static properties of a metric kind.
type KindInfo struct {
	CacheKey    string
	Computed    bool
	ShouldCache bool
	Aggregation Aggregation
	Unit        string
}

var kindRegistry = map[MetricKind]KindInfo{
	KindRestingHeartRate:      {CacheKey: "rhr", ShouldCache: true, Aggregation: AggregateAverage, Unit: "bpm"},
	KindHeartRateVariability:  {CacheKey: "hrv", ShouldCache: true, Aggregation: AggregateAverage, Unit: "ms"},
	KindActiveEnergy:          {CacheKey: "activeEnergy", ShouldCache: true, Aggregation: AggregateSum, Unit: "kcal"},
	KindExerciseMinutes:       {CacheKey: "exerciseMinutes", ShouldCache: true, Aggregation: AggregateSum, Unit: "min"},
	KindSteps:                 {CacheKey: "steps", ShouldCache: true, Aggregation: AggregateSum, Unit: "steps"},
	KindElevatedHeartRateTime: {CacheKey: "elevatedHeartRateTime", ShouldCache: true, Aggregation: AggregateDerived, Unit: "s"},
	KindSleepTime:             {CacheKey: "sleepTime", ShouldCache: true, Aggregation: AggregateDerived, Unit: "s"},

	KindHeartRateComponent: {CacheKey: "heartRateComponent", Computed: true, ShouldCache: true},
	KindExerciseComponent:  {CacheKey: "exerciseComponent", Computed: true, ShouldCache: true},
	KindSleepComponent:     {CacheKey: "sleepComponent", Computed: true, ShouldCache: true},
	KindBandwidth:          {CacheKey: "bandwidth", Computed: true, ShouldCache: true},
}

// RawKinds lists the raw signals in display order.
var RawKinds = []MetricKind{
	KindRestingHeartRate, KindHeartRateVariability, KindActiveEnergy,
	KindExerciseMinutes, KindSteps, KindElevatedHeartRateTime, KindSleepTime,
}

// ComputedKinds lists the computed scores in display order.
var ComputedKinds = []MetricKind{
	KindHeartRateComponent, KindExerciseComponent, KindSleepComponent, KindBandwidth,
}

// Lookup returns the registry entry for a kind.
func Lookup(k MetricKind) (KindInfo, bool) {
	info, ok := kindRegistry[k]
	return info, ok
}

// Info returns the registry entry, or the zero value for unknown kinds.
func (k MetricKind) Info() KindInfo {
	return kindRegistry[k]
}

// IsComputed reports whether the kind is derived by the scoring pipeline.
func (k MetricKind) IsComputed() bool {
	return kindRegistry[k].Computed
}

// CacheKey is the document field name for this kind.
func (k MetricKind) CacheKey() string {
	return kindRegistry[k].CacheKey
}

// Namespace is the day-document collection this kind is stored in.
func (k MetricKind) Namespace() Namespace {
	if k.IsComputed() {
		return NamespaceComputed
	}
	return NamespaceRaw
}

// IsValidMetricKind checks if a string names a registered kind.
func IsValidMetricKind(s string) bool {
	_, ok := kindRegistry[MetricKind(s)]
	return ok
}
