package models

import (
	"fmt"
	"sort"
	"time"
)

// Canonical metric names. The set is fixed: feature vectors carry exactly
// these keys, and any drift between training and prediction time is a
// schema mismatch, not a silent fill.
const (
	MetricPlayerLoad        = "player_load"
	MetricVelocity          = "velocity"
	MetricAcceleration      = "acceleration"
	MetricDeceleration      = "deceleration"
	MetricDistance          = "distance"
	MetricHighSpeedDistance = "high_speed_distance"
)

// AggregatePolicy fixes how a metric's per-record values collapse into a
// single per-day value.
type AggregatePolicy int

const (
	// PolicySum for volume metrics accumulated over a day.
	PolicySum AggregatePolicy = iota
	// PolicyMean for rate metrics where summing would bias multi-record days.
	PolicyMean
)

// MetricPolicies is the fixed per-metric aggregation policy, applied
// identically at training and prediction time. Volume metrics (load,
// distances) sum across the day; rate metrics (velocity, accel, decel)
// average over only the records that report them.
var MetricPolicies = map[string]AggregatePolicy{
	MetricPlayerLoad:        PolicySum,
	MetricVelocity:          PolicyMean,
	MetricAcceleration:      PolicyMean,
	MetricDeceleration:      PolicyMean,
	MetricDistance:          PolicySum,
	MetricHighSpeedDistance: PolicySum,
}

// MetricNames returns the canonical metric set in sorted order.
func MetricNames() []string {
	names := make([]string, 0, len(MetricPolicies))
	for name := range MetricPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatTag builds the activity-type tag for a session. Match days carry
// no ordinal; the Nth training session of a day is suffixed with N.
func FormatTag(t SessionType, ordinal int) string {
	if t == SessionMatch || ordinal <= 0 {
		return string(t)
	}
	return fmt.Sprintf("%s#%d", t, ordinal)
}

// FeatureVector is the aggregate of all sensor records for one athlete on
// one day under one activity-type tag. Derived, recomputed each run; the
// raw records remain the source of truth.
type FeatureVector struct {
	AthleteID      string             `json:"athlete_id"`
	Date           string             `json:"date"`
	SessionType    SessionType        `json:"session_type"`
	SessionOrdinal int                `json:"session_ordinal"`
	Metrics        map[string]float64 `json:"metrics"`
	Records        int                `json:"records"`
}

// Day parses the vector's date.
func (v *FeatureVector) Day() (time.Time, error) {
	return time.Parse("2006-01-02", v.Date)
}

// Tag returns the vector's activity-type tag.
func (v *FeatureVector) Tag() string {
	return FormatTag(v.SessionType, v.SessionOrdinal)
}

// Key uniquely identifies the vector's aggregation group.
func (v *FeatureVector) Key() string {
	return v.AthleteID + "|" + v.Date + "|" + v.Tag()
}

// MetricKeys returns the vector's metric names in sorted order.
func (v *FeatureVector) MetricKeys() []string {
	keys := make([]string, 0, len(v.Metrics))
	for k := range v.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AggregateResult is the Feature Aggregator's output: the grouped vectors
// plus a count of records dropped for schema violations. Dropped records
// are counted and logged, never silently ignored.
type AggregateResult struct {
	Vectors []FeatureVector `json:"vectors"`
	Dropped int             `json:"dropped"`
}

// Benchmark pairs a training-day vector with the match-day vector that
// serves as its 100%-intensity normalization reference.
type Benchmark struct {
	Training FeatureVector `json:"training"`
	Match    FeatureVector `json:"match"`
}

// TrainingExample is a training-day vector with its target scalar derived
// from the Benchmark. Built only from training days that found a match day
// inside the lookahead window.
type TrainingExample struct {
	Vector FeatureVector `json:"vector"`
	Target float64       `json:"target"`
}
