package models

import "time"

// SessionType distinguishes competitive matches from practice sessions.
type SessionType string

const (
	SessionMatch    SessionType = "match"
	SessionTraining SessionType = "training"
)

// SensorRecord is one raw wearable reading for an athlete within an
// activity, as delivered by the data-collection collaborator. Records are
// immutable once ingested; all derived values are recomputed from them.
type SensorRecord struct {
	AthleteID      string      `json:"athlete_id" validate:"required"`
	ActivityID     string      `json:"activity_id"`
	Date           string      `json:"date" validate:"required,datetime=2006-01-02"`
	SessionType    SessionType `json:"session_type" validate:"required,oneof=match training"`
	SessionOrdinal int         `json:"session_ordinal" validate:"gte=0"`

	// Metrics maps canonical metric names to raw values. A missing key
	// means the sensor did not report that metric for this record; it is
	// never coerced to zero.
	Metrics map[string]float64 `json:"metrics"`
}

// Day returns the record date as a time.Time at UTC midnight.
func (r *SensorRecord) Day() (time.Time, error) {
	return time.Parse("2006-01-02", r.Date)
}

// Tag returns the activity-type tag used as part of the aggregation key.
// Match days carry no ordinal; training sessions are numbered within the
// day so that two practices on the same date stay separate.
func (r *SensorRecord) Tag() string {
	return FormatTag(r.SessionType, r.SessionOrdinal)
}
