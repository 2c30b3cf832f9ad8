package models

// Prediction is one bounded readiness score for an athlete's training day,
// carrying the vector it was derived from for traceability.
type Prediction struct {
	AthleteID   string  `json:"athlete_id"`
	Date        string  `json:"date"`
	Position    string  `json:"position,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Score       float64 `json:"score"`
	Clamped     bool    `json:"clamped,omitempty"`
	RunID       string  `json:"run_id,omitempty"`

	Vector *FeatureVector `json:"vector,omitempty"`
}

// ScoreResult is the Predictor's output for one batch.
type ScoreResult struct {
	Predictions []Prediction `json:"predictions"`
	Clamped     int          `json:"clamped"`
}

// Positions recognized when grouping report scores.
const (
	PositionForward    = "F"
	PositionDefender   = "D"
	PositionMidfielder = "M"
	PositionGoalkeeper = "GK"
)

// DailyReport is the per-day summary emitted for chart consumers:
// individual scores, per-position averages, the grouped team score built
// from the strongest contributors per position, and the plain average.
type DailyReport struct {
	Date             string               `json:"date"`
	RunID            string               `json:"run_id,omitempty"`
	Individual       []Prediction         `json:"individual_predictions"`
	PositionAverages map[string]float64   `json:"position_averages"`
	TeamGroups       map[string][]float64 `json:"team_predictions_by_position"`
	GroupedScore     float64              `json:"final_grouped_score"`
	OverallScore     float64              `json:"overall_team_score"`
}

// TeamSessionSummary is the squad-level average of the top-N athletes by
// player load for a single session.
type TeamSessionSummary struct {
	Date           string             `json:"date"`
	SessionType    SessionType        `json:"session_type"`
	SessionOrdinal int                `json:"session_ordinal"`
	SquadSize      int                `json:"squad_size"`
	Averages       map[string]float64 `json:"averages"`
}

// TrendPoint is one persisted prediction in an athlete's time series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	RunID string  `json:"run_id,omitempty"`
}
