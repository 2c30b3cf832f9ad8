package models

// TrainRequest scopes a training run to a date range. Empty bounds mean
// the full stored season.
type TrainRequest struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ScoreRequest asks for predictions for one day's training sessions, or
// for explicitly posted feature vectors. RunID selects a specific artifact;
// empty means latest. Anonymize omits display names from the output.
type ScoreRequest struct {
	Date      string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Vectors   []FeatureVector `json:"vectors,omitempty"`
	RunID     string          `json:"run_id,omitempty"`
	Anonymize bool            `json:"anonymize,omitempty"`
}
