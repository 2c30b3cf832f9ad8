package models

import "time"

// Target semantics recorded on a fitted artifact.
const (
	TargetRatio   = "ratio"
	TargetOutcome = "outcome"
)

// FittedModel is the persisted training artifact. It is written once per
// training run and loaded read-only by the Predictor; retraining inserts a
// new artifact rather than mutating an existing one.
type FittedModel struct {
	RunID     string    `json:"run_id"`
	TrainedAt time.Time `json:"trained_at"`

	// TargetKind records what the target scalar meant at training time.
	TargetKind string `json:"target_kind"`

	// Metrics is the exact metric-name set the model was trained on,
	// sorted. Prediction-time vectors must carry the same set.
	Metrics []string `json:"metrics"`

	// Coefficients are the regression weights keyed by metric name.
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`

	// Norm holds the per-metric ceilings for the log1p transform, fit on
	// the training split only and reused verbatim at prediction time.
	Norm map[string]float64 `json:"norm"`

	Seed            int64   `json:"seed"`
	TrainExamples   int     `json:"train_examples"`
	HoldoutExamples int     `json:"holdout_examples"`
	MAE             float64 `json:"mae"`
}

// TrainingReport is the caller-facing summary of a training run.
type TrainingReport struct {
	RunID           string    `json:"run_id"`
	TrainedAt       time.Time `json:"trained_at"`
	TrainExamples   int       `json:"train_examples"`
	HoldoutExamples int       `json:"holdout_examples"`
	MAE             float64   `json:"mae"`
	Vectors         int       `json:"vectors"`
	DroppedRecords  int       `json:"dropped_records"`
	ExcludedDays    int       `json:"excluded_days"`
}
