package logic

import (
	"fmt"
	"sort"
)

// SchemaError marks a malformed input record: missing athlete id or date.
// The aggregator drops and counts such records; processing continues.
type SchemaError struct {
	Field      string
	ActivityID string
}

func (e *SchemaError) Error() string {
	if e.ActivityID != "" {
		return fmt.Sprintf("sensor record missing %s (activity %s)", e.Field, e.ActivityID)
	}
	return fmt.Sprintf("sensor record missing %s", e.Field)
}

// InsufficientDataError aborts a training run when the example count is
// below the configured minimum. No model is produced.
type InsufficientDataError struct {
	Got int
	Min int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: %d examples, need at least %d", e.Got, e.Min)
}

// SchemaMismatchError aborts a prediction batch when a feature vector's
// metric keys disagree with the metric set the model was trained on.
type SchemaMismatchError struct {
	AthleteID string
	Date      string
	Missing   []string
	Extra     []string
}

func (e *SchemaMismatchError) Error() string {
	sort.Strings(e.Missing)
	sort.Strings(e.Extra)
	return fmt.Sprintf("feature vector for athlete %s on %s does not match model schema (missing %v, extra %v)",
		e.AthleteID, e.Date, e.Missing, e.Extra)
}
