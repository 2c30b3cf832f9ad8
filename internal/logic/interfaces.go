package logic

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AggregatorService collapses raw sensor records into per-athlete/day
// feature vectors.
type AggregatorService interface {
	Aggregate(records []models.SensorRecord) models.AggregateResult
}

// BenchmarkService selects match-day normalization references for
// training days and derives training examples from them.
type BenchmarkService interface {
	Assign(vectors []models.FeatureVector) []models.Benchmark
	BuildExamples(benchmarks []models.Benchmark) []models.TrainingExample
}

// TrainerService fits a regression over training examples and reports
// holdout evaluation.
type TrainerService interface {
	Train(examples []models.TrainingExample) (*models.FittedModel, error)
}

// PredictorService scores aggregated feature vectors against a fitted
// model. It never mutates the model and never writes.
type PredictorService interface {
	Score(model *models.FittedModel, vectors []models.FeatureVector, roster map[string]models.Athlete) (*models.ScoreResult, error)
}

// ReportService assembles daily readiness reports and squad summaries.
type ReportService interface {
	BuildDailyReport(date string, predictions []models.Prediction) *models.DailyReport
	TeamSummary(vectors []models.FeatureVector, squadSize int) []models.TeamSessionSummary
}

// ModelStore persists fitted artifacts. Artifacts are immutable once
// written; Save always inserts a new row keyed by run id.
type ModelStore interface {
	Save(ctx context.Context, m *models.FittedModel) error
	Latest(ctx context.Context) (*models.FittedModel, error)
	Get(ctx context.Context, runID string) (*models.FittedModel, error)
}

// SessionStore reads raw sensor records back into memory for the
// in-memory modeling core.
type SessionStore interface {
	ListRecords(ctx context.Context, from, to string) ([]models.SensorRecord, error)
}

// RosterStore reads the athlete roster.
type RosterStore interface {
	ListAthletes(ctx context.Context) ([]models.Athlete, error)
	RosterIndex(ctx context.Context) (map[string]models.Athlete, error)
}

// PredictionStore persists prediction batches on behalf of handlers; the
// Predictor itself has no side effects.
type PredictionStore interface {
	Save(ctx context.Context, predictions []models.Prediction) error
	ListByDate(ctx context.Context, date string) ([]models.Prediction, error)
	Trend(ctx context.Context, athleteID string, limit int) ([]models.TrendPoint, error)
}
