package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/logic"
	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// MockIngestQueue implements IngestQueue for testing
type MockIngestQueue struct {
	EnqueueFunc func(record *models.SensorRecord) bool
}

func (m *MockIngestQueue) Enqueue(record *models.SensorRecord) bool {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(record)
	}
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return 0 }

type MockSessionStore struct {
	ListRecordsFunc func(ctx context.Context, from, to string) ([]models.SensorRecord, error)
}

func (m *MockSessionStore) ListRecords(ctx context.Context, from, to string) ([]models.SensorRecord, error) {
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(ctx, from, to)
	}
	return nil, nil
}

type MockModelStore struct {
	SaveFunc   func(ctx context.Context, model *models.FittedModel) error
	LatestFunc func(ctx context.Context) (*models.FittedModel, error)
	GetFunc    func(ctx context.Context, runID string) (*models.FittedModel, error)
}

func (m *MockModelStore) Save(ctx context.Context, model *models.FittedModel) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, model)
	}
	return nil
}

func (m *MockModelStore) Latest(ctx context.Context) (*models.FittedModel, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	return nil, logic.ErrNoModel
}

func (m *MockModelStore) Get(ctx context.Context, runID string) (*models.FittedModel, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, runID)
	}
	return nil, logic.ErrNoModel
}

type MockRosterStore struct {
	RosterIndexFunc func(ctx context.Context) (map[string]models.Athlete, error)
}

func (m *MockRosterStore) ListAthletes(ctx context.Context) ([]models.Athlete, error) {
	return nil, nil
}

func (m *MockRosterStore) RosterIndex(ctx context.Context) (map[string]models.Athlete, error) {
	if m.RosterIndexFunc != nil {
		return m.RosterIndexFunc(ctx)
	}
	return map[string]models.Athlete{}, nil
}

type MockPredictionStore struct {
	SaveFunc       func(ctx context.Context, predictions []models.Prediction) error
	ListByDateFunc func(ctx context.Context, date string) ([]models.Prediction, error)
}

func (m *MockPredictionStore) Save(ctx context.Context, predictions []models.Prediction) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, predictions)
	}
	return nil
}

func (m *MockPredictionStore) ListByDate(ctx context.Context, date string) ([]models.Prediction, error) {
	if m.ListByDateFunc != nil {
		return m.ListByDateFunc(ctx, date)
	}
	return nil, nil
}

func (m *MockPredictionStore) Trend(ctx context.Context, athleteID string, limit int) ([]models.TrendPoint, error) {
	return nil, nil
}

// newTestHandler wires a Handler with the real modeling services and the
// given stores; HTTP-level tests exercise the genuine aggregation,
// benchmark and prediction logic against mocked persistence.
func newTestHandler(sessions logic.SessionStore, modelStore logic.ModelStore, rosterStore logic.RosterStore, predictionStore logic.PredictionStore) *Handler {
	logger := zap.NewNop()
	return &Handler{
		pool:        &MockIngestQueue{},
		logger:      logger.Sugar(),
		validator:   validator.New(),
		squadSize:   11,
		aggregator:  logic.NewAggregatorService(logger),
		benchmarks:  logic.NewBenchmarkService(7, logger),
		trainer:     logic.NewTrainerService(logic.TrainerConfig{MinExamples: 2, HoldoutFraction: 0, Seed: 42}, logger),
		predictor:   logic.NewPredictorService(logger),
		reports:     logic.NewReportService(),
		models:      modelStore,
		sessions:    sessions,
		roster:      rosterStore,
		predictions: predictionStore,
	}
}
