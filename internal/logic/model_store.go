package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// ErrNoModel is returned when no artifact has been trained yet.
var ErrNoModel = errors.New("no trained model artifact available")

type modelStore struct {
	pg PgPool
}

func NewModelStore(pg PgPool) ModelStore {
	return &modelStore{pg: pg}
}

// Save inserts a new immutable artifact row. Run ids are unique; a
// retrain never updates in place.
func (s *modelStore) Save(ctx context.Context, m *models.FittedModel) error {
	coeffs, err := json.Marshal(m.Coefficients)
	if err != nil {
		return fmt.Errorf("marshal coefficients: %w", err)
	}
	norm, err := json.Marshal(m.Norm)
	if err != nil {
		return fmt.Errorf("marshal norm: %w", err)
	}
	metrics, err := json.Marshal(m.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO model_artifacts (
			run_id, trained_at, target_kind, metrics, coefficients,
			intercept, norm, seed, train_examples, holdout_examples, mae
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, m.RunID, m.TrainedAt, m.TargetKind, metrics, coeffs,
		m.Intercept, norm, m.Seed, m.TrainExamples, m.HoldoutExamples, m.MAE)
	if err != nil {
		return fmt.Errorf("insert model artifact: %w", err)
	}
	return nil
}

// Latest loads the most recently trained artifact.
func (s *modelStore) Latest(ctx context.Context) (*models.FittedModel, error) {
	row := s.pg.QueryRow(ctx, `
		SELECT run_id, trained_at, target_kind, metrics, coefficients,
		       intercept, norm, seed, train_examples, holdout_examples, mae
		FROM model_artifacts
		ORDER BY trained_at DESC, run_id DESC
		LIMIT 1
	`)
	return scanModel(row)
}

// Get loads one artifact by run id.
func (s *modelStore) Get(ctx context.Context, runID string) (*models.FittedModel, error) {
	row := s.pg.QueryRow(ctx, `
		SELECT run_id, trained_at, target_kind, metrics, coefficients,
		       intercept, norm, seed, train_examples, holdout_examples, mae
		FROM model_artifacts
		WHERE run_id = $1
	`, runID)
	return scanModel(row)
}

func scanModel(row pgx.Row) (*models.FittedModel, error) {
	var m models.FittedModel
	var metrics, coeffs, norm []byte

	err := row.Scan(&m.RunID, &m.TrainedAt, &m.TargetKind, &metrics, &coeffs,
		&m.Intercept, &norm, &m.Seed, &m.TrainExamples, &m.HoldoutExamples, &m.MAE)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("scan model artifact: %w", err)
	}

	if err := json.Unmarshal(metrics, &m.Metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	if err := json.Unmarshal(coeffs, &m.Coefficients); err != nil {
		return nil, fmt.Errorf("unmarshal coefficients: %w", err)
	}
	if err := json.Unmarshal(norm, &m.Norm); err != nil {
		return nil, fmt.Errorf("unmarshal norm: %w", err)
	}

	return &m, nil
}
