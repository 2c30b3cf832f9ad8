package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

type predictionStore struct {
	pg PgPool
}

func NewPredictionStore(pg PgPool) PredictionStore {
	return &predictionStore{pg: pg}
}

// Save bulk-inserts a prediction batch. Re-scoring the same athlete/day
// with the same artifact overwrites the previous score so reports stay
// idempotent across retries.
func (s *predictionStore) Save(ctx context.Context, predictions []models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO predictions (athlete_id, date, position, score, clamped, run_id) VALUES ")
	vals := []interface{}{}

	for i, p := range predictions {
		n := i * 6
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		vals = append(vals, p.AthleteID, p.Date, p.Position, p.Score, p.Clamped, p.RunID)
	}
	sb.WriteString(" ON CONFLICT (athlete_id, date, run_id) DO UPDATE SET score = EXCLUDED.score, clamped = EXCLUDED.clamped")

	if _, err := s.pg.Exec(ctx, sb.String(), vals...); err != nil {
		return fmt.Errorf("insert predictions: %w", err)
	}
	return nil
}

// ListByDate returns the predictions from the newest run covering a date.
func (s *predictionStore) ListByDate(ctx context.Context, date string) ([]models.Prediction, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT p.athlete_id, to_char(p.date, 'YYYY-MM-DD'), COALESCE(p.position, ''), p.score, p.clamped, p.run_id
		FROM predictions p
		WHERE p.date = $1
		  AND p.run_id = (
			SELECT run_id FROM predictions
			WHERE date = $1
			ORDER BY created_at DESC LIMIT 1
		  )
		ORDER BY p.athlete_id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.AthleteID, &p.Date, &p.Position, &p.Score, &p.Clamped, &p.RunID); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// Trend returns an athlete's most recent scores, oldest first, for chart
// consumers.
func (s *predictionStore) Trend(ctx context.Context, athleteID string, limit int) ([]models.TrendPoint, error) {
	if limit <= 0 {
		limit = 90
	}

	rows, err := s.pg.Query(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), score, run_id FROM (
			SELECT DISTINCT ON (date) date, score, run_id, created_at
			FROM predictions
			WHERE athlete_id = $1
			ORDER BY date DESC, created_at DESC
			LIMIT $2
		) recent
		ORDER BY date ASC
	`, athleteID, limit)
	if err != nil {
		return nil, fmt.Errorf("query trend: %w", err)
	}
	defer rows.Close()

	var points []models.TrendPoint
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.Date, &p.Score, &p.RunID); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
