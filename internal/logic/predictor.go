package logic

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

var clampEvents = promauto.NewCounter(prometheus.CounterOpts{
	Name: "readiness_score_clamp_events_total",
	Help: "Total number of raw model outputs clamped into the display range",
})

type predictorService struct {
	logger *zap.SugaredLogger
}

func NewPredictorService(logger *zap.Logger) PredictorService {
	return &predictorService{logger: logger.Sugar()}
}

// Score applies the fitted model to newly aggregated training-day vectors.
// Every vector's metric-key set must match the model's exactly; any
// mismatch fails the whole batch with SchemaMismatchError. Raw outputs
// outside [0, 1] are clamped and the clamp counted, not rejected. The
// model is read-only here and nothing is persisted.
func (s *predictorService) Score(model *models.FittedModel, vectors []models.FeatureVector, roster map[string]models.Athlete) (*models.ScoreResult, error) {
	result := &models.ScoreResult{
		Predictions: make([]models.Prediction, 0, len(vectors)),
	}

	for i := range vectors {
		v := &vectors[i]

		if err := checkSchema(model, v); err != nil {
			return nil, err
		}

		raw := rawScore(model, v.Metrics)
		score := raw
		clamped := false
		if score < 0 {
			score, clamped = 0, true
		} else if score > 1 {
			score, clamped = 1, true
		}
		if clamped {
			result.Clamped++
			clampEvents.Inc()
			s.logger.Warnw("Clamped out-of-range score",
				"athlete", v.AthleteID, "date", v.Date, "raw", raw)
		}

		pred := models.Prediction{
			AthleteID: v.AthleteID,
			Date:      v.Date,
			Score:     round3(score),
			Clamped:   clamped,
			RunID:     model.RunID,
			Vector:    v,
		}
		if a, ok := roster[v.AthleteID]; ok {
			pred.Position = a.Position
			pred.DisplayName = a.DisplayName()
		}
		result.Predictions = append(result.Predictions, pred)
	}

	return result, nil
}

// checkSchema enforces exact metric-key equality between a vector and the
// model's training-time metric set.
func checkSchema(model *models.FittedModel, v *models.FeatureVector) error {
	trained := make(map[string]bool, len(model.Metrics))
	for _, name := range model.Metrics {
		trained[name] = true
	}

	var missing, extra []string
	for _, name := range model.Metrics {
		if _, ok := v.Metrics[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range v.Metrics {
		if !trained[name] {
			extra = append(extra, name)
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		return &SchemaMismatchError{
			AthleteID: v.AthleteID,
			Date:      v.Date,
			Missing:   missing,
			Extra:     extra,
		}
	}
	return nil
}

// rawScore evaluates the regression on a vector using the stored
// normalization transform. Shared by the trainer's holdout evaluation.
func rawScore(model *models.FittedModel, metrics map[string]float64) float64 {
	score := model.Intercept
	for _, name := range model.Metrics {
		score += model.Coefficients[name] * normalizeValue(metrics[name], model.Norm[name])
	}
	return score
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
