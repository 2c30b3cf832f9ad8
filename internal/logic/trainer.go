package logic

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sajari/regression"
	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

var trainingRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "readiness_training_runs_total",
	Help: "Total number of model training runs by outcome",
}, []string{"outcome"})

// TrainerConfig fixes everything a training run depends on besides the
// examples themselves. Identical config + examples + seed reproduce an
// identical artifact.
type TrainerConfig struct {
	MinExamples     int
	HoldoutFraction float64
	Seed            int64
}

type trainerService struct {
	cfg    TrainerConfig
	logger *zap.SugaredLogger
}

func NewTrainerService(cfg TrainerConfig, logger *zap.Logger) TrainerService {
	if cfg.MinExamples <= 0 {
		cfg.MinExamples = 10
	}
	if cfg.HoldoutFraction < 0 || cfg.HoldoutFraction >= 1 {
		cfg.HoldoutFraction = 0.2
	}
	return &trainerService{cfg: cfg, logger: logger.Sugar()}
}

// Train fits a linear regression mapping normalized training-day features
// to the benchmark ratio target. The log1p normalization ceilings are
// computed from the training split only and stored in the artifact for
// reuse at prediction time. Fails with InsufficientDataError below the
// configured example minimum.
func (s *trainerService) Train(examples []models.TrainingExample) (*models.FittedModel, error) {
	metricNames := models.MetricNames()

	// Only complete vectors enter the design matrix; the schema invariant
	// holds at both ends of the model's lifecycle.
	complete := make([]models.TrainingExample, 0, len(examples))
	for _, ex := range examples {
		if hasAllMetrics(ex.Vector.Metrics, metricNames) {
			complete = append(complete, ex)
		}
	}
	if skipped := len(examples) - len(complete); skipped > 0 {
		s.logger.Warnw("Skipping examples with incomplete metric sets", "skipped", skipped)
	}

	if len(complete) < s.cfg.MinExamples {
		trainingRuns.WithLabelValues("insufficient_data").Inc()
		return nil, &InsufficientDataError{Got: len(complete), Min: s.cfg.MinExamples}
	}

	// Deterministic order before the seeded shuffle, so the split depends
	// only on the example set and the seed, not on caller ordering.
	sort.Slice(complete, func(i, j int) bool {
		return complete[i].Vector.Key() < complete[j].Vector.Key()
	})
	rng := rand.New(rand.NewSource(s.cfg.Seed))
	rng.Shuffle(len(complete), func(i, j int) {
		complete[i], complete[j] = complete[j], complete[i]
	})

	holdoutN := int(float64(len(complete)) * s.cfg.HoldoutFraction)
	trainSet := complete[holdoutN:]
	holdout := complete[:holdoutN]

	// Normalization ceilings: per-metric max over the training split.
	norm := make(map[string]float64, len(metricNames))
	for _, name := range metricNames {
		ceil := 0.0
		for _, ex := range trainSet {
			if v := ex.Vector.Metrics[name]; v > ceil {
				ceil = v
			}
		}
		norm[name] = ceil
	}

	r := new(regression.Regression)
	r.SetObserved("benchmark intensity ratio")
	for i, name := range metricNames {
		r.SetVar(i, name)
	}
	for _, ex := range trainSet {
		r.Train(regression.DataPoint(ex.Target, featureRow(ex.Vector.Metrics, metricNames, norm)))
	}
	if err := r.Run(); err != nil {
		trainingRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	model := &models.FittedModel{
		RunID:           uuid.NewString(),
		TrainedAt:       time.Now().UTC(),
		TargetKind:      models.TargetRatio,
		Metrics:         metricNames,
		Coefficients:    make(map[string]float64, len(metricNames)),
		Intercept:       r.Coeff(0),
		Norm:            norm,
		Seed:            s.cfg.Seed,
		TrainExamples:   len(trainSet),
		HoldoutExamples: len(holdout),
	}
	for i, name := range metricNames {
		model.Coefficients[name] = r.Coeff(i + 1)
	}

	// Holdout MAE; falls back to the training split when the holdout is
	// empty so the report always carries an evaluation figure.
	evalSet := holdout
	if len(evalSet) == 0 {
		evalSet = trainSet
	}
	var absErr float64
	for _, ex := range evalSet {
		absErr += math.Abs(rawScore(model, ex.Vector.Metrics) - ex.Target)
	}
	model.MAE = absErr / float64(len(evalSet))

	trainingRuns.WithLabelValues("ok").Inc()
	s.logger.Infow("Model trained",
		"runId", model.RunID,
		"trainExamples", model.TrainExamples,
		"holdoutExamples", model.HoldoutExamples,
		"mae", model.MAE,
	)

	return model, nil
}

func hasAllMetrics(metrics map[string]float64, names []string) bool {
	for _, name := range names {
		if _, ok := metrics[name]; !ok {
			return false
		}
	}
	return true
}

// featureRow builds the normalized regression input in metric-name order.
func featureRow(metrics map[string]float64, names []string, norm map[string]float64) []float64 {
	row := make([]float64, len(names))
	for i, name := range names {
		row[i] = normalizeValue(metrics[name], norm[name])
	}
	return row
}

// normalizeValue maps a raw metric value into [0, ~1] against its stored
// ceiling using log1p compression, mirroring the transform applied at
// prediction time.
func normalizeValue(x, ceil float64) float64 {
	if x < 0 {
		x = 0
	}
	if ceil < 1 {
		ceil = 1
	}
	return math.Log1p(x) / math.Log1p(ceil)
}
