package logic

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

var recordsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "readiness_records_dropped_total",
	Help: "Total number of sensor records dropped for schema violations",
})

type aggregatorService struct {
	logger *zap.SugaredLogger
}

func NewAggregatorService(logger *zap.Logger) AggregatorService {
	return &aggregatorService{logger: logger.Sugar()}
}

// metricAccum accumulates one metric's values across a day's records.
// Records that do not carry the metric contribute nothing, so means are
// taken over only the records that reported it.
type metricAccum struct {
	sum   float64
	count int
}

type groupAccum struct {
	vector  models.FeatureVector
	metrics map[string]*metricAccum
}

// Aggregate collapses raw sensor records into one FeatureVector per
// (athlete, date, activity-type tag) group. Records lacking an athlete id
// or date are dropped and counted. Output order is deterministic.
func (s *aggregatorService) Aggregate(records []models.SensorRecord) models.AggregateResult {
	groups := make(map[string]*groupAccum)
	dropped := 0

	for i := range records {
		rec := &records[i]

		if err := validateRecord(rec); err != nil {
			dropped++
			recordsDropped.Inc()
			s.logger.Warnw("Dropping malformed sensor record", "error", err, "index", i)
			continue
		}

		key := rec.AthleteID + "|" + rec.Date + "|" + rec.Tag()
		g, ok := groups[key]
		if !ok {
			g = &groupAccum{
				vector: models.FeatureVector{
					AthleteID:      rec.AthleteID,
					Date:           rec.Date,
					SessionType:    rec.SessionType,
					SessionOrdinal: rec.SessionOrdinal,
				},
				metrics: make(map[string]*metricAccum, len(models.MetricPolicies)),
			}
			groups[key] = g
		}
		g.vector.Records++

		for name, value := range rec.Metrics {
			if _, known := models.MetricPolicies[name]; !known {
				continue
			}
			acc, ok := g.metrics[name]
			if !ok {
				acc = &metricAccum{}
				g.metrics[name] = acc
			}
			acc.sum += value
			acc.count++
		}
	}

	vectors := make([]models.FeatureVector, 0, len(groups))
	for _, g := range groups {
		g.vector.Metrics = make(map[string]float64, len(g.metrics))
		for name, acc := range g.metrics {
			switch models.MetricPolicies[name] {
			case models.PolicySum:
				g.vector.Metrics[name] = acc.sum
			case models.PolicyMean:
				g.vector.Metrics[name] = acc.sum / float64(acc.count)
			}
		}
		vectors = append(vectors, g.vector)
	}

	sort.Slice(vectors, func(i, j int) bool {
		a, b := &vectors[i], &vectors[j]
		if a.AthleteID != b.AthleteID {
			return a.AthleteID < b.AthleteID
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Tag() < b.Tag()
	})

	if dropped > 0 {
		s.logger.Warnw("Aggregation dropped malformed records", "dropped", dropped, "total", len(records))
	}

	return models.AggregateResult{Vectors: vectors, Dropped: dropped}
}

// validateRecord enforces the minimal schema the aggregation key needs.
func validateRecord(rec *models.SensorRecord) error {
	if rec.AthleteID == "" {
		return &SchemaError{Field: "athlete_id", ActivityID: rec.ActivityID}
	}
	if rec.Date == "" {
		return &SchemaError{Field: "date", ActivityID: rec.ActivityID}
	}
	if _, err := rec.Day(); err != nil {
		return &SchemaError{Field: "date", ActivityID: rec.ActivityID}
	}
	return nil
}
