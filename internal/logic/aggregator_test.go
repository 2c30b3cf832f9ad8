package logic

import (
	"testing"

	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

func makeRecord(athlete, date string, typ models.SessionType, ordinal int, metrics map[string]float64) models.SensorRecord {
	return models.SensorRecord{
		AthleteID:      athlete,
		ActivityID:     athlete + "-" + date,
		Date:           date,
		SessionType:    typ,
		SessionOrdinal: ordinal,
		Metrics:        metrics,
	}
}

func TestAggregateSumAndMeanPolicies(t *testing.T) {
	svc := NewAggregatorService(zap.NewNop())

	records := []models.SensorRecord{
		makeRecord("a1", "2026-03-02", models.SessionTraining, 1, map[string]float64{
			models.MetricPlayerLoad: 200,
			models.MetricVelocity:   6.0,
			models.MetricDistance:   3000,
		}),
		makeRecord("a1", "2026-03-02", models.SessionTraining, 1, map[string]float64{
			models.MetricPlayerLoad: 300,
			models.MetricVelocity:   8.0,
			models.MetricDistance:   4000,
		}),
	}

	result := svc.Aggregate(records)
	if result.Dropped != 0 {
		t.Fatalf("Dropped = %d, want 0", result.Dropped)
	}
	if len(result.Vectors) != 1 {
		t.Fatalf("got %d vectors, want 1", len(result.Vectors))
	}

	v := result.Vectors[0]
	if v.Records != 2 {
		t.Errorf("Records = %d, want 2", v.Records)
	}
	if got := v.Metrics[models.MetricPlayerLoad]; got != 500 {
		t.Errorf("player_load = %v, want 500 (sum)", got)
	}
	if got := v.Metrics[models.MetricDistance]; got != 7000 {
		t.Errorf("distance = %v, want 7000 (sum)", got)
	}
	if got := v.Metrics[models.MetricVelocity]; got != 7.0 {
		t.Errorf("velocity = %v, want 7.0 (mean)", got)
	}
}

func TestAggregateMissingMetricExcluded(t *testing.T) {
	svc := NewAggregatorService(zap.NewNop())

	// Only one of two records reports acceleration; the mean must cover
	// just that record, and absent metrics must not appear as zeros.
	records := []models.SensorRecord{
		makeRecord("a1", "2026-03-02", models.SessionTraining, 0, map[string]float64{
			models.MetricPlayerLoad:   100,
			models.MetricAcceleration: 4.0,
		}),
		makeRecord("a1", "2026-03-02", models.SessionTraining, 0, map[string]float64{
			models.MetricPlayerLoad: 100,
		}),
	}

	result := svc.Aggregate(records)
	v := result.Vectors[0]

	if got := v.Metrics[models.MetricAcceleration]; got != 4.0 {
		t.Errorf("acceleration = %v, want 4.0 (mean over reporting records only)", got)
	}
	if _, ok := v.Metrics[models.MetricVelocity]; ok {
		t.Error("velocity should be absent, not zero-filled")
	}
}

func TestAggregateGroupKeys(t *testing.T) {
	svc := NewAggregatorService(zap.NewNop())

	// Same athlete and day, but a match and two distinct training
	// ordinals: three separate vectors.
	records := []models.SensorRecord{
		makeRecord("a1", "2026-03-02", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 100}),
		makeRecord("a1", "2026-03-02", models.SessionTraining, 2, map[string]float64{models.MetricPlayerLoad: 150}),
		makeRecord("a1", "2026-03-02", models.SessionMatch, 0, map[string]float64{models.MetricPlayerLoad: 400}),
		makeRecord("a2", "2026-03-02", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 120}),
	}

	result := svc.Aggregate(records)
	if len(result.Vectors) != 4 {
		t.Fatalf("got %d vectors, want 4", len(result.Vectors))
	}

	tags := make(map[string]bool)
	for _, v := range result.Vectors {
		tags[v.Key()] = true
	}
	for _, want := range []string{
		"a1|2026-03-02|training#1",
		"a1|2026-03-02|training#2",
		"a1|2026-03-02|match",
		"a2|2026-03-02|training#1",
	} {
		if !tags[want] {
			t.Errorf("missing group %q", want)
		}
	}
}

func TestAggregateDropsMalformedRecords(t *testing.T) {
	svc := NewAggregatorService(zap.NewNop())

	records := []models.SensorRecord{
		makeRecord("", "2026-03-02", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 100}),
		makeRecord("a1", "", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 100}),
		makeRecord("a1", "not-a-date", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 100}),
		makeRecord("a1", "2026-03-02", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 100}),
	}

	result := svc.Aggregate(records)
	if result.Dropped != 3 {
		t.Errorf("Dropped = %d, want 3", result.Dropped)
	}
	if len(result.Vectors) != 1 {
		t.Errorf("got %d vectors, want 1", len(result.Vectors))
	}
}

func TestAggregateIgnoresUnknownMetrics(t *testing.T) {
	svc := NewAggregatorService(zap.NewNop())

	records := []models.SensorRecord{
		makeRecord("a1", "2026-03-02", models.SessionTraining, 1, map[string]float64{
			models.MetricPlayerLoad: 100,
			"heart_rate_spike":      190,
		}),
	}

	result := svc.Aggregate(records)
	if _, ok := result.Vectors[0].Metrics["heart_rate_spike"]; ok {
		t.Error("unknown metric should not survive aggregation")
	}
}

func TestAggregateDeterministicOrder(t *testing.T) {
	svc := NewAggregatorService(zap.NewNop())

	records := []models.SensorRecord{
		makeRecord("b2", "2026-03-03", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 100}),
		makeRecord("a1", "2026-03-04", models.SessionMatch, 0, map[string]float64{models.MetricPlayerLoad: 400}),
		makeRecord("a1", "2026-03-03", models.SessionTraining, 1, map[string]float64{models.MetricPlayerLoad: 120}),
	}
	reversed := []models.SensorRecord{records[2], records[1], records[0]}

	first := svc.Aggregate(records)
	second := svc.Aggregate(reversed)

	if len(first.Vectors) != len(second.Vectors) {
		t.Fatalf("vector counts differ: %d vs %d", len(first.Vectors), len(second.Vectors))
	}
	for i := range first.Vectors {
		if first.Vectors[i].Key() != second.Vectors[i].Key() {
			t.Errorf("position %d: %q vs %q", i, first.Vectors[i].Key(), second.Vectors[i].Key())
		}
	}
}
