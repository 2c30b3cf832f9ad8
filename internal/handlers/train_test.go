package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// seasonRecords builds a tiny season: each athlete has one fully-metered
// training day and a match day three days later.
func seasonRecords(athletes int) []models.SensorRecord {
	fullMetrics := func(scale float64) map[string]float64 {
		return map[string]float64{
			models.MetricPlayerLoad:        400 * scale,
			models.MetricVelocity:          6 * scale,
			models.MetricAcceleration:      3 * scale,
			models.MetricDeceleration:      2 * scale,
			models.MetricDistance:          5000 * scale,
			models.MetricHighSpeedDistance: 300 * scale,
		}
	}

	var records []models.SensorRecord
	for i := 0; i < athletes; i++ {
		id := fmt.Sprintf("ath_%d", i)
		records = append(records,
			models.SensorRecord{
				AthleteID: id, ActivityID: id + "-t", Date: "2026-03-02",
				SessionType: models.SessionTraining, SessionOrdinal: 1,
				Metrics: fullMetrics(0.5 + 0.1*float64(i)),
			},
			models.SensorRecord{
				AthleteID: id, ActivityID: id + "-m", Date: "2026-03-05",
				SessionType: models.SessionMatch,
				Metrics:     fullMetrics(1.0),
			},
		)
	}
	return records
}

func TestTrainModel(t *testing.T) {
	saved := 0
	sessions := &MockSessionStore{
		ListRecordsFunc: func(ctx context.Context, from, to string) ([]models.SensorRecord, error) {
			return seasonRecords(8), nil
		},
	}
	modelStore := &MockModelStore{
		SaveFunc: func(ctx context.Context, m *models.FittedModel) error {
			saved++
			return nil
		},
	}
	h := newTestHandler(sessions, modelStore, &MockRosterStore{}, &MockPredictionStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/model/train", strings.NewReader(`{"from":"2026-03-01","to":"2026-03-31"}`))
	rec := httptest.NewRecorder()
	h.TrainModel(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body = %s", rec.Code, rec.Body.String())
	}
	if saved != 1 {
		t.Errorf("Save called %d times, want 1", saved)
	}

	var report models.TrainingReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.RunID == "" {
		t.Error("report missing run id")
	}
	if report.TrainExamples != 8 {
		t.Errorf("TrainExamples = %d, want 8", report.TrainExamples)
	}
	if report.Vectors != 16 {
		t.Errorf("Vectors = %d, want 16", report.Vectors)
	}
	if report.ExcludedDays != 0 {
		t.Errorf("ExcludedDays = %d, want 0", report.ExcludedDays)
	}
}

func TestTrainModelInsufficientData(t *testing.T) {
	sessions := &MockSessionStore{
		ListRecordsFunc: func(ctx context.Context, from, to string) ([]models.SensorRecord, error) {
			return seasonRecords(1), nil
		},
	}
	modelStore := &MockModelStore{
		SaveFunc: func(ctx context.Context, m *models.FittedModel) error {
			t.Error("Save should not be called on a failed run")
			return nil
		},
	}
	h := newTestHandler(sessions, modelStore, &MockRosterStore{}, &MockPredictionStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/model/train", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.TrainModel(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestTrainModelMalformedBody(t *testing.T) {
	h := newTestHandler(&MockSessionStore{}, &MockModelStore{}, &MockRosterStore{}, &MockPredictionStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/model/train", strings.NewReader(`{"from": not-json`))
	rec := httptest.NewRecorder()
	h.TrainModel(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetLatestModelNotFound(t *testing.T) {
	h := newTestHandler(&MockSessionStore{}, &MockModelStore{}, &MockRosterStore{}, &MockPredictionStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/model/latest", nil)
	rec := httptest.NewRecorder()
	h.GetLatestModel(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
