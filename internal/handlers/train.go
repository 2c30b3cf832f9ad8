package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/logic"
	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// TrainModel handles POST /api/v1/model/train
// @Summary Train Readiness Model
// @Description Aggregates stored sensor records, assigns match-day benchmarks and fits a new model artifact
// @Tags Modeling
// @Accept json
// @Produce json
// @Param body body models.TrainRequest false "Date range"
// @Success 201 {object} models.TrainingReport
// @Failure 422 {object} map[string]string "Insufficient data"
// @Router /model/train [post]
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.TrainRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Malformed train request")
			return
		}
		if err := h.validator.Struct(&req); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Invalid date range")
			return
		}
	}

	records, err := h.sessions.ListRecords(ctx, req.From, req.To)
	if err != nil {
		h.logger.Errorw("Failed to load sensor records", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load sensor records")
		return
	}

	agg := h.aggregator.Aggregate(records)
	benchmarks := h.benchmarks.Assign(agg.Vectors)
	examples := h.benchmarks.BuildExamples(benchmarks)

	trainingDays := 0
	for _, v := range agg.Vectors {
		if v.SessionType == models.SessionTraining {
			trainingDays++
		}
	}

	model, err := h.trainer.Train(examples)
	if err != nil {
		var insufficient *logic.InsufficientDataError
		if errors.As(err, &insufficient) {
			h.errorResponse(w, http.StatusUnprocessableEntity, insufficient.Error())
			return
		}
		h.logger.Errorw("Training run failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Training run failed")
		return
	}

	if err := h.models.Save(ctx, model); err != nil {
		h.logger.Errorw("Failed to persist model artifact", "error", err, "runId", model.RunID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to persist model artifact")
		return
	}

	h.jsonResponse(w, http.StatusCreated, models.TrainingReport{
		RunID:           model.RunID,
		TrainedAt:       model.TrainedAt,
		TrainExamples:   model.TrainExamples,
		HoldoutExamples: model.HoldoutExamples,
		MAE:             model.MAE,
		Vectors:         len(agg.Vectors),
		DroppedRecords:  agg.Dropped,
		ExcludedDays:    trainingDays - len(examples),
	})
}

// GetLatestModel handles GET /api/v1/model/latest
// @Summary Latest Model Artifact
// @Description Artifact metadata; coefficients stay server-side
// @Tags Modeling
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No model trained yet"
// @Router /model/latest [get]
func (h *Handler) GetLatestModel(w http.ResponseWriter, r *http.Request) {
	model, err := h.models.Latest(r.Context())
	if err != nil {
		if errors.Is(err, logic.ErrNoModel) {
			h.errorResponse(w, http.StatusNotFound, "No model trained yet")
			return
		}
		h.logger.Errorw("Failed to load latest model", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load latest model")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"run_id":           model.RunID,
		"trained_at":       model.TrainedAt,
		"target_kind":      model.TargetKind,
		"metrics":          model.Metrics,
		"seed":             model.Seed,
		"train_examples":   model.TrainExamples,
		"holdout_examples": model.HoldoutExamples,
		"mae":              model.MAE,
	})
}
