package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/logic"
	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// ScorePredictions handles POST /api/v1/predictions/score
// @Summary Score Training Sessions
// @Description Scores one day's aggregated training vectors (or explicitly posted vectors) against a fitted model
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body models.ScoreRequest true "Scoring request"
// @Success 200 {object} models.ScoreResult
// @Failure 409 {object} map[string]string "Schema mismatch"
// @Router /predictions/score [post]
func (h *Handler) ScorePredictions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ScoreRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Malformed score request")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid score request")
		return
	}
	if req.Date == "" && len(req.Vectors) == 0 {
		h.errorResponse(w, http.StatusBadRequest, "Provide a date or feature vectors to score")
		return
	}

	model, err := h.loadModel(ctx, req.RunID)
	if err != nil {
		if errors.Is(err, logic.ErrNoModel) {
			h.errorResponse(w, http.StatusNotFound, "No model trained yet")
			return
		}
		h.logger.Errorw("Failed to load model artifact", "error", err, "runId", req.RunID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load model artifact")
		return
	}

	vectors := req.Vectors
	if len(vectors) == 0 {
		records, err := h.sessions.ListRecords(ctx, req.Date, req.Date)
		if err != nil {
			h.logger.Errorw("Failed to load sensor records", "error", err, "date", req.Date)
			h.errorResponse(w, http.StatusInternalServerError, "Failed to load sensor records")
			return
		}
		agg := h.aggregator.Aggregate(records)
		for _, v := range agg.Vectors {
			if v.SessionType == models.SessionTraining {
				vectors = append(vectors, v)
			}
		}
	}
	if len(vectors) == 0 {
		h.errorResponse(w, http.StatusNotFound, "No training sessions to score")
		return
	}

	roster := map[string]models.Athlete{}
	if !req.Anonymize {
		roster, err = h.roster.RosterIndex(ctx)
		if err != nil {
			h.logger.Warnw("Failed to load roster, predictions will be unnamed", "error", err)
			roster = map[string]models.Athlete{}
		}
	}

	result, err := h.predictor.Score(model, vectors, roster)
	if err != nil {
		var mismatch *logic.SchemaMismatchError
		if errors.As(err, &mismatch) {
			h.errorResponse(w, http.StatusConflict, mismatch.Error())
			return
		}
		h.logger.Errorw("Scoring failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Scoring failed")
		return
	}

	// Persistence is the caller's job, not the Predictor's.
	if err := h.predictions.Save(ctx, result.Predictions); err != nil {
		h.logger.Errorw("Failed to persist predictions", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to persist predictions")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

func (h *Handler) loadModel(ctx context.Context, runID string) (*models.FittedModel, error) {
	if runID == "" {
		return h.models.Latest(ctx)
	}
	return h.models.Get(ctx, runID)
}
