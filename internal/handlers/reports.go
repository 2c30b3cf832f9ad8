package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// GetDailyReport handles GET /api/v1/predictions/report
// @Summary Daily Readiness Report
// @Description Per-athlete scores, per-position averages and grouped team score for one day
// @Tags Predictions
// @Produce json
// @Param date query string true "Day to report (YYYY-MM-DD)"
// @Success 200 {object} models.DailyReport
// @Failure 404 {object} map[string]string "No predictions for that day"
// @Router /predictions/report [get]
func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date := r.URL.Query().Get("date")
	if !validDate(date) {
		h.errorResponse(w, http.StatusBadRequest, "date query parameter is required (YYYY-MM-DD)")
		return
	}

	cacheKey := "report:" + date
	if cached, err := h.redis.Get(ctx, cacheKey).Bytes(); err == nil {
		var report models.DailyReport
		if json.Unmarshal(cached, &report) == nil {
			h.jsonResponse(w, http.StatusOK, report)
			return
		}
	}

	predictions, err := h.predictions.ListByDate(ctx, date)
	if err != nil {
		h.logger.Errorw("Failed to load predictions", "error", err, "date", date)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load predictions")
		return
	}
	if len(predictions) == 0 {
		h.errorResponse(w, http.StatusNotFound, "No predictions for that day")
		return
	}

	report := h.reports.BuildDailyReport(date, predictions)

	if data, err := json.Marshal(report); err == nil {
		h.redis.Set(ctx, cacheKey, data, h.reportTTL)
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// GetTeamSummary handles GET /api/v1/team/summary
// @Summary Team Session Summary
// @Description Squad-level averages of the top athletes by player load per session
// @Tags Team
// @Produce json
// @Param date query string false "Restrict to one day (YYYY-MM-DD)"
// @Success 200 {array} models.TeamSessionSummary
// @Router /team/summary [get]
func (h *Handler) GetTeamSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date := r.URL.Query().Get("date")
	if date != "" && !validDate(date) {
		h.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	records, err := h.sessions.ListRecords(ctx, date, date)
	if err != nil {
		h.logger.Errorw("Failed to load sensor records", "error", err, "date", date)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load sensor records")
		return
	}

	agg := h.aggregator.Aggregate(records)
	summaries := h.reports.TeamSummary(agg.Vectors, h.squadSize)

	h.jsonResponse(w, http.StatusOK, summaries)
}
