package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// ListAthletes handles GET /api/v1/athletes
// @Summary List Roster
// @Tags Roster
// @Produce json
// @Success 200 {array} models.Athlete
// @Router /athletes [get]
func (h *Handler) ListAthletes(w http.ResponseWriter, r *http.Request) {
	athletes, err := h.roster.ListAthletes(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to load roster", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load roster")
		return
	}

	h.jsonResponse(w, http.StatusOK, athletes)
}

// GetAthleteTrend handles GET /api/v1/athletes/{id}/trend
// @Summary Athlete Readiness Trend
// @Description Persisted prediction time series for one athlete, oldest first
// @Tags Roster
// @Produce json
// @Param id path string true "Athlete ID"
// @Param limit query int false "Maximum points" default(90)
// @Success 200 {array} models.TrendPoint
// @Router /athletes/{id}/trend [get]
func (h *Handler) GetAthleteTrend(w http.ResponseWriter, r *http.Request) {
	athleteID := chi.URLParam(r, "id")
	if athleteID == "" {
		h.errorResponse(w, http.StatusBadRequest, "Athlete ID is required")
		return
	}

	limit := 90
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	points, err := h.predictions.Trend(r.Context(), athleteID, limit)
	if err != nil {
		h.logger.Errorw("Failed to load trend", "error", err, "athlete", athleteID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load trend")
		return
	}

	h.jsonResponse(w, http.StatusOK, points)
}

// validDate reports whether s is a well-formed YYYY-MM-DD day.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
