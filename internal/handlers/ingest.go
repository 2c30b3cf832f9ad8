package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// IngestSessions handles POST /api/v1/ingest/sessions
// @Summary Ingest Sensor Records
// @Description Accepts newline-separated JSON sensor records from data collectors
// @Tags Ingestion
// @Accept json
// @Produce json
// @Security CollectorToken
// @Param body body []models.SensorRecord true "Sensor records"
// @Success 202 {object} map[string]int "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ingest/sessions [post]
func (h *Handler) IngestSessions(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	defer r.Body.Close()

	lines := strings.Split(string(body), "\n")
	accepted := 0
	dropped := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var record models.SensorRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			h.logger.Warnw("Failed to unmarshal sensor record in batch", "error", err)
			dropped++
			continue
		}

		if err := h.validator.Struct(&record); err != nil {
			h.logger.Warnw("Rejecting invalid sensor record", "error", err, "athlete", record.AthleteID)
			dropped++
			continue
		}

		if !h.pool.Enqueue(&record) {
			dropped++
			continue
		}
		accepted++
	}

	if accepted == 0 && dropped > 0 {
		h.errorResponse(w, http.StatusBadRequest, "No valid sensor records in batch")
		return
	}

	h.jsonResponse(w, http.StatusAccepted, map[string]int{
		"accepted": accepted,
		"dropped":  dropped,
	})
}
