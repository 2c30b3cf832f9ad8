package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes assembles the HTTP surface.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Collector-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Collector-facing surface
		r.Group(func(r chi.Router) {
			r.Use(h.CollectorAuthMiddleware)
			r.Post("/ingest/sessions", h.IngestSessions)
			r.Post("/system/install", h.InstallDatabase)
		})

		// Analyst-facing surface
		r.Post("/model/train", h.TrainModel)
		r.Get("/model/latest", h.GetLatestModel)
		r.Post("/predictions/score", h.ScorePredictions)
		r.Get("/predictions/report", h.GetDailyReport)
		r.Get("/team/summary", h.GetTeamSummary)
		r.Get("/athletes", h.ListAthletes)
		r.Get("/athletes/{id}/trend", h.GetAthleteTrend)
	})

	return r
}
