// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/mealplan/internal/middleware"
)

// NewRouter configures all HTTP routes. A nil mw uses the default
// middleware configuration.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(DefaultChiMiddlewareConfig())
	}
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // must be global to answer OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json", "text/html", "text/plain"))
	r.Use(middleware.PrometheusMetrics)
	if h.deps.Monitor != nil {
		r.Use(h.deps.Monitor.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Route("/meals", func(r chi.Router) {
			r.Get("/", h.ListMeals)
			r.Get("/{id}", h.GetMeal)
			r.Get("/{id}/similar", h.SimilarMeals)
		})

		r.Post("/recommendations", h.Recommend)

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", h.CreateSchedule)
			r.Get("/", h.ListSchedules)
			r.Get("/{id}", h.GetSchedule)
			r.Get("/{id}/report", h.ScheduleReport)
			r.Delete("/{id}", h.DeleteSchedule)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", h.GetPreferences)
			r.Put("/preferences", h.PutPreferences)
			r.Delete("/preferences", h.DeletePreferences)
			r.Post("/history", h.AppendHistory)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(mw.RateLimitTrain()).Post("/train", h.TriggerTraining)
			r.Get("/train", h.TrainingStatus)
			r.Get("/models", h.ListModels)
			r.Get("/stats", h.EngineStats)
			r.Get("/performance", h.Performance)
			r.Delete("/cache", h.ClearCache)
		})
	})

	r.With(mw.RateLimit()).Post("/mcp/tools/call", h.MCPToolCall)

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
