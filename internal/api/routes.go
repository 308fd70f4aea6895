package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Post("/cards", s.handleInitializeCard)
		r.Post("/cards/batch", s.handleInitializeBatch)
		r.Get("/cards/due", s.handleDueCards)
		r.Post("/cards/{cardID}/review", s.handleRecordReview)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Post("/sessions/{sessionID}/complete", s.handleCompleteSession)

		r.Get("/streak", s.handleGetStreak)

		r.Get("/analytics/forecast", s.handleDueForecast)
		r.Get("/analytics/heatmap", s.handleActivityHeatmap)
		r.Get("/analytics/trend", s.handlePerformanceTrend)
		r.Get("/analytics/difficulty", s.handleDifficultyDistribution)
	})

	return r
}
