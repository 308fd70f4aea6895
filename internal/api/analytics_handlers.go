package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDueForecast(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	days, err := queryInt(r, "days", 7)
	if err != nil {
		handleError(w, r, err)
		return
	}

	forecast, err := s.Analytics.DueForecast(r.Context(), userID, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"forecast": forecast})
}

func (s *Server) handleActivityHeatmap(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	days, err := queryInt(r, "days", s.HeatmapWindowDays)
	if err != nil {
		handleError(w, r, err)
		return
	}

	heatmap, err := s.Analytics.ActivityHeatmap(r.Context(), userID, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"heatmap": heatmap})
}

func (s *Server) handlePerformanceTrend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	days, err := queryInt(r, "days", 30)
	if err != nil {
		handleError(w, r, err)
		return
	}

	trend, err := s.Analytics.PerformanceTrend(r.Context(), userID, days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"trend": trend})
}

func (s *Server) handleDifficultyDistribution(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	dist, err := s.Analytics.DifficultyDistribution(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dist)
}
