package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
)

type startSessionRequest struct {
	SetID string `json:"set_id,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	var req startSessionRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	log.Debug("starting session: user_id=%s", userID)

	session, err := s.Sessions.Start(r.Context(), userID, req.SetID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := s.Sessions.Get(r.Context(), sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	var stats models.SessionStats
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &stats); err != nil {
			handleError(w, r, err)
			return
		}
	}

	log.Debug("completing session: id=%s", sessionID)

	session, err := s.Sessions.Complete(r.Context(), sessionID, stats)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("session completed: id=%s", sessionID)
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	streak, err := s.Streaks.Get(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, streak)
}
