package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/recallkit/recallkit/internal/errors"
	"github.com/recallkit/recallkit/internal/logger"
)

type initializeCardRequest struct {
	ItemID string `json:"item_id"`
}

func (s *Server) handleInitializeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	var req initializeCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("initializing card: user_id=%s, item_id=%s", userID, req.ItemID)

	card, err := s.Scheduler.Initialize(r.Context(), userID, req.ItemID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

type initializeBatchRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type initializeBatchResponse struct {
	Created int `json:"created"`
}

func (s *Server) handleInitializeBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	var req initializeBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("initializing card batch: user_id=%s, count=%d", userID, len(req.ItemIDs))

	created, err := s.Scheduler.InitializeBatch(r.Context(), userID, req.ItemIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, initializeBatchResponse{Created: created})
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit, err := queryInt(r, "limit", s.DefaultDueLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Scheduler.GetDueCards(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

type recordReviewRequest struct {
	Quality    int    `json:"quality"`
	ResponseMs int64  `json:"response_ms"`
	SessionID  string `json:"session_id,omitempty"`
}

func (s *Server) handleRecordReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		log.Warn("invalid card ID: %s", chi.URLParam(r, "cardID"))
		handleError(w, r, errors.NewBadRequestError("invalid card ID"))
		return
	}

	var req recordReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.ResponseMs < 0 {
		req.ResponseMs = 0
	}

	log.Debug("recording review: card_id=%d, quality=%d", cardID, req.Quality)

	outcome, err := s.Scheduler.RecordReview(r.Context(), userID, cardID, req.Quality, req.ResponseMs, req.SessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}
