package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/recallkit/recallkit/internal/errors"
	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

// SessionService groups a bounded run of reviews into a study session and
// finalizes its counters on completion.
type SessionService interface {
	Start(ctx context.Context, userID, setID string) (*models.StudySession, error)
	Get(ctx context.Context, sessionID string) (*models.StudySession, error)
	// Complete finalizes the session: end timestamp, duration, accuracy and
	// the caller-supplied stage counts. A completed session is terminal, and
	// completion triggers the user's streak update.
	Complete(ctx context.Context, sessionID string, stats models.SessionStats) (*models.StudySession, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	streaks  StreakService
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionRepository, streaks StreakService) SessionService {
	return &sessionService{sessions: sessions, streaks: streaks}
}

func (s *sessionService) Start(ctx context.Context, userID, setID string) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%s, set_id=%s", userID, setID)

	if userID == "" {
		return nil, errors.NewValidationError("user_id", "must not be empty")
	}

	session := models.StudySession{
		ID:        uuid.NewString(),
		UserID:    userID,
		SetID:     setID,
		Status:    models.SessionActive,
		StartedAt: time.Now(),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, errors.NewStorageError(err)
	}

	log.Info("session started: id=%s, user_id=%s", session.ID, userID)
	return &session, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting session: id=%s", sessionID)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return session, nil
}

func (s *sessionService) Complete(ctx context.Context, sessionID string, stats models.SessionStats) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing session: id=%s", sessionID)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	if session.Status != models.SessionActive {
		return nil, errors.NewSessionClosedError(sessionID)
	}

	now := time.Now()
	session.Status = models.SessionCompleted
	session.EndedAt = &now
	session.DurationSeconds = int64(now.Sub(session.StartedAt).Seconds())
	if session.CardsStudied > 0 {
		session.AccuracyRate = float64(session.CorrectAnswers) / float64(session.CardsStudied)
	}
	session.CardsMastered = stats.CardsMastered
	session.CardsLearning = stats.CardsLearning
	session.CardsRelearning = stats.CardsRelearning
	session.AvgEase = stats.AvgEase

	if err := s.sessions.Update(ctx, *session); err != nil {
		log.Error("failed to finalize session: %v", err)
		return nil, errors.NewStorageError(err)
	}

	if _, err := s.streaks.Touch(ctx, session.UserID, now); err != nil {
		log.Error("failed to update streak after session completion: %v", err)
		return nil, err
	}

	log.Info("session completed: id=%s, cards=%d, accuracy=%.2f", sessionID, session.CardsStudied, session.AccuracyRate)
	return session, nil
}
