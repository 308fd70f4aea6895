package repository

import (
	"context"

	"github.com/recallkit/recallkit/internal/models"
)

// SessionRepository handles study session data access
type SessionRepository interface {
	Insert(ctx context.Context, session models.StudySession) error
	Get(ctx context.Context, id string) (*models.StudySession, error)
	Update(ctx context.Context, session models.StudySession) error
	// RecordReview bumps the live counters on an active session.
	RecordReview(ctx context.Context, id string, wasCorrect bool) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.StudySession, error)
}
