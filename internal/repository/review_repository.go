package repository

import (
	"context"

	"github.com/recallkit/recallkit/internal/models"
)

// ReviewRepository handles the append-only review audit trail
type ReviewRepository interface {
	Insert(ctx context.Context, record models.ReviewRecord) (int64, error)
	ListByCard(ctx context.Context, cardID int64, limit int) ([]models.ReviewRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.ReviewRecord, error)
}
