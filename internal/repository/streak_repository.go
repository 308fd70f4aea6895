package repository

import (
	"context"

	"github.com/recallkit/recallkit/internal/models"
)

// StreakRepository handles per-user study streak data access
type StreakRepository interface {
	Get(ctx context.Context, userID string) (*models.StudyStreak, error)
	Upsert(ctx context.Context, streak models.StudyStreak) error
}
