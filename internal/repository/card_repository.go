package repository

import (
	"context"
	"errors"
	"time"

	"github.com/recallkit/recallkit/internal/models"
)

// ErrVersionConflict is returned by Update when the card row changed under
// the caller's feet. The whole review submission should be retried.
var ErrVersionConflict = errors.New("card version conflict")

// CardRepository handles study card data access
type CardRepository interface {
	Insert(ctx context.Context, card models.StudyCard) (int64, error)
	// Update writes the card back guarded by its version; the stored version
	// must match card.Version or ErrVersionConflict is returned.
	Update(ctx context.Context, card models.StudyCard) error
	Get(ctx context.Context, id int64, userID string) (*models.StudyCard, error)
	GetByItem(ctx context.Context, userID, itemID string) (*models.StudyCard, error)
	// ListDue returns cards due as of the given time: reviewed cards ordered
	// by next_review_at ascending (longest overdue first), then never-reviewed
	// cards filling the remaining capacity.
	ListDue(ctx context.Context, userID string, asOf time.Time, limit int) ([]models.StudyCard, error)
	ListByUser(ctx context.Context, userID string) ([]models.StudyCard, error)
}
