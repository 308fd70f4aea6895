package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/recallkit/recallkit/internal/errors"
	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
	"github.com/recallkit/recallkit/internal/srs"
)

// ReviewOutcome is what a recorded review produces: the scorer result and
// the card state after the write.
type ReviewOutcome struct {
	Card   models.StudyCard `json:"card"`
	Result srs.Result       `json:"result"`
}

// SchedulerService orchestrates card initialization, due-card retrieval and
// review application.
type SchedulerService interface {
	// Initialize creates the scheduling state for one (user, item) pair.
	// It errors with ALREADY_EXISTS on a duplicate; InitializeBatch is the
	// tolerant entry point for idempotent callers.
	Initialize(ctx context.Context, userID, itemID string) (*models.StudyCard, error)
	// InitializeBatch initializes every item in the set, skipping those
	// already initialized, and returns the count newly created.
	InitializeBatch(ctx context.Context, userID string, itemIDs []string) (int, error)
	GetDueCards(ctx context.Context, userID string, limit int) ([]models.StudyCard, error)
	// RecordReview applies one review. A CONFLICT result means the card was
	// concurrently updated and the whole submission should be retried.
	RecordReview(ctx context.Context, userID string, cardID int64, quality int, responseMs int64, sessionID string) (*ReviewOutcome, error)
}

type schedulerService struct {
	cards    repository.CardRepository
	reviews  repository.ReviewRepository
	sessions repository.SessionRepository
	maxLimit int
}

// NewSchedulerService creates a new SchedulerService
func NewSchedulerService(cards repository.CardRepository, reviews repository.ReviewRepository, sessions repository.SessionRepository, maxLimit int) SchedulerService {
	return &schedulerService{cards: cards, reviews: reviews, sessions: sessions, maxLimit: maxLimit}
}

func (s *schedulerService) Initialize(ctx context.Context, userID, itemID string) (*models.StudyCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("initializing card: user_id=%s, item_id=%s", userID, itemID)

	if itemID == "" {
		return nil, errors.NewValidationError("item_id", "must not be empty")
	}

	existing, err := s.cards.GetByItem(ctx, userID, itemID)
	if err != nil {
		log.Error("failed to check existing card: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if existing != nil {
		return nil, errors.NewAlreadyExistsError("study card", itemID)
	}

	card := newStudyCard(userID, itemID, time.Now())
	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewStorageError(err)
	}
	card.ID = id
	card.Version = 1

	log.Info("card initialized: id=%d, item_id=%s", id, itemID)
	return &card, nil
}

func (s *schedulerService) InitializeBatch(ctx context.Context, userID string, itemIDs []string) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("initializing card batch: user_id=%s, count=%d", userID, len(itemIDs))

	created := 0
	seen := make(map[string]bool, len(itemIDs))
	for _, itemID := range itemIDs {
		if itemID == "" || seen[itemID] {
			continue
		}
		seen[itemID] = true

		existing, err := s.cards.GetByItem(ctx, userID, itemID)
		if err != nil {
			log.Error("failed to check existing card: %v", err)
			return created, errors.NewStorageError(err)
		}
		if existing != nil {
			log.Debug("card already initialized, skipping: item_id=%s", itemID)
			continue
		}
		if _, err := s.cards.Insert(ctx, newStudyCard(userID, itemID, time.Now())); err != nil {
			log.Error("failed to insert card: %v", err)
			return created, errors.NewStorageError(err)
		}
		created++
	}

	log.Info("card batch initialized: created=%d of %d", created, len(itemIDs))
	return created, nil
}

func (s *schedulerService) GetDueCards(ctx context.Context, userID string, limit int) ([]models.StudyCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting due cards: user_id=%s, limit=%d", userID, limit)

	if limit <= 0 {
		return nil, errors.NewValidationError("limit", "must be positive")
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	cards, err := s.cards.ListDue(ctx, userID, time.Now(), limit)
	if err != nil {
		log.Error("failed to list due cards: %v", err)
		return nil, errors.NewStorageError(err)
	}
	return cards, nil
}

func (s *schedulerService) RecordReview(ctx context.Context, userID string, cardID int64, quality int, responseMs int64, sessionID string) (*ReviewOutcome, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording review: user_id=%s, card_id=%d, quality=%d", userID, cardID, quality)

	if sessionID != "" {
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
	}

	card, err := s.cards.Get(ctx, cardID, userID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("study card", cardID)
	}

	now := time.Now()
	result, err := srs.Score(quality, card.Repetitions, card.IntervalDays, card.EaseFactor, now)
	if err != nil {
		return nil, err
	}

	record := models.ReviewRecord{
		CardID:         card.ID,
		SessionID:      sessionID,
		Quality:        quality,
		ResponseMs:     responseMs,
		RepsBefore:     card.Repetitions,
		RepsAfter:      result.Repetitions,
		EaseBefore:     card.EaseFactor,
		EaseAfter:      result.EaseFactor,
		IntervalBefore: card.IntervalDays,
		IntervalAfter:  result.IntervalDays,
	}

	// Weighted running mean over the pre-increment total.
	total := card.TotalReviews
	card.AvgResponseMs = (card.AvgResponseMs*float64(total) + float64(responseMs)) / float64(total+1)
	card.TotalReviews++
	if srs.Passed(quality) {
		card.SuccessfulReviews++
	} else {
		card.FailedReviews++
	}
	card.Repetitions = result.Repetitions
	card.EaseFactor = result.EaseFactor
	card.IntervalDays = result.IntervalDays
	card.NextReviewAt = result.NextReviewAt
	card.LastReviewedAt = &now

	if err := s.cards.Update(ctx, *card); err != nil {
		if stderrors.Is(err, repository.ErrVersionConflict) {
			log.Warn("concurrent review detected: card_id=%d", cardID)
			return nil, errors.NewConflictError("study card", cardID)
		}
		log.Error("failed to update card: %v", err)
		return nil, errors.NewStorageError(err)
	}
	card.Version++

	if _, err := s.reviews.Insert(ctx, record); err != nil {
		log.Error("failed to append review record: %v", err)
		return nil, errors.NewStorageError(err)
	}

	if sessionID != "" {
		if err := s.sessions.RecordReview(ctx, sessionID, srs.Passed(quality)); err != nil {
			log.Error("failed to bump session counters: %v", err)
			return nil, errors.NewStorageError(err)
		}
	}

	log.Info("review recorded: card_id=%d, quality=%d, interval=%d days, ease=%.2f",
		cardID, quality, result.IntervalDays, result.EaseFactor)
	return &ReviewOutcome{Card: *card, Result: result}, nil
}

func newStudyCard(userID, itemID string, now time.Time) models.StudyCard {
	return models.StudyCard{
		UserID:       userID,
		ItemID:       itemID,
		Repetitions:  0,
		EaseFactor:   models.DefaultEase,
		IntervalDays: models.InitialInterval,
		NextReviewAt: now,
		CreatedAt:    now,
	}
}
