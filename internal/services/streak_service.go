package services

import (
	"context"
	"time"

	"github.com/recallkit/recallkit/internal/errors"
	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

// StreakService maintains the per-user consecutive-study-day counter. It is
// driven by session completion, never by individual reviews.
type StreakService interface {
	// Touch records that the user studied on the given day. Same-day repeats
	// are idempotent; a gap of more than one day resets the current streak.
	Touch(ctx context.Context, userID string, today time.Time) (*models.StudyStreak, error)
	Get(ctx context.Context, userID string) (*models.StudyStreak, error)
}

type streakService struct {
	streaks repository.StreakRepository
}

// NewStreakService creates a new StreakService
func NewStreakService(streaks repository.StreakRepository) StreakService {
	return &streakService{streaks: streaks}
}

func (s *streakService) Touch(ctx context.Context, userID string, today time.Time) (*models.StudyStreak, error) {
	log := logger.FromContext(ctx)
	day := truncateToDay(today)
	log.Debug("touching streak: user_id=%s, day=%s", userID, day.Format("2006-01-02"))

	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get streak: %v", err)
		return nil, errors.NewStorageError(err)
	}

	if streak == nil {
		streak = &models.StudyStreak{
			UserID:           userID,
			CurrentStreak:    1,
			LongestStreak:    1,
			LastStudyDate:    day,
			TotalDaysStudied: 1,
		}
		if err := s.streaks.Upsert(ctx, *streak); err != nil {
			log.Error("failed to create streak: %v", err)
			return nil, errors.NewStorageError(err)
		}
		log.Info("streak started: user_id=%s", userID)
		return streak, nil
	}

	daysSince := int(day.Sub(truncateToDay(streak.LastStudyDate)).Hours() / 24)
	switch {
	case daysSince == 0:
		// Already counted today; studying twice does not double-count.
		return streak, nil
	case daysSince == 1:
		streak.CurrentStreak++
		streak.TotalDaysStudied++
	case daysSince > 1:
		log.Debug("streak broken: user_id=%s, gap=%d days", userID, daysSince)
		streak.CurrentStreak = 1
		streak.TotalDaysStudied++
	default:
		// Out-of-order event, likely clock skew. Never decrement counters.
		log.Warn("streak touch before last study date: user_id=%s, day=%s, last=%s",
			userID, day.Format("2006-01-02"), streak.LastStudyDate.Format("2006-01-02"))
		return streak, nil
	}

	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastStudyDate = day

	if err := s.streaks.Upsert(ctx, *streak); err != nil {
		log.Error("failed to update streak: %v", err)
		return nil, errors.NewStorageError(err)
	}
	log.Info("streak updated: user_id=%s, current=%d, longest=%d", userID, streak.CurrentStreak, streak.LongestStreak)
	return streak, nil
}

func (s *streakService) Get(ctx context.Context, userID string) (*models.StudyStreak, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting streak: user_id=%s", userID)

	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get streak: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if streak == nil {
		// A user who has never studied has an empty streak, not an error.
		return &models.StudyStreak{UserID: userID}, nil
	}
	return streak, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
