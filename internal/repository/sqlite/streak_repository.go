package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

type streakRepository struct {
	db *sql.DB
}

// NewStreakRepository creates a new StreakRepository implementation
func NewStreakRepository(db *sql.DB) repository.StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) Get(ctx context.Context, userID string) (*models.StudyStreak, error) {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")
	log.Debug("fetching streak: user_id=%s", userID)

	var s models.StudyStreak
	var lastStudyDate string
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, current_streak, longest_streak, last_study_date, total_days_studied, updated_at
FROM study_streaks
WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.CurrentStreak, &s.LongestStreak, &lastStudyDate, &s.TotalDaysStudied, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("streak not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get streak: %v", err)
		return nil, err
	}
	s.LastStudyDate, err = time.Parse("2006-01-02", lastStudyDate)
	if err != nil {
		log.Error("malformed last_study_date %q: %v", lastStudyDate, err)
		return nil, err
	}
	return &s, nil
}

func (r *streakRepository) Upsert(ctx context.Context, s models.StudyStreak) error {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")
	log.Debug("upserting streak: user_id=%s, current=%d, longest=%d", s.UserID, s.CurrentStreak, s.LongestStreak)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO study_streaks (user_id, current_streak, longest_streak, last_study_date, total_days_studied, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_id) DO UPDATE SET
    current_streak = excluded.current_streak,
    longest_streak = excluded.longest_streak,
    last_study_date = excluded.last_study_date,
    total_days_studied = excluded.total_days_studied,
    updated_at = CURRENT_TIMESTAMP
`, s.UserID, s.CurrentStreak, s.LongestStreak, dateKey(s.LastStudyDate), s.TotalDaysStudied)
	if err != nil {
		log.Error("failed to upsert streak: %v", err)
	}
	return err
}
