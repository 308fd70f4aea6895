package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

const sessionColumns = `id, user_id, set_id, status, started_at, ended_at, duration_seconds, cards_studied, correct_answers, cards_mastered, cards_learning, cards_relearning, accuracy_rate, avg_ease`

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.StudySession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, user_id=%s", s.ID, s.UserID)

	var setID any
	if s.SetID != "" {
		setID = s.SetID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO study_sessions (id, user_id, set_id, status, started_at)
VALUES (?, ?, ?, ?, ?)
`, s.ID, s.UserID, setID, s.Status, s.StartedAt)
	if err != nil {
		log.Error("failed to insert session: %v", err)
	}
	return err
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("fetching session: id=%s", id)

	var s models.StudySession
	var setID sql.NullString
	var endedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT `+sessionColumns+`
FROM study_sessions
WHERE id = ?
`, id).Scan(&s.ID, &s.UserID, &setID, &s.Status, &s.StartedAt, &endedAt, &s.DurationSeconds,
		&s.CardsStudied, &s.CorrectAnswers, &s.CardsMastered, &s.CardsLearning, &s.CardsRelearning,
		&s.AccuracyRate, &s.AvgEase)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	if setID.Valid {
		s.SetID = setID.String
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return &s, nil
}

func (r *sessionRepository) Update(ctx context.Context, s models.StudySession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session: id=%s, status=%s", s.ID, s.Status)

	_, err := r.db.ExecContext(ctx, `
UPDATE study_sessions
SET status = ?, ended_at = ?, duration_seconds = ?, cards_studied = ?, correct_answers = ?,
    cards_mastered = ?, cards_learning = ?, cards_relearning = ?, accuracy_rate = ?, avg_ease = ?
WHERE id = ?
`, s.Status, s.EndedAt, s.DurationSeconds, s.CardsStudied, s.CorrectAnswers,
		s.CardsMastered, s.CardsLearning, s.CardsRelearning, s.AccuracyRate, s.AvgEase, s.ID)
	if err != nil {
		log.Error("failed to update session: %v", err)
	}
	return err
}

func (r *sessionRepository) RecordReview(ctx context.Context, id string, wasCorrect bool) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("recording review in session: id=%s, correct=%t", id, wasCorrect)

	correct := 0
	if wasCorrect {
		correct = 1
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE study_sessions
SET cards_studied = cards_studied + 1, correct_answers = correct_answers + ?
WHERE id = ? AND status = 'active'
`, correct, id)
	if err != nil {
		log.Error("failed to record review in session: %v", err)
	}
	return err
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: user_id=%s, limit=%d", userID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+sessionColumns+`
FROM study_sessions
WHERE user_id = ?
ORDER BY started_at DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		log.Error("failed to query sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var s models.StudySession
		var setID sql.NullString
		var endedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.UserID, &setID, &s.Status, &s.StartedAt, &endedAt, &s.DurationSeconds,
			&s.CardsStudied, &s.CorrectAnswers, &s.CardsMastered, &s.CardsLearning, &s.CardsRelearning,
			&s.AccuracyRate, &s.AvgEase); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		if setID.Valid {
			s.SetID = setID.String
		}
		if endedAt.Valid {
			s.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
