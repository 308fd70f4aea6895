package sqlite

import (
	"context"
	"database/sql"

	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

const reviewColumns = `id, card_id, session_id, quality, response_ms, repetitions_before, repetitions_after, ease_before, ease_after, interval_before, interval_after, reviewed_at`

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Insert(ctx context.Context, rec models.ReviewRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("inserting review record: card_id=%d, quality=%d", rec.CardID, rec.Quality)

	var sessionID any
	if rec.SessionID != "" {
		sessionID = rec.SessionID
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_records (card_id, session_id, quality, response_ms, repetitions_before, repetitions_after, ease_before, ease_after, interval_before, interval_after)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.CardID, sessionID, rec.Quality, rec.ResponseMs, rec.RepsBefore, rec.RepsAfter, rec.EaseBefore, rec.EaseAfter, rec.IntervalBefore, rec.IntervalAfter)
	if err != nil {
		log.Error("failed to insert review record: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get review record id: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *reviewRepository) ListByCard(ctx context.Context, cardID int64, limit int) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("listing review records: card_id=%d, limit=%d", cardID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+reviewColumns+`
FROM review_records
WHERE card_id = ?
ORDER BY reviewed_at DESC
LIMIT ?
`, cardID, limit)
	if err != nil {
		log.Error("failed to query review records: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *reviewRepository) ListBySession(ctx context.Context, sessionID string) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("listing review records: session_id=%s", sessionID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+reviewColumns+`
FROM review_records
WHERE session_id = ?
ORDER BY reviewed_at ASC
`, sessionID)
	if err != nil {
		log.Error("failed to query review records: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]models.ReviewRecord, error) {
	var records []models.ReviewRecord
	for rows.Next() {
		var rec models.ReviewRecord
		var sessionID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.CardID, &sessionID, &rec.Quality, &rec.ResponseMs,
			&rec.RepsBefore, &rec.RepsAfter, &rec.EaseBefore, &rec.EaseAfter,
			&rec.IntervalBefore, &rec.IntervalAfter, &rec.ReviewedAt); err != nil {
			return nil, err
		}
		if sessionID.Valid {
			rec.SessionID = sessionID.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
