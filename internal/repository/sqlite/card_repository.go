package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

const cardColumns = `id, user_id, item_id, repetitions, ease_factor, interval_days, next_review_at, last_reviewed_at, total_reviews, successful_reviews, failed_reviews, avg_response_ms, version, created_at`

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.StudyCard) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting study card: user_id=%s, item_id=%s", c.UserID, c.ItemID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO study_cards (user_id, item_id, repetitions, ease_factor, interval_days, next_review_at, last_reviewed_at, total_reviews, successful_reviews, failed_reviews, avg_response_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.UserID, c.ItemID, c.Repetitions, c.EaseFactor, c.IntervalDays, c.NextReviewAt, c.LastReviewedAt, c.TotalReviews, c.SuccessfulReviews, c.FailedReviews, c.AvgResponseMs)
	if err != nil {
		log.Error("failed to insert study card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get study card id: %v", err)
		return 0, err
	}
	log.Debug("study card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Update(ctx context.Context, c models.StudyCard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating study card: id=%d, interval=%d, ease=%.2f, version=%d", c.ID, c.IntervalDays, c.EaseFactor, c.Version)

	res, err := r.db.ExecContext(ctx, `
UPDATE study_cards
SET repetitions = ?, ease_factor = ?, interval_days = ?, next_review_at = ?, last_reviewed_at = ?,
    total_reviews = ?, successful_reviews = ?, failed_reviews = ?, avg_response_ms = ?,
    version = version + 1
WHERE id = ? AND version = ?
`, c.Repetitions, c.EaseFactor, c.IntervalDays, c.NextReviewAt, c.LastReviewedAt,
		c.TotalReviews, c.SuccessfulReviews, c.FailedReviews, c.AvgResponseMs,
		c.ID, c.Version)
	if err != nil {
		log.Error("failed to update study card: %v", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Warn("version conflict on study card: id=%d, version=%d", c.ID, c.Version)
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *cardRepository) Get(ctx context.Context, id int64, userID string) (*models.StudyCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching study card: id=%d, user_id=%s", id, userID)

	row := r.db.QueryRowContext(ctx, `
SELECT `+cardColumns+`
FROM study_cards
WHERE id = ? AND user_id = ?
`, id, userID)
	return scanCardRow(row, log)
}

func (r *cardRepository) GetByItem(ctx context.Context, userID, itemID string) (*models.StudyCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching study card by item: user_id=%s, item_id=%s", userID, itemID)

	row := r.db.QueryRowContext(ctx, `
SELECT `+cardColumns+`
FROM study_cards
WHERE user_id = ? AND item_id = ?
`, userID, itemID)
	return scanCardRow(row, log)
}

func (r *cardRepository) ListDue(ctx context.Context, userID string, asOf time.Time, limit int) ([]models.StudyCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: user_id=%s, limit=%d", userID, limit)

	// Overdue reviewed cards first, longest overdue leading; cards that were
	// never reviewed fill whatever capacity remains.
	query, args, err := sqlBuilder.
		Select(cardColumns).
		From("study_cards").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Or{
			squirrel.LtOrEq{"next_review_at": asOf},
			squirrel.Eq{"last_reviewed_at": nil},
		}).
		OrderBy("last_reviewed_at IS NULL", "next_review_at ASC", "created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build due cards query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan due card rows: %v", err)
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) ListByUser(ctx context.Context, userID string) ([]models.StudyCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing study cards: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+cardColumns+`
FROM study_cards
WHERE user_id = ?
ORDER BY created_at ASC
`, userID)
	if err != nil {
		log.Error("failed to list study cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		log.Error("failed to scan study card rows: %v", err)
		return nil, err
	}
	return cards, rows.Err()
}

func scanCardRow(row *sql.Row, log *logger.Logger) (*models.StudyCard, error) {
	var c models.StudyCard
	var lastReviewed sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &c.ItemID, &c.Repetitions, &c.EaseFactor, &c.IntervalDays, &c.NextReviewAt, &lastReviewed,
		&c.TotalReviews, &c.SuccessfulReviews, &c.FailedReviews, &c.AvgResponseMs, &c.Version, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("study card not found")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to scan study card: %v", err)
		return nil, err
	}
	if lastReviewed.Valid {
		c.LastReviewedAt = &lastReviewed.Time
	}
	return &c, nil
}

func scanCards(rows *sql.Rows) ([]models.StudyCard, error) {
	var cards []models.StudyCard
	for rows.Next() {
		var c models.StudyCard
		var lastReviewed sql.NullTime
		if err := rows.Scan(&c.ID, &c.UserID, &c.ItemID, &c.Repetitions, &c.EaseFactor, &c.IntervalDays, &c.NextReviewAt, &lastReviewed,
			&c.TotalReviews, &c.SuccessfulReviews, &c.FailedReviews, &c.AvgResponseMs, &c.Version, &c.CreatedAt); err != nil {
			return nil, err
		}
		if lastReviewed.Valid {
			c.LastReviewedAt = &lastReviewed.Time
		}
		cards = append(cards, c)
	}
	return cards, nil
}
