package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository implementation
func NewAnalyticsRepository(db *sql.DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) DueCountsByDay(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	log := logger.FromContext(ctx).WithPrefix("analytics_repo")
	log.Debug("fetching due counts: user_id=%s, from=%s, to=%s", userID, dateKey(from), dateKey(to))

	// Overdue and never-reviewed cards are due immediately, so they land in
	// the first bucket of the window.
	rows, err := r.db.QueryContext(ctx, `
SELECT
    CASE WHEN last_reviewed_at IS NULL OR next_review_at < ? THEN ? ELSE date(next_review_at) END AS day,
    COUNT(*) AS due_count
FROM study_cards
WHERE user_id = ?
  AND (last_reviewed_at IS NULL OR next_review_at < ?)
GROUP BY day
`, from, dateKey(from), userID, to)
	if err != nil {
		log.Error("failed to query due counts: %v", err)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			log.Error("failed to scan due count row: %v", err)
			return nil, err
		}
		counts[day] = n
	}
	return counts, rows.Err()
}

func (r *analyticsRepository) ActivityByDay(ctx context.Context, userID string, from, to time.Time) ([]repository.DayActivity, error) {
	log := logger.FromContext(ctx).WithPrefix("analytics_repo")
	log.Debug("fetching activity: user_id=%s, from=%s, to=%s", userID, dateKey(from), dateKey(to))

	rows, err := r.db.QueryContext(ctx, `
SELECT
    date(started_at) AS day,
    COUNT(*) AS sessions,
    COALESCE(SUM(cards_studied), 0) AS cards_studied,
    COALESCE(SUM(correct_answers), 0) AS correct_answers
FROM study_sessions
WHERE user_id = ? AND status = 'completed' AND started_at >= ? AND started_at < ?
GROUP BY day
`, userID, from, to)
	if err != nil {
		log.Error("failed to query session activity: %v", err)
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]*repository.DayActivity)
	for rows.Next() {
		var a repository.DayActivity
		if err := rows.Scan(&a.Date, &a.Sessions, &a.CardsStudied, &a.CorrectCount); err != nil {
			log.Error("failed to scan activity row: %v", err)
			return nil, err
		}
		byDay[a.Date] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Response latency lives on review records, keyed back through the
	// session they were reviewed in.
	respRows, err := r.db.QueryContext(ctx, `
SELECT date(rr.reviewed_at) AS day, AVG(rr.response_ms) AS avg_response_ms
FROM review_records rr
JOIN study_sessions s ON s.id = rr.session_id
WHERE s.user_id = ? AND s.status = 'completed' AND rr.reviewed_at >= ? AND rr.reviewed_at < ?
GROUP BY day
`, userID, from, to)
	if err != nil {
		log.Error("failed to query response times: %v", err)
		return nil, err
	}
	defer respRows.Close()

	for respRows.Next() {
		var day string
		var avg float64
		if err := respRows.Scan(&day, &avg); err != nil {
			log.Error("failed to scan response time row: %v", err)
			return nil, err
		}
		if a, ok := byDay[day]; ok {
			a.AvgResponseMs = avg
		}
	}
	if err := respRows.Err(); err != nil {
		return nil, err
	}

	activity := make([]repository.DayActivity, 0, len(byDay))
	for _, a := range byDay {
		activity = append(activity, *a)
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].Date < activity[j].Date })
	log.Debug("found activity on %d days", len(activity))
	return activity, nil
}

func (r *analyticsRepository) EaseDistribution(ctx context.Context, userID string) (models.DifficultyDistribution, error) {
	log := logger.FromContext(ctx).WithPrefix("analytics_repo")
	log.Debug("fetching ease distribution: user_id=%s", userID)

	var d models.DifficultyDistribution
	err := r.db.QueryRowContext(ctx, `
SELECT
    COALESCE(SUM(CASE WHEN ease_factor > 2.5 THEN 1 ELSE 0 END), 0) AS easy,
    COALESCE(SUM(CASE WHEN ease_factor >= 2.0 AND ease_factor <= 2.5 THEN 1 ELSE 0 END), 0) AS medium,
    COALESCE(SUM(CASE WHEN ease_factor >= 1.5 AND ease_factor < 2.0 THEN 1 ELSE 0 END), 0) AS hard,
    COALESCE(SUM(CASE WHEN ease_factor < 1.5 THEN 1 ELSE 0 END), 0) AS very_hard,
    COUNT(*) AS total_cards
FROM study_cards
WHERE user_id = ?
`, userID).Scan(&d.Easy, &d.Medium, &d.Hard, &d.VeryHard, &d.TotalCards)
	if err != nil {
		log.Error("failed to get ease distribution: %v", err)
		return models.DifficultyDistribution{}, err
	}
	return d, nil
}
