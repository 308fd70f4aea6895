package repository

import (
	"context"
	"time"

	"github.com/recallkit/recallkit/internal/models"
)

// DayActivity is one day's raw session aggregate, keyed by date in
// YYYY-MM-DD form. Days with no activity are absent; the service layer
// densifies the series.
type DayActivity struct {
	Date          string
	Sessions      int
	CardsStudied  int
	CorrectCount  int
	AvgResponseMs float64
}

// AnalyticsRepository runs the read-only aggregate queries behind forecasts,
// heatmaps, trends and difficulty histograms. No engine state lives here.
type AnalyticsRepository interface {
	// DueCountsByDay buckets a user's cards by next-review date between from
	// (inclusive) and to (exclusive). Never-reviewed cards count on the from
	// day since they are due immediately.
	DueCountsByDay(ctx context.Context, userID string, from, to time.Time) (map[string]int, error)
	// ActivityByDay aggregates completed sessions per day in [from, to).
	ActivityByDay(ctx context.Context, userID string, from, to time.Time) ([]DayActivity, error)
	EaseDistribution(ctx context.Context, userID string) (models.DifficultyDistribution, error)
}
