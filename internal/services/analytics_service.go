package services

import (
	"context"
	"time"

	"github.com/recallkit/recallkit/internal/errors"
	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
)

// AnalyticsService is the read-only aggregation layer over card and session
// state. Users with no data get dense zero-valued series, never errors.
type AnalyticsService interface {
	// DueForecast buckets due cards over the next N days starting today.
	DueForecast(ctx context.Context, userID string, days int) ([]models.ForecastDay, error)
	// ActivityHeatmap reports per-day study volume over a trailing window,
	// with intensity normalized against the busiest day.
	ActivityHeatmap(ctx context.Context, userID string, windowDays int) ([]models.HeatmapDay, error)
	// PerformanceTrend reports per-day accuracy and response time from
	// completed sessions over the trailing N days.
	PerformanceTrend(ctx context.Context, userID string, days int) ([]models.TrendDay, error)
	DifficultyDistribution(ctx context.Context, userID string) (models.DifficultyDistribution, error)
}

type analyticsService struct {
	analytics       repository.AnalyticsRepository
	maxForecastDays int
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analytics repository.AnalyticsRepository, maxForecastDays int) AnalyticsService {
	return &analyticsService{analytics: analytics, maxForecastDays: maxForecastDays}
}

func (s *analyticsService) DueForecast(ctx context.Context, userID string, days int) ([]models.ForecastDay, error) {
	log := logger.FromContext(ctx)
	log.Debug("building due forecast: user_id=%s, days=%d", userID, days)

	if days <= 0 {
		return nil, errors.NewValidationError("days", "must be positive")
	}
	if days > s.maxForecastDays {
		days = s.maxForecastDays
	}

	from := startOfDay(time.Now())
	to := from.AddDate(0, 0, days)
	counts, err := s.analytics.DueCountsByDay(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to get due counts: %v", err)
		return nil, errors.NewStorageError(err)
	}

	forecast := make([]models.ForecastDay, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		forecast = append(forecast, models.ForecastDay{Date: date, DueCount: counts[date]})
	}
	return forecast, nil
}

func (s *analyticsService) ActivityHeatmap(ctx context.Context, userID string, windowDays int) ([]models.HeatmapDay, error) {
	log := logger.FromContext(ctx)
	log.Debug("building activity heatmap: user_id=%s, window=%d", userID, windowDays)

	if windowDays <= 0 {
		return nil, errors.NewValidationError("days", "must be positive")
	}

	to := startOfDay(time.Now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -windowDays)
	activity, err := s.analytics.ActivityByDay(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to get activity: %v", err)
		return nil, errors.NewStorageError(err)
	}

	byDay := make(map[string]repository.DayActivity, len(activity))
	maxCards := 1
	for _, a := range activity {
		byDay[a.Date] = a
		if a.CardsStudied > maxCards {
			maxCards = a.CardsStudied
		}
	}

	heatmap := make([]models.HeatmapDay, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		a := byDay[date]
		intensity := float64(a.CardsStudied) / float64(maxCards)
		if intensity > 1 {
			intensity = 1
		}
		heatmap = append(heatmap, models.HeatmapDay{
			Date:         date,
			Sessions:     a.Sessions,
			CardsStudied: a.CardsStudied,
			Intensity:    intensity,
		})
	}
	return heatmap, nil
}

func (s *analyticsService) PerformanceTrend(ctx context.Context, userID string, days int) ([]models.TrendDay, error) {
	log := logger.FromContext(ctx)
	log.Debug("building performance trend: user_id=%s, days=%d", userID, days)

	if days <= 0 {
		return nil, errors.NewValidationError("days", "must be positive")
	}

	to := startOfDay(time.Now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)
	activity, err := s.analytics.ActivityByDay(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to get activity: %v", err)
		return nil, errors.NewStorageError(err)
	}

	byDay := make(map[string]repository.DayActivity, len(activity))
	for _, a := range activity {
		byDay[a.Date] = a
	}

	trend := make([]models.TrendDay, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		a := byDay[date]
		day := models.TrendDay{Date: date, CardsStudied: a.CardsStudied, AvgResponseMs: a.AvgResponseMs}
		if a.CardsStudied > 0 {
			day.Accuracy = float64(a.CorrectCount) / float64(a.CardsStudied)
		}
		trend = append(trend, day)
	}
	return trend, nil
}

func (s *analyticsService) DifficultyDistribution(ctx context.Context, userID string) (models.DifficultyDistribution, error) {
	log := logger.FromContext(ctx)
	log.Debug("building difficulty distribution: user_id=%s", userID)

	dist, err := s.analytics.EaseDistribution(ctx, userID)
	if err != nil {
		log.Error("failed to get ease distribution: %v", err)
		return models.DifficultyDistribution{}, errors.NewStorageError(err)
	}
	return dist, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
