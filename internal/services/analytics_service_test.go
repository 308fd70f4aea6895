package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/recallkit/recallkit/internal/errors"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
	"github.com/recallkit/recallkit/internal/repository/sqlite"
	"github.com/recallkit/recallkit/internal/services"
	"github.com/recallkit/recallkit/internal/testutil"
)

type AnalyticsServiceSuite struct {
	suite.Suite
	db        *sql.DB
	cards     repository.CardRepository
	sessions  repository.SessionRepository
	analytics services.AnalyticsService
}

func (s *AnalyticsServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.cards = sqlite.NewCardRepository(s.db)
	s.sessions = sqlite.NewSessionRepository(s.db)
	s.analytics = services.NewAnalyticsService(sqlite.NewAnalyticsRepository(s.db), 90)
}

func (s *AnalyticsServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *AnalyticsServiceSuite) insertCard(card models.StudyCard) {
	_, err := s.cards.Insert(context.Background(), card)
	s.Require().NoError(err)
}

// reviewedCard builds a card that has been reviewed, so it is bucketed by
// its next_review_at rather than folded into today as never-reviewed.
func reviewedCard(userID, itemID string, ease float64, next time.Time) models.StudyCard {
	reviewed := next.AddDate(0, 0, -1)
	return models.StudyCard{
		UserID:         userID,
		ItemID:         itemID,
		EaseFactor:     ease,
		IntervalDays:   1,
		NextReviewAt:   next,
		LastReviewedAt: &reviewed,
		CreatedAt:      reviewed,
	}
}

func (s *AnalyticsServiceSuite) TestDueForecastIsDenseForEmptyUser() {
	forecast, err := s.analytics.DueForecast(context.Background(), "nobody", 7)
	s.Require().NoError(err)
	s.Require().Len(forecast, 7)
	today := time.Now().Format("2006-01-02")
	s.Assert().Equal(today, forecast[0].Date)
	for _, day := range forecast {
		s.Assert().Equal(0, day.DueCount, "day %s", day.Date)
	}
}

func (s *AnalyticsServiceSuite) TestDueForecastBuckets() {
	now := time.Now().UTC()

	// Overdue and never-reviewed both land in today's bucket.
	s.insertCard(reviewedCard("user1", "overdue", 2.5, now.AddDate(0, 0, -3)))
	s.insertCard(models.StudyCard{UserID: "user1", ItemID: "fresh", EaseFactor: 2.5, IntervalDays: 1, NextReviewAt: now, CreatedAt: now})
	s.insertCard(reviewedCard("user1", "in-two-days", 2.5, now.AddDate(0, 0, 2)))
	s.insertCard(reviewedCard("user1", "beyond-window", 2.5, now.AddDate(0, 0, 30)))
	s.insertCard(reviewedCard("someone-else", "other", 2.5, now))

	forecast, err := s.analytics.DueForecast(context.Background(), "user1", 7)
	s.Require().NoError(err)
	s.Require().Len(forecast, 7)
	s.Assert().Equal(2, forecast[0].DueCount)
	s.Assert().Equal(0, forecast[1].DueCount)
	s.Assert().Equal(1, forecast[2].DueCount)
	s.Assert().Equal(0, forecast[6].DueCount)
}

func (s *AnalyticsServiceSuite) TestDueForecastValidation() {
	_, err := s.analytics.DueForecast(context.Background(), "user1", 0)
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeValidation, appErr.Code)

	// Oversized requests are capped, not rejected.
	forecast, err := s.analytics.DueForecast(context.Background(), "user1", 10000)
	s.Require().NoError(err)
	s.Assert().Len(forecast, 90)
}

func (s *AnalyticsServiceSuite) completeSession(userID string, startedAt time.Time, studied, correct int) {
	ctx := context.Background()
	id := userID + "-" + startedAt.Format("20060102T150405")
	s.Require().NoError(s.sessions.Insert(ctx, models.StudySession{
		ID: id, UserID: userID, Status: models.SessionActive, StartedAt: startedAt,
	}))
	ended := startedAt.Add(10 * time.Minute)
	s.Require().NoError(s.sessions.Update(ctx, models.StudySession{
		ID: id, UserID: userID, Status: models.SessionCompleted,
		StartedAt: startedAt, EndedAt: &ended,
		CardsStudied: studied, CorrectAnswers: correct,
	}))
}

func (s *AnalyticsServiceSuite) TestActivityHeatmap() {
	now := time.Now().UTC()
	s.completeSession("user1", now, 10, 8)
	s.completeSession("user1", now.Add(-time.Hour), 10, 6)
	s.completeSession("user1", now.AddDate(0, 0, -2), 5, 5)

	heatmap, err := s.analytics.ActivityHeatmap(context.Background(), "user1", 7)
	s.Require().NoError(err)
	s.Require().Len(heatmap, 7)

	byDate := make(map[string]models.HeatmapDay, len(heatmap))
	for _, day := range heatmap {
		byDate[day.Date] = day
	}

	today := byDate[now.Format("2006-01-02")]
	s.Assert().Equal(2, today.Sessions)
	s.Assert().Equal(20, today.CardsStudied)
	s.Assert().InDelta(1.0, today.Intensity, 1e-9)

	lighter := byDate[now.AddDate(0, 0, -2).Format("2006-01-02")]
	s.Assert().Equal(1, lighter.Sessions)
	s.Assert().Equal(5, lighter.CardsStudied)
	s.Assert().InDelta(0.25, lighter.Intensity, 1e-9)

	empty := byDate[now.AddDate(0, 0, -1).Format("2006-01-02")]
	s.Assert().Equal(0, empty.CardsStudied)
	s.Assert().Equal(0.0, empty.Intensity)
}

func (s *AnalyticsServiceSuite) TestPerformanceTrend() {
	now := time.Now().UTC()
	s.completeSession("user1", now, 10, 7)
	s.completeSession("user1", now.AddDate(0, 0, -1), 4, 4)

	trend, err := s.analytics.PerformanceTrend(context.Background(), "user1", 5)
	s.Require().NoError(err)
	s.Require().Len(trend, 5)

	byDate := make(map[string]models.TrendDay, len(trend))
	for _, day := range trend {
		byDate[day.Date] = day
	}

	s.Assert().InDelta(0.7, byDate[now.Format("2006-01-02")].Accuracy, 1e-9)
	s.Assert().InDelta(1.0, byDate[now.AddDate(0, 0, -1).Format("2006-01-02")].Accuracy, 1e-9)
	// Days without sessions report zero accuracy, not NaN.
	s.Assert().Equal(0.0, byDate[now.AddDate(0, 0, -3).Format("2006-01-02")].Accuracy)
}

func (s *AnalyticsServiceSuite) TestDifficultyDistribution() {
	now := time.Now().UTC()
	for i, ease := range []float64{2.8, 2.5, 2.0, 1.9, 1.5, 1.3} {
		s.insertCard(models.StudyCard{
			UserID: "user1", ItemID: string(rune('a' + i)),
			EaseFactor: ease, IntervalDays: 1, NextReviewAt: now, CreatedAt: now,
		})
	}

	dist, err := s.analytics.DifficultyDistribution(context.Background(), "user1")
	s.Require().NoError(err)
	s.Assert().Equal(1, dist.Easy)
	s.Assert().Equal(2, dist.Medium)
	s.Assert().Equal(2, dist.Hard)
	s.Assert().Equal(1, dist.VeryHard)
	s.Assert().Equal(6, dist.TotalCards)
	s.Assert().Equal(dist.TotalCards, dist.Easy+dist.Medium+dist.Hard+dist.VeryHard)
}

func (s *AnalyticsServiceSuite) TestDifficultyDistributionEmpty() {
	dist, err := s.analytics.DifficultyDistribution(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Equal(0, dist.TotalCards)
}

func TestAnalyticsServiceSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceSuite))
}
