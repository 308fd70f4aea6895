package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
	"github.com/recallkit/recallkit/internal/repository/sqlite"
	"github.com/recallkit/recallkit/internal/testutil"
)

type AnalyticsRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.AnalyticsRepository
	cards    repository.CardRepository
	sessions repository.SessionRepository
}

func (s *AnalyticsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAnalyticsRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
	s.sessions = sqlite.NewSessionRepository(s.db)
}

func (s *AnalyticsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *AnalyticsRepositorySuite) insertCard(userID, itemID string, ease float64, next time.Time, reviewed *time.Time) {
	_, err := s.cards.Insert(context.Background(), models.StudyCard{
		UserID:         userID,
		ItemID:         itemID,
		EaseFactor:     ease,
		IntervalDays:   1,
		NextReviewAt:   next,
		LastReviewedAt: reviewed,
		CreatedAt:      time.Now().UTC(),
	})
	s.Require().NoError(err)
}

func (s *AnalyticsRepositorySuite) TestDueCountsByDay() {
	ctx := context.Background()
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	reviewed := from.Add(-24 * time.Hour)

	// Overdue card lands in the first bucket.
	s.insertCard("user1", "overdue", 2.5, from.Add(-48*time.Hour), &reviewed)
	// Never reviewed: due immediately, first bucket too.
	s.insertCard("user1", "fresh", 2.5, from, nil)
	// Due in 2 days.
	s.insertCard("user1", "later", 2.5, from.AddDate(0, 0, 2).Add(10*time.Hour), &reviewed)
	// Beyond the window: excluded.
	s.insertCard("user1", "far", 2.5, from.AddDate(0, 0, 30), &reviewed)

	counts, err := s.repo.DueCountsByDay(ctx, "user1", from, to)
	s.Require().NoError(err)
	s.Assert().Equal(2, counts["2026-08-30"])
	s.Assert().Equal(1, counts["2026-09-01"])
	s.Assert().Len(counts, 2)
}

func (s *AnalyticsRepositorySuite) TestActivityByDay() {
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	session := models.StudySession{
		ID:        uuid.NewString(),
		UserID:    "user1",
		Status:    models.SessionActive,
		StartedAt: day,
	}
	s.Require().NoError(s.sessions.Insert(ctx, session))

	ended := day.Add(10 * time.Minute)
	session.Status = models.SessionCompleted
	session.EndedAt = &ended
	session.CardsStudied = 5
	session.CorrectAnswers = 4
	s.Require().NoError(s.sessions.Update(ctx, session))

	// Active sessions don't count toward activity.
	s.Require().NoError(s.sessions.Insert(ctx, models.StudySession{
		ID:        uuid.NewString(),
		UserID:    "user1",
		Status:    models.SessionActive,
		StartedAt: day,
	}))

	from := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	activity, err := s.repo.ActivityByDay(ctx, "user1", from, to)
	s.Require().NoError(err)
	s.Require().Len(activity, 1)
	s.Assert().Equal("2026-08-29", activity[0].Date)
	s.Assert().Equal(1, activity[0].Sessions)
	s.Assert().Equal(5, activity[0].CardsStudied)
	s.Assert().Equal(4, activity[0].CorrectCount)
}

func (s *AnalyticsRepositorySuite) TestEaseDistribution() {
	ctx := context.Background()
	now := time.Now().UTC()

	s.insertCard("user1", "easy", 2.8, now, nil)
	s.insertCard("user1", "medium-low", 2.0, now, nil)
	s.insertCard("user1", "medium-high", 2.5, now, nil)
	s.insertCard("user1", "hard", 1.7, now, nil)
	s.insertCard("user1", "very-hard", 1.3, now, nil)
	s.insertCard("user2", "other", 2.5, now, nil)

	dist, err := s.repo.EaseDistribution(ctx, "user1")
	s.Require().NoError(err)
	s.Assert().Equal(1, dist.Easy)
	s.Assert().Equal(2, dist.Medium)
	s.Assert().Equal(1, dist.Hard)
	s.Assert().Equal(1, dist.VeryHard)
	s.Assert().Equal(5, dist.TotalCards)
	s.Assert().Equal(dist.TotalCards, dist.Easy+dist.Medium+dist.Hard+dist.VeryHard)
}

func (s *AnalyticsRepositorySuite) TestEaseDistributionEmpty() {
	dist, err := s.repo.EaseDistribution(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Equal(0, dist.TotalCards)
}

func TestAnalyticsRepositorySuite(t *testing.T) {
	suite.Run(t, new(AnalyticsRepositorySuite))
}
