package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/recallkit/recallkit/internal/models"
	"github.com/recallkit/recallkit/internal/repository"
	"github.com/recallkit/recallkit/internal/repository/sqlite"
	"github.com/recallkit/recallkit/internal/testutil"
)

type StreakRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.StreakRepository
}

func (s *StreakRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStreakRepository(s.db)
}

func (s *StreakRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StreakRepositorySuite) TestGetMissing() {
	streak, err := s.repo.Get(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Nil(streak)
}

func (s *StreakRepositorySuite) TestUpsertRoundTrip() {
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	streak := models.StudyStreak{
		UserID:           "user1",
		CurrentStreak:    3,
		LongestStreak:    7,
		LastStudyDate:    day,
		TotalDaysStudied: 15,
	}
	s.Require().NoError(s.repo.Upsert(ctx, streak))

	got, err := s.repo.Get(ctx, "user1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(3, got.CurrentStreak)
	s.Assert().Equal(7, got.LongestStreak)
	s.Assert().Equal(15, got.TotalDaysStudied)
	s.Assert().True(got.LastStudyDate.Equal(day))

	// Second upsert replaces, not duplicates.
	streak.CurrentStreak = 4
	streak.LastStudyDate = day.AddDate(0, 0, 1)
	s.Require().NoError(s.repo.Upsert(ctx, streak))

	got, err = s.repo.Get(ctx, "user1")
	s.Require().NoError(err)
	s.Assert().Equal(4, got.CurrentStreak)
	s.Assert().True(got.LastStudyDate.Equal(day.AddDate(0, 0, 1)))
}

func TestStreakRepositorySuite(t *testing.T) {
	suite.Run(t, new(StreakRepositorySuite))
}
