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

type CardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.CardRepository
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) newCard(userID, itemID string, next time.Time) models.StudyCard {
	return models.StudyCard{
		UserID:       userID,
		ItemID:       itemID,
		Repetitions:  0,
		EaseFactor:   2.5,
		IntervalDays: 1,
		NextReviewAt: next,
		CreatedAt:    time.Now().UTC(),
	}
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	now := time.Now().UTC()

	id, err := s.repo.Insert(ctx, s.newCard("user1", "item1", now))
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	card, err := s.repo.Get(ctx, id, "user1")
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Assert().Equal("item1", card.ItemID)
	s.Assert().Equal(2.5, card.EaseFactor)
	s.Assert().Equal(int64(1), card.Version)
	s.Assert().Nil(card.LastReviewedAt)

	// Scoped to the owning user.
	card, err = s.repo.Get(ctx, id, "other")
	s.Require().NoError(err)
	s.Assert().Nil(card)
}

func (s *CardRepositorySuite) TestGetByItem() {
	ctx := context.Background()
	_, err := s.repo.Insert(ctx, s.newCard("user1", "item1", time.Now().UTC()))
	s.Require().NoError(err)

	card, err := s.repo.GetByItem(ctx, "user1", "item1")
	s.Require().NoError(err)
	s.Require().NotNil(card)

	card, err = s.repo.GetByItem(ctx, "user1", "missing")
	s.Require().NoError(err)
	s.Assert().Nil(card)
}

func (s *CardRepositorySuite) TestUniqueUserItem() {
	ctx := context.Background()
	_, err := s.repo.Insert(ctx, s.newCard("user1", "item1", time.Now().UTC()))
	s.Require().NoError(err)

	_, err = s.repo.Insert(ctx, s.newCard("user1", "item1", time.Now().UTC()))
	s.Assert().Error(err)

	// Same item for a different user is fine.
	_, err = s.repo.Insert(ctx, s.newCard("user2", "item1", time.Now().UTC()))
	s.Assert().NoError(err)
}

func (s *CardRepositorySuite) TestUpdateBumpsVersion() {
	ctx := context.Background()
	now := time.Now().UTC()

	id, err := s.repo.Insert(ctx, s.newCard("user1", "item1", now))
	s.Require().NoError(err)

	card, err := s.repo.Get(ctx, id, "user1")
	s.Require().NoError(err)

	card.Repetitions = 1
	card.IntervalDays = 6
	card.EaseFactor = 2.6
	card.TotalReviews = 1
	card.SuccessfulReviews = 1
	reviewed := now
	card.LastReviewedAt = &reviewed

	s.Require().NoError(s.repo.Update(ctx, *card))

	updated, err := s.repo.Get(ctx, id, "user1")
	s.Require().NoError(err)
	s.Assert().Equal(6, updated.IntervalDays)
	s.Assert().Equal(2.6, updated.EaseFactor)
	s.Assert().Equal(int64(2), updated.Version)
	s.Require().NotNil(updated.LastReviewedAt)
}

func (s *CardRepositorySuite) TestUpdateVersionConflict() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, s.newCard("user1", "item1", time.Now().UTC()))
	s.Require().NoError(err)

	first, err := s.repo.Get(ctx, id, "user1")
	s.Require().NoError(err)
	second, err := s.repo.Get(ctx, id, "user1")
	s.Require().NoError(err)

	// First writer wins.
	first.Repetitions = 1
	s.Require().NoError(s.repo.Update(ctx, *first))

	// Second writer holds a stale version and must not silently clobber.
	second.Repetitions = 9
	err = s.repo.Update(ctx, *second)
	s.Assert().ErrorIs(err, repository.ErrVersionConflict)

	card, err := s.repo.Get(ctx, id, "user1")
	s.Require().NoError(err)
	s.Assert().Equal(1, card.Repetitions)
}

func (s *CardRepositorySuite) TestListDueOrdering() {
	ctx := context.Background()
	now := time.Now().UTC()
	reviewed := now.Add(-48 * time.Hour)

	// Overdue by 3 days.
	overdueFar := s.newCard("user1", "overdue-far", now.Add(-72*time.Hour))
	overdueFar.LastReviewedAt = &reviewed
	// Overdue by 1 day.
	overdueNear := s.newCard("user1", "overdue-near", now.Add(-24*time.Hour))
	overdueNear.LastReviewedAt = &reviewed
	// Never reviewed, due immediately.
	fresh := s.newCard("user1", "fresh", now)
	// Not due for 5 days.
	future := s.newCard("user1", "future", now.Add(120*time.Hour))
	future.LastReviewedAt = &reviewed

	for _, c := range []models.StudyCard{fresh, overdueNear, overdueFar, future} {
		_, err := s.repo.Insert(ctx, c)
		s.Require().NoError(err)
	}

	cards, err := s.repo.ListDue(ctx, "user1", now, 10)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	s.Assert().Equal("overdue-far", cards[0].ItemID)
	s.Assert().Equal("overdue-near", cards[1].ItemID)
	s.Assert().Equal("fresh", cards[2].ItemID)
}

func (s *CardRepositorySuite) TestListDueRespectsLimit() {
	ctx := context.Background()
	now := time.Now().UTC()
	reviewed := now.Add(-time.Hour)

	for i, item := range []string{"a", "b", "c"} {
		c := s.newCard("user1", item, now.Add(-time.Duration(i+1)*24*time.Hour))
		c.LastReviewedAt = &reviewed
		_, err := s.repo.Insert(ctx, c)
		s.Require().NoError(err)
	}

	cards, err := s.repo.ListDue(ctx, "user1", now, 2)
	s.Require().NoError(err)
	s.Assert().Len(cards, 2)
}

func (s *CardRepositorySuite) TestListByUser() {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, item := range []string{"a", "b"} {
		_, err := s.repo.Insert(ctx, s.newCard("user1", item, now))
		s.Require().NoError(err)
	}
	_, err := s.repo.Insert(ctx, s.newCard("user2", "c", now))
	s.Require().NoError(err)

	cards, err := s.repo.ListByUser(ctx, "user1")
	s.Require().NoError(err)
	s.Assert().Len(cards, 2)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
