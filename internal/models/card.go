package models

import "time"

// Card stage names derived from scheduling state. The mastered threshold
// (interval >= 21 days) is a reporting convention only and never feeds back
// into scheduling.
const (
	StageNew        = "new"
	StageLearning   = "learning"
	StageReviewing  = "reviewing"
	StageMastered   = "mastered"
	MasteredDays    = 21
	DefaultEase     = 2.5
	MinEase         = 1.3
	InitialInterval = 1
)

// StudyCard is the scheduling state for one (user, learning item) pair.
type StudyCard struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"user_id"`
	ItemID            string     `json:"item_id"`
	Repetitions       int        `json:"repetitions"`
	EaseFactor        float64    `json:"ease_factor"`
	IntervalDays      int        `json:"interval_days"`
	NextReviewAt      time.Time  `json:"next_review_at"`
	LastReviewedAt    *time.Time `json:"last_reviewed_at,omitempty"`
	TotalReviews      int        `json:"total_reviews"`
	SuccessfulReviews int        `json:"successful_reviews"`
	FailedReviews     int        `json:"failed_reviews"`
	AvgResponseMs     float64    `json:"avg_response_ms"`
	Version           int64      `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Stage classifies the card for reporting.
func (c StudyCard) Stage() string {
	switch {
	case c.LastReviewedAt == nil:
		return StageNew
	case c.IntervalDays >= MasteredDays:
		return StageMastered
	case c.Repetitions >= 1:
		return StageReviewing
	default:
		return StageLearning
	}
}

// ReviewRecord is the append-only audit entry for a single review event.
type ReviewRecord struct {
	ID             int64     `json:"id"`
	CardID         int64     `json:"card_id"`
	SessionID      string    `json:"session_id,omitempty"`
	Quality        int       `json:"quality"`
	ResponseMs     int64     `json:"response_ms"`
	RepsBefore     int       `json:"repetitions_before"`
	RepsAfter      int       `json:"repetitions_after"`
	EaseBefore     float64   `json:"ease_before"`
	EaseAfter      float64   `json:"ease_after"`
	IntervalBefore int       `json:"interval_before"`
	IntervalAfter  int       `json:"interval_after"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}
