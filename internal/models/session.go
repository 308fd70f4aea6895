package models

import "time"

// Session status values. A session is terminal once completed.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// StudySession groups a user's reviews within one bounded activity window.
type StudySession struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	SetID           string     `json:"set_id,omitempty"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	CardsStudied    int        `json:"cards_studied"`
	CorrectAnswers  int        `json:"correct_answers"`
	CardsMastered   int        `json:"cards_mastered"`
	CardsLearning   int        `json:"cards_learning"`
	CardsRelearning int        `json:"cards_relearning"`
	AccuracyRate    float64    `json:"accuracy_rate"`
	AvgEase         float64    `json:"avg_ease"`
}

// SessionStats are the caller-supplied final counts applied when a session
// completes. Accuracy and duration are computed by the engine, not taken
// from the caller.
type SessionStats struct {
	CardsMastered   int     `json:"cards_mastered"`
	CardsLearning   int     `json:"cards_learning"`
	CardsRelearning int     `json:"cards_relearning"`
	AvgEase         float64 `json:"avg_ease"`
}
