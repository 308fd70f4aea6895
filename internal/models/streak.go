package models

import "time"

// StudyStreak tracks consecutive study days for one user. A day counts when
// at least one session was completed on it.
type StudyStreak struct {
	UserID           string    `json:"user_id"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	LastStudyDate    time.Time `json:"last_study_date"`
	TotalDaysStudied int       `json:"total_days_studied"`
	UpdatedAt        time.Time `json:"updated_at"`
}
