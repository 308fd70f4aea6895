package models

// ForecastDay is one bucket of the due-count forecast. The series is dense:
// days with nothing due are present with a zero count.
type ForecastDay struct {
	Date     string `json:"date"`
	DueCount int    `json:"due_count"`
}

// HeatmapDay is one day of the activity heatmap. Intensity is the day's
// card count relative to the busiest day in the window, in [0,1].
type HeatmapDay struct {
	Date         string  `json:"date"`
	Sessions     int     `json:"sessions"`
	CardsStudied int     `json:"cards_studied"`
	Intensity    float64 `json:"intensity"`
}

// TrendDay is one day of the performance trend, aggregated from completed
// sessions.
type TrendDay struct {
	Date          string  `json:"date"`
	CardsStudied  int     `json:"cards_studied"`
	Accuracy      float64 `json:"accuracy"`
	AvgResponseMs float64 `json:"avg_response_ms"`
}

// DifficultyDistribution buckets a user's cards by ease factor. The four
// counts always sum to TotalCards.
type DifficultyDistribution struct {
	Easy       int `json:"easy"`      // ease > 2.5
	Medium     int `json:"medium"`    // 2.0 <= ease <= 2.5
	Hard       int `json:"hard"`      // 1.5 <= ease < 2.0
	VeryHard   int `json:"very_hard"` // ease < 1.5
	TotalCards int `json:"total_cards"`
}
