package api

import (
	"github.com/recallkit/recallkit/internal/services"
)

// Server holds the wired services behind the HTTP boundary.
type Server struct {
	Scheduler services.SchedulerService
	Sessions  services.SessionService
	Streaks   services.StreakService
	Analytics services.AnalyticsService

	DefaultDueLimit   int
	HeatmapWindowDays int
}
