package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recallkit/recallkit/internal/api"
	"github.com/recallkit/recallkit/internal/config"
	"github.com/recallkit/recallkit/internal/db"
	"github.com/recallkit/recallkit/internal/logger"
	"github.com/recallkit/recallkit/internal/repository/sqlite"
	"github.com/recallkit/recallkit/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("RecallKit Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_due_limit=%d", cfg.DefaultDueLimit)
	log.Debug("max_due_limit=%d", cfg.MaxDueLimit)
	log.Debug("max_forecast_days=%d", cfg.MaxForecastDays)
	log.Debug("heatmap_window_days=%d", cfg.HeatmapWindowDays)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cardRepo := sqlite.NewCardRepository(database.DB)
	reviewRepo := sqlite.NewReviewRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	streakRepo := sqlite.NewStreakRepository(database.DB)
	analyticsRepo := sqlite.NewAnalyticsRepository(database.DB)

	streakService := services.NewStreakService(streakRepo)
	schedulerService := services.NewSchedulerService(cardRepo, reviewRepo, sessionRepo, cfg.MaxDueLimit)
	sessionService := services.NewSessionService(sessionRepo, streakService)
	analyticsService := services.NewAnalyticsService(analyticsRepo, cfg.MaxForecastDays)

	srv := &api.Server{
		Scheduler:         schedulerService,
		Sessions:          sessionService,
		Streaks:           streakService,
		Analytics:         analyticsService,
		DefaultDueLimit:   cfg.DefaultDueLimit,
		HeatmapWindowDays: cfg.HeatmapWindowDays,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("RecallKit Server Stopped")
	log.Info("===========================================")
}
