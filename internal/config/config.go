package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	DefaultDueLimit   int
	MaxDueLimit       int
	MaxForecastDays   int
	HeatmapWindowDays int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:recallkit.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		DefaultDueLimit:   envIntOr("DEFAULT_DUE_LIMIT", 20),
		MaxDueLimit:       envIntOr("MAX_DUE_LIMIT", 200),
		MaxForecastDays:   envIntOr("MAX_FORECAST_DAYS", 90),
		HeatmapWindowDays: envIntOr("HEATMAP_WINDOW_DAYS", 365),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
