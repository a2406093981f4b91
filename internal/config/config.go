package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken  string
	OwnerID        int64
	StorageURL     string
	ReportInterval time.Duration
	ReportTime     string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		StorageURL:     strings.TrimSpace(os.Getenv("STORAGE_URL")),
		ReportInterval: parseInterval(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))),
		ReportTime:     strings.TrimSpace(os.Getenv("REPORT_TIME")),
	}

	if cfg.StorageURL == "" {
		cfg.StorageURL = "tasklist.db"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_OWNER_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_OWNER_ID must be a numeric user id: %w", err)
		}
		cfg.OwnerID = id
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
