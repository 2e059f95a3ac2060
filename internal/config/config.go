// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the aggregator service.
type Config struct {
	Port               string
	DatabaseURL        string
	RedisURL           string
	TelegramBotToken   string // empty → scrape-only mode, alerts are logged but not delivered
	ScrapeIntervalMin  int    // how often the ingestion cron fires
	AlertIntervalMin   int    // how often the alert-matching cron fires
	HTTPTimeoutSeconds int    // per-upstream-call timeout for scrapers
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	scrapeInterval, err := intervalEnv("SCRAPE_INTERVAL_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	alertInterval, err := intervalEnv("ALERT_INTERVAL_MINUTES", 5)
	if err != nil {
		return nil, err
	}

	httpTimeout, err := intervalEnv("SCRAPE_HTTP_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	port := os.Getenv("AGGREGATOR_PORT")
	if port == "" {
		port = "8082"
	}

	return &Config{
		Port:               port,
		DatabaseURL:        dbURL,
		RedisURL:           redisURL,
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		ScrapeIntervalMin:  scrapeInterval,
		AlertIntervalMin:   alertInterval,
		HTTPTimeoutSeconds: httpTimeout,
	}, nil
}

func intervalEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return v, nil
}
