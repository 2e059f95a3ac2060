package config_test

import (
	"testing"

	"jobhunt/aggregator-service/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScrapeIntervalMin != 15 {
		t.Errorf("ScrapeIntervalMin = %d, want 15", cfg.ScrapeIntervalMin)
	}
	if cfg.AlertIntervalMin != 5 {
		t.Errorf("AlertIntervalMin = %d, want 5", cfg.AlertIntervalMin)
	}
	if cfg.HTTPTimeoutSeconds != 10 {
		t.Errorf("HTTPTimeoutSeconds = %d, want 10", cfg.HTTPTimeoutSeconds)
	}
	if cfg.Port != "8082" {
		t.Errorf("Port = %q, want 8082", cfg.Port)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	if _, err := config.Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_InvalidInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPE_INTERVAL_MINUTES", "-3")

	if _, err := config.Load(); err == nil {
		t.Error("expected error for a negative interval")
	}
}

func TestLoad_CustomIntervals(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPE_INTERVAL_MINUTES", "30")
	t.Setenv("ALERT_INTERVAL_MINUTES", "2")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScrapeIntervalMin != 30 || cfg.AlertIntervalMin != 2 {
		t.Errorf("intervals = %d/%d, want 30/2", cfg.ScrapeIntervalMin, cfg.AlertIntervalMin)
	}
}
