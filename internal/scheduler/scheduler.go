// Package scheduler wires up the cron jobs that periodically trigger
// ingestion and alert-matching cycles.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"jobhunt/aggregator-service/internal/alert"
	"jobhunt/aggregator-service/internal/api"
	"jobhunt/aggregator-service/internal/ingest"
)

// Scheduler drives the two periodic cycles. It owns the alert watermark:
// initialized to process start, threaded through Matcher.RunCycle and
// replaced with the returned value. Alert cycles never overlap each other
// (alertMu), but may run concurrently with an in-flight ingestion cycle.
type Scheduler struct {
	cron        *cron.Cron
	coordinator *ingest.Coordinator
	matcher     *alert.Matcher
	rdb         *redis.Client

	scrapeSpec string
	alertSpec  string

	alertMu   sync.Mutex
	watermark time.Time
}

// New creates a Scheduler firing ingestion every scrapeEveryMin minutes and
// alert matching every alertEveryMin minutes.
func New(coordinator *ingest.Coordinator, matcher *alert.Matcher, rdb *redis.Client, scrapeEveryMin, alertEveryMin int) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLogger(cron.DefaultLogger)),
		coordinator: coordinator,
		matcher:     matcher,
		rdb:         rdb,
		scrapeSpec:  fmt.Sprintf("@every %dm", scrapeEveryMin),
		alertSpec:   fmt.Sprintf("@every %dm", alertEveryMin),
		watermark:   time.Now(),
	}
}

// Start registers both jobs and starts the cron loop. One scrape runs
// immediately so the feed is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.scrapeSpec, func() { s.runScrape(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc(scrape): %w", err)
	}
	if _, err := s.cron.AddFunc(s.alertSpec, func() { s.runAlerts(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc(alerts): %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] cron started — scrape %s, alerts %s", s.scrapeSpec, s.alertSpec)

	go s.runScrape(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] cron stopped")
}

func (s *Scheduler) runScrape(ctx context.Context) {
	stats := s.coordinator.RunCycle(ctx)
	s.recordStats(ctx, stats.TotalSeen, stats.NewCount)
}

func (s *Scheduler) runAlerts(ctx context.Context) {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()
	s.watermark = s.matcher.RunCycle(ctx, s.watermark)
}

// recordStats publishes the last cycle's counts for the /api/stats surface.
func (s *Scheduler) recordStats(ctx context.Context, totalSeen, newCount int) {
	if s.rdb == nil {
		return
	}
	err := s.rdb.HSet(ctx, api.StatsKey,
		"total_seen", strconv.Itoa(totalSeen),
		"new_count", strconv.Itoa(newCount),
		"at", time.Now().UTC().Format(time.RFC3339),
	).Err()
	if err != nil {
		log.Printf("[scheduler] stats write error: %v", err)
	}
}
