// Package ingest runs the scrape cycle: every source adapter concurrently,
// normalization, and dedup insertion into the store.
package ingest

import (
	"context"
	"log"
	"sync"
	"time"

	"jobhunt/aggregator-service/internal/model"
	"jobhunt/aggregator-service/internal/normalize"
	"jobhunt/aggregator-service/internal/scraper"
	"jobhunt/aggregator-service/internal/store"
)

// Coordinator fans one ingestion cycle out over all registered scrapers
// and fans their batches back in for insert-if-absent persistence.
type Coordinator struct {
	store    store.Store
	scrapers []scraper.Scraper
	now      func() time.Time
}

// New constructs a Coordinator.
func New(st store.Store, scrapers []scraper.Scraper) *Coordinator {
	return &Coordinator{store: st, scrapers: scrapers, now: time.Now}
}

// RunCycle scrapes every source concurrently, normalizes and persists the
// merged output, and returns aggregate counts. A failing adapter yields an
// empty batch (handled at the adapter boundary) and never blocks siblings;
// duplicate records are silent no-ops.
func (c *Coordinator) RunCycle(ctx context.Context) model.ScrapeStats {
	start := c.now()
	log.Printf("[ingest] cycle started — %d source(s)", len(c.scrapers))

	batches := make([][]model.RawJob, len(c.scrapers))
	var wg sync.WaitGroup
	for i, s := range c.scrapers {
		wg.Add(1)
		go func(i int, s scraper.Scraper) {
			defer wg.Done()
			batches[i] = s.Scrape(ctx)
		}(i, s)
	}
	wg.Wait()

	var stats model.ScrapeStats
	for i, batch := range batches {
		for _, raw := range batch {
			stats.TotalSeen++
			job := normalize.Job(raw, c.now())
			inserted, err := c.store.InsertIfAbsent(ctx, job)
			if err != nil {
				log.Printf("[ingest] insert error for %s: %v", job.ID, err)
				continue
			}
			if inserted {
				stats.NewCount++
			}
		}
		if len(batch) > 0 {
			log.Printf("[ingest] %s contributed %d record(s)", c.scrapers[i].Name(), len(batch))
		}
	}

	log.Printf("[ingest] cycle done — seen=%d new=%d in %s",
		stats.TotalSeen, stats.NewCount, time.Since(start).Round(time.Millisecond))
	return stats
}
