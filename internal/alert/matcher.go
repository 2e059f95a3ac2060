// Package alert evaluates newly ingested jobs against subscriber queries.
package alert

import (
	"context"
	"log"
	"strings"
	"time"

	"jobhunt/aggregator-service/internal/model"
	"jobhunt/aggregator-service/internal/notify"
	"jobhunt/aggregator-service/internal/store"
)

// minTermLen: query terms this short are discarded as noise.
const minTermLen = 2

// Matcher runs incremental alert evaluation. It owns no persistent state:
// the watermark is passed in and the advanced value returned, so the caller
// decides where it lives and cycles stay testable in isolation.
type Matcher struct {
	store    store.Store
	notifier notify.Notifier
	now      func() time.Time
}

// New constructs a Matcher.
func New(st store.Store, notifier notify.Notifier) *Matcher {
	return &Matcher{store: st, notifier: notifier, now: time.Now}
}

// RunCycle evaluates every live subscription against jobs created strictly
// after since and returns the next watermark.
//
// The next watermark is captured after the range read, so a record created
// between the read and the capture is skipped. That lag is accepted: the
// scrape cadence is much coarser than the alert cadence, so the window in
// practice always overlaps the next batch.
func (m *Matcher) RunCycle(ctx context.Context, since time.Time) time.Time {
	subs, err := m.store.ListSubscriptionsWithQuery(ctx)
	if err != nil {
		log.Printf("[alert] list subscriptions error: %v", err)
		return since
	}

	jobs, err := m.store.RangeSince(ctx, since)
	if err != nil {
		log.Printf("[alert] range read error: %v", err)
		return since
	}
	next := m.now()

	if len(jobs) == 0 {
		log.Println("[alert] no new jobs to evaluate")
		return next
	}
	log.Printf("[alert] evaluating %d new job(s) against %d subscription(s)", len(jobs), len(subs))

	evaluated := make([]string, 0, len(subs))
	for _, sub := range subs {
		terms := Tokenize(sub.Query)
		if len(terms) == 0 {
			continue
		}
		evaluated = append(evaluated, sub.ChatID)

		var matches []model.Job
		for _, job := range jobs {
			if Matches(job, terms) {
				matches = append(matches, job)
			}
		}
		if len(matches) == 0 {
			continue
		}

		// Delivery failure is terminal for this subscriber and cycle:
		// logged, dropped, and no effect on other subscribers or the
		// returned watermark.
		if err := m.notifier.Notify(ctx, sub.ChatID, matches); err != nil {
			log.Printf("[alert] notify %s failed: %v", sub.ChatID, err)
			continue
		}
		log.Printf("[alert] notified %s about %d job(s)", sub.ChatID, len(matches))
	}

	if err := m.store.TouchSubscriptions(ctx, evaluated, next); err != nil {
		log.Printf("[alert] touch subscriptions error: %v", err)
	}

	return next
}

// Tokenize splits a free-text query into lowercase terms, discarding terms
// of length ≤ 2.
func Tokenize(query string) []string {
	var terms []string
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if len(term) > minTermLen {
			terms = append(terms, term)
		}
	}
	return terms
}

// Matches reports whether every term appears as a case-insensitive
// substring of the job's title, description or company. Conjunctive
// substring semantics, not word-boundary matching.
func Matches(job model.Job, terms []string) bool {
	haystack := strings.ToLower(job.Title + " " + job.Description + " " + job.Company)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
