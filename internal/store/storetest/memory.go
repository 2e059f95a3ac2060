// Package storetest provides an in-memory Store for package tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobhunt/aggregator-service/internal/model"
)

// Memory implements store.Store with the same dedup semantics as the
// Postgres implementation: a conflicting id or url makes the insert a
// silent no-op. created_at is server-assigned and strictly increasing
// with insertion order.
type Memory struct {
	mu          sync.Mutex
	jobs        map[string]model.Job
	urls        map[string]bool
	subs        map[string]model.Subscription
	lastCreated time.Time

	// Now overrides the clock used for created_at assignment.
	Now func() time.Time

	// Optional error injection.
	InsertErr error
	RangeErr  error
	ListErr   error
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		jobs: make(map[string]model.Job),
		urls: make(map[string]bool),
		subs: make(map[string]model.Subscription),
		Now:  time.Now,
	}
}

func (m *Memory) InsertIfAbsent(ctx context.Context, job model.Job) (bool, error) {
	if m.InsertErr != nil {
		return false, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[job.ID]; ok {
		return false, nil
	}
	if m.urls[job.URL] {
		return false, nil
	}

	created := m.Now()
	if !created.After(m.lastCreated) {
		created = m.lastCreated.Add(time.Nanosecond)
	}
	m.lastCreated = created
	job.CreatedAt = created

	m.jobs[job.ID] = job
	m.urls[job.URL] = true
	return true, nil
}

func (m *Memory) RangeSince(ctx context.Context, since time.Time) ([]model.Job, error) {
	if m.RangeErr != nil {
		return nil, m.RangeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var jobs []model.Job
	for _, j := range m.jobs {
		if j.CreatedAt.After(since) {
			jobs = append(jobs, j)
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func (m *Memory) RecentN(ctx context.Context, n int) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobs := make([]model.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		jobs = append(jobs, j)
	}
	sortNewestFirst(jobs)
	if len(jobs) > n {
		jobs = jobs[:n]
	}
	return jobs, nil
}

func (m *Memory) SearchByTerms(ctx context.Context, terms []string) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var jobs []model.Job
	for _, j := range m.jobs {
		haystack := strings.ToLower(j.Title + " " + j.Description)
		matched := true
		for _, term := range terms {
			if !strings.Contains(haystack, strings.ToLower(term)) {
				matched = false
				break
			}
		}
		if matched {
			jobs = append(jobs, j)
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func (m *Memory) GetSubscription(ctx context.Context, chatID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[chatID]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (m *Memory) UpsertSubscription(ctx context.Context, chatID, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := m.subs[chatID]
	sub.ChatID = chatID
	sub.Query = query
	m.subs[chatID] = sub
	return nil
}

func (m *Memory) ListSubscriptionsWithQuery(ctx context.Context) ([]model.Subscription, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var subs []model.Subscription
	for _, sub := range m.subs {
		if sub.Query != "" {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ChatID < subs[j].ChatID })
	return subs, nil
}

func (m *Memory) TouchSubscriptions(ctx context.Context, chatIDs []string, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range chatIDs {
		sub, ok := m.subs[id]
		if !ok || !t.After(sub.LastCheckedAt) {
			continue
		}
		sub.LastCheckedAt = t
		m.subs[id] = sub
	}
	return nil
}

func (m *Memory) CountJobs(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs), nil
}

func sortNewestFirst(jobs []model.Job) {
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
}
