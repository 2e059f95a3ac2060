// Package model defines shared data structures for the aggregator service.
package model

import "time"

// Source identifies which adapter produced a job. Stored as a plain string
// column so adding a source never needs a schema migration.
type Source string

const (
	SourceHackerNews     Source = "hackernews"
	SourceRemoteOK       Source = "remoteok"
	SourceRemotive       Source = "remotive"
	SourceWeWorkRemotely Source = "weworkremotely"
)

// RawJob is one pre-normalization fragment produced by a scraper. Text
// fields may still carry HTML entities, embedded markup and unbounded
// length; PostedAt is whatever string the upstream gave us.
//
// NativeKey is the adapter's identity material: an upstream id when the
// source has one, otherwise a content-derived key. It must be stable across
// scrape cycles for the same posting.
type RawJob struct {
	Source      Source
	NativeKey   string
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	PostedAt    string
}

// Job is the canonical, normalized record persisted in the jobs table.
// Records are append-only: a Job never changes after creation.
type Job struct {
	// ID is "<source>_<native-key>" and acts as the dedup key.
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      Source    `json:"source"`
	PostedAt    time.Time `json:"posted_at"`
	// CreatedAt is server-assigned at insert time and non-decreasing with
	// insertion order; the alert watermark advances over it.
	CreatedAt time.Time `json:"created_at"`
}

// Subscription is one subscriber's standing alert query.
type Subscription struct {
	ChatID        string    `json:"chat_id"`
	Query         string    `json:"query"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// ScrapeStats aggregates one ingestion cycle for observability.
type ScrapeStats struct {
	TotalSeen int `json:"total_seen"`
	NewCount  int `json:"new_count"`
}
