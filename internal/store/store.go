// Package store persists jobs and subscriptions in PostgreSQL.
package store

import (
	"context"
	"time"

	"jobhunt/aggregator-service/internal/model"
)

// Store is the storage contract the ingestion, alerting and API layers
// depend on. Every method maps to a single atomic statement; no cross-call
// transaction is assumed.
type Store interface {
	// InsertIfAbsent writes job unless a record with the same id or url
	// already exists. A conflict is a silent no-op, reported as
	// inserted=false, never an error.
	InsertIfAbsent(ctx context.Context, job model.Job) (inserted bool, err error)

	// RangeSince returns jobs with created_at strictly after since,
	// newest first.
	RangeSince(ctx context.Context, since time.Time) ([]model.Job, error)

	// RecentN returns the n most recently created jobs.
	RecentN(ctx context.Context, n int) ([]model.Job, error)

	// SearchByTerms returns jobs whose title or description contains
	// every term, case-insensitive, newest first.
	SearchByTerms(ctx context.Context, terms []string) ([]model.Job, error)

	// GetSubscription returns the subscription for chatID, or nil when
	// none exists.
	GetSubscription(ctx context.Context, chatID string) (*model.Subscription, error)

	// UpsertSubscription replaces the subscriber's query wholesale.
	UpsertSubscription(ctx context.Context, chatID, query string) error

	// ListSubscriptionsWithQuery returns all subscriptions with a
	// non-empty query.
	ListSubscriptionsWithQuery(ctx context.Context) ([]model.Subscription, error)

	// TouchSubscriptions advances last_checked_at for the given
	// subscribers. last_checked_at only ever moves forward.
	TouchSubscriptions(ctx context.Context, chatIDs []string, t time.Time) error

	// CountJobs returns the total number of stored jobs.
	CountJobs(ctx context.Context) (int, error)
}
