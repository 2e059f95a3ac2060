package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobhunt/aggregator-service/internal/model"
)

const searchResultLimit = 50

// Postgres implements Store on a pgxpool connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// InitSchema creates the jobs and subscriptions tables if they do not exist.
func (s *Postgres) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			company     TEXT,
			location    TEXT,
			description TEXT,
			url         TEXT NOT NULL,
			source      TEXT NOT NULL,
			posted_at   TIMESTAMPTZ,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (url)
		);

		CREATE TABLE IF NOT EXISTS subscriptions (
			chat_id         TEXT PRIMARY KEY,
			search_query    TEXT NOT NULL DEFAULT '',
			last_checked_at TIMESTAMPTZ,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_source  ON jobs (source);
		CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs (created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// InsertIfAbsent inserts job, skipping duplicates by id or url. The single
// ON CONFLICT DO NOTHING statement covers both uniqueness constraints, so
// concurrent cycles inserting the same record race safely.
func (s *Postgres) InsertIfAbsent(ctx context.Context, job model.Job) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, description, url, source, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT DO NOTHING`,
		job.ID, job.Title, job.Company, job.Location, job.Description,
		job.URL, string(job.Source), job.PostedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert job %s: %w", job.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// RangeSince returns jobs created strictly after since, newest first.
func (s *Postgres) RangeSince(ctx context.Context, since time.Time) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx,
		jobSelect+` WHERE created_at > $1 ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("query jobs since %s: %w", since.Format(time.RFC3339), err)
	}
	return scanJobs(rows)
}

// RecentN returns the n most recently created jobs.
func (s *Postgres) RecentN(ctx context.Context, n int) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx,
		jobSelect+` ORDER BY created_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent jobs: %w", err)
	}
	return scanJobs(rows)
}

// SearchByTerms returns jobs matching every term in title or description.
func (s *Postgres) SearchByTerms(ctx context.Context, terms []string) ([]model.Job, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	query, args := buildSearchQuery(terms)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return scanJobs(rows)
}

// buildSearchQuery produces one conjunctive ILIKE condition per term.
func buildSearchQuery(terms []string) (string, []any) {
	conditions := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms))
	for i, term := range terms {
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", i+1, i+1))
		args = append(args, "%"+term+"%")
	}

	query := jobSelect +
		" WHERE " + strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", searchResultLimit)
	return query, args
}

// GetSubscription returns the subscription for chatID, or nil when absent.
func (s *Postgres) GetSubscription(ctx context.Context, chatID string) (*model.Subscription, error) {
	var sub model.Subscription
	var lastChecked *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT chat_id, search_query, last_checked_at FROM subscriptions WHERE chat_id = $1`,
		chatID,
	).Scan(&sub.ChatID, &sub.Query, &lastChecked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", chatID, err)
	}
	if lastChecked != nil {
		sub.LastCheckedAt = *lastChecked
	}
	return &sub, nil
}

// UpsertSubscription replaces the subscriber's query (full overwrite).
func (s *Postgres) UpsertSubscription(ctx context.Context, chatID, query string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (chat_id, search_query, last_checked_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (chat_id) DO UPDATE SET search_query = EXCLUDED.search_query`,
		chatID, query,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription %s: %w", chatID, err)
	}
	return nil
}

// ListSubscriptionsWithQuery returns all subscriptions with a non-empty query.
func (s *Postgres) ListSubscriptionsWithQuery(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT chat_id, search_query, last_checked_at
		 FROM subscriptions
		 WHERE search_query <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var lastChecked *time.Time
		if err := rows.Scan(&sub.ChatID, &sub.Query, &lastChecked); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		if lastChecked != nil {
			sub.LastCheckedAt = *lastChecked
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// TouchSubscriptions advances last_checked_at, never moving it backwards.
func (s *Postgres) TouchSubscriptions(ctx context.Context, chatIDs []string, t time.Time) error {
	if len(chatIDs) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE subscriptions
		 SET last_checked_at = $2
		 WHERE chat_id = ANY($1) AND (last_checked_at IS NULL OR last_checked_at < $2)`,
		chatIDs, t,
	)
	if err != nil {
		return fmt.Errorf("touch subscriptions: %w", err)
	}
	return nil
}

// CountJobs returns the total number of stored jobs.
func (s *Postgres) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

const jobSelect = `SELECT id, title, company, location, description, url, source, posted_at, created_at FROM jobs`

func scanJobs(rows pgx.Rows) ([]model.Job, error) {
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		var source string
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company, &j.Location, &j.Description,
			&j.URL, &source, &j.PostedAt, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.Source = model.Source(source)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
