// Package scraper implements the per-source adapters that fetch job
// postings from external boards.
//
// Adapters never propagate failures past their own boundary: any network,
// timeout or parse error is logged and yields an empty batch, so one broken
// source never blocks its siblings in the same ingestion cycle.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobhunt/aggregator-service/internal/model"
)

// Scraper fetches one upstream source and produces raw job candidates.
type Scraper interface {
	// Name returns the source tag, used in logs.
	Name() string

	// Scrape fetches and parses one complete batch. It returns an empty
	// slice on any upstream or parse failure; it never panics or errors.
	Scrape(ctx context.Context) []model.RawJob
}

const userAgent = "Mozilla/5.0 (compatible; JobBot/1.0)"

// NewHTTPClient builds the shared per-adapter client with the upstream
// call timeout applied.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// fetchBody GETs rawURL and returns the response body, rejecting non-2xx
// statuses.
func fetchBody(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	return body, nil
}

// fetchJSON GETs rawURL and unmarshals the body into v.
func fetchJSON(ctx context.Context, client *http.Client, rawURL string, v any) error {
	body, err := fetchBody(ctx, client, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}
