package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"jobhunt/aggregator-service/internal/model"
)

const remoteOKAPIURL = "https://remoteok.com/api"

// RemoteOK scrapes the RemoteOK structured JSON API.
type RemoteOK struct {
	// URL of the listings endpoint; overridable in tests.
	URL    string
	client *http.Client
}

// NewRemoteOK constructs the adapter with a shared HTTP client.
func NewRemoteOK(client *http.Client) *RemoteOK {
	return &RemoteOK{URL: remoteOKAPIURL, client: client}
}

func (s *RemoteOK) Name() string { return string(model.SourceRemoteOK) }

// remoteOKItem mirrors one listing. The feed's first element is a legal
// notice without a position field, which the required-field check drops.
type remoteOKItem struct {
	ID          string `json:"id"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ApplyURL    string `json:"apply_url"`
	Date        string `json:"date"`
}

// Scrape fetches the listing array. Items are decoded one at a time so a
// single malformed element is skipped instead of aborting the batch.
func (s *RemoteOK) Scrape(ctx context.Context) []model.RawJob {
	var items []json.RawMessage
	if err := fetchJSON(ctx, s.client, s.URL, &items); err != nil {
		log.Printf("[scraper:remoteok] fetch error: %v", err)
		return nil
	}

	var jobs []model.RawJob
	for _, raw := range items {
		var item remoteOKItem
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Printf("[scraper:remoteok] skipping malformed item: %v", err)
			continue
		}
		if item.Position == "" {
			continue
		}

		key := item.ID
		if key == "" {
			// No upstream id: fall back to a random key. Such items
			// cannot dedup across cycles; the url constraint still
			// prevents a second row.
			key = uuid.NewString()
		}

		jobURL := item.ApplyURL
		if jobURL == "" {
			jobURL = item.URL
		}
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://remoteok.com/%s", key)
		}

		jobs = append(jobs, model.RawJob{
			Source:      model.SourceRemoteOK,
			NativeKey:   key,
			Title:       item.Position,
			Company:     item.Company,
			Location:    item.Location,
			Description: item.Description,
			URL:         jobURL,
			PostedAt:    item.Date,
		})
	}

	log.Printf("[scraper:remoteok] scraped %d jobs", len(jobs))
	return jobs
}
