package scraper

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"jobhunt/aggregator-service/internal/model"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

// Remotive scrapes the Remotive structured JSON API.
type Remotive struct {
	// URL of the remote-jobs endpoint; overridable in tests.
	URL    string
	client *http.Client
}

// NewRemotive constructs the adapter with a shared HTTP client.
func NewRemotive(client *http.Client) *Remotive {
	return &Remotive{URL: remotiveAPIURL, client: client}
}

func (s *Remotive) Name() string { return string(model.SourceRemotive) }

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	Location        string `json:"candidate_required_location"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	PublicationDate string `json:"publication_date"`
}

func (s *Remotive) Scrape(ctx context.Context) []model.RawJob {
	var resp remotiveResponse
	if err := fetchJSON(ctx, s.client, s.URL, &resp); err != nil {
		log.Printf("[scraper:remotive] fetch error: %v", err)
		return nil
	}

	var jobs []model.RawJob
	for _, item := range resp.Jobs {
		if item.Title == "" {
			continue
		}
		jobs = append(jobs, model.RawJob{
			Source:      model.SourceRemotive,
			NativeKey:   strconv.FormatInt(item.ID, 10),
			Title:       item.Title,
			Company:     item.CompanyName,
			Location:    item.Location,
			Description: item.Description,
			URL:         item.URL,
			PostedAt:    item.PublicationDate,
		})
	}

	log.Printf("[scraper:remotive] scraped %d jobs", len(jobs))
	return jobs
}
