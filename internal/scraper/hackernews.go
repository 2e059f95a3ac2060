package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"jobhunt/aggregator-service/internal/model"
)

const (
	hnAPIBase     = "https://hn.algolia.com/api/v1"
	hnItemURL     = "https://news.ycombinator.com/item?id="
	hnMaxComments = 100
)

// locationPattern captures the text between the first pair of pipe
// delimiters of a "Company | Location | ..." header line.
var locationPattern = regexp.MustCompile(`\|\s*([^|]+?)\s*\|`)

// HackerNews scrapes the monthly "Ask HN: Who is hiring?" thread via the
// Algolia search API: first locate the most recent hiring story, then pull
// its comments and keep the ones that read like job postings.
type HackerNews struct {
	// APIBase is the Algolia endpoint root; overridable in tests.
	APIBase string
	client  *http.Client
}

// NewHackerNews constructs the adapter with a shared HTTP client.
func NewHackerNews(client *http.Client) *HackerNews {
	return &HackerNews{APIBase: hnAPIBase, client: client}
}

func (s *HackerNews) Name() string { return string(model.SourceHackerNews) }

type hnSearchResponse struct {
	Hits []hnHit `json:"hits"`
}

type hnHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	CommentText string `json:"comment_text"`
	CreatedAt   string `json:"created_at"`
}

func (s *HackerNews) Scrape(ctx context.Context) []model.RawJob {
	threadID, err := s.latestHiringThread(ctx)
	if err != nil {
		log.Printf("[scraper:hackernews] thread search error: %v", err)
		return nil
	}
	if threadID == "" {
		log.Println("[scraper:hackernews] no hiring thread found")
		return nil
	}

	comments, err := s.threadComments(ctx, threadID)
	if err != nil {
		log.Printf("[scraper:hackernews] comments fetch error: %v", err)
		return nil
	}

	var jobs []model.RawJob
	for _, c := range comments {
		job, ok := commentToRawJob(c)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}

	log.Printf("[scraper:hackernews] scraped %d jobs from thread %s", len(jobs), threadID)
	return jobs
}

// latestHiringThread returns the objectID of the most recent hiring story.
func (s *HackerNews) latestHiringThread(ctx context.Context) (string, error) {
	searchURL := fmt.Sprintf("%s/search?query=%s&tags=story&hitsPerPage=5",
		s.APIBase, url.QueryEscape("Ask HN Who is hiring"))

	var resp hnSearchResponse
	if err := fetchJSON(ctx, s.client, searchURL, &resp); err != nil {
		return "", err
	}
	if len(resp.Hits) == 0 {
		return "", nil
	}
	return resp.Hits[0].ObjectID, nil
}

// threadComments fetches up to hnMaxComments comments under the thread.
func (s *HackerNews) threadComments(ctx context.Context, threadID string) ([]hnHit, error) {
	commentsURL := fmt.Sprintf("%s/search?tags=comment,story_%s&hitsPerPage=%d",
		s.APIBase, threadID, hnMaxComments)

	var resp hnSearchResponse
	if err := fetchJSON(ctx, s.client, commentsURL, &resp); err != nil {
		return nil, err
	}
	return resp.Hits, nil
}

// commentToRawJob parses one comment into a raw job candidate. Comments
// that do not mention hiring are dropped. The first non-blank line is
// treated as a "Company | Location | ..." pseudo-record.
func commentToRawJob(c hnHit) (model.RawJob, bool) {
	text := c.CommentText
	if text == "" || !strings.Contains(strings.ToLower(text), "hiring") {
		return model.RawJob{}, false
	}

	firstLine := firstNonBlankLine(text)
	if firstLine == "" {
		return model.RawJob{}, false
	}

	company := firstLine
	if i := strings.Index(firstLine, "|"); i >= 0 {
		company = firstLine[:i]
	}
	company = strings.TrimSpace(company)

	location := "Remote/Unknown"
	if m := locationPattern.FindStringSubmatch(firstLine); m != nil {
		location = m[1]
	}

	return model.RawJob{
		Source:      model.SourceHackerNews,
		NativeKey:   c.ObjectID,
		Title:       firstLine,
		Company:     company,
		Location:    location,
		Description: text,
		URL:         hnItemURL + c.ObjectID,
		PostedAt:    c.CreatedAt,
	}, true
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
