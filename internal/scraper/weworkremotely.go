package scraper

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"regexp"
	"strings"

	"jobhunt/aggregator-service/internal/model"
	"jobhunt/aggregator-service/internal/normalize"
)

const (
	wwrFeedURL = "https://weworkremotely.com/remote-jobs.rss"

	// maxFeedItems bounds the work done on an adversarial or runaway feed.
	maxFeedItems = 50

	// feedKeyLen: length of the truncated base64 title key. Short enough
	// to collide in theory; a rare false-dedup is accepted over carrying
	// a stronger hash.
	feedKeyLen = 20
)

// The feed is not schema-guaranteed, so entries are extracted with
// tolerant pattern matches rather than a strict XML parse.
var (
	itemPattern    = regexp.MustCompile(`(?s)<item>.*?</item>`)
	titlePattern   = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	linkPattern    = regexp.MustCompile(`(?s)<link>(.*?)</link>`)
	descPattern    = regexp.MustCompile(`(?s)<description>(.*?)</description>`)
	pubDatePattern = regexp.MustCompile(`(?s)<pubDate>(.*?)</pubDate>`)
)

// WeWorkRemotely scrapes the We Work Remotely RSS feed.
type WeWorkRemotely struct {
	// URL of the RSS feed; overridable in tests.
	URL    string
	client *http.Client
}

// NewWeWorkRemotely constructs the adapter with a shared HTTP client.
func NewWeWorkRemotely(client *http.Client) *WeWorkRemotely {
	return &WeWorkRemotely{URL: wwrFeedURL, client: client}
}

func (s *WeWorkRemotely) Name() string { return string(model.SourceWeWorkRemotely) }

func (s *WeWorkRemotely) Scrape(ctx context.Context) []model.RawJob {
	body, err := fetchBody(ctx, s.client, s.URL)
	if err != nil {
		log.Printf("[scraper:weworkremotely] fetch error: %v", err)
		return nil
	}

	items := itemPattern.FindAllString(string(body), -1)
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}

	var jobs []model.RawJob
	for _, item := range items {
		titleMatch := titlePattern.FindStringSubmatch(item)
		if titleMatch == nil {
			continue
		}

		// The title is cleaned here, before normalization, because it is
		// the identity material: the feed carries no native ids, so the
		// key is derived from the normalized title text.
		title := normalize.CleanText(titleMatch[1])
		if title == "" {
			continue
		}

		company := "Unknown"
		if i := strings.Index(title, ":"); i > 0 {
			company = strings.TrimSpace(title[:i])
		}

		jobs = append(jobs, model.RawJob{
			Source:      model.SourceWeWorkRemotely,
			NativeKey:   feedKey(title),
			Title:       title,
			Company:     company,
			Location:    "Remote",
			Description: submatch(descPattern, item),
			URL:         strings.TrimSpace(submatch(linkPattern, item)),
			PostedAt:    submatch(pubDatePattern, item),
		})
	}

	log.Printf("[scraper:weworkremotely] scraped %d jobs", len(jobs))
	return jobs
}

// feedKey derives the identity key from a normalized title.
func feedKey(title string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(title))
	if len(enc) > feedKeyLen {
		enc = enc[:feedKeyLen]
	}
	return enc
}

func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
