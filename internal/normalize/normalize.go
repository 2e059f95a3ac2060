// Package normalize converts raw scraper output into canonical job records.
//
// Normalization is deterministic: the same RawJob always yields the same
// Job (given the same fallback time), which is what makes the id a safe
// dedup key across scrape cycles.
package normalize

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"jobhunt/aggregator-service/internal/model"
)

const (
	// MaxTitleLen bounds the title column.
	MaxTitleLen = 200
	// MaxDescriptionLen bounds description storage and matching cost.
	MaxDescriptionLen = 2000
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// timeLayouts covers the formats the upstream sources actually emit:
// RFC3339 (Algolia, RemoteOK, Remotive) and RFC1123 variants (RSS pubDate).
var timeLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Job maps one RawJob onto the canonical record shape. Text fields are
// entity-decoded, stripped of markup, whitespace-collapsed and truncated;
// an unparsable PostedAt falls back to now.
func Job(raw model.RawJob, now time.Time) model.Job {
	company := CleanText(raw.Company)
	if company == "" {
		company = "Unknown"
	}
	location := CleanText(raw.Location)
	if location == "" {
		location = "Remote"
	}

	return model.Job{
		ID:          ID(raw.Source, raw.NativeKey),
		Title:       Truncate(CleanText(raw.Title), MaxTitleLen),
		Company:     company,
		Location:    location,
		Description: Truncate(CleanText(raw.Description), MaxDescriptionLen),
		URL:         strings.TrimSpace(raw.URL),
		Source:      raw.Source,
		PostedAt:    ParseTime(raw.PostedAt, now),
	}
}

// ID builds the canonical identity key "<source>_<native-key>".
func ID(source model.Source, nativeKey string) string {
	return string(source) + "_" + nativeKey
}

// CleanText decodes HTML entities, strips embedded markup and collapses
// runs of whitespace to single spaces.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = tagPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate caps s at max bytes, backing off to a rune boundary so the
// result stays valid UTF-8.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// ParseTime parses an upstream timestamp, falling back to now when the
// value is absent or unparsable.
func ParseTime(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}
