package normalize_test

import (
	"strings"
	"testing"
	"time"

	"jobhunt/aggregator-service/internal/model"
	"jobhunt/aggregator-service/internal/normalize"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// ── Determinism ────────────────────────────────────────────────────────────

func TestJob_Deterministic(t *testing.T) {
	raw := model.RawJob{
		Source:      model.SourceRemoteOK,
		NativeKey:   "42",
		Title:       "Senior Go Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Description: "We build things",
		URL:         "http://x/42",
		PostedAt:    "2025-05-30T10:00:00Z",
	}

	a := normalize.Job(raw, testNow)
	b := normalize.Job(raw, testNow)

	if a != b {
		t.Errorf("normalization not deterministic:\n%+v\n%+v", a, b)
	}
	if a.ID != "remoteok_42" {
		t.Errorf("ID = %q, want %q", a.ID, "remoteok_42")
	}
}

// ── Text cleaning ──────────────────────────────────────────────────────────

func TestCleanText_DecodesEntitiesAndStripsTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme &amp; Co: Backend Dev", "Acme & Co: Backend Dev"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"&lt;not a tag&gt;", "<not a tag>"},
		{"a  \n\t b", "a b"},
		{"  trimmed  ", "trimmed"},
		{"&quot;quoted&quot; &#39;text&#39;", `"quoted" 'text'`},
	}
	for _, c := range cases {
		if got := normalize.CleanText(c.in); got != c.want {
			t.Errorf("CleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJob_TruncatesLongDescription(t *testing.T) {
	raw := model.RawJob{
		Source:      model.SourceRemotive,
		NativeKey:   "1",
		Title:       "Dev",
		Description: strings.Repeat("x", 5000),
	}

	job := normalize.Job(raw, testNow)
	if len(job.Description) != normalize.MaxDescriptionLen {
		t.Errorf("Description length = %d, want %d", len(job.Description), normalize.MaxDescriptionLen)
	}
}

func TestTruncate_KeepsValidUTF8(t *testing.T) {
	s := strings.Repeat("é", 100) // 2 bytes per rune
	got := normalize.Truncate(s, 101)
	if len(got) != 100 {
		t.Errorf("Truncate cut mid-rune: len = %d, want 100", len(got))
	}
	for _, r := range got {
		if r == '�' {
			t.Fatal("Truncate produced invalid UTF-8")
		}
	}
}

// ── Defaults ───────────────────────────────────────────────────────────────

func TestJob_DefaultsForMissingFields(t *testing.T) {
	job := normalize.Job(model.RawJob{
		Source:    model.SourceRemoteOK,
		NativeKey: "7",
		Title:     "Dev",
	}, testNow)

	if job.Company != "Unknown" {
		t.Errorf("Company = %q, want %q", job.Company, "Unknown")
	}
	if job.Location != "Remote" {
		t.Errorf("Location = %q, want %q", job.Location, "Remote")
	}
}

// ── Timestamp parsing ──────────────────────────────────────────────────────

func TestParseTime_KnownFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-05-30T10:00:00Z", time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC)},
		{"Fri, 30 May 2025 10:00:00 +0000", time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC)},
		{"2025-05-30", time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got := normalize.ParseTime(c.in, testNow)
		if !got.Equal(c.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseTime_FallsBackToNow(t *testing.T) {
	for _, in := range []string{"", "not a date", "yesterday"} {
		if got := normalize.ParseTime(in, testNow); !got.Equal(testNow) {
			t.Errorf("ParseTime(%q) = %v, want fallback %v", in, got, testNow)
		}
	}
}
