package store

import (
	"strings"
	"testing"
)

// buildSearchQuery is tested directly; the statements themselves run only
// against a live database.

func TestBuildSearchQuery_OneConditionPerTerm(t *testing.T) {
	query, args := buildSearchQuery([]string{"senior", "remote"})

	if want := 2; len(args) != want {
		t.Fatalf("got %d args, want %d", len(args), want)
	}
	if args[0] != "%senior%" || args[1] != "%remote%" {
		t.Errorf("args = %v", args)
	}
	if strings.Count(query, "ILIKE $1") != 2 {
		t.Errorf("term 1 should hit both title and description:\n%s", query)
	}
	if !strings.Contains(query, " AND ") {
		t.Errorf("conditions must be conjunctive:\n%s", query)
	}
	if !strings.Contains(query, "ORDER BY created_at DESC") {
		t.Errorf("missing ordering:\n%s", query)
	}
}

func TestBuildSearchQuery_SingleTerm(t *testing.T) {
	query, args := buildSearchQuery([]string{"golang"})

	if len(args) != 1 || args[0] != "%golang%" {
		t.Errorf("args = %v", args)
	}
	if strings.Contains(query, " AND (") {
		t.Errorf("single term must not produce a conjunction:\n%s", query)
	}
}
