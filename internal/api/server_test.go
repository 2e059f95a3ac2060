package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobhunt/aggregator-service/internal/api"
	"jobhunt/aggregator-service/internal/model"
	"jobhunt/aggregator-service/internal/store/storetest"
)

func newTestServer(t *testing.T, st *storetest.Memory) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.NewServer(st, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func seedJobs(t *testing.T, st *storetest.Memory, jobs ...model.Job) {
	t.Helper()
	for _, j := range jobs {
		if _, err := st.InsertIfAbsent(context.Background(), j); err != nil {
			t.Fatalf("seed %s: %v", j.ID, err)
		}
	}
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, storetest.NewMemory())

	var body map[string]string
	if status := getJSON(t, srv.URL+"/health", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "ok" || body["service"] != "aggregator-service" {
		t.Errorf("body = %v", body)
	}
}

func TestRecentJobs(t *testing.T) {
	st := storetest.NewMemory()
	seedJobs(t, st,
		model.Job{ID: "a", Title: "First", URL: "http://x/a"},
		model.Job{ID: "b", Title: "Second", URL: "http://x/b"},
		model.Job{ID: "c", Title: "Third", URL: "http://x/c"},
	)
	srv := newTestServer(t, st)

	var jobs []model.Job
	if status := getJSON(t, srv.URL+"/api/jobs/recent?limit=2", &jobs); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != "c" {
		t.Errorf("first job = %s, want newest (c)", jobs[0].ID)
	}
}

func TestRecentJobs_BadLimit(t *testing.T) {
	srv := newTestServer(t, storetest.NewMemory())

	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/jobs/recent?limit=zero", &body); status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestSearch(t *testing.T) {
	st := storetest.NewMemory()
	seedJobs(t, st,
		model.Job{ID: "a", Title: "Senior Go Engineer", Description: "remote team", URL: "http://x/a"},
		model.Job{ID: "b", Title: "Junior QA", Description: "on-site", URL: "http://x/b"},
	)
	srv := newTestServer(t, st)

	var jobs []model.Job
	if status := getJSON(t, srv.URL+"/api/jobs/search?q=senior+remote", &jobs); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(jobs) != 1 || jobs[0].ID != "a" {
		t.Errorf("jobs = %v, want only the senior remote one", jobs)
	}
}

func TestSearch_AllTermsTooShort(t *testing.T) {
	srv := newTestServer(t, storetest.NewMemory())

	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/jobs/search?q=go+io", &body); status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when every term is noise", status)
	}
}

func TestAlerts_SetAndGet(t *testing.T) {
	st := storetest.NewMemory()
	srv := newTestServer(t, st)

	resp, err := http.Post(srv.URL+"/api/alerts", "application/json",
		strings.NewReader(`{"chat_id": "42", "query": "senior golang"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}

	var sub model.Subscription
	if status := getJSON(t, srv.URL+"/api/alerts?chat_id=42", &sub); status != http.StatusOK {
		t.Fatalf("GET status = %d", status)
	}
	if sub.Query != "senior golang" {
		t.Errorf("Query = %q", sub.Query)
	}
}

func TestAlerts_GetUnknownChatID(t *testing.T) {
	srv := newTestServer(t, storetest.NewMemory())

	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/alerts?chat_id=nobody", &body); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestAlerts_RejectsNoiseOnlyQuery(t *testing.T) {
	srv := newTestServer(t, storetest.NewMemory())

	resp, err := http.Post(srv.URL+"/api/alerts", "application/json",
		strings.NewReader(`{"chat_id": "42", "query": "a go"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStats(t *testing.T) {
	st := storetest.NewMemory()
	seedJobs(t, st, model.Job{ID: "a", Title: "Dev", URL: "http://x/a"})
	st.UpsertSubscription(context.Background(), "42", "golang")
	srv := newTestServer(t, st)

	var stats struct {
		TotalJobs     int `json:"total_jobs"`
		Subscriptions int `json:"subscriptions"`
	}
	if status := getJSON(t, srv.URL+"/api/stats", &stats); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if stats.TotalJobs != 1 || stats.Subscriptions != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
