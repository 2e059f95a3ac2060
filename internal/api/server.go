// Package api exposes the read-side HTTP surface: recent jobs, free-text
// search, scrape stats and alert management.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"jobhunt/aggregator-service/internal/alert"
	"jobhunt/aggregator-service/internal/model"
	"jobhunt/aggregator-service/internal/store"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100

	recentCacheKey = "cache:recent:"
	recentCacheTTL = 60 * time.Second

	// StatsKey is the redis hash the ingestion scheduler writes after
	// each cycle and /api/stats reads.
	StatsKey = "scrape:last"
)

// Server handles the HTTP API. Recent-jobs responses are cached in redis
// for a short TTL since the dashboard polls them aggressively.
type Server struct {
	store store.Store
	rdb   *redis.Client
	mux   *http.ServeMux
}

// NewServer constructs the API server and registers its routes.
func NewServer(st store.Store, rdb *redis.Client) *Server {
	s := &Server{store: st, rdb: rdb, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/jobs/recent", s.handleRecent)
	s.mux.HandleFunc("GET /api/jobs/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/alerts", s.handleGetAlert)
	s.mux.HandleFunc("POST /api/alerts", s.handleSetAlert)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.mux }

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: "aggregator-service",
		Version: "0.1.0",
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if v > maxRecentLimit {
			v = maxRecentLimit
		}
		limit = v
	}

	cacheKey := recentCacheKey + strconv.Itoa(limit)
	if cached := s.cacheGet(r.Context(), cacheKey); cached != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	jobs, err := s.store.RecentN(r.Context(), limit)
	if err != nil {
		log.Printf("[api] recent jobs error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load jobs")
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}

	body, err := json.Marshal(jobs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode jobs")
		return
	}
	s.cacheSet(r.Context(), cacheKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	terms := alert.Tokenize(r.URL.Query().Get("q"))
	if len(terms) == 0 {
		writeError(w, http.StatusBadRequest, "q must contain at least one term longer than 2 characters")
		return
	}

	jobs, err := s.store.SearchByTerms(r.Context(), terms)
	if err != nil {
		log.Printf("[api] search error: %v", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

type statsResponse struct {
	TotalJobs     int               `json:"total_jobs"`
	Subscriptions int               `json:"subscriptions"`
	LastScrape    map[string]string `json:"last_scrape,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	total, err := s.store.CountJobs(r.Context())
	if err != nil {
		log.Printf("[api] count jobs error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	subs, err := s.store.ListSubscriptionsWithQuery(r.Context())
	if err != nil {
		log.Printf("[api] list subscriptions error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	resp := statsResponse{TotalJobs: total, Subscriptions: len(subs)}
	if s.rdb != nil {
		if last, err := s.rdb.HGetAll(r.Context(), StatsKey).Result(); err == nil && len(last) > 0 {
			resp.LastScrape = last
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat_id")
	if chatID == "" {
		writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}

	sub, err := s.store.GetSubscription(r.Context(), chatID)
	if err != nil {
		log.Printf("[api] get subscription error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load subscription")
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "no subscription for this chat_id")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

type setAlertRequest struct {
	ChatID string `json:"chat_id"`
	Query  string `json:"query"`
}

func (s *Server) handleSetAlert(w http.ResponseWriter, r *http.Request) {
	var req setAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ChatID == "" {
		writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}
	if len(alert.Tokenize(req.Query)) == 0 {
		writeError(w, http.StatusBadRequest, "query must contain at least one term longer than 2 characters")
		return
	}

	if err := s.store.UpsertSubscription(r.Context(), req.ChatID, req.Query); err != nil {
		log.Printf("[api] upsert subscription error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// cacheGet returns the cached body for key, or nil on miss or redis error.
func (s *Server) cacheGet(ctx context.Context, key string) []byte {
	if s.rdb == nil {
		return nil
	}
	body, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return body
}

func (s *Server) cacheSet(ctx context.Context, key string, body []byte) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, key, body, recentCacheTTL).Err(); err != nil {
		log.Printf("[api] cache write error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
