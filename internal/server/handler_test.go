package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nishantgupta83/mindful-living/internal/analytics"
	"github.com/nishantgupta83/mindful-living/internal/search"
	"github.com/nishantgupta83/mindful-living/internal/search/cache"
	"github.com/nishantgupta83/mindful-living/internal/search/index"
	"github.com/nishantgupta83/mindful-living/pkg/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	docs := []index.Document{
		{
			ID:          "a",
			Title:       "Managing Work Stress",
			Description: "techniques to handle pressure at the office",
			Category:    "work",
			Tags:        []string{"stress", "work"},
		},
		{
			ID:          "b",
			Title:       "Meditation for Beginners",
			Description: "simple mindfulness practice",
			Category:    "mindfulness",
			Tags:        []string{"meditation", "calm"},
		},
	}
	src := index.SourceFunc(func(ctx context.Context) ([]index.Document, error) {
		return docs, nil
	})
	manager, err := cache.New(src, nil, config.CacheConfig{
		FreshFor:    25 * 24 * time.Hour,
		ExpireAfter: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("cache.New failed: %v", err)
	}
	svc, err := search.New(manager)
	if err != nil {
		t.Fatalf("search.New failed: %v", err)
	}

	aggregator := analytics.NewAggregator()
	collector := analytics.NewCollector(nil, aggregator, 100)
	ctx, cancel := context.WithCancel(context.Background())
	collector.Start(ctx)
	t.Cleanup(func() {
		collector.Close()
		cancel()
	})

	h := New(svc, collector, aggregator, config.SearchConfig{
		DefaultLimit: 20,
		MaxResults:   100,
		SuggestLimit: 5,
	})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/suggest", h.Suggest)
	mux.HandleFunc("GET /api/v1/popular", h.Popular)
	mux.HandleFunc("POST /api/v1/reindex", h.Reindex)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/analytics", h.Analytics)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body SearchResponse
	getJSON(t, srv.URL+"/api/v1/search?q=stress", http.StatusOK, &body)
	if body.Query != "stress" {
		t.Errorf("query = %q, want stress", body.Query)
	}
	if body.Total != 1 || len(body.Results) != 1 || body.Results[0].DocID != "a" {
		t.Errorf("results = %+v, want single hit on doc a", body)
	}
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	srv := newTestServer(t)
	var body SearchResponse
	getJSON(t, srv.URL+"/api/v1/search?q=", http.StatusOK, &body)
	if body.Total != 0 {
		t.Errorf("empty query returned %d results, want 0", body.Total)
	}
}

func TestSearchEndpointInvalidLimit(t *testing.T) {
	srv := newTestServer(t)
	for _, limit := range []string{"abc", "0", "-5"} {
		resp, err := http.Get(srv.URL + "/api/v1/search?q=stress&limit=" + limit)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%s: status %d, want 400", limit, resp.StatusCode)
		}
	}
}

func TestSuggestEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Warm the index through a search first; suggestions never build.
	getJSON(t, srv.URL+"/api/v1/search?q=stress", http.StatusOK, nil)

	var body struct {
		Partial string   `json:"partial"`
		Terms   []string `json:"terms"`
	}
	getJSON(t, srv.URL+"/api/v1/suggest?q=med&limit=5", http.StatusOK, &body)
	if len(body.Terms) != 1 || body.Terms[0] != "meditation" {
		t.Errorf("suggest(med) = %v, want [meditation]", body.Terms)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	getJSON(t, srv.URL+"/api/v1/search?q=stress", http.StatusOK, nil)

	var st search.Stats
	getJSON(t, srv.URL+"/api/v1/stats", http.StatusOK, &st)
	if st.DocumentCount != 2 || st.State != "fresh" {
		t.Errorf("stats = %+v, want 2 fresh documents", st)
	}
}

func TestReindexEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/v1/reindex", "application/json", nil)
	if err != nil {
		t.Fatalf("POST reindex failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("reindex status = %d, want 202", resp.StatusCode)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	getJSON(t, srv.URL+"/api/v1/search?q=stress", http.StatusOK, nil)
	getJSON(t, srv.URL+"/api/v1/search?q=astrophysics", http.StatusOK, nil)

	// The collector forwards asynchronously; poll until both events land.
	deadline := time.Now().Add(2 * time.Second)
	var summary analytics.Summary
	for time.Now().Before(deadline) {
		getJSON(t, srv.URL+"/api/v1/analytics", http.StatusOK, &summary)
		if summary.TotalQueries >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if summary.TotalQueries != 2 {
		t.Fatalf("TotalQueries = %d, want 2", summary.TotalQueries)
	}
	if summary.ZeroResults != 1 {
		t.Errorf("ZeroResults = %d, want 1", summary.ZeroResults)
	}
	if len(summary.TopQueries) == 0 {
		t.Error("expected top queries to be populated")
	}
}
