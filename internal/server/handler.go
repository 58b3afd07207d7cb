// Package server exposes the search façade over HTTP for the mobile
// backend. The engine itself defines no wire protocol; these handlers are
// the host application's thin JSON layer over the service.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nishantgupta83/mindful-living/internal/analytics"
	"github.com/nishantgupta83/mindful-living/internal/search"
	"github.com/nishantgupta83/mindful-living/internal/search/ranker"
	"github.com/nishantgupta83/mindful-living/pkg/config"
	"github.com/nishantgupta83/mindful-living/pkg/errors"
	"github.com/nishantgupta83/mindful-living/pkg/logger"
	"github.com/nishantgupta83/mindful-living/pkg/middleware"
)

// SearchResponse is the JSON body returned by the search endpoint.
type SearchResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []ranker.Result `json:"results"`
}

// Handler serves the search API.
type Handler struct {
	svc        *search.Service
	collector  *analytics.Collector
	aggregator *analytics.Aggregator
	limits     config.SearchConfig
	logger     *slog.Logger
}

// New creates a Handler. collector and aggregator may be nil when analytics
// is disabled.
func New(svc *search.Service, collector *analytics.Collector, aggregator *analytics.Aggregator, limits config.SearchConfig) *Handler {
	return &Handler{
		svc:        svc,
		collector:  collector,
		aggregator: aggregator,
		limits:     limits,
		logger:     slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=...&limit=N.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	limit, ok := h.parseLimit(w, r, h.limits.DefaultLimit)
	if !ok {
		return
	}

	results, err := h.svc.Search(ctx, query, limit)
	if err != nil {
		log.Error("search failed", "query", query, "error", err)
		h.writeError(w, errors.HTTPStatusCode(err), "search failed")
		return
	}

	if h.collector != nil {
		eventType := analytics.EventSearch
		if len(results) == 0 {
			eventType = analytics.EventZeroResult
		}
		h.collector.Track(analytics.SearchEvent{
			Type:      eventType,
			Query:     query,
			Returned:  len(results),
			LatencyMs: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Total:   len(results),
		Results: results,
	})
}

// Suggest handles GET /api/v1/suggest?q=...&limit=N.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")
	limit, ok := h.parseLimit(w, r, h.limits.SuggestLimit)
	if !ok {
		return
	}
	terms := h.svc.SuggestTerms(partial, limit)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"partial": partial,
		"terms":   terms,
	})
}

// Popular handles GET /api/v1/popular?limit=N.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r, 10)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"terms": h.svc.PopularTerms(limit),
	})
}

// Reindex handles POST /api/v1/reindex. The rebuild itself happens on the
// next access, so this returns immediately.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reindex(r.Context()); err != nil {
		h.logger.Error("reindex failed", "error", err)
		h.writeError(w, errors.HTTPStatusCode(err), "reindex failed")
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "reindex scheduled"})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.IndexStats())
}

// Analytics handles GET /api/v1/analytics.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	if h.aggregator == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	h.writeJSON(w, http.StatusOK, h.aggregator.Summarize(10))
}

func (h *Handler) parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	limit := fallback
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return 0, false
		}
		if parsed > h.limits.MaxResults {
			parsed = h.limits.MaxResults
		}
		limit = parsed
	}
	return limit, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
