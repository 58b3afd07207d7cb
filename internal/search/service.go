// Package search exposes the intelligent text-search façade for wellness
// content: query tokenization, concept expansion, hybrid ranking over a
// cached inverted index, prefix suggestions, and popular-term analytics.
//
// A Service is an explicit value owning its cache manager and collaborator
// references; construct one per process and pass it to callers. There is no
// ambient global state.
package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nishantgupta83/mindful-living/internal/search/cache"
	"github.com/nishantgupta83/mindful-living/internal/search/ranker"
	"github.com/nishantgupta83/mindful-living/internal/search/tokenizer"
	"github.com/nishantgupta83/mindful-living/pkg/errors"
	"github.com/nishantgupta83/mindful-living/pkg/metrics"
)

// DefaultSuggestLimit caps SuggestTerms when the caller passes no limit.
const DefaultSuggestLimit = 5

// TermCount pairs a vocabulary term with its document frequency.
type TermCount struct {
	Term    string `json:"term"`
	DocFreq int    `json:"doc_freq"`
}

// Stats summarises the current index for diagnostics.
type Stats struct {
	TermCount     int       `json:"term_count"`
	DocumentCount int       `json:"document_count"`
	BuiltAt       time.Time `json:"built_at"`
	AgeDays       float64   `json:"age_days"`
	State         string    `json:"state"`
}

// Service orchestrates cache lookup, query processing, ranking, and result
// assembly.
type Service struct {
	cache   *cache.Manager
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation of queries.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = mx }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over the given cache manager.
func New(manager *cache.Manager, opts ...Option) (*Service, error) {
	if manager == nil {
		return nil, errors.New(errors.ErrInvalidInput, 0, "cache manager is required")
	}
	s := &Service{
		cache:  manager,
		logger: slog.Default().With("component", "search-service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search tokenizes and concept-expands the query, ensures the index is at
// most stale (triggering a build or refresh as needed), and returns ranked
// results. An empty or all-stop-word query returns an empty slice without
// error. maxResults <= 0 selects the default of 20.
func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]ranker.Result, error) {
	start := s.now()
	terms := dedupe(tokenizer.Tokenize(query))
	if len(terms) == 0 {
		s.count("empty_query")
		return []ranker.Result{}, nil
	}

	state := s.cache.State()
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		s.count("error")
		return nil, err
	}

	results := ranker.Rank(terms, snap, maxResults)

	if s.metrics != nil {
		s.metrics.SearchLatency.WithLabelValues(state.String()).Observe(s.now().Sub(start).Seconds())
		s.metrics.SearchResultsCount.Observe(float64(len(results)))
	}
	if len(results) == 0 {
		s.count("zero_result")
	} else {
		s.count("hit")
	}
	s.logger.Info("search completed",
		"query", query,
		"terms", terms,
		"results", len(results),
		"cache_state", state.String(),
		"latency_ms", s.now().Sub(start).Milliseconds(),
	)
	return results, nil
}

// SuggestTerms returns index vocabulary terms with the given prefix, most
// frequent first (ties broken alphabetically). It returns an empty slice if
// the index has not been built; it never triggers a build.
func (s *Service) SuggestTerms(partial string, max int) []string {
	if max <= 0 {
		max = DefaultSuggestLimit
	}
	snap := s.cache.Current()
	if snap == nil {
		return []string{}
	}
	prefix := strings.ToLower(strings.TrimSpace(partial))
	if prefix == "" {
		return []string{}
	}

	matches := make([]string, 0, max)
	for _, term := range snap.Vocabulary() {
		if strings.HasPrefix(term, prefix) {
			matches = append(matches, term)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		fi, fj := snap.DocFreq(matches[i]), snap.DocFreq(matches[j])
		if fi != fj {
			return fi > fj
		}
		return matches[i] < matches[j]
	})
	if len(matches) > max {
		matches = matches[:max]
	}
	return matches
}

// PopularTerms returns the top terms by document frequency, for analytics
// and autocomplete seeding. Empty if the index has not been built.
func (s *Service) PopularTerms(max int) []TermCount {
	snap := s.cache.Current()
	if snap == nil || max <= 0 {
		return []TermCount{}
	}
	terms := make([]TermCount, 0, snap.TermCount())
	for _, term := range snap.Vocabulary() {
		terms = append(terms, TermCount{Term: term, DocFreq: snap.DocFreq(term)})
	}
	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].DocFreq != terms[j].DocFreq {
			return terms[i].DocFreq > terms[j].DocFreq
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > max {
		terms = terms[:max]
	}
	return terms
}

// Reindex discards the current cache entry; the next access performs a
// synchronous rebuild against the live document source.
func (s *Service) Reindex(ctx context.Context) error {
	s.cache.Invalidate()
	s.logger.Info("reindex requested")
	return nil
}

// Warm triggers an eager build so the first query does not pay build
// latency. Intended for host startup; errors are returned for logging but
// the service remains usable (the first query will retry).
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.cache.Snapshot(ctx)
	return err
}

// IndexStats reports the current index size and age.
func (s *Service) IndexStats() Stats {
	st := Stats{State: s.cache.State().String()}
	if builtAt := s.cache.BuiltAt(); !builtAt.IsZero() {
		st.BuiltAt = builtAt
		st.AgeDays = math.Round(s.now().Sub(builtAt).Hours()/24*100) / 100
	}
	if snap := s.cache.Current(); snap != nil {
		st.TermCount = snap.TermCount()
		st.DocumentCount = snap.DocCount()
	}
	return st
}

func (s *Service) count(resultType string) {
	if s.metrics != nil {
		s.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	}
}

// dedupe removes repeated query terms while preserving first-seen order, so
// a duplicated word cannot double its contribution.
func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
