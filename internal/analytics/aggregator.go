package analytics

import (
	"sort"
	"sync"
)

// Aggregator maintains in-memory search usage statistics for the analytics
// endpoint: query volume, zero-result rate, latency, and most-frequent
// queries.
type Aggregator struct {
	mu           sync.RWMutex
	totalQueries int64
	zeroResults  int64
	latencySumMs int64
	queryCounts  map[string]int64
}

// QueryCount pairs a query string with how many times it was searched.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Summary is a point-in-time view of aggregated usage.
type Summary struct {
	TotalQueries int64        `json:"total_queries"`
	ZeroResults  int64        `json:"zero_results"`
	AvgLatencyMs float64      `json:"avg_latency_ms"`
	TopQueries   []QueryCount `json:"top_queries"`
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		queryCounts: make(map[string]int64),
	}
}

// Record folds one event into the running statistics.
func (a *Aggregator) Record(event SearchEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalQueries++
	a.latencySumMs += event.LatencyMs
	if event.Type == EventZeroResult || event.Returned == 0 {
		a.zeroResults++
	}
	if event.Query != "" {
		a.queryCounts[event.Query]++
	}
}

// Summarize returns current statistics with the top-N queries by count,
// ties broken alphabetically for stable output.
func (a *Aggregator) Summarize(topN int) Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Summary{
		TotalQueries: a.totalQueries,
		ZeroResults:  a.zeroResults,
	}
	if a.totalQueries > 0 {
		s.AvgLatencyMs = float64(a.latencySumMs) / float64(a.totalQueries)
	}

	top := make([]QueryCount, 0, len(a.queryCounts))
	for q, n := range a.queryCounts {
		top = append(top, QueryCount{Query: q, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Query < top[j].Query
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	s.TopQueries = top
	return s
}
