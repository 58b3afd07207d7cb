package search

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nishantgupta83/mindful-living/internal/search/cache"
	"github.com/nishantgupta83/mindful-living/internal/search/index"
	"github.com/nishantgupta83/mindful-living/internal/search/ranker"
	"github.com/nishantgupta83/mindful-living/pkg/config"
	pkgerrors "github.com/nishantgupta83/mindful-living/pkg/errors"
)

// wellnessCorpus is a two-document corpus with disjoint topics: one about
// workplace stress, one about meditation.
func wellnessCorpus() []index.Document {
	return []index.Document{
		{
			ID:          "a",
			Title:       "Managing Work Stress",
			Description: "techniques to handle pressure and deadlines at the office",
			Category:    "work",
			Tags:        []string{"stress", "work", "burnout"},
			Approach:    "practical coping strategies",
			Steps:       []string{"identify your stressors", "take regular breaks"},
		},
		{
			ID:          "b",
			Title:       "Meditation for Beginners",
			Description: "simple mindfulness practice to settle the mind",
			Category:    "mindfulness",
			Tags:        []string{"meditation", "calm", "breathing"},
			Approach:    "daily quiet sitting",
			Steps:       []string{"sit comfortably", "follow your breath"},
		},
	}
}

type corpusSource struct {
	fetches atomic.Int64
	failing atomic.Bool
	docs    []index.Document
}

func (s *corpusSource) FetchAll(ctx context.Context) ([]index.Document, error) {
	s.fetches.Add(1)
	if s.failing.Load() {
		return nil, pkgerrors.New(pkgerrors.ErrSourceUnavailable, 503, "content database down")
	}
	return s.docs, nil
}

func newTestService(t *testing.T, src *corpusSource) *Service {
	t.Helper()
	manager, err := cache.New(src, nil, config.CacheConfig{
		FreshFor:    25 * 24 * time.Hour,
		ExpireAfter: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("cache.New failed: %v", err)
	}
	svc, err := New(manager)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return svc
}

func searchIDs(t *testing.T, svc *Service, query string) []string {
	t.Helper()
	results, err := svc.Search(context.Background(), query, 0)
	if err != nil {
		t.Fatalf("Search(%q) failed: %v", query, err)
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.DocID
	}
	return ids
}

func TestSearchExactKeyword(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})
	if got := searchIDs(t, svc, "stress"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Search(stress) = %v, want [a]", got)
	}
	if got := searchIDs(t, svc, "meditation"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Search(meditation) = %v, want [b]", got)
	}
}

// TestSearchSemanticExpansion: "anxiety" appears nowhere in the corpus but
// expands to "stress" through the concept graph.
func TestSearchSemanticExpansion(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})
	if got := searchIDs(t, svc, "anxiety"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Search(anxiety) = %v, want [a]", got)
	}
}

func TestSearchMultiTermQuery(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})
	if got := searchIDs(t, svc, "work stress"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Search(work stress) = %v, want [a]", got)
	}
}

// TestSearchTypo: a misspelled term with no exact hit falls back to fuzzy
// matching against the index vocabulary.
func TestSearchTypo(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})
	if got := searchIDs(t, svc, "stres"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Search(stres) = %v, want [a]", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	src := &corpusSource{docs: wellnessCorpus()}
	svc := newTestService(t, src)
	for _, query := range []string{"", "   ", "the a of", "!!"} {
		results, err := svc.Search(context.Background(), query, 0)
		if err != nil {
			t.Errorf("Search(%q) returned error: %v", query, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) = %v, want empty", query, results)
		}
	}
	// Empty queries must not trigger an index build.
	if got := src.fetches.Load(); got != 0 {
		t.Errorf("fetches = %d, want 0 for empty queries", got)
	}
}

func TestSearchNoMatches(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})
	results, err := svc.Search(context.Background(), "astrophysics", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search(astrophysics) = %v, want empty", results)
	}
}

func TestSearchDuplicateTermsCollapse(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})
	once, err := svc.Search(context.Background(), "stress", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	twice, err := svc.Search(context.Background(), "stress stress stress", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("unexpected result counts: %d vs %d", len(once), len(twice))
	}
	if once[0].Score != twice[0].Score {
		t.Errorf("repeated term changed score: %v vs %v", once[0].Score, twice[0].Score)
	}
}

func TestSearchSourceUnavailable(t *testing.T) {
	src := &corpusSource{docs: wellnessCorpus()}
	src.failing.Store(true)
	svc := newTestService(t, src)

	_, err := svc.Search(context.Background(), "stress", 0)
	if !errors.Is(err, pkgerrors.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}

	// Once the source recovers the same query succeeds.
	src.failing.Store(false)
	if got := searchIDs(t, svc, "stress"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Search after recovery = %v, want [a]", got)
	}
}

func TestSearchResultLimit(t *testing.T) {
	docs := make([]index.Document, 0, 25)
	for _, id := range []string{
		"d01", "d02", "d03", "d04", "d05", "d06", "d07", "d08", "d09", "d10",
		"d11", "d12", "d13", "d14", "d15", "d16", "d17", "d18", "d19", "d20",
		"d21", "d22", "d23", "d24",
	} {
		docs = append(docs, index.Document{ID: id, Title: "stress relief"})
	}
	docs = append(docs, index.Document{ID: "zz", Title: "gardening"})
	svc := newTestService(t, &corpusSource{docs: docs})

	results, err := svc.Search(context.Background(), "stress", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != ranker.DefaultMaxResults {
		t.Errorf("default limit: got %d results, want %d", len(results), ranker.DefaultMaxResults)
	}

	results, err = svc.Search(context.Background(), "stress", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("explicit limit: got %d results, want 3", len(results))
	}
}

func TestSuggestTerms(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})

	// Before any build, suggestions are empty and no build is triggered.
	if got := svc.SuggestTerms("med", 5); len(got) != 0 {
		t.Errorf("SuggestTerms before build = %v, want empty", got)
	}
	if err := svc.Warm(context.Background()); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}

	got := svc.SuggestTerms("med", 5)
	if !reflect.DeepEqual(got, []string{"meditation"}) {
		t.Errorf("SuggestTerms(med) = %v, want [meditation]", got)
	}
	if got := svc.SuggestTerms("ZZZ", 5); len(got) != 0 {
		t.Errorf("SuggestTerms(ZZZ) = %v, want empty", got)
	}
	if got := svc.SuggestTerms("  ", 5); len(got) != 0 {
		t.Errorf("SuggestTerms(blank) = %v, want empty", got)
	}
}

func TestSuggestTermsOrderedByFrequency(t *testing.T) {
	docs := []index.Document{
		{ID: "a", Title: "stress basics", Description: "about stress"},
		{ID: "b", Title: "more stress", Description: "stretching helps"},
		{ID: "c", Title: "stretching routine"},
	}
	svc := newTestService(t, &corpusSource{docs: docs})
	if err := svc.Warm(context.Background()); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}

	// Both prefixes have df=2, so order falls back to alphabetical.
	got := svc.SuggestTerms("str", 5)
	want := []string{"stress", "stretching"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SuggestTerms(str) = %v, want %v", got, want)
	}
}

func TestPopularTerms(t *testing.T) {
	docs := []index.Document{
		{ID: "a", Title: "stress at work"},
		{ID: "b", Title: "stress and sleep"},
		{ID: "c", Title: "deep sleep"},
	}
	svc := newTestService(t, &corpusSource{docs: docs})
	if got := svc.PopularTerms(3); len(got) != 0 {
		t.Errorf("PopularTerms before build = %v, want empty", got)
	}
	if err := svc.Warm(context.Background()); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}

	got := svc.PopularTerms(2)
	want := []TermCount{
		{Term: "sleep", DocFreq: 2},
		{Term: "stress", DocFreq: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PopularTerms(2) = %v, want %v", got, want)
	}
}

func TestReindexForcesRebuild(t *testing.T) {
	src := &corpusSource{docs: wellnessCorpus()}
	svc := newTestService(t, src)

	searchIDs(t, svc, "stress")
	if got := src.fetches.Load(); got != 1 {
		t.Fatalf("fetches = %d, want 1", got)
	}

	// Content changes: after a reindex the next search sees the new corpus.
	src.docs = append(wellnessCorpus(), index.Document{
		ID: "c", Title: "Stress and Sleep",
	})
	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}

	// The new, shorter document has the higher term density and ranks first.
	got := searchIDs(t, svc, "stress")
	if !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Errorf("Search after reindex = %v, want [c a]", got)
	}
	if fetched := src.fetches.Load(); fetched != 2 {
		t.Errorf("fetches = %d, want 2 after reindex", fetched)
	}
}

func TestIndexStats(t *testing.T) {
	svc := newTestService(t, &corpusSource{docs: wellnessCorpus()})

	empty := svc.IndexStats()
	if empty.State != "empty" || empty.DocumentCount != 0 {
		t.Errorf("stats before build = %+v, want empty state", empty)
	}

	if err := svc.Warm(context.Background()); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}
	st := svc.IndexStats()
	if st.State != "fresh" {
		t.Errorf("State = %q, want fresh", st.State)
	}
	if st.DocumentCount != 2 {
		t.Errorf("DocumentCount = %d, want 2", st.DocumentCount)
	}
	if st.TermCount == 0 {
		t.Error("TermCount should be positive after build")
	}
	if st.BuiltAt.IsZero() {
		t.Error("BuiltAt should be set after build")
	}
	if st.AgeDays < 0 || st.AgeDays > 1 {
		t.Errorf("AgeDays = %v, want ~0", st.AgeDays)
	}
}

func TestNewRequiresManager(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil cache manager")
	}
}
