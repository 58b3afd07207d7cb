// Package ranker computes hybrid relevance scores over an index snapshot.
// Each query blends three signals: exact-keyword TF-IDF with a fixed boost,
// a normalized edit-distance fuzzy fallback for terms with no exact hit, and
// TF-IDF over concept-graph expansions. The keyword and semantic components
// are accumulated separately and fused with a fixed 0.6/0.4 split.
package ranker

import (
	"math"
	"sort"
	"strings"

	"github.com/nishantgupta83/mindful-living/internal/search/concept"
	"github.com/nishantgupta83/mindful-living/internal/search/index"
)

const (
	// exactBoost distinguishes verbatim keyword hits from fuzzy-only matches.
	exactBoost = 2.0
	// minFuzzySimilarity bounds the vocabulary scan: candidates below this
	// normalized edit-distance similarity are discarded.
	minFuzzySimilarity = 0.5
	// Fusion split between the keyword and semantic components. Fixed by
	// design, not tunable per query.
	keywordWeight  = 0.6
	semanticWeight = 0.4
)

// DefaultMaxResults caps the result list when the caller does not supply a
// limit.
const DefaultMaxResults = 20

// Result is one ranked document. MatchedTerms lists the index terms that
// contributed to the score, for UI highlighting. Results are never mutated
// after creation.
type Result struct {
	DocID        string   `json:"doc_id"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms"`
}

// Rank scores every candidate document for the given normalized query terms
// and returns results ordered by descending score, ties broken by DocID for
// determinism. Documents scoring zero are excluded; the list is truncated
// to limit (DefaultMaxResults when limit <= 0).
func Rank(queryTerms []string, snap *index.Snapshot, limit int) []Result {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	totalDocs := snap.DocCount()
	if totalDocs == 0 || len(queryTerms) == 0 {
		return []Result{}
	}

	querySet := make(map[string]struct{}, len(queryTerms))
	for _, t := range queryTerms {
		querySet[t] = struct{}{}
	}

	keyword := make(map[string]float64)
	semantic := make(map[string]float64)
	matched := make(map[string]map[string]struct{})

	for _, term := range queryTerms {
		if postings := snap.Postings(term); len(postings) > 0 {
			idf := idf(totalDocs, snap.DocFreq(term))
			for docID, tf := range postings {
				keyword[docID] += tfidf(tf, snap.DocTotal(docID), idf) * exactBoost
				mark(matched, docID, term)
			}
		} else {
			scoreFuzzy(term, snap, keyword, matched)
		}

		// Semantic expansion accumulates into its own bucket so a term that
		// is both the literal query and an expansion never counts twice.
		for _, related := range concept.Related(term) {
			if _, isQueryTerm := querySet[related]; isQueryTerm {
				continue
			}
			postings := snap.Postings(related)
			if len(postings) == 0 {
				continue
			}
			relIDF := idf(totalDocs, snap.DocFreq(related))
			for docID, tf := range postings {
				semantic[docID] += tfidf(tf, snap.DocTotal(docID), relIDF)
				mark(matched, docID, related)
			}
		}
	}

	results := make([]Result, 0, len(matched))
	for docID := range matched {
		score := keywordWeight*keyword[docID] + semanticWeight*semantic[docID]
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			DocID:        docID,
			Score:        score,
			MatchedTerms: sortedTerms(matched[docID]),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreFuzzy handles a query term with no exact hit: it scans the index
// vocabulary for terms where one string contains the other, keeps candidates
// whose normalized edit-distance similarity clears the floor, and weights
// each candidate's TF-IDF by that similarity instead of the exact boost.
func scoreFuzzy(term string, snap *index.Snapshot, keyword map[string]float64, matched map[string]map[string]struct{}) {
	totalDocs := snap.DocCount()
	for _, candidate := range snap.Vocabulary() {
		if !strings.Contains(candidate, term) && !strings.Contains(term, candidate) {
			continue
		}
		sim := editSimilarity(term, candidate)
		if sim < minFuzzySimilarity {
			continue
		}
		candIDF := idf(totalDocs, snap.DocFreq(candidate))
		for docID, tf := range snap.Postings(candidate) {
			keyword[docID] += tfidf(tf, snap.DocTotal(docID), candIDF) * sim
			mark(matched, docID, candidate)
		}
	}
}

func idf(totalDocs, docFreq int) float64 {
	return math.Log(float64(totalDocs) / float64(docFreq))
}

func tfidf(termFreq, docTotal int, idf float64) float64 {
	if docTotal == 0 {
		return 0
	}
	return float64(termFreq) / float64(docTotal) * idf
}

func mark(matched map[string]map[string]struct{}, docID, term string) {
	terms, ok := matched[docID]
	if !ok {
		terms = make(map[string]struct{})
		matched[docID] = terms
	}
	terms[term] = struct{}{}
}

func sortedTerms(set map[string]struct{}) []string {
	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}
