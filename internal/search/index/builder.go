// Package index builds the in-memory inverted index over wellness content
// documents. Building consumes the document source exactly once, tokenizes
// every weighted field, and accumulates per-document term frequencies; the
// result is an immutable Snapshot that runs to completion before any query
// consults it.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/nishantgupta83/mindful-living/internal/search/tokenizer"
)

// Build fetches all documents from src and constructs a new Snapshot. The
// document frequency of each term is derived after all documents are
// processed, never maintained incrementally, so df[t] always equals the
// number of postings for t.
func Build(ctx context.Context, src Source) (*Snapshot, error) {
	start := time.Now()
	docs, err := src.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}

	snap := &Snapshot{
		inverted:  make(map[string]map[string]int),
		docFreq:   make(map[string]int),
		docTotals: make(map[string]int, len(docs)),
		docCount:  len(docs),
	}

	for _, doc := range docs {
		for term, freq := range weightedTermFreqs(doc) {
			postings, ok := snap.inverted[term]
			if !ok {
				postings = make(map[string]int)
				snap.inverted[term] = postings
			}
			postings[doc.ID] = freq
			snap.docTotals[doc.ID] += freq
		}
	}

	snap.vocab = make([]string, 0, len(snap.inverted))
	for term, postings := range snap.inverted {
		snap.docFreq[term] = len(postings)
		snap.vocab = append(snap.vocab, term)
	}
	sort.Strings(snap.vocab)
	snap.builtAt = time.Now().UTC()

	slog.Default().With("component", "index-builder").Info("index built",
		"documents", snap.docCount,
		"terms", len(snap.vocab),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// weightedTermFreqs tokenizes every field of doc and multiplies each field's
// counts by its static weight.
func weightedTermFreqs(doc Document) map[string]int {
	freqs := make(map[string]int)
	accumulate := func(text string, weight int) {
		for _, term := range tokenizer.Tokenize(text) {
			freqs[term] += weight
		}
	}
	accumulate(doc.Title, weightTitle)
	accumulate(doc.Description, weightDescription)
	accumulate(doc.Category, weightCategory)
	accumulate(strings.Join(doc.Tags, " "), weightTags)
	accumulate(doc.Approach, weightApproach)
	accumulate(strings.Join(doc.Steps, " "), weightSteps)
	return freqs
}
