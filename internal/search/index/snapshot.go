package index

import (
	"time"
)

// Snapshot is one fully-built, immutable inverted index. Builds always
// produce a brand-new Snapshot; readers borrow it for the duration of a
// query and never observe a partially-built structure, so no locking is
// needed on the read path.
type Snapshot struct {
	inverted  map[string]map[string]int // term -> docID -> weighted term frequency
	docFreq   map[string]int            // term -> number of documents containing it
	docTotals map[string]int            // docID -> total weighted tokens
	vocab     []string                  // all terms, sorted
	docCount  int
	builtAt   time.Time
}

// Postings returns the docID -> weighted-frequency map for term, or nil if
// the term is not indexed. The returned map is shared and must be treated
// as read-only.
func (s *Snapshot) Postings(term string) map[string]int {
	return s.inverted[term]
}

// TermFreq returns the weighted frequency of term within the given document.
func (s *Snapshot) TermFreq(term, docID string) int {
	return s.inverted[term][docID]
}

// DocFreq returns the number of distinct documents containing term.
// Invariant: DocFreq(t) == len(Postings(t)) for every indexed term.
func (s *Snapshot) DocFreq(term string) int {
	return s.docFreq[term]
}

// DocTotal returns the total weighted token count of the given document,
// the denominator of the TF component.
func (s *Snapshot) DocTotal(docID string) int {
	return s.docTotals[docID]
}

// Vocabulary returns all indexed terms in sorted order. The slice is shared
// and must be treated as read-only.
func (s *Snapshot) Vocabulary() []string {
	return s.vocab
}

// DocCount returns the number of indexed documents.
func (s *Snapshot) DocCount() int {
	return s.docCount
}

// TermCount returns the number of distinct indexed terms.
func (s *Snapshot) TermCount() int {
	return len(s.vocab)
}

// BuiltAt returns the time the snapshot finished building.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Age returns the elapsed time since the snapshot was built, as of now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.builtAt)
}
