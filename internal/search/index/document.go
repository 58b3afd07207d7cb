package index

import "context"

// Document is a single wellness content record as seen by the indexer.
// Documents are immutable once indexed; a reindex replaces the whole index
// rather than mutating entries in place.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Approach    string   `json:"approach"`
	Steps       []string `json:"steps"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// Field weights act as index-time repetition multipliers: a title token
// contributes three occurrences to that document's term frequency.
const (
	weightTitle       = 3
	weightDescription = 2
	weightCategory    = 2
	weightTags        = 2
	weightApproach    = 1
	weightSteps       = 1
)

// Source supplies the documents to index. FetchAll is called exactly once
// per build and should fail with errors.ErrSourceUnavailable when the
// backing store cannot be reached.
type Source interface {
	FetchAll(ctx context.Context) ([]Document, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Document, error)

func (f SourceFunc) FetchAll(ctx context.Context) ([]Document, error) {
	return f(ctx)
}
