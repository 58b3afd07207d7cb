// Package tokenizer provides text tokenisation for the search engine.
// It lower-cases input, splits on non-alphanumeric boundaries, and removes
// stop-words and tokens shorter than three characters.
//
// Tokenisation is deterministic, side-effect free, and idempotent: feeding
// the joined output back through Tokenize yields the same terms. The index
// builder relies on this to keep document frequencies reproducible.
package tokenizer

import (
	"strings"
	"unicode"
)

// minTermLength is the shortest token admitted into the index.
const minTermLength = 3

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "can": {}, "do": {}, "for": {},
	"from": {}, "had": {}, "has": {}, "have": {}, "how": {}, "the": {},
	"their": {}, "they": {}, "this": {}, "that": {}, "is": {}, "it": {},
	"its": {}, "in": {}, "of": {}, "on": {}, "or": {}, "not": {},
	"was": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "will": {}, "with": {}, "you": {},
}

// Tokenize breaks text into normalised terms: lowercased, alphanumeric,
// at least three characters long, and not a stop-word. Empty or
// whitespace-only input yields an empty slice, never an error.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < minTermLength {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

// IsStopWord reports whether the given (already lowercased) word is in the
// stop-word set.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
