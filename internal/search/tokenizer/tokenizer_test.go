package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and splits on punctuation",
			input: "WORK-Stress!!",
			want:  []string{"work", "stress"},
		},
		{
			name:  "removes stop words",
			input: "the a is of stress",
			want:  []string{"stress"},
		},
		{
			name:  "drops short tokens",
			input: "go to my calm place",
			want:  []string{"calm", "place"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
		{
			name:  "whitespace only",
			input: "   \t\n  ",
			want:  []string{},
		},
		{
			name:  "all stop words",
			input: "the and for with",
			want:  []string{},
		},
		{
			name:  "digits survive",
			input: "sleep 8 hours 101 tips",
			want:  []string{"sleep", "hours", "101", "tips"},
		},
		{
			name:  "mixed separators",
			input: "self-care: rest, boundaries & renewal",
			want:  []string{"self", "care", "rest", "boundaries", "renewal"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestTokenizeIdempotent verifies that re-tokenizing joined output yields the
// same terms, which the index builder depends on for reproducible frequencies.
func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"Managing Work Stress and Anxiety",
		"A simple MINDFULNESS practice: breathe, focus, repeat!",
		"the quick brown fox jumps over 12 lazy dogs",
	}
	for _, input := range inputs {
		first := Tokenize(input)
		second := Tokenize(strings.Join(first, " "))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("tokenization not idempotent for %q: first=%v second=%v", input, first, second)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("the") {
		t.Error("expected 'the' to be a stop word")
	}
	if IsStopWord("stress") {
		t.Error("did not expect 'stress' to be a stop word")
	}
}
