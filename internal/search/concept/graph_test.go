package concept

import "testing"

func TestSimilarityExact(t *testing.T) {
	for _, term := range []string{"stress", "meditation", "notInGraph"} {
		if got := Similarity(term, term); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", term, term, got)
		}
	}
}

func TestSimilarityDirectRelation(t *testing.T) {
	if got := Similarity("stress", "pressure"); got != 0.8 {
		t.Errorf("Similarity(stress, pressure) = %v, want 0.8", got)
	}
	// Direct relations count in both directions even though the graph itself
	// is directed.
	if got := Similarity("pressure", "stress"); got != 0.8 {
		t.Errorf("Similarity(pressure, stress) = %v, want 0.8", got)
	}
	if got := Similarity("anxiety", "stress"); got < 0.7 {
		t.Errorf("Similarity(anxiety, stress) = %v, want >= 0.7", got)
	}
}

func TestSimilarityUnrelatedDomains(t *testing.T) {
	got := Similarity("meditation", "finance")
	if got > 0.6 {
		t.Errorf("Similarity(meditation, finance) = %v, want <= 0.6", got)
	}
}

func TestSimilaritySharedContext(t *testing.T) {
	// "happiness" and "purpose" are not directly related but both expand to
	// "fulfillment", so their score falls in the Jaccard band.
	got := Similarity("happiness", "purpose")
	if got < 0.5 || got >= 0.8 {
		t.Errorf("Similarity(happiness, purpose) = %v, want in [0.5, 0.8)", got)
	}
}

func TestSimilarityUnknownTerms(t *testing.T) {
	if got := Similarity("zebra", "quasar"); got != 0.0 {
		t.Errorf("Similarity(zebra, quasar) = %v, want 0.0", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"stress", "anxiety"},
		{"work", "meditation"},
		{"sleep", "fatigue"},
		{"happiness", "purpose"},
		{"zebra", "stress"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but Similarity(%q, %q) = %v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	terms := []string{"stress", "anxiety", "meditation", "finance", "work", "sleep", "unknown"}
	for _, a := range terms {
		for _, b := range terms {
			got := Similarity(a, b)
			if got < 0.0 || got > 1.0 {
				t.Errorf("Similarity(%q, %q) = %v, out of [0, 1]", a, b, got)
			}
		}
	}
}

// TestGraphCoverage pins the minimum size of the curated graph so an
// accidental trim is caught at test time.
func TestGraphCoverage(t *testing.T) {
	if Size() < 40 {
		t.Errorf("graph has %d canonical terms, want at least 40", Size())
	}
	total := 0
	for term := range related {
		total += len(related[term])
	}
	if total < 250 {
		t.Errorf("graph has %d related terms, want at least 250", total)
	}
}

func TestRelatedReturnsCopy(t *testing.T) {
	first := Related("stress")
	if len(first) == 0 {
		t.Fatal("expected expansions for stress")
	}
	first[0] = "mutated"
	second := Related("stress")
	if second[0] == "mutated" {
		t.Error("Related returned a shared slice; callers can corrupt the graph")
	}
}

func TestRelatedUnknownTerm(t *testing.T) {
	if got := Related("zebra"); got != nil {
		t.Errorf("Related(zebra) = %v, want nil", got)
	}
}
