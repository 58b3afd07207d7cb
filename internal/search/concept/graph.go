// Package concept holds the static semantic-concept graph used to expand
// search queries, plus a pairwise term-similarity function.
//
// The graph is a directed relation: a canonical term maps to the set of
// terms it expands to, and expansion is not guaranteed to be symmetric
// ("stress" expands to "pressure" without "pressure" necessarily expanding
// back). The data was hand-curated that way; Similarity checks both
// directions so scoring between a pair never depends on argument order.
// The graph is loaded once and never mutated at runtime.
package concept

// related maps a canonical term to its hand-curated expansion set.
var related = map[string][]string{
	"stress":        {"pressure", "tension", "overwhelm", "anxiety", "burnout", "strain", "worry"},
	"anxiety":       {"stress", "worry", "fear", "nervousness", "panic", "unease", "dread"},
	"depression":    {"sadness", "hopelessness", "despair", "grief", "melancholy", "numbness"},
	"anger":         {"frustration", "rage", "irritation", "resentment", "temper", "hostility"},
	"fear":          {"anxiety", "phobia", "worry", "dread", "panic", "insecurity"},
	"grief":         {"loss", "mourning", "sadness", "bereavement", "heartbreak", "sorrow"},
	"loneliness":    {"isolation", "solitude", "disconnection", "alienation", "emptiness"},
	"guilt":         {"shame", "regret", "remorse", "blame", "conscience"},
	"shame":         {"guilt", "embarrassment", "humiliation", "inadequacy", "unworthiness"},
	"worry":         {"anxiety", "rumination", "overthinking", "concern", "apprehension"},
	"overwhelm":     {"stress", "burnout", "exhaustion", "overload", "pressure"},
	"burnout":       {"exhaustion", "fatigue", "overwork", "depletion", "stress"},
	"meditation":    {"mindfulness", "breathing", "calm", "focus", "stillness", "awareness", "presence"},
	"mindfulness":   {"meditation", "awareness", "presence", "attention", "acceptance", "grounding"},
	"breathing":     {"breath", "pranayama", "relaxation", "calm", "inhale", "exhale"},
	"relaxation":    {"calm", "rest", "unwind", "release", "ease", "serenity"},
	"calm":          {"peace", "tranquility", "serenity", "stillness", "composure"},
	"focus":         {"concentration", "attention", "clarity", "discipline", "presence"},
	"gratitude":     {"thankfulness", "appreciation", "blessing", "contentment", "abundance"},
	"compassion":    {"kindness", "empathy", "care", "warmth", "forgiveness"},
	"forgiveness":   {"acceptance", "release", "mercy", "compassion", "healing"},
	"acceptance":    {"surrender", "allowing", "peace", "equanimity", "nonresistance"},
	"patience":      {"tolerance", "endurance", "perseverance", "composure", "restraint"},
	"resilience":    {"strength", "recovery", "adaptability", "perseverance", "grit"},
	"confidence":    {"esteem", "assurance", "courage", "belief", "empowerment"},
	"courage":       {"bravery", "boldness", "confidence", "fearlessness", "strength"},
	"happiness":     {"joy", "contentment", "wellbeing", "fulfillment", "cheerfulness"},
	"joy":           {"happiness", "delight", "pleasure", "bliss", "elation"},
	"purpose":       {"meaning", "direction", "calling", "intention", "fulfillment"},
	"motivation":    {"drive", "ambition", "willpower", "inspiration", "energy"},
	"habit":         {"routine", "practice", "discipline", "consistency", "ritual"},
	"change":        {"transition", "transformation", "growth", "adaptation", "uncertainty"},
	"growth":        {"development", "learning", "progress", "improvement", "maturity"},
	"balance":       {"harmony", "equilibrium", "moderation", "stability", "wellbeing"},
	"sleep":         {"insomnia", "rest", "bedtime", "fatigue", "dreams", "slumber"},
	"insomnia":      {"sleeplessness", "restlessness", "fatigue", "wakefulness"},
	"fatigue":       {"tiredness", "exhaustion", "weariness", "lethargy", "depletion"},
	"energy":        {"vitality", "vigor", "stamina", "liveliness", "motivation"},
	"exercise":      {"fitness", "movement", "workout", "activity", "walking", "yoga"},
	"yoga":          {"stretching", "asana", "flexibility", "breathing", "movement"},
	"nutrition":     {"diet", "eating", "food", "nourishment", "health"},
	"health":        {"wellness", "wellbeing", "vitality", "fitness", "selfcare"},
	"selfcare":      {"nurturing", "rest", "boundaries", "wellbeing", "renewal"},
	"work":          {"career", "job", "workplace", "productivity", "deadline", "office", "profession"},
	"career":        {"profession", "job", "ambition", "promotion", "vocation"},
	"productivity":  {"efficiency", "focus", "procrastination", "output", "workflow"},
	"relationship":  {"partner", "marriage", "friendship", "family", "connection", "intimacy"},
	"family":        {"parents", "children", "siblings", "household", "kinship"},
	"parenting":     {"children", "family", "discipline", "nurturing", "guidance"},
	"friendship":    {"companionship", "connection", "trust", "belonging", "support"},
	"communication": {"listening", "conversation", "expression", "dialogue", "honesty"},
	"conflict":      {"disagreement", "argument", "tension", "dispute", "friction"},
	"boundaries":    {"limits", "assertiveness", "refusal", "protection", "respect"},
	"finance":       {"money", "budget", "debt", "savings", "income", "spending"},
	"money":         {"finance", "wealth", "budget", "earnings", "security"},
	"failure":       {"setback", "mistake", "disappointment", "defeat", "lesson"},
	"success":       {"achievement", "accomplishment", "victory", "progress", "fulfillment"},
	"comparison":    {"envy", "jealousy", "inadequacy", "competition", "insecurity"},
	"addiction":     {"craving", "dependence", "compulsion", "habit", "recovery"},
}

// Related returns the expansion set for term, or nil if the term is not a
// graph key. The returned slice is a copy and safe to modify.
func Related(term string) []string {
	terms, ok := related[term]
	if !ok {
		return nil
	}
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// Size returns the number of canonical terms in the graph.
func Size() int {
	return len(related)
}

// similarity tiers: exact match, direct relation, shared-context Jaccard
// band, no relation.
const (
	exactScore    = 1.0
	relatedScore  = 0.8
	jaccardBase   = 0.5
	jaccardWeight = 0.3
)

// Similarity scores how semantically close two terms are, in [0, 1].
// Policy, evaluated in order: identical terms score 1.0; a direct relation
// in either direction scores 0.8; otherwise the Jaccard overlap of the two
// expansion sets maps into [0.5, 0.8]; terms with no expansion data at all
// score 0.0.
func Similarity(a, b string) float64 {
	if a == b {
		return exactScore
	}
	if contains(related[a], b) || contains(related[b], a) {
		return relatedScore
	}

	setA := related[a]
	setB := related[b]
	if len(setA) == 0 && len(setB) == 0 {
		return 0.0
	}

	inB := make(map[string]struct{}, len(setB))
	for _, t := range setB {
		inB[t] = struct{}{}
	}
	intersection := 0
	for _, t := range setA {
		if _, ok := inB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return jaccardBase + jaccardWeight*float64(intersection)/float64(union)
}

func contains(terms []string, t string) bool {
	for _, term := range terms {
		if term == t {
			return true
		}
	}
	return false
}
