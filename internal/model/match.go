package model

// Category identifies one manipulation technique. The set is closed:
// adding a category means adding a constant here, appending it to the
// canonical order below and registering a detector for it.
type Category string

const (
	CategoryLoadedLanguage      Category = "loaded_language"
	CategoryFalseUrgency        Category = "false_urgency"
	CategoryGuiltInduction      Category = "guilt_induction"
	CategoryVagueGeneralization Category = "vague_generalization"
	CategoryAppealToEmotion     Category = "appeal_to_emotion"
	CategoryFalseDichotomy      Category = "false_dichotomy"
	CategoryAbsoluteLanguage    Category = "absolute_language"
	CategoryEntityPressure      Category = "entity_pressure"
)

// categoryOrder is the canonical report ordering.
var categoryOrder = []Category{
	CategoryLoadedLanguage,
	CategoryFalseUrgency,
	CategoryGuiltInduction,
	CategoryVagueGeneralization,
	CategoryAppealToEmotion,
	CategoryFalseDichotomy,
	CategoryAbsoluteLanguage,
	CategoryEntityPressure,
}

// Categories returns the canonical category order. Callers must not
// mutate the returned slice.
func Categories() []Category {
	return categoryOrder
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range categoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Rank returns the position of c in the canonical order, or -1.
func (c Category) Rank() int {
	for i, known := range categoryOrder {
		if c == known {
			return i
		}
	}
	return -1
}

// Match is one located, scored piece of evidence for a category.
// A match is created by exactly one detector and never mutated.
type Match struct {
	Category   Category `json:"category"`
	Span       Span     `json:"span"`       // Must be a non-empty range within the document
	Confidence float64  `json:"confidence"` // [0, 1]
	Rationale  string   `json:"rationale"`  // Triggering cue, human-readable
	Detector   string   `json:"detector"`   // Originating detector id
	Sentence   int      `json:"sentence"`   // Index of the (first) sentence covered
	Excerpt    string   `json:"excerpt"`    // Text covered by Span
}

// CategoryScore is the aggregated result for one category.
type CategoryScore struct {
	Category       Category `json:"category"`
	Score          float64  `json:"score"`   // [0, 1], noisy-OR over retained matches
	Matches        int      `json:"matches"` // Retained match count
	Representative *Match   `json:"representative,omitempty"`
	Unavailable    bool     `json:"unavailable,omitempty"` // Detector faulted or never ran
}
