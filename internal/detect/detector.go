// Package detect contains the manipulation pattern detectors. Each
// detector is a pure function over the shared immutable document and
// lexicon store, producing matches for exactly one category.
package detect

import (
	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// Detector produces matches for one category. Implementations must be
// pure: no retained state between calls, no mutation of the document
// or the store, deterministic output for identical input.
type Detector interface {
	// ID is the stable detector identifier used in matches and logs.
	ID() string

	// Category is the single category this detector reports on.
	Category() model.Category

	// Detect scans the document and returns zero or more matches. An
	// empty document yields an empty result, never an error. Errors
	// are reserved for unexpected faults, which the orchestrator
	// isolates to this detector's category.
	Detect(doc *model.AnnotatedDocument, store *lexicon.Store, cfg *model.AnalysisConfig) ([]model.Match, error)
}

// Registry assembles the static, ordered detector table, skipping
// categories disabled in cfg. Order follows the canonical category
// enumeration; it has no semantic weight (detectors are independent)
// but keeps runs reproducible.
func Registry(cfg *model.AnalysisConfig) []Detector {
	all := []Detector{
		newLexical("lexical-loaded", model.CategoryLoadedLanguage, 0.35, 0.5),
		newLexical("lexical-urgency", model.CategoryFalseUrgency, 0.4, 0.55),
		newLexical("lexical-guilt", model.CategoryGuiltInduction, 0.35, 0.5),
		newLexical("lexical-vague", model.CategoryVagueGeneralization, 0.3, 0.45),
		&polarityDetector{},
		&dichotomyDetector{},
		&absoluteDetector{},
		&entityPressureDetector{},
	}

	out := make([]Detector, 0, len(all))
	for _, d := range all {
		if cfg.Enabled(d.Category()) {
			out = append(out, d)
		}
	}
	return out
}

// clamp bounds a confidence to [0, 1].
func clamp(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// newSentenceMatch builds a match covering a whole sentence.
func newSentenceMatch(doc *model.AnnotatedDocument, sent *model.Sentence, cat model.Category, conf float64, rationale, detector string) model.Match {
	return model.Match{
		Category:   cat,
		Span:       sent.Span,
		Confidence: clamp(conf),
		Rationale:  rationale,
		Detector:   detector,
		Sentence:   sent.Index,
		Excerpt:    doc.Excerpt(sent.Span),
	}
}
