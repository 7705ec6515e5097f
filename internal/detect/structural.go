package detect

import (
	"fmt"
	"strings"

	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// Structural detectors match POS-tag and token-shape patterns. They
// carry fixed per-shape confidences and no lexicon dependency.

const (
	dichotomyConf   = 0.6
	noChoiceConf    = 0.65
	superlativeConf = 0.55
)

// dichotomyDetector flags either/or and neither/nor constructions
// presenting exactly two alternatives.
type dichotomyDetector struct{}

func (d *dichotomyDetector) ID() string               { return "structural-dichotomy" }
func (d *dichotomyDetector) Category() model.Category { return model.CategoryFalseDichotomy }

func (d *dichotomyDetector) Detect(doc *model.AnnotatedDocument, _ *lexicon.Store, _ *model.AnalysisConfig) ([]model.Match, error) {
	var matches []model.Match

	pairs := [][2]string{{"either", "or"}, {"neither", "nor"}}

	for si := range doc.Sentences {
		sent := &doc.Sentences[si]
		toks := sent.Tokens

		for _, pair := range pairs {
			for i := 0; i < len(toks); i++ {
				if strings.ToLower(toks[i].Text) != pair[0] {
					continue
				}
				// Closing token must follow in the same sentence.
				for j := i + 1; j < len(toks); j++ {
					if strings.ToLower(toks[j].Text) != pair[1] {
						continue
					}
					span := model.Span{Start: toks[i].Span.Start, End: toks[j].Span.End}
					matches = append(matches, model.Match{
						Category:   model.CategoryFalseDichotomy,
						Span:       span,
						Confidence: dichotomyConf,
						Rationale:  fmt.Sprintf("%s...%s construction", pair[0], pair[1]),
						Detector:   d.ID(),
						Sentence:   sent.Index,
						Excerpt:    doc.Excerpt(span),
					})
					i = j // continue scanning after the closing token
					break
				}
			}
		}

		// "no other choice/option" presents a forced alternative.
		for i := 0; i+2 < len(toks); i++ {
			if strings.ToLower(toks[i].Text) == "no" &&
				strings.ToLower(toks[i+1].Text) == "other" &&
				(toks[i+2].Lemma == "choice" || toks[i+2].Lemma == "option") {
				span := model.Span{Start: toks[i].Span.Start, End: toks[i+2].Span.End}
				matches = append(matches, model.Match{
					Category:   model.CategoryFalseDichotomy,
					Span:       span,
					Confidence: noChoiceConf,
					Rationale:  "forced alternative (\"no other choice\")",
					Detector:   d.ID(),
					Sentence:   sent.Index,
					Excerpt:    doc.Excerpt(span),
				})
			}
		}
	}

	return matches, nil
}

// absoluteDetector flags superlatives co-occurring with negation, the
// "nothing/nobody could ever" family of absolute framing.
type absoluteDetector struct{}

func (d *absoluteDetector) ID() string               { return "structural-absolute" }
func (d *absoluteDetector) Category() model.Category { return model.CategoryAbsoluteLanguage }

var negationTokens = map[string]struct{}{
	"not": {}, "n't": {}, "never": {}, "no": {}, "nothing": {},
	"nobody": {}, "cannot": {}, "none": {},
}

func (d *absoluteDetector) Detect(doc *model.AnnotatedDocument, _ *lexicon.Store, _ *model.AnalysisConfig) ([]model.Match, error) {
	var matches []model.Match

	for si := range doc.Sentences {
		sent := &doc.Sentences[si]
		toks := sent.Tokens

		negated := false
		for _, tok := range toks {
			if _, ok := negationTokens[strings.ToLower(tok.Text)]; ok {
				negated = true
				break
			}
		}
		if !negated {
			continue
		}

		for _, tok := range toks {
			// JJS/RBS are superlative adjective/adverb tags.
			if tok.Tag != "JJS" && tok.Tag != "RBS" {
				continue
			}
			if tok.Span.Len() <= 0 {
				continue
			}
			matches = append(matches, model.Match{
				Category:   model.CategoryAbsoluteLanguage,
				Span:       tok.Span,
				Confidence: superlativeConf,
				Rationale:  fmt.Sprintf("superlative %q with negation", strings.ToLower(tok.Text)),
				Detector:   d.ID(),
				Sentence:   sent.Index,
				Excerpt:    doc.Excerpt(tok.Span),
			})
		}
	}

	return matches, nil
}
