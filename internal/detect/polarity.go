package detect

import (
	"fmt"
	"math"
	"strings"

	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// polarityDetector flags emotionally extreme sentences aimed at the
// reader: |polarity| above the configured threshold combined with
// second-person address or an imperative opening.
type polarityDetector struct{}

func (d *polarityDetector) ID() string               { return "polarity-extremity" }
func (d *polarityDetector) Category() model.Category { return model.CategoryAppealToEmotion }

var secondPerson = map[string]struct{}{
	"you": {}, "your": {}, "yours": {}, "yourself": {}, "yourselves": {},
}

func (d *polarityDetector) Detect(doc *model.AnnotatedDocument, _ *lexicon.Store, cfg *model.AnalysisConfig) ([]model.Match, error) {
	threshold := cfg.PolarityThreshold
	if threshold <= 0 {
		threshold = 0.5
	}

	var matches []model.Match
	for si := range doc.Sentences {
		sent := &doc.Sentences[si]
		if len(sent.Tokens) == 0 || sent.Span.Len() <= 0 {
			continue
		}

		magnitude := math.Abs(sent.Polarity)
		if magnitude < threshold {
			continue
		}

		directed, how := addressesReader(sent.Tokens)
		if !directed {
			continue
		}

		conf := 0.3 + 0.6*magnitude
		rationale := fmt.Sprintf("polarity %+.2f with %s", sent.Polarity, how)
		matches = append(matches, newSentenceMatch(doc, sent, model.CategoryAppealToEmotion, conf, rationale, d.ID()))
	}

	return matches, nil
}

// addressesReader reports whether the sentence targets the reader,
// either by second-person pronoun or by opening with a bare verb
// (imperative mood).
func addressesReader(toks []model.Token) (bool, string) {
	for _, tok := range toks {
		if _, ok := secondPerson[strings.ToLower(tok.Text)]; ok {
			return true, "second-person address"
		}
	}
	if toks[0].Tag == "VB" {
		return true, "imperative opening"
	}
	return false, ""
}
