package detect

import (
	"fmt"
	"strings"

	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// entityPressureDetector flags sentences tying a named person or
// organization to urgency or threat cues (fear appeals and ad hominem
// pressure aimed at a subject).
type entityPressureDetector struct{}

func (d *entityPressureDetector) ID() string               { return "entity-pressure" }
func (d *entityPressureDetector) Category() model.Category { return model.CategoryEntityPressure }

var pressureEntityLabels = map[string]struct{}{
	"PERSON": {}, "ORG": {}, "GPE": {},
}

func (d *entityPressureDetector) Detect(doc *model.AnnotatedDocument, store *lexicon.Store, _ *model.AnalysisConfig) ([]model.Match, error) {
	var matches []model.Match

	for si := range doc.Sentences {
		sent := &doc.Sentences[si]
		if sent.Span.Len() <= 0 {
			continue
		}

		var subject string
		for _, ent := range sent.Entities {
			if _, ok := pressureEntityLabels[ent.Label]; ok {
				subject = ent.Text
				break
			}
		}
		if subject == "" {
			continue
		}

		var cues []string
		for _, tok := range sent.Tokens {
			if store.Lookup(tok.Lemma, model.CategoryEntityPressure) ||
				store.Lookup(tok.Text, model.CategoryEntityPressure) ||
				store.Lookup(tok.Lemma, model.CategoryFalseUrgency) {
				cues = append(cues, strings.ToLower(tok.Text))
			}
		}
		if len(cues) == 0 {
			continue
		}

		conf := 0.3 + 0.15*float64(len(cues))
		if conf > 0.9 {
			conf = 0.9
		}
		rationale := fmt.Sprintf("entity %q with pressure cues %q", subject, strings.Join(cues, " "))
		matches = append(matches, newSentenceMatch(doc, sent, model.CategoryEntityPressure, conf, rationale, d.ID()))
	}

	return matches, nil
}
