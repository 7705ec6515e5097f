package detect

import (
	"fmt"
	"strings"

	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// lexicalDetector matches a category's cue lexicon against token
// lemmas and phrase windows. Adjacent cue tokens within a sentence
// merge into a single match spanning their union.
type lexicalDetector struct {
	id           string
	category     model.Category
	tokenWeight  float64 // base confidence of a cue-token run
	phraseWeight float64 // base confidence of a phrase hit
}

func newLexical(id string, cat model.Category, tokenWeight, phraseWeight float64) *lexicalDetector {
	return &lexicalDetector{id: id, category: cat, tokenWeight: tokenWeight, phraseWeight: phraseWeight}
}

func (d *lexicalDetector) ID() string               { return d.id }
func (d *lexicalDetector) Category() model.Category { return d.category }

func (d *lexicalDetector) Detect(doc *model.AnnotatedDocument, store *lexicon.Store, cfg *model.AnalysisConfig) ([]model.Match, error) {
	var matches []model.Match
	seen := make(map[model.Span]struct{}) // identical ranges are emitted once

	phrases := store.PhrasesFor(d.category)

	for si := range doc.Sentences {
		sent := &doc.Sentences[si]
		if len(sent.Tokens) == 0 {
			continue
		}

		bonus := 1.0
		if sent.Subjectivity > 0.5 {
			bonus += cfg.SubjectivityBonus
		}

		for _, m := range d.phraseMatches(doc, sent, phrases, bonus) {
			if _, dup := seen[m.Span]; dup {
				continue
			}
			seen[m.Span] = struct{}{}
			matches = append(matches, m)
		}

		for _, m := range d.cueRunMatches(doc, sent, store, bonus) {
			if _, dup := seen[m.Span]; dup {
				continue
			}
			seen[m.Span] = struct{}{}
			matches = append(matches, m)
		}
	}

	return matches, nil
}

// phraseMatches slides each lexicon phrase over the sentence tokens,
// comparing lower-cased surface forms first and lemmas second.
func (d *lexicalDetector) phraseMatches(doc *model.AnnotatedDocument, sent *model.Sentence, phrases [][]string, bonus float64) []model.Match {
	var out []model.Match
	toks := sent.Tokens

	for _, phrase := range phrases {
		n := len(phrase)
		for start := 0; start+n <= len(toks); start++ {
			if !windowEquals(toks[start:start+n], phrase) {
				continue
			}
			span := model.Span{
				Start: toks[start].Span.Start,
				End:   toks[start+n-1].Span.End,
			}
			out = append(out, model.Match{
				Category:   d.category,
				Span:       span,
				Confidence: clamp(d.phraseWeight * bonus),
				Rationale:  fmt.Sprintf("phrase cue %q", strings.Join(phrase, " ")),
				Detector:   d.id,
				Sentence:   sent.Index,
				Excerpt:    doc.Excerpt(span),
			})
		}
	}
	return out
}

func windowEquals(window []model.Token, phrase []string) bool {
	for i, want := range phrase {
		got := strings.ToLower(window[i].Text)
		if got != want && window[i].Lemma != want {
			return false
		}
	}
	return true
}

// cueRunMatches finds tokens whose lemma (or surface form) is in the
// category lexicon and merges consecutive hits into one span.
func (d *lexicalDetector) cueRunMatches(doc *model.AnnotatedDocument, sent *model.Sentence, store *lexicon.Store, bonus float64) []model.Match {
	var out []model.Match
	toks := sent.Tokens

	runStart := -1
	var runCues []string

	flush := func(end int) {
		if runStart < 0 {
			return
		}
		span := model.Span{
			Start: toks[runStart].Span.Start,
			End:   toks[end].Span.End,
		}
		out = append(out, model.Match{
			Category:   d.category,
			Span:       span,
			Confidence: clamp(d.tokenWeight * bonus),
			Rationale:  fmt.Sprintf("cue %q", strings.Join(runCues, " ")),
			Detector:   d.id,
			Sentence:   sent.Index,
			Excerpt:    doc.Excerpt(span),
		})
		runStart = -1
		runCues = nil
	}

	for i, tok := range toks {
		hit := store.Lookup(tok.Lemma, d.category) || store.Lookup(tok.Text, d.category)
		if hit && tok.Span.Len() > 0 {
			if runStart < 0 {
				runStart = i
			}
			runCues = append(runCues, strings.ToLower(tok.Text))
			continue
		}
		flush(i - 1)
	}
	flush(len(toks) - 1)

	return out
}
