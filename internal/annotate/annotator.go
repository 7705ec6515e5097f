// Package annotate turns raw text into the immutable AnnotatedDocument
// the detection engine consumes: sanitized text, offset-tracked
// sentences and tokens, POS tags, lemmas, named entities and
// lexicon-based polarity/subjectivity per sentence.
package annotate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// Annotator builds AnnotatedDocuments. It is stateless apart from the
// shared read-only lexicon store and safe for concurrent use.
type Annotator struct {
	store *lexicon.Store
}

// New creates an Annotator backed by the given lexicon store.
func New(store *lexicon.Store) *Annotator {
	return &Annotator{store: store}
}

// Annotate sanitizes text and computes the full annotation layer. An
// empty or whitespace-only text yields a document with no sentences,
// which the engine treats as a valid zero-score input, not an error.
//
// The document id is derived from the sanitized text so that identical
// inputs produce identical documents.
func (a *Annotator) Annotate(source, text string) (*model.AnnotatedDocument, error) {
	clean := Sanitize(text)

	doc := &model.AnnotatedDocument{
		ID:     DocumentID(clean),
		Source: source,
		Text:   clean,
	}

	for i, span := range SplitSentences(clean) {
		sentText := clean[span.Start:span.End]

		pdoc, err := prose.NewDocument(sentText, prose.WithSegmentation(false))
		if err != nil {
			return nil, fmt.Errorf("annotate sentence %d: %w", i, err)
		}

		sentence := model.Sentence{
			Index: i,
			Span:  span,
		}

		cursor := 0
		for _, ptok := range pdoc.Tokens() {
			idx := strings.Index(sentText[cursor:], ptok.Text)
			if idx < 0 {
				// Tokenizer artifact not present verbatim in the
				// source text; it cannot carry a valid span.
				continue
			}
			start := span.Start + cursor + idx
			cursor += idx + len(ptok.Text)

			sentence.Tokens = append(sentence.Tokens, model.Token{
				Text:     ptok.Text,
				Lemma:    a.lemma(ptok.Text),
				Tag:      ptok.Tag,
				Span:     model.Span{Start: start, End: start + len(ptok.Text)},
				Sentence: i,
			})
		}

		ecursor := 0
		for _, ent := range pdoc.Entities() {
			idx := strings.Index(sentText[ecursor:], ent.Text)
			if idx < 0 {
				continue
			}
			start := span.Start + ecursor + idx
			ecursor += idx + len(ent.Text)

			sentence.Entities = append(sentence.Entities, model.Entity{
				Text:  ent.Text,
				Label: ent.Label,
				Span:  model.Span{Start: start, End: start + len(ent.Text)},
			})
		}

		sentence.Polarity, sentence.Subjectivity = scoreSentiment(sentence.Tokens, a.store)
		doc.Sentences = append(doc.Sentences, sentence)
	}

	return doc, nil
}

// lemma resolves contractions through the store's map first, then
// falls back to the rule lemmatizer. For a multi-word expansion the
// first word is kept ("don't" -> "do"); the tokenizer splits off
// clitics like "n't", which expand to their own word ("not").
func (a *Annotator) lemma(word string) string {
	if strings.Contains(word, "'") {
		if exp, ok := a.store.ExpandContraction(word); ok {
			first := strings.Fields(exp[0])
			if len(first) > 0 {
				return Lemma(first[0])
			}
		}
	}
	return Lemma(word)
}

// DocumentID derives a stable identifier from sanitized text.
func DocumentID(clean string) string {
	sum := sha256.Sum256([]byte(clean))
	return "doc-" + hex.EncodeToString(sum[:6])
}
