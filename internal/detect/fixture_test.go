package detect

import (
	"testing"
	"unicode"

	"github.com/nuxa17/verbum/internal/annotate"
	"github.com/nuxa17/verbum/internal/lexicon"
	"github.com/nuxa17/verbum/internal/model"
)

// loadStore loads the embedded default lexicons.
func loadStore(t *testing.T) *lexicon.Store {
	t.Helper()
	s, err := lexicon.Load("")
	if err != nil {
		t.Fatalf("load lexicons: %v", err)
	}
	return s
}

// docFrom builds an AnnotatedDocument without the prose annotator so
// detector tests stay deterministic and dependency-free. Tokens are
// split on whitespace with punctuation as single-rune tokens; tags
// come from the tags map (default NN); polarity, subjectivity and
// entities are left zero for the caller to fill in.
func docFrom(t *testing.T, text string, tags map[string]string) *model.AnnotatedDocument {
	t.Helper()

	doc := &model.AnnotatedDocument{
		ID:   annotate.DocumentID(text),
		Text: text,
	}

	for si, span := range annotate.SplitSentences(text) {
		sent := model.Sentence{Index: si, Span: span}
		for _, sp := range tokenSpans(text, span) {
			surface := text[sp.Start:sp.End]
			tag := "NN"
			if tg, ok := tags[lower(surface)]; ok {
				tag = tg
			} else if isPunct(surface) {
				tag = surface
			}
			sent.Tokens = append(sent.Tokens, model.Token{
				Text:     surface,
				Lemma:    annotate.Lemma(surface),
				Tag:      tag,
				Span:     sp,
				Sentence: si,
			})
		}
		doc.Sentences = append(doc.Sentences, sent)
	}
	return doc
}

func tokenSpans(text string, span model.Span) []model.Span {
	var out []model.Span
	start := -1
	flush := func(end int) {
		if start >= 0 {
			out = append(out, model.Span{Start: start, End: end})
			start = -1
		}
	}
	for i := span.Start; i < span.End; i++ {
		c := rune(text[i])
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'':
			if start < 0 {
				start = i
			}
		case unicode.IsSpace(c):
			flush(i)
		default:
			flush(i)
			out = append(out, model.Span{Start: i, End: i + 1})
		}
	}
	flush(span.End)
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func isPunct(s string) bool {
	return len(s) == 1 && !unicode.IsLetter(rune(s[0])) && !unicode.IsDigit(rune(s[0]))
}

func defaultCfg() *model.AnalysisConfig {
	cfg := model.DefaultConfig()
	return &cfg.Analysis
}

func matchesFor(t *testing.T, d Detector, doc *model.AnnotatedDocument, store *lexicon.Store) []model.Match {
	t.Helper()
	ms, err := d.Detect(doc, store, defaultCfg())
	if err != nil {
		t.Fatalf("%s: %v", d.ID(), err)
	}
	for _, m := range ms {
		if m.Span.Len() <= 0 || m.Span.Start < 0 || m.Span.End > len(doc.Text) {
			t.Fatalf("%s emitted invalid span %+v", d.ID(), m.Span)
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			t.Fatalf("%s emitted confidence %v", d.ID(), m.Confidence)
		}
		if m.Category != d.Category() {
			t.Fatalf("%s emitted foreign category %s", d.ID(), m.Category)
		}
	}
	return ms
}
