package detect

import (
	"strings"
	"testing"

	"github.com/nuxa17/verbum/internal/model"
)

func TestDichotomy_EitherOr(t *testing.T) {
	store := loadStore(t)
	doc := docFrom(t, "Either you are with us or you are against us.", nil)

	d := &dichotomyDetector{}
	ms := matchesFor(t, d, doc, store)
	if len(ms) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(ms), ms)
	}
	if !strings.HasPrefix(strings.ToLower(ms[0].Excerpt), "either") {
		t.Errorf("match should start at 'either': %q", ms[0].Excerpt)
	}
	if !strings.HasSuffix(strings.ToLower(ms[0].Excerpt), "or") {
		t.Errorf("match should end at 'or': %q", ms[0].Excerpt)
	}
	if ms[0].Confidence != dichotomyConf {
		t.Errorf("expected fixed confidence %v, got %v", dichotomyConf, ms[0].Confidence)
	}
}

func TestDichotomy_PairMustShareSentence(t *testing.T) {
	store := loadStore(t)
	doc := docFrom(t, "Either way works. Take this or that.", nil)

	d := &dichotomyDetector{}
	if ms := matchesFor(t, d, doc, store); len(ms) != 0 {
		t.Errorf("either/or split across sentences must not match: %+v", ms)
	}
}

func TestDichotomy_NoOtherChoice(t *testing.T) {
	store := loadStore(t)
	doc := docFrom(t, "There is no other choice left for us.", nil)

	d := &dichotomyDetector{}
	ms := matchesFor(t, d, doc, store)
	if len(ms) != 1 {
		t.Fatalf("expected 1 match, got %d", len(ms))
	}
	if ms[0].Excerpt != "no other choice" {
		t.Errorf("excerpt = %q", ms[0].Excerpt)
	}
}

func TestAbsolute_SuperlativeWithNegation(t *testing.T) {
	store := loadStore(t)
	doc := docFrom(t, "This is not the smartest plan.", map[string]string{"smartest": "JJS"})

	d := &absoluteDetector{}
	ms := matchesFor(t, d, doc, store)
	if len(ms) != 1 {
		t.Fatalf("expected 1 match, got %d", len(ms))
	}
	if ms[0].Excerpt != "smartest" {
		t.Errorf("excerpt = %q", ms[0].Excerpt)
	}
}

func TestAbsolute_SuperlativeWithoutNegation(t *testing.T) {
	store := loadStore(t)
	doc := docFrom(t, "This is the smartest plan.", map[string]string{"smartest": "JJS"})

	d := &absoluteDetector{}
	if ms := matchesFor(t, d, doc, store); len(ms) != 0 {
		t.Errorf("superlative without negation must not match: %+v", ms)
	}
}

func TestPolarity_RequiresMagnitudeAndAddress(t *testing.T) {
	store := loadStore(t)
	d := &polarityDetector{}

	// Extreme polarity, second-person address.
	hot := docFrom(t, "You did a terrible thing.", nil)
	hot.Sentences[0].Polarity = -0.8
	ms := matchesFor(t, d, hot, store)
	if len(ms) != 1 {
		t.Fatalf("expected 1 match, got %d", len(ms))
	}
	if ms[0].Confidence <= 0.3 {
		t.Errorf("confidence should scale with magnitude, got %v", ms[0].Confidence)
	}

	// Extreme polarity, nobody addressed.
	cold := docFrom(t, "It was a terrible storm season.", nil)
	cold.Sentences[0].Polarity = -0.8
	if ms := matchesFor(t, d, cold, store); len(ms) != 0 {
		t.Errorf("no address, no match: %+v", ms)
	}

	// Addressed but mild.
	mild := docFrom(t, "You did a thing.", nil)
	mild.Sentences[0].Polarity = -0.2
	if ms := matchesFor(t, d, mild, store); len(ms) != 0 {
		t.Errorf("below threshold, no match: %+v", ms)
	}
}

func TestPolarity_ImperativeOpening(t *testing.T) {
	store := loadStore(t)
	d := &polarityDetector{}

	doc := docFrom(t, "Stop this terrible nonsense.", map[string]string{"stop": "VB"})
	doc.Sentences[0].Polarity = -0.7
	if ms := matchesFor(t, d, doc, store); len(ms) != 1 {
		t.Fatalf("imperative opening should match, got %+v", ms)
	}
}

func TestEntityPressure(t *testing.T) {
	store := loadStore(t)
	d := &entityPressureDetector{}

	text := "Acme will suffer the consequences immediately."
	doc := docFrom(t, text, nil)
	doc.Sentences[0].Entities = []model.Entity{{
		Text:  "Acme",
		Label: "ORG",
		Span:  model.Span{Start: 0, End: 4},
	}}

	ms := matchesFor(t, d, doc, store)
	if len(ms) != 1 {
		t.Fatalf("expected 1 match, got %d", len(ms))
	}
	// Three cues: suffer, consequences, immediately.
	if want := 0.3 + 0.15*3; ms[0].Confidence != want {
		t.Errorf("confidence = %v, want %v", ms[0].Confidence, want)
	}

	// Same text without the entity: no pressure subject, no match.
	plain := docFrom(t, text, nil)
	if ms := matchesFor(t, d, plain, store); len(ms) != 0 {
		t.Errorf("no entity, no match: %+v", ms)
	}
}
