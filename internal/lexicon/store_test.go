package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nuxa17/verbum/internal/model"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded defaults: %v", err)
	}

	if !s.Lookup("disgusting", model.CategoryLoadedLanguage) {
		t.Error("expected 'disgusting' in loaded_language")
	}
	if !s.Lookup("RUIN", model.CategoryGuiltInduction) {
		t.Error("lookup should be case-insensitive")
	}
	if s.Lookup("meeting", model.CategoryLoadedLanguage) {
		t.Error("'meeting' must not be a loaded-language cue")
	}

	// Categories are independent namespaces: "always" may appear in both.
	if !s.Lookup("always", model.CategoryGuiltInduction) {
		t.Error("expected 'always' in guilt_induction")
	}
	if !s.Lookup("always", model.CategoryVagueGeneralization) {
		t.Error("expected 'always' in vague_generalization")
	}
}

func TestLoad_PhrasesTokenized(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	found := false
	for _, p := range s.PhrasesFor(model.CategoryFalseUrgency) {
		if len(p) == 2 && p[0] == "right" && p[1] == "now" {
			found = true
		}
	}
	if !found {
		t.Error("expected phrase [right now] in false_urgency")
	}
}

func TestTermsFor_Sorted(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	terms := s.TermsFor(model.CategoryFalseUrgency)
	if len(terms) == 0 {
		t.Fatal("expected false_urgency terms")
	}
	for i := 1; i < len(terms); i++ {
		if terms[i-1] > terms[i] {
			t.Fatalf("terms not sorted: %q > %q", terms[i-1], terms[i])
		}
	}
}

func TestExpandContraction(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	exp, ok := s.ExpandContraction("Don't")
	if !ok || len(exp) == 0 || exp[0] != "do not" {
		t.Errorf("expected don't -> [do not], got %v (ok=%v)", exp, ok)
	}
	if _, ok := s.ExpandContraction("meeting"); ok {
		t.Error("'meeting' is not a contraction")
	}
}

func TestValenceAndIntensity(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, ok := s.Valence("terrible"); !ok || v >= 0 {
		t.Errorf("expected negative valence for 'terrible', got %v (ok=%v)", v, ok)
	}
	if _, ok := s.Valence("tuesday"); ok {
		t.Error("'tuesday' must carry no valence")
	}
	if v, ok := s.Intensity("extremely"); !ok || v <= 0 {
		t.Errorf("expected positive intensity for 'extremely', got %v (ok=%v)", v, ok)
	}
	if !s.IsHedge("perhaps") {
		t.Error("expected 'perhaps' to be a hedge")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var rle *model.ResourceLoadError
	if !errors.As(err, &rle) {
		t.Fatalf("expected ResourceLoadError, got %v", err)
	}
}

func TestLoad_MalformedAndIncomplete(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not yaml", "{{{"},
		{"unknown category", "categories:\n  sarcasm:\n    terms: [sure]\n"},
		{"missing required category", "categories:\n  loaded_language:\n    terms: [vile]\ncontractions:\n  \"don't\": [\"do not\"]\nvalence:\n  bad: -0.5\n"},
		{"one-word phrase", "categories:\n  loaded_language:\n    terms: [vile]\n    phrases: [now]\n"},
		{"valence out of range", validButWith("valence:\n  bad: -2\n")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lex.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			var rle *model.ResourceLoadError
			if !errors.As(err, &rle) {
				t.Fatalf("expected ResourceLoadError, got %v", err)
			}
		})
	}
}

// validButWith returns a minimal valid lexicon body with one section
// replaced by the given override.
func validButWith(override string) string {
	return `categories:
  loaded_language:
    terms: [vile]
  false_urgency:
    terms: [urgent]
  guilt_induction:
    terms: [blame]
  vague_generalization:
    terms: [everyone]
  entity_pressure:
    terms: [suffer]
contractions:
  "don't": ["do not"]
` + override
}
