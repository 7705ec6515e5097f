// Package lexicon loads and serves the read-only lexical resources of
// the detection engine: category cue lists, multi-word phrases, the
// contraction-expansion map and the valence/intensifier/hedge lexicons
// used for sentiment annotation.
//
// A Store is built once at startup and never mutated afterwards, so it
// is safe to share across concurrent analysis runs without locking.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nuxa17/verbum/internal/model"
)

//go:embed data/lexicons.yaml
var defaultLexicons []byte

// requiredCategories must carry at least one term in any lexicon file.
var requiredCategories = []model.Category{
	model.CategoryLoadedLanguage,
	model.CategoryFalseUrgency,
	model.CategoryGuiltInduction,
	model.CategoryVagueGeneralization,
	model.CategoryEntityPressure,
}

// Store holds the loaded lookup tables. All keys are lower-cased.
// Categories are independent namespaces: the same term may appear in
// several of them.
type Store struct {
	terms        map[model.Category]map[string]struct{}
	phrases      map[model.Category][][]string
	contractions map[string][]string
	valence      map[string]float64
	intensifiers map[string]float64
	hedges       map[string]struct{}
}

type lexiconFile struct {
	Categories   map[string]categoryEntry `yaml:"categories"`
	Contractions map[string][]string      `yaml:"contractions"`
	Valence      map[string]float64       `yaml:"valence"`
	Intensifiers map[string]float64       `yaml:"intensifiers"`
	Hedges       []string                 `yaml:"hedges"`
}

type categoryEntry struct {
	Terms   []string `yaml:"terms"`
	Phrases []string `yaml:"phrases"`
}

// Load builds a Store from the YAML file at path, or from the embedded
// defaults when path is empty. Any missing or malformed required table
// yields a *model.ResourceLoadError.
func Load(path string) (*Store, error) {
	data := defaultLexicons
	resource := "embedded lexicons"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &model.ResourceLoadError{Resource: path, Err: err}
		}
		data = b
		resource = path
	}
	return parse(data, resource)
}

func parse(data []byte, resource string) (*Store, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &model.ResourceLoadError{Resource: resource, Err: err}
	}

	s := &Store{
		terms:        make(map[model.Category]map[string]struct{}),
		phrases:      make(map[model.Category][][]string),
		contractions: make(map[string][]string, len(f.Contractions)),
		valence:      make(map[string]float64, len(f.Valence)),
		intensifiers: make(map[string]float64, len(f.Intensifiers)),
		hedges:       make(map[string]struct{}, len(f.Hedges)),
	}

	for name, entry := range f.Categories {
		cat := model.Category(name)
		if !cat.Valid() {
			return nil, &model.ResourceLoadError{
				Resource: resource,
				Err:      fmt.Errorf("unknown category %q", name),
			}
		}
		set := make(map[string]struct{}, len(entry.Terms))
		for _, t := range entry.Terms {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			set[t] = struct{}{}
		}
		s.terms[cat] = set

		for _, p := range entry.Phrases {
			words := strings.Fields(strings.ToLower(p))
			if len(words) < 2 {
				return nil, &model.ResourceLoadError{
					Resource: resource,
					Err:      fmt.Errorf("category %q: phrase %q needs at least two words", name, p),
				}
			}
			s.phrases[cat] = append(s.phrases[cat], words)
		}
	}

	for _, required := range requiredCategories {
		if len(s.terms[required]) == 0 {
			return nil, &model.ResourceLoadError{
				Resource: resource,
				Err:      fmt.Errorf("category %q has no terms", required),
			}
		}
	}

	for contraction, expansions := range f.Contractions {
		if len(expansions) == 0 {
			return nil, &model.ResourceLoadError{
				Resource: resource,
				Err:      fmt.Errorf("contraction %q has no expansion", contraction),
			}
		}
		s.contractions[strings.ToLower(contraction)] = expansions
	}
	if len(s.contractions) == 0 {
		return nil, &model.ResourceLoadError{
			Resource: resource,
			Err:      fmt.Errorf("contraction map is empty"),
		}
	}

	for term, v := range f.Valence {
		if v < -1 || v > 1 {
			return nil, &model.ResourceLoadError{
				Resource: resource,
				Err:      fmt.Errorf("valence for %q out of range: %v", term, v),
			}
		}
		s.valence[strings.ToLower(term)] = v
	}
	if len(s.valence) == 0 {
		return nil, &model.ResourceLoadError{
			Resource: resource,
			Err:      fmt.Errorf("valence lexicon is empty"),
		}
	}

	for term, v := range f.Intensifiers {
		s.intensifiers[strings.ToLower(term)] = v
	}
	for _, h := range f.Hedges {
		s.hedges[strings.ToLower(h)] = struct{}{}
	}

	return s, nil
}

// Lookup reports whether term belongs to category's cue list. The term
// is lower-cased before the lookup; callers should try the lemma first
// and fall back to the surface form.
func (s *Store) Lookup(term string, c model.Category) bool {
	set, ok := s.terms[c]
	if !ok {
		return false
	}
	_, ok = set[strings.ToLower(term)]
	return ok
}

// TermsFor returns category's cue terms in sorted order.
func (s *Store) TermsFor(c model.Category) []string {
	set := s.terms[c]
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// PhrasesFor returns category's multi-word cue phrases, tokenized and
// lower-cased. Callers must not mutate the returned slices.
func (s *Store) PhrasesFor(c model.Category) [][]string {
	return s.phrases[c]
}

// ExpandContraction returns the known expansions of word, most common
// first. The second result is false when word is not in the map.
func (s *Store) ExpandContraction(word string) ([]string, bool) {
	exp, ok := s.contractions[strings.ToLower(word)]
	return exp, ok
}

// Valence returns the polarity weight of term in [-1, 1].
func (s *Store) Valence(term string) (float64, bool) {
	v, ok := s.valence[strings.ToLower(term)]
	return v, ok
}

// Intensity returns the intensifier boost of term.
func (s *Store) Intensity(term string) (float64, bool) {
	v, ok := s.intensifiers[strings.ToLower(term)]
	return v, ok
}

// IsHedge reports whether term is a hedging word.
func (s *Store) IsHedge(term string) bool {
	_, ok := s.hedges[strings.ToLower(term)]
	return ok
}
