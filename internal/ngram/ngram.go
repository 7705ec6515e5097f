// Package ngram answers frequency queries over an annotated document:
// which word bigrams, trigrams or quadgrams recur, subject to length,
// frequency and content filters. Repetition is its own rhetorical
// signal, so results pair with the detector report rather than feed it.
package ngram

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/nuxa17/verbum/internal/model"
)

//go:embed stopwords.txt
var stopwordData string

var stopwords = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(stopwordData) {
		set[w] = struct{}{}
	}
	return set
}()

// Query selects and filters n-grams. Zero values disable a filter.
type Query struct {
	N             int      // Gram size, 2 to 4
	MinWordLen    int      // Shortest allowed word
	MaxWordLen    int      // Longest allowed word
	MinFreq       int      // Drop grams seen fewer times
	SkipStopwords bool     // Drop grams containing a stopword
	Contains      []string // Keep only grams containing all of these words
	Exclude       []string // Drop grams containing any of these words
}

// Gram is one n-gram with its document frequency.
type Gram struct {
	Words []string
	Count int
}

// Text returns the gram joined with single spaces.
func (g Gram) Text() string {
	return strings.Join(g.Words, " ")
}

// Run counts the document's n-grams and applies the query filters.
// Grams slide over the full word stream, so a gram may bridge a
// sentence boundary. Results sort by descending count, then
// alphabetically, so equal inputs always yield equal output.
func Run(doc *model.AnnotatedDocument, q Query) ([]Gram, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	words := wordStream(doc)
	counts := make(map[string]int)
	for i := 0; i+q.N <= len(words); i++ {
		gram := words[i : i+q.N]
		if !q.admit(gram) {
			continue
		}
		counts[strings.Join(gram, " ")]++
	}

	var out []Gram
	for text, count := range counts {
		if count < q.MinFreq {
			continue
		}
		out = append(out, Gram{Words: strings.Split(text, " "), Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text() < out[j].Text()
	})
	return out, nil
}

// Sentences returns the text of every sentence containing the gram.
// A gram bridging a sentence boundary yields the covered sentences
// joined into one entry. Results follow document order without
// duplicates.
func Sentences(doc *model.AnnotatedDocument, words []string) []string {
	if len(words) == 0 {
		return nil
	}

	stream := tokenStream(doc)
	var out []string
	seen := make(map[string]struct{})

	for i := 0; i+len(words) <= len(stream); i++ {
		matched := true
		for j, w := range words {
			if strings.ToLower(stream[i+j].text) != w {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}

		first := stream[i].sentence
		last := stream[i+len(words)-1].sentence
		var parts []string
		for s := first; s <= last; s++ {
			parts = append(parts, doc.SentenceText(s))
		}
		joined := strings.Join(parts, " ")
		if _, dup := seen[joined]; !dup {
			seen[joined] = struct{}{}
			out = append(out, joined)
		}
	}
	return out
}

func (q Query) validate() error {
	if q.N < 2 || q.N > 4 {
		return fmt.Errorf("ngram: size %d out of range [2,4]", q.N)
	}
	if q.MaxWordLen > 0 && q.MinWordLen > q.MaxWordLen {
		return fmt.Errorf("ngram: min word length %d exceeds max %d", q.MinWordLen, q.MaxWordLen)
	}
	excluded := make(map[string]struct{}, len(q.Exclude))
	for _, w := range q.Exclude {
		excluded[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range q.Contains {
		if _, clash := excluded[strings.ToLower(w)]; clash {
			return fmt.Errorf("ngram: word %q both required and excluded", strings.ToLower(w))
		}
	}
	return nil
}

// admit applies the per-gram filters.
func (q Query) admit(gram []string) bool {
	required := make(map[string]struct{}, len(q.Contains))
	for _, w := range q.Contains {
		required[strings.ToLower(w)] = struct{}{}
	}

	for _, w := range gram {
		if q.MinWordLen > 0 && len(w) < q.MinWordLen {
			return false
		}
		if q.MaxWordLen > 0 && len(w) > q.MaxWordLen {
			return false
		}
		if q.SkipStopwords {
			if _, stop := stopwords[w]; stop {
				return false
			}
		}
		for _, ex := range q.Exclude {
			if w == strings.ToLower(ex) {
				return false
			}
		}
		delete(required, w)
	}
	return len(required) == 0
}

type streamToken struct {
	text     string
	sentence int
}

// tokenStream flattens the document's word tokens, dropping
// punctuation-only tokens.
func tokenStream(doc *model.AnnotatedDocument) []streamToken {
	var out []streamToken
	for si := range doc.Sentences {
		for _, tok := range doc.Sentences[si].Tokens {
			if !isWord(tok.Text) {
				continue
			}
			out = append(out, streamToken{text: tok.Text, sentence: si})
		}
	}
	return out
}

func wordStream(doc *model.AnnotatedDocument) []string {
	stream := tokenStream(doc)
	out := make([]string, len(stream))
	for i, tok := range stream {
		out[i] = strings.ToLower(tok.text)
	}
	return out
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
