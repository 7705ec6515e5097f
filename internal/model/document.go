package model

// Span is a byte-offset range into the document text, end-exclusive.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Overlap returns the number of overlapping bytes between s and other.
func (s Span) Overlap(other Span) int {
	lo := s.Start
	if other.Start > lo {
		lo = other.Start
	}
	hi := s.End
	if other.End < hi {
		hi = other.End
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Token is a single word of the document with its linguistic annotations.
// Tokens are created by the annotator and never mutated afterwards.
type Token struct {
	Text     string `json:"text"`     // Surface form as it appears in the text
	Lemma    string `json:"lemma"`    // Lower-cased dictionary form
	Tag      string `json:"tag"`      // Penn Treebank POS tag (e.g. NN, VB, JJS)
	Span     Span   `json:"span"`     // Offsets into the document text
	Sentence int    `json:"sentence"` // Index of the owning sentence
}

// Entity is a named entity found within a sentence.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"` // PERSON, ORG, GPE, ...
	Span  Span   `json:"span"`
}

// Sentence is an ordered run of tokens with sentence-level annotations.
// Polarity and subjectivity default to 0 when the annotator cannot
// compute them; an absent entity list means no entities were found.
type Sentence struct {
	Index        int      `json:"index"`
	Span         Span     `json:"span"`
	Tokens       []Token  `json:"tokens"`
	Polarity     float64  `json:"polarity"`     // [-1, 1]
	Subjectivity float64  `json:"subjectivity"` // [0, 1]
	Entities     []Entity `json:"entities,omitempty"`
}

// AnnotatedDocument is the immutable input of the detection engine:
// the sanitized text plus everything the annotator computed over it.
// It is owned by the analysis run that created it and must not be
// shared across runs with different configuration.
type AnnotatedDocument struct {
	ID        string     `json:"id"`               // Run-unique identifier
	Source    string     `json:"source,omitempty"` // Originating filename, if any
	Text      string     `json:"text"`             // Full sanitized text
	Sentences []Sentence `json:"sentences"`
}

// TokenCount returns the total number of tokens across all sentences.
func (d *AnnotatedDocument) TokenCount() int {
	n := 0
	for i := range d.Sentences {
		n += len(d.Sentences[i].Tokens)
	}
	return n
}

// Empty reports whether the document carries no sentences.
func (d *AnnotatedDocument) Empty() bool {
	return d == nil || len(d.Sentences) == 0
}

// SentenceText returns the raw text of the sentence at index i.
func (d *AnnotatedDocument) SentenceText(i int) string {
	if i < 0 || i >= len(d.Sentences) {
		return ""
	}
	sp := d.Sentences[i].Span
	return d.Text[sp.Start:sp.End]
}

// Excerpt returns the document text covered by span, clamped to bounds.
func (d *AnnotatedDocument) Excerpt(span Span) string {
	if span.Start < 0 {
		span.Start = 0
	}
	if span.End > len(d.Text) {
		span.End = len(d.Text)
	}
	if span.Start >= span.End {
		return ""
	}
	return d.Text[span.Start:span.End]
}
