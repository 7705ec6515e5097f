package annotate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nuxa17/verbum/internal/model"
)

// abbreviations that a terminating period does not end a sentence after.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {},
	"st": {}, "vs": {}, "etc": {}, "e.g": {}, "i.e": {}, "no": {}, "inc": {},
}

// SplitSentences segments text into sentence spans. A sentence ends at
// '.', '!' or '?' followed by whitespace or end of text; runs of
// terminators ("?!", "...") stay with their sentence. Spans are
// trimmed of surrounding whitespace and never empty.
func SplitSentences(text string) []model.Span {
	var spans []model.Span
	start := 0

	runes := []rune(text)
	pos := 0 // byte offset of runes[i]
	offsets := make([]int, len(runes)+1)
	for i, r := range runes {
		offsets[i] = pos
		pos += len(string(r))
	}
	offsets[len(runes)] = pos

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Swallow the whole terminator run.
		j := i
		for j+1 < len(runes) && isTerminator(runes[j+1]) {
			j++
		}

		atEnd := j+1 >= len(runes)
		if !atEnd && !unicode.IsSpace(runes[j+1]) {
			i = j
			continue // mid-token period, e.g. "3.14" or a URL
		}
		if r == '.' && endsWithAbbreviation(text[start:offsets[i]]) {
			i = j
			continue
		}

		if sp, ok := trimmedSpan(text, start, offsets[j+1]); ok {
			spans = append(spans, sp)
		}
		start = offsets[j+1]
		i = j
	}

	if sp, ok := trimmedSpan(text, start, len(text)); ok {
		spans = append(spans, sp)
	}
	return spans
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '"' || r == '\''
}

func endsWithAbbreviation(chunk string) bool {
	fields := strings.Fields(chunk)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(fields[len(fields)-1])
	_, ok := abbreviations[last]
	return ok
}

// trimmedSpan trims whitespace from both ends of text[start:end] and
// reports whether anything remains. Trimming decodes whole runes so
// multi-byte characters at either edge stay intact.
func trimmedSpan(text string, start, end int) (model.Span, bool) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return model.Span{}, false
	}
	return model.Span{Start: start, End: end}, true
}
