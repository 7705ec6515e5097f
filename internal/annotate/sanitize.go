package annotate

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe  = regexp.MustCompile(`[\s\x{2014}]+`)
	hyphenBreakRe = regexp.MustCompile(`- `)
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
)

// Sanitize prepares raw text for annotation: Unicode NFC, curly quotes
// unified to straight ones, em-dashes and consecutive whitespace
// collapsed to single spaces, and words split by a line-break hyphen
// rejoined. All detector offsets refer to the sanitized text.
func Sanitize(text string) string {
	text = norm.NFC.String(text)
	text = quoteReplacer.Replace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = hyphenBreakRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
