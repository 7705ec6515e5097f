// Package reader loads document text from the supported input
// formats: plain text, Markdown, HTML, DOCX and RTF. Every reader
// returns plain UTF-8 text ready for annotation.
package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ReadFile loads path and extracts its text based on the file
// extension. Unknown extensions are treated as plain text.
func ReadFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return HTML(f)
	case ".docx":
		return DOCX(path)
	case ".rtf":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return RTF(string(data)), nil
	case "", ".txt", ".md", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("read %s: not valid UTF-8", path)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("read %s: unsupported format %q", path, filepath.Ext(path))
	}
}

// Plain reads an entire stream as UTF-8 text. Used for stdin input.
func Plain(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("read input: not valid UTF-8")
	}
	return string(data), nil
}

// RTF strips RTF control words and groups, keeping only the visible
// text. It handles the common escapes (\par, \tab, \'hh, \uN) and is
// intentionally minimal: styled runs come through unstyled.
func RTF(src string) string {
	var b strings.Builder
	i := 0
	for i < len(src) {
		c := src[i]
		switch c {
		case '{':
			if end, skip := rtfDestination(src, i); skip {
				i = end
			} else {
				i++
			}
		case '}':
			i++
		case '\\':
			i++
			if i >= len(src) {
				break
			}
			switch {
			case src[i] == '\\' || src[i] == '{' || src[i] == '}':
				b.WriteByte(src[i])
				i++
			case src[i] == '\'':
				// Hex escape: \'hh
				if i+2 < len(src) {
					if v, err := strconv.ParseUint(src[i+1:i+3], 16, 8); err == nil {
						b.WriteRune(rune(v))
					}
					i += 3
				} else {
					i = len(src)
				}
			default:
				word, param, next := rtfControlWord(src, i)
				i = next
				switch word {
				case "par", "line":
					b.WriteString("\n")
				case "tab":
					b.WriteString(" ")
				case "u":
					// \uN carries a signed 16-bit code point followed by a
					// fallback character to skip.
					if param < 0 {
						param += 65536
					}
					b.WriteRune(rune(param))
					if i < len(src) && src[i] != '\\' && src[i] != '{' && src[i] != '}' {
						i++
					}
				}
			}
		case '\r', '\n':
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return strings.TrimSpace(b.String())
}

// rtfDestinations are group types whose content is metadata, not
// document text.
var rtfDestinations = map[string]struct{}{
	"fonttbl": {}, "colortbl": {}, "stylesheet": {}, "info": {},
	"header": {}, "footer": {}, "pict": {}, "field": {},
}

// rtfDestination reports whether the group opening at src[i] is a
// destination to discard and, if so, the index past its closing
// brace.
func rtfDestination(src string, i int) (end int, skip bool) {
	j := i + 1
	if j >= len(src) || src[j] != '\\' {
		return 0, false
	}
	j++
	if j < len(src) && src[j] == '*' {
		return rtfGroupEnd(src, i), true
	}
	start := j
	for j < len(src) && isASCIILetter(src[j]) {
		j++
	}
	if _, known := rtfDestinations[src[start:j]]; known {
		return rtfGroupEnd(src, i), true
	}
	return 0, false
}

// rtfGroupEnd returns the index just past the brace matching src[i].
func rtfGroupEnd(src string, i int) int {
	depth := 0
	for ; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++ // Skip the escaped character
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(src)
}

// rtfControlWord parses a control word starting at i (just past the
// backslash) and returns the word, its numeric parameter and the
// index after the word and its trailing space delimiter.
func rtfControlWord(src string, i int) (word string, param int, next int) {
	start := i
	for i < len(src) && isASCIILetter(src[i]) {
		i++
	}
	word = src[start:i]

	numStart := i
	if i < len(src) && src[i] == '-' {
		i++
	}
	for i < len(src) && src[i] >= '0' && src[i] <= '9' {
		i++
	}
	if i > numStart {
		param, _ = strconv.Atoi(src[numStart:i])
	}

	// A single space after a control word is a delimiter, not text.
	if i < len(src) && src[i] == ' ' {
		i++
	}
	return word, param, i
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
