package reader

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that end a line of visible text.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "tr": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"blockquote": {}, "section": {}, "article": {},
}

// HTML parses a document and returns its visible text. Script, style
// and similar non-content subtrees are skipped; block elements become
// line breaks so sentence segmentation sees paragraph boundaries.
func HTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			if _, block := blockTags[n.Data]; block {
				b.WriteString("\n")
			}
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String()), nil
}
