package reader

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// DOCX extracts paragraph text from a .docx archive. Only the main
// document part is read; headers, footers and comments are ignored.
func DOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("open %s: no word/document.xml part", path)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()

	root, err := xmlquery.Parse(rc)
	if err != nil {
		return "", fmt.Errorf("parse document part: %w", err)
	}

	// Namespace prefixes vary between producers, so match paragraph
	// and text elements by local name.
	var paragraphs []string
	for _, p := range xmlquery.Find(root, "//*[local-name()='body']//*[local-name()='p']") {
		var b strings.Builder
		for _, t := range xmlquery.Find(p, ".//*[local-name()='t']") {
			b.WriteString(t.InnerText())
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}
