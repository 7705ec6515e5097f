package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nuxa17/verbum/internal/model"
)

// Renderer writes a report in one of the supported output formats.
// Rendering is deterministic: the same report always produces the
// same bytes.
type Renderer struct{}

// JSON writes the report as indented JSON.
func (Renderer) JSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Markdown writes a human-readable report: header, category table,
// evidence list and the optional LLM narrative.
func (Renderer) Markdown(w io.Writer, r *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Manipulation analysis: %s\n\n", r.DocumentID)
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`  \n", r.Source)
	}
	fmt.Fprintf(&b, "Status: **%s**  \n", r.Status)
	fmt.Fprintf(&b, "Sentences: %d, tokens: %d\n\n", r.Sentences, r.Tokens)

	fmt.Fprintf(&b, "## Overall score: %.2f\n\n", r.Overall)

	b.WriteString("| Category | Score | Matches |\n")
	b.WriteString("|---|---|---|\n")
	for _, cs := range r.Categories {
		if cs.Unavailable {
			fmt.Fprintf(&b, "| %s | n/a | n/a |\n", categoryLabel(cs.Category))
			continue
		}
		fmt.Fprintf(&b, "| %s | %.2f | %d |\n", categoryLabel(cs.Category), cs.Score, cs.Matches)
	}
	b.WriteString("\n")

	if len(r.Matches) > 0 {
		b.WriteString("## Evidence\n\n")
		for _, m := range r.Matches {
			fmt.Fprintf(&b, "- **%s** (%.2f, sentence %d): %q",
				categoryLabel(m.Category), m.Confidence, m.Sentence+1, m.Excerpt)
			if m.Rationale != "" {
				fmt.Fprintf(&b, " (%s)", m.Rationale)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.LLM != nil && r.LLM.SummaryMD != "" {
		fmt.Fprintf(&b, "## Summary (%s/%s)\n\n%s\n", r.LLM.Provider, r.LLM.Model, r.LLM.SummaryMD)
		for _, warn := range r.LLM.Warnings {
			fmt.Fprintf(&b, "\n> warning: %s\n", warn)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// categoryLabel turns a category id into a display name.
func categoryLabel(c model.Category) string {
	return strings.ReplaceAll(string(c), "_", " ")
}
