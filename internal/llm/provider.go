// Package llm generates an optional narrative summary of a finished
// report. The summary is produced after scoring and never feeds back
// into it; a failed or hallucinated summary degrades to a warning,
// never to a failed analysis.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/nuxa17/verbum/internal/model"
)

// Provider is one chat-completion backend.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, req Request) (*Response, error)
}

// Request is the input for one summarization call.
type Request struct {
	Report model.Report

	// Excerpts is the strict allowlist of evidence quotes. The prompt
	// forbids quoting anything else; the summarizer flags violations.
	Excerpts []string

	Prompt    string // Optional custom prompt
	Model     string // Overrides the configured model
	MaxTokens int
}

// Response is the provider output.
type Response struct {
	Summary    string
	Model      string
	TokensUsed int
}

// BuildPrompt constructs the default summarization prompt. The rules
// pin the model to the detected evidence: only listed categories, only
// listed quotes, no diagnosis of intent.
func BuildPrompt(report model.Report, excerpts []string) string {
	var b strings.Builder

	b.WriteString(`You are summarizing an automated rhetoric analysis. The engine flags
manipulation PATTERNS in text - it never judges the author's intent or
the truth of their statements.

RULES:
1. Only discuss the categories and scores listed below.
2. You may quote ONLY from the allowed excerpts; never invent quotes.
3. Describe patterns, not people: "the text leans on urgency cues",
   never "the author is manipulative".
4. If every score is low, say the text shows little sign of the
   measured patterns.

`)

	fmt.Fprintf(&b, "Document: %s (status %s, %d sentences)\n", report.DocumentID, report.Status, report.Sentences)
	fmt.Fprintf(&b, "Overall score: %.2f\n\nCategory scores:\n", report.Overall)
	for _, cs := range report.Categories {
		if cs.Unavailable {
			fmt.Fprintf(&b, "- %s: unavailable\n", cs.Category)
			continue
		}
		fmt.Fprintf(&b, "- %s: %.2f (%d matches)\n", cs.Category, cs.Score, cs.Matches)
	}

	b.WriteString("\nAllowed excerpts:\n")
	if len(excerpts) == 0 {
		b.WriteString("(none - do not quote anything)\n")
	}
	for i, ex := range excerpts {
		if i >= 20 {
			fmt.Fprintf(&b, "... and %d more\n", len(excerpts)-20)
			break
		}
		fmt.Fprintf(&b, "- %q\n", ex)
	}

	b.WriteString("\nWrite a 3-5 sentence summary of the detected patterns.")
	return b.String()
}
