package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/nuxa17/verbum/internal/model"
)

// Summarizer wraps a provider with request throttling and output
// verification.
type Summarizer struct {
	provider  Provider
	limiter   *rate.Limiter
	maxTokens int
}

// NewSummarizer builds a summarizer from the LLM configuration.
// An empty provider name returns (nil, nil): summarization disabled.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai", "ollama":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return newSummarizer(p, cfg), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

func newSummarizer(p Provider, cfg model.LLMConfig) *Summarizer {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}
	return &Summarizer{
		provider:  p,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		maxTokens: cfg.MaxTokens,
	}
}

// Generate produces the narrative summary for a finished report. The
// output is verified against the report: quotes outside the evidence
// allowlist and category names the report does not flag both produce
// warnings rather than errors.
func (s *Summarizer) Generate(ctx context.Context, report *model.Report) (*model.Summary, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	excerpts := evidenceExcerpts(report)
	resp, err := s.provider.Summarize(ctx, Request{
		Report:    *report,
		Excerpts:  excerpts,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &model.Summary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
		Warnings:  verify(resp.Summary, report, excerpts),
	}, nil
}

// evidenceExcerpts collects the unique retained-match excerpts, in
// report order.
func evidenceExcerpts(report *model.Report) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range report.Matches {
		if m.Excerpt == "" {
			continue
		}
		if _, dup := seen[m.Excerpt]; dup {
			continue
		}
		seen[m.Excerpt] = struct{}{}
		out = append(out, m.Excerpt)
	}
	return out
}

var quoteRe = regexp.MustCompile(`"([^"]+)"`)

// verify flags summary content that goes beyond the report: invented
// quotes and mentions of categories without evidence.
func verify(summary string, report *model.Report, excerpts []string) []string {
	var warnings []string

	for _, q := range quoteRe.FindAllStringSubmatch(summary, -1) {
		quoted := q[1]
		var allowed bool
		for _, ex := range excerpts {
			if strings.Contains(ex, quoted) || strings.Contains(quoted, ex) {
				allowed = true
				break
			}
		}
		if !allowed {
			warnings = append(warnings, fmt.Sprintf("quote not in evidence: %q", quoted))
		}
	}

	lower := strings.ToLower(summary)
	for _, cs := range report.Categories {
		if cs.Unavailable || cs.Matches > 0 {
			continue
		}
		name := strings.ReplaceAll(string(cs.Category), "_", " ")
		if strings.Contains(lower, name) && !mentionedAsAbsent(lower, name) {
			warnings = append(warnings, fmt.Sprintf("category without evidence mentioned: %s", cs.Category))
		}
	}
	return warnings
}

// mentionedAsAbsent suppresses the category warning when the summary
// explicitly says the pattern was not found.
func mentionedAsAbsent(summary, name string) bool {
	idx := strings.Index(summary, name)
	for idx >= 0 {
		window := summary[max(0, idx-40):idx]
		for _, neg := range []string{"no ", "not ", "little ", "without ", "absent"} {
			if strings.Contains(window, neg) {
				return true
			}
		}
		rest := summary[idx+len(name):]
		next := strings.Index(rest, name)
		if next < 0 {
			break
		}
		idx += len(name) + next
	}
	return false
}
