package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/nuxa17/verbum/internal/model"
)

type stubProvider struct {
	summary string
	req     Request
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Summarize(ctx context.Context, req Request) (*Response, error) {
	s.req = req
	return &Response{Summary: s.summary, Model: "stub-model", TokensUsed: 42}, nil
}

func testReport() *model.Report {
	var scores []model.CategoryScore
	for _, cat := range model.Categories() {
		scores = append(scores, model.CategoryScore{Category: cat})
	}
	scores[2].Score = 0.6 // guilt_induction
	scores[2].Matches = 1

	return &model.Report{
		DocumentID: "doc-abc123def456",
		Status:     model.StatusComplete,
		Sentences:  8,
		Categories: scores,
		Overall:    0.075,
		Matches: []model.Match{{
			Category:   model.CategoryGuiltInduction,
			Span:       model.Span{Start: 4, End: 26},
			Confidence: 0.6,
			Detector:   "lexical-guilt",
			Excerpt:    "always ruin everything",
		}},
	}
}

func testSummarizer(p Provider) *Summarizer {
	return newSummarizer(p, model.LLMConfig{RateLimit: 1000, MaxTokens: 500})
}

func TestGenerate_PassesEvidenceAllowlist(t *testing.T) {
	stub := &stubProvider{summary: "The text leans on guilt induction."}
	s := testSummarizer(stub)

	summary, err := s.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !summary.Enabled || summary.Provider != "stub" || summary.Model != "stub-model" {
		t.Errorf("summary metadata: %+v", summary)
	}
	if len(stub.req.Excerpts) != 1 || stub.req.Excerpts[0] != "always ruin everything" {
		t.Errorf("excerpt allowlist = %q", stub.req.Excerpts)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("clean summary produced warnings: %q", summary.Warnings)
	}
}

func TestGenerate_FlagsInventedQuote(t *testing.T) {
	stub := &stubProvider{summary: `The author wrote "you are all idiots" repeatedly.`}
	s := testSummarizer(stub)

	summary, err := s.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(summary.Warnings) == 0 {
		t.Fatal("invented quote went unflagged")
	}
	if !strings.Contains(summary.Warnings[0], "you are all idiots") {
		t.Errorf("warning = %q", summary.Warnings[0])
	}
}

func TestGenerate_AllowsEvidenceQuote(t *testing.T) {
	stub := &stubProvider{summary: `Guilt induction peaks at "always ruin everything".`}
	s := testSummarizer(stub)

	summary, err := s.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, w := range summary.Warnings {
		if strings.Contains(w, "quote") {
			t.Errorf("evidence quote flagged: %q", w)
		}
	}
}

func TestGenerate_FlagsUnsupportedCategory(t *testing.T) {
	stub := &stubProvider{summary: "Strong false urgency throughout the letter."}
	s := testSummarizer(stub)

	summary, err := s.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var flagged bool
	for _, w := range summary.Warnings {
		if strings.Contains(w, string(model.CategoryFalseUrgency)) {
			flagged = true
		}
	}
	if !flagged {
		t.Errorf("unsupported category went unflagged: %q", summary.Warnings)
	}
}

func TestGenerate_AllowsNegatedCategoryMention(t *testing.T) {
	stub := &stubProvider{summary: "There is little sign of false urgency in the text."}
	s := testSummarizer(stub)

	summary, err := s.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, w := range summary.Warnings {
		if strings.Contains(w, string(model.CategoryFalseUrgency)) {
			t.Errorf("negated mention flagged: %q", w)
		}
	}
}

func TestNewSummarizer_DisabledAndUnknown(t *testing.T) {
	s, err := NewSummarizer(model.LLMConfig{})
	if err != nil || s != nil {
		t.Errorf("empty provider: %v, %v", s, err)
	}
	if _, err := NewSummarizer(model.LLMConfig{Provider: "tarot"}); err == nil {
		t.Error("unknown provider accepted")
	}
	if _, err := NewSummarizer(model.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("openai without api key accepted")
	}
}

func TestBuildPrompt_ListsScoresAndExcerpts(t *testing.T) {
	report := testReport()
	prompt := BuildPrompt(*report, []string{"always ruin everything"})

	for _, want := range []string{
		"doc-abc123def456",
		"guilt_induction: 0.60",
		`"always ruin everything"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
