// Package report assembles validated analysis reports and renders
// them as JSON or Markdown.
package report

import (
	"github.com/nuxa17/verbum/internal/model"
)

// Input carries everything the builder needs to assemble a report.
// TextLen bounds span validation; it is not part of the report itself.
type Input struct {
	DocumentID string
	Source     string
	Status     model.Status
	Sentences  int
	Tokens     int
	TextLen    int
	Scores     []model.CategoryScore
	Overall    float64
	Matches    []model.Match
}

// Build validates the aggregated results and assembles the final
// report. A violation here means a detector or the aggregator broke
// an internal contract, so the error is fatal rather than degraded.
func Build(in Input) (*model.Report, error) {
	if in.DocumentID == "" {
		return nil, model.Invariantf("report without document id")
	}
	switch in.Status {
	case model.StatusComplete, model.StatusDegraded, model.StatusDeadlineExceeded, model.StatusCancelled:
	default:
		return nil, model.Invariantf("unknown report status %q", in.Status)
	}

	if err := validateScores(in.Scores, in.Status); err != nil {
		return nil, err
	}
	if in.Overall < 0 || in.Overall > 1 {
		return nil, model.Invariantf("overall score %v outside [0,1]", in.Overall)
	}
	for i, m := range in.Matches {
		if !m.Category.Valid() {
			return nil, model.Invariantf("match %d carries unknown category %q", i, m.Category)
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			return nil, model.Invariantf("match %d confidence %v outside [0,1]", i, m.Confidence)
		}
		if m.Span.Start < 0 || m.Span.End > in.TextLen || m.Span.Len() <= 0 {
			return nil, model.Invariantf("match %d span %d:%d outside document of length %d",
				i, m.Span.Start, m.Span.End, in.TextLen)
		}
	}

	return &model.Report{
		DocumentID: in.DocumentID,
		Source:     in.Source,
		Status:     in.Status,
		Sentences:  in.Sentences,
		Tokens:     in.Tokens,
		Categories: in.Scores,
		Overall:    in.Overall,
		Matches:    in.Matches,
	}, nil
}

func validateScores(scores []model.CategoryScore, status model.Status) error {
	want := model.Categories()
	if len(scores) != len(want) {
		return model.Invariantf("report carries %d category scores, want %d", len(scores), len(want))
	}
	for i, cs := range scores {
		if cs.Category != want[i] {
			return model.Invariantf("category scores out of order: position %d is %s, want %s",
				i, cs.Category, want[i])
		}
		if cs.Score < 0 || cs.Score > 1 {
			return model.Invariantf("%s score %v outside [0,1]", cs.Category, cs.Score)
		}
		if cs.Unavailable {
			if status == model.StatusComplete {
				return model.Invariantf("category %s unavailable in a complete report", cs.Category)
			}
			if cs.Score != 0 || cs.Matches != 0 || cs.Representative != nil {
				return model.Invariantf("unavailable category %s carries results", cs.Category)
			}
		}
	}
	return nil
}
