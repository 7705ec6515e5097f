package model

// Status describes how an analysis run ended.
type Status string

const (
	// StatusComplete means every enabled detector ran to completion.
	StatusComplete Status = "complete"
	// StatusDegraded means at least one detector faulted; its category
	// is marked unavailable and the rest of the report is valid.
	StatusDegraded Status = "degraded"
	// StatusDeadlineExceeded means the run deadline expired; categories
	// whose detectors never started are marked unavailable.
	StatusDeadlineExceeded Status = "deadline_exceeded"
	// StatusCancelled means the run was cancelled; partial results were
	// discarded and the report carries no scores.
	StatusCancelled Status = "cancelled"
)

// Report is the immutable output of one analysis run. Category scores
// follow the canonical order from Categories(); Matches holds every
// retained match after deduplication, ordered by category then offset.
// Reports carry no wall-clock timestamp: identical input under
// identical settings renders to identical bytes, and the run time
// belongs to the logs.
type Report struct {
	DocumentID string          `json:"document_id"`
	Source     string          `json:"source,omitempty"`
	Status     Status          `json:"status"`
	Sentences  int             `json:"sentences"`
	Tokens     int             `json:"tokens"`
	Categories []CategoryScore `json:"categories"`
	Overall    float64         `json:"overall"` // [0, 1], weighted average of category scores
	Matches    []Match         `json:"matches"`

	LLM *Summary `json:"llm,omitempty"` // Optional narrative; never affects scores
}

// Degraded reports whether any category is marked unavailable.
func (r *Report) Degraded() bool {
	for i := range r.Categories {
		if r.Categories[i].Unavailable {
			return true
		}
	}
	return false
}

// CategoryScoreFor returns the score entry for c, or nil.
func (r *Report) CategoryScoreFor(c Category) *CategoryScore {
	for i := range r.Categories {
		if r.Categories[i].Category == c {
			return &r.Categories[i]
		}
	}
	return nil
}

// Summary is an optional LLM-generated narrative of the report.
// It is produced after scoring and never feeds back into it.
type Summary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
