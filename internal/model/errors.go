package model

import "fmt"

// ResourceLoadError reports a missing or malformed lexicon or
// configuration resource. It is fatal to engine startup.
type ResourceLoadError struct {
	Resource string
	Err      error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("resource %s: %v", e.Resource, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// DetectorFault records an isolated detector failure. It degrades one
// category and never aborts the run.
type DetectorFault struct {
	Detector string
	Category Category
	Err      error
}

func (e *DetectorFault) Error() string {
	return fmt.Sprintf("detector %s (%s): %v", e.Detector, e.Category, e.Err)
}

func (e *DetectorFault) Unwrap() error {
	return e.Err
}

// InvariantViolation reports an internal consistency break. It always
// indicates a defect in an upstream component and is never recovered
// silently.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}

// Invariantf builds an InvariantViolation with a formatted message.
func Invariantf(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}
