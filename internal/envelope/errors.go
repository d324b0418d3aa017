package envelope

import "fmt"

// ValidationError reports an envelope (or request) field that is missing,
// out of bounds, or outside its allowed enum set. It is the typed failure
// of the fast validation layer; callers convert it into an error envelope
// rather than letting it cross the core boundary.
type ValidationError struct {
	Field  string // dotted path, e.g. "metadata.confidence"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// NextSteps describes how the caller can recover.
func (e *ValidationError) NextSteps() []string {
	return []string{fmt.Sprintf("Fix %s: %s", e.Field, e.Reason)}
}
