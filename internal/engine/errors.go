package engine

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports invalid input detected before any store call.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DeniedError carries an eligibility denial up to the caller. It is an
// expected outcome, not a failure of the system.
type DeniedError struct {
	EvaluateeID string
	Reason      DenyReason
}

func (e *DeniedError) Error() string {
	if e.EvaluateeID == "" {
		return fmt.Sprintf("evaluation denied: %s", e.Reason)
	}
	return fmt.Sprintf("evaluation of %s denied: %s", e.EvaluateeID, e.Reason)
}

// StepError reports the failing step of an ordered task list. Steps before
// Step completed and stay committed.
type StepError struct {
	Step     int
	Total    int
	Op       string
	EntityID string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d/%d %s %s: %v", e.Step, e.Total, e.Op, e.EntityID, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
