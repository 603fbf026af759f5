package domain

import (
	"fmt"
	"strings"
)

// ReferenceError reports that a condition, consequence, or simulation action
// names an entity not present in the model, or that a contact map could not be
// resolved. A malformed rule is loud rather than silently inert.
type ReferenceError struct {
	Kind  EntityType
	ID    string
	Cause error
}

func (e ReferenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q not found: %v", e.Kind, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Unwrap exposes the underlying resolution failure, if any.
func (e ReferenceError) Unwrap() error {
	return e.Cause
}

// ConditionError reports a malformed predicate or consequence shape that
// should have been rejected upstream but is re-checked defensively.
type ConditionError struct {
	Reason string
}

func (e ConditionError) Error() string {
	return "invalid condition: " + e.Reason
}

// ConvergenceError reports that a rule set failed to reach a fixed point
// within the iteration bound. Pending lists the facts still changing in the
// final pass.
type ConvergenceError struct {
	Passes  int
	Pending []string
}

func (e ConvergenceError) Error() string {
	return fmt.Sprintf("rules did not converge after %d passes; still changing: %s",
		e.Passes, strings.Join(e.Pending, ", "))
}
