// =============================================================================
// Proforma Generator - Validation Errors
// =============================================================================
//
// Validation errors are collected, never thrown: a full pass over the order
// reports every violated rule at once so the user can fix everything in one
// round trip. Messages are user-facing (and therefore in the language of
// the form); the Field and Line members exist for programmatic display.
//
// =============================================================================

package resolver

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/postventa-tools/proforma/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPE
// =============================================================================

// ValidationError is a single violated rule.
type ValidationError struct {
	// Line is the 1-based input line number for line-level errors, nil for
	// envelope-level errors.
	Line *int `json:"line"`

	// Field names the offending field group: "operation", "requester",
	// "destination", "lines", "reference", "quantity", "price".
	Field string `json:"field"`

	// Message is the user-facing description of the violation.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Line != nil {
		return fmt.Sprintf("Línea %d: %s", *e.Line, e.Message)
	}
	return e.Message
}

// envelopeError builds an envelope-level error.
func envelopeError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// lineError builds a line-level error for the given 1-based line number.
func lineError(line int, field, message string) *ValidationError {
	return &ValidationError{Line: &line, Field: field, Message: message}
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result is the outcome of one validation pass over an order.
type Result struct {
	// Submittable is true when every rule passed and at least one line
	// resolved. Only then may the order be handed to the renderer.
	Submittable bool

	// Envelope is the validated envelope with operation id normalized and
	// warehouse / destination details filled in. Meaningful only when
	// Submittable is true.
	Envelope types.OrderEnvelope

	// Lines are the fully resolved lines, in input order.
	Lines []types.ResolvedLine

	// Errors lists every violated rule, envelope errors first, then line
	// errors in line order.
	Errors []*ValidationError

	// Total is the full-precision sum of all resolved line amounts.
	// Two-decimal rounding is applied only where the figure is displayed.
	Total decimal.Decimal
}

// ErrorMessages renders all errors as display strings.
func (r *Result) ErrorMessages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return msgs
}

// LineErrorCount returns the number of line-level errors.
func (r *Result) LineErrorCount() int {
	n := 0
	for _, e := range r.Errors {
		if e.Line != nil {
			n++
		}
	}
	return n
}
