// =============================================================================
// Proforma Generator - Editing Session State Machine
// =============================================================================
//
// One Session tracks a single editing session of an order:
//
//   Editing -> Validating -> Submittable
//                         -> (Rejected) -> Editing
//
// Validation runs only on an explicit submission, never per keystroke, and
// is fully synchronous: the session leaves Validating before Submit
// returns. A rejected submission reports its collected errors and drops the
// session back to Editing. A submittable result is consumed exactly once by
// the renderer via Take.
//
// Sessions hold no shared mutable state: the reference data snapshots are
// read-only for the whole pass and the resolver itself is pure, so the same
// order submitted twice yields the same result.
//
// =============================================================================

package resolver

import (
	"errors"

	"github.com/postventa-tools/proforma/internal/types"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateEditing     State = "editing"
	StateValidating  State = "validating"
	StateSubmittable State = "submittable"
)

// ErrNotSubmittable is returned by Take when there is no validated, as yet
// unconsumed result to hand over.
var ErrNotSubmittable = errors.New("session has no submittable result")

// =============================================================================
// PURE VALIDATION PASS
// =============================================================================

// ValidateOrder runs one full validation pass over an order: envelope
// checks plus line resolution, all errors collected.
//
// The order is submittable only when the envelope is clean, no line failed,
// and at least one line actually resolved.
func ValidateOrder(order types.Order, catalog CatalogLookup, warehouses WarehouseLookup, destinations DestinationLookup, policy Policy) *Result {
	env, errs := ValidateEnvelope(order.Envelope, warehouses, destinations)

	var lines []types.ResolvedLine
	if len(order.Lines) == 0 || AllBlank(order.Lines) {
		errs = append(errs, envelopeError("lines",
			"Debes introducir al menos una referencia."))
	} else {
		var lineErrs []*ValidationError
		lines, lineErrs = ResolveLines(order.Lines, catalog, policy)
		errs = append(errs, lineErrs...)
	}

	return &Result{
		Submittable: len(errs) == 0 && len(lines) > 0,
		Envelope:    env,
		Lines:       lines,
		Errors:      errs,
		Total:       Total(lines),
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session is a single order editing session bound to one set of reference
// data snapshots.
type Session struct {
	catalog      CatalogLookup
	warehouses   WarehouseLookup
	destinations DestinationLookup
	policy       Policy

	state  State
	result *Result
}

// NewSession creates a Session in the Editing state.
func NewSession(catalog CatalogLookup, warehouses WarehouseLookup, destinations DestinationLookup, policy Policy) *Session {
	return &Session{
		catalog:      catalog,
		warehouses:   warehouses,
		destinations: destinations,
		policy:       policy,
		state:        StateEditing,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Submit validates the order. On success the session becomes Submittable
// and holds the result until Take consumes it; on rejection the session
// returns to Editing and the result carries the collected errors.
//
// Submitting again replaces any previous, unconsumed result.
func (s *Session) Submit(order types.Order) *Result {
	s.state = StateValidating

	result := ValidateOrder(order, s.catalog, s.warehouses, s.destinations, s.policy)
	if result.Submittable {
		s.state = StateSubmittable
		s.result = result
	} else {
		s.state = StateEditing
		s.result = nil
	}

	return result
}

// Take hands the submittable result to the renderer. It can succeed exactly
// once per successful Submit; afterwards the session is back in Editing.
func (s *Session) Take() (*Result, error) {
	if s.state != StateSubmittable || s.result == nil {
		return nil, ErrNotSubmittable
	}

	result := s.result
	s.result = nil
	s.state = StateEditing
	return result, nil
}
