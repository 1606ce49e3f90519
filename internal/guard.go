package internal

import "fmt"

// CaughtException wraps a user-function panic captured during
// trackDerivedFunction, stored in place of a computed's value (re-raised
// on Get) or surfaced through a reaction's error handler, never allowed to
// unwind past the tracking call itself.
type CaughtException struct {
	Cause any
}

func (e *CaughtException) Error() string {
	return fmt.Sprintf("reactor: derivation panicked: %v", e.Cause)
}

// InvariantViolation is the fatal error category: mutation while tracking,
// a malformed interceptor return, or a cyclic-reaction budget overrun. The
// enclosing call is always aborted; the graph is left consistent because
// the violation is detected before any mutation.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "reactor: " + e.Msg }

// unchangedType is a distinguished, comparable, named type rather than a
// magic object, returned by an enhancer to signal "no change" without
// exposing the prior value.
type unchangedType struct{}

// Unchanged is the package-wide UNCHANGED sentinel value.
var Unchanged = unchangedType{}

func isUnchangedSentinel(v any) bool {
	_, ok := v.(unchangedType)
	return ok
}

// CheckStateModificationsAllowed reports whether an observable may be
// mutated right now. State mutation is forbidden while a ComputedValue is
// tracking (it must stay a pure function of its dependencies); a
// Reaction's effect body is exempt, since reactions are the sanctioned
// place for side effects. In strict mode, every mutation additionally
// requires an explicit open batch.
func (rt *Runtime) CheckStateModificationsAllowed() error {
	rt.Lock()
	defer rt.Unlock()

	if rt.trackingDerivation != nil {
		if _, isComputed := rt.trackingDerivation.(*ComputedValue); isComputed {
			return &InvariantViolation{Msg: "cannot modify observable state while a computed value is being evaluated"}
		}
	}
	if rt.strictMode && rt.inBatch == 0 {
		return &InvariantViolation{Msg: "state mutation outside an explicit batch while in strict mode"}
	}
	if !rt.allowStateChanges {
		return &InvariantViolation{Msg: "state mutation disallowed in the current context"}
	}
	return nil
}
