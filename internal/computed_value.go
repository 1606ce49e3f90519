package internal

import "reflect"

// ComputedValue is both a Derivation and an Observable: a memoized,
// lazily-recomputed pure function of other observables.
type ComputedValue struct {
	ObservableCore
	DerivationCore

	compute func() any
	value   any
	// exception holds a CaughtException captured from the last run, if the
	// compute function panicked; re-raised on Get until a recompute
	// succeeds.
	exception *CaughtException

	equals Equals
}

// NewComputedValue creates a computed value. compareStructural selects
// reflect.DeepEqual over the default identity comparer.
func NewComputedValue(name string, compute func() any, compareStructural bool) *ComputedValue {
	equals := defaultEquals
	if compareStructural {
		equals = reflect.DeepEqual
	}
	c := &ComputedValue{
		ObservableCore: NewObservableCore(name),
		DerivationCore: NewDerivationCore(name),
		compute:        compute,
		equals:         equals,
	}
	c.onBecomeUnobserved = c.handleBecomeUnobserved
	return c
}

func (c *ComputedValue) observableCore() *ObservableCore  { return &c.ObservableCore }
func (c *ComputedValue) derivationCore() *DerivationCore { return &c.DerivationCore }

// ID/Name are ambiguous between the embedded cores (both embed the same
// method names); resolve explicitly to the observable side, which shares
// the same id/name value as the derivation side (both cores are
// constructed from the same name in NewComputedValue).
func (c *ComputedValue) ID() NodeID   { return c.ObservableCore.id }
func (c *ComputedValue) Name() string { return c.ObservableCore.name }

func (c *ComputedValue) onBecomeStale() {
	Default().propagateMaybeChanged(c)
}

// handleBecomeUnobserved clears the observing set, falls back to
// NOT_TRACKING, and discards the cached value so the next Get retracks
// from scratch.
func (c *ComputedValue) handleBecomeUnobserved() {
	rt := Default()
	rt.Lock()
	defer rt.Unlock()

	rt.clearObserving(c)
	c.dependenciesState = NotTracking
	c.value = nil
	c.exception = nil
}

// Get returns the memoized value, recomputing first if necessary, and
// reports this computed as observed by whatever derivation is tracking.
func (c *ComputedValue) Get() (any, error) {
	rt := Default()
	rt.Lock()
	defer rt.Unlock()

	rt.reportObservedLocked(c)
	c.get()

	if c.exception != nil {
		return nil, c.exception
	}
	return c.value, nil
}

// get performs the recompute-or-reuse decision without reporting observed;
// used both by the public Get and by shouldCompute's confirmation walk,
// which must not create a new dependency edge on the confirming
// derivation (the untracked scope already prevents that, but reusing this
// entrypoint keeps the decision logic in one place).
func (c *ComputedValue) get() {
	rt := Default()

	if !rt.ShouldCompute(c) && c.dependenciesState == UpToDate {
		return
	}

	hadException := c.exception != nil
	oldValue := c.value

	var newValue any
	caught := rt.TrackDerivedFunction(c, func() {
		newValue = c.compute()
	})

	if caught != nil {
		c.exception = caught
		c.value = nil
		// An exception is treated as a change: downstream derivations must
		// re-check, since they cannot assume the prior cached value still
		// holds. The dependency set is still recorded even though the
		// getter threw.
		rt.propagateChangeConfirmed(c)
		return
	}

	c.exception = nil
	if !hadException && c.equals(oldValue, newValue) {
		c.value = newValue
		return
	}

	c.value = newValue
	rt.propagateChangeConfirmed(c)
}
