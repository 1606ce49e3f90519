package internal

// Change describes a single mutation to an ObservableValue, passed through
// the interceptor chain (pre-mutation) and the listener chain
// (post-mutation).
type Change struct {
	Type     string
	OldValue any
	NewValue any
}

// Interceptor inspects or rewrites a pending Change. Returning ok=false
// cancels the write silently; returning ok=true passes the (possibly
// rewritten) Change to the next interceptor in the chain.
type Interceptor func(Change) (Change, bool)

// Listener is notified, in registration order and under an untracked scope,
// after a committed mutation.
type Listener func(Change)

// Enhancer transforms a proposed new value before the equality check.
// Returning internal.Unchanged short-circuits the write as if the value
// had compared equal.
type Enhancer func(newValue, oldValue any) any

// Equals decides whether two values are the same for the purposes of the
// write short-circuit.
type Equals func(a, b any) bool

// ObservableValue is a single-cell observable: an atom with interceptors,
// change listeners, an enhancer hook, and a value-equality short-circuit.
type ObservableValue struct {
	ObservableCore

	value    any
	enhancer Enhancer
	equals   Equals

	interceptors []Interceptor
	listeners    []Listener
}

func NewObservableValue(name string, initial any, enhancer Enhancer, equals Equals) *ObservableValue {
	if equals == nil {
		equals = defaultEquals
	}
	return &ObservableValue{
		ObservableCore: NewObservableCore(name),
		value:          initial,
		enhancer:       enhancer,
		equals:         equals,
	}
}

func (o *ObservableValue) observableCore() *ObservableCore { return &o.ObservableCore }

func (o *ObservableValue) Intercept(fn Interceptor) { o.interceptors = append(o.interceptors, fn) }
func (o *ObservableValue) Observe(fn Listener)      { o.listeners = append(o.listeners, fn) }

// Get reports this atom as observed by the current tracking derivation, if
// any, and returns the current value.
func (o *ObservableValue) Get() any {
	rt := Default()
	rt.ReportObserved(o)
	rt.Lock()
	defer rt.Unlock()
	return o.value
}

// Peek reads the current value without reporting it as observed; exported
// so callers can build their own untracked reads without going through
// Untrack.
func (o *ObservableValue) Peek() any {
	rt := Default()
	rt.Lock()
	defer rt.Unlock()
	return o.value
}

// Set applies the five-step write algorithm: run interceptors, apply the
// enhancer, short-circuit on equality, commit and propagate the change,
// then notify listeners.
func (o *ObservableValue) Set(newValue any) error {
	rt := Default()

	if err := rt.CheckStateModificationsAllowed(); err != nil {
		return err
	}

	rt.StartBatch()
	defer rt.EndBatch()

	rt.Lock()
	defer rt.Unlock()

	change := Change{Type: "update", OldValue: o.value, NewValue: newValue}

	if len(o.interceptors) > 0 {
		prevTracking := rt.UntrackedStart()
		ok := true
		for _, icpt := range o.interceptors {
			change, ok = icpt(change)
			if !ok {
				break
			}
			if change.Type == "" {
				rt.UntrackedEnd(prevTracking)
				return &InvariantViolation{Msg: "interceptor returned a truthy change missing a Type"}
			}
		}
		rt.UntrackedEnd(prevTracking)
		if !ok {
			return nil
		}
	}

	applied := change.NewValue
	if o.enhancer != nil {
		applied = o.enhancer(applied, o.value)
	}
	if isUnchangedSentinel(applied) {
		return nil
	}
	if o.equals(o.value, applied) {
		return nil
	}

	old := o.value
	o.value = applied

	rt.propagateChanged(o)

	if len(o.listeners) > 0 {
		prevTracking := rt.UntrackedStart()
		finalChange := Change{Type: "update", OldValue: old, NewValue: applied}
		for _, l := range o.listeners {
			l(finalChange)
		}
		rt.UntrackedEnd(prevTracking)
	}

	return nil
}

func defaultEquals(a, b any) bool {
	defer func() { recover() }() //nolint:errcheck // non-comparable T: treat as always-changed
	return a == b
}
