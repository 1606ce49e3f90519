package reactor

import "github.com/kestrel-state/reactor/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Atom is a single-cell observable value of type T.
type Atom[T any] struct {
	core *internal.ObservableValue
}

// AtomOption configures an Atom at construction time.
type AtomOption[T any] func(*atomConfig[T])

type atomConfig[T any] struct {
	name     string
	enhancer func(newValue, oldValue T) (T, bool)
	equals   func(a, b T) bool
}

// WithAtomName sets the debug name shown in Dump.
func WithAtomName[T any](name string) AtomOption[T] {
	return func(c *atomConfig[T]) { c.name = name }
}

// WithEnhancer installs a transform applied to every proposed new value
// before the equality check. Returning ok=false cancels the write as if
// the proposed value had compared equal to the current one.
func WithEnhancer[T any](fn func(newValue, oldValue T) (T, bool)) AtomOption[T] {
	return func(c *atomConfig[T]) { c.enhancer = fn }
}

// WithEquals overrides the default write short-circuit comparison.
func WithEquals[T any](fn func(a, b T) bool) AtomOption[T] {
	return func(c *atomConfig[T]) { c.equals = fn }
}

// NewAtom creates an observable value seeded with initial.
func NewAtom[T any](initial T, opts ...AtomOption[T]) *Atom[T] {
	cfg := atomConfig[T]{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var enhancer internal.Enhancer
	if cfg.enhancer != nil {
		fn := cfg.enhancer
		enhancer = func(newValue, oldValue any) any {
			out, ok := fn(as[T](newValue), as[T](oldValue))
			if !ok {
				return internal.Unchanged
			}
			return out
		}
	}

	var equals internal.Equals
	if cfg.equals != nil {
		fn := cfg.equals
		equals = func(a, b any) bool { return fn(as[T](a), as[T](b)) }
	}

	return &Atom[T]{
		core: internal.NewObservableValue(cfg.name, initial, enhancer, equals),
	}
}

// Get reports this atom as observed by the current tracking derivation, if
// any, and returns its current value.
func (a *Atom[T]) Get() T { return as[T](a.core.Get()) }

// Peek returns the current value without creating a dependency edge.
func (a *Atom[T]) Peek() T { return as[T](a.core.Peek()) }

// Set writes a new value, triggering propagation to any dependents whose
// value actually changed.
func (a *Atom[T]) Set(v T) error { return a.core.Set(v) }

// Name returns the debug label.
func (a *Atom[T]) Name() string { return a.core.Name() }

// Intercept registers a hook invoked, in registration order, before a
// write is committed; returning ok=false cancels the write.
func (a *Atom[T]) Intercept(fn func(oldValue, proposed T) (T, bool)) {
	a.core.Intercept(func(c internal.Change) (internal.Change, bool) {
		newValue, ok := fn(as[T](c.OldValue), as[T](c.NewValue))
		c.NewValue = newValue
		return c, ok
	})
}

// Observe registers a listener invoked, in registration order, after a
// write is committed.
func (a *Atom[T]) Observe(fn func(oldValue, newValue T)) {
	a.core.Observe(func(c internal.Change) { fn(as[T](c.OldValue), as[T](c.NewValue)) })
}
