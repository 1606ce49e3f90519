package reactor

import "github.com/kestrel-state/reactor/internal"

// Computed is a memoized, lazily-recomputed pure function of other
// observables.
type Computed[T any] struct {
	core *internal.ComputedValue
}

// ComputedOption configures a Computed at construction time.
type ComputedOption[T any] func(*computedConfig)

type computedConfig struct {
	name              string
	compareStructural bool
}

// WithComputedName sets the debug name shown in Dump.
func WithComputedName[T any](name string) ComputedOption[T] {
	return func(c *computedConfig) { c.name = name }
}

// WithStructuralEquality compares successive values with reflect.DeepEqual
// instead of the default identity comparer, for T that is a slice, map, or
// other value for which == would panic or always report "changed".
func WithStructuralEquality[T any]() ComputedOption[T] {
	return func(c *computedConfig) { c.compareStructural = true }
}

// NewComputed creates a computed value backed by fn.
func NewComputed[T any](fn func() T, opts ...ComputedOption[T]) *Computed[T] {
	cfg := computedConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Computed[T]{
		core: internal.NewComputedValue(cfg.name, func() any { return fn() }, cfg.compareStructural),
	}
}

// Get recomputes if necessary and returns the current value, reporting
// this computed as observed by whatever derivation is tracking. It panics
// with the originally-recovered value if the compute function panicked on
// its last run (mirroring the panic it would have raised inline).
func (c *Computed[T]) Get() T {
	v, err := c.core.Get()
	if err != nil {
		panic(err.(*internal.CaughtException).Cause)
	}
	return as[T](v)
}

// TryGet is Get without the panic: it surfaces a compute-function panic as
// an error instead.
func (c *Computed[T]) TryGet() (T, error) {
	v, err := c.core.Get()
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

// Name returns the debug label.
func (c *Computed[T]) Name() string { return c.core.Name() }
