package internal

// Reaction is an always-on observer: a derivation with no observable
// side, kept alive independent of whether anything reads it, rerun
// whenever any of its dependencies might have changed.
type Reaction struct {
	DerivationCore

	effect  func()
	onError func(error)

	disposed    bool
	isScheduled bool
}

// NewReaction constructs a reaction, registers it with the runtime's
// diagnostic registry, then immediately runs it once to establish its
// initial dependency set.
func NewReaction(name string, effect func(), onError func(error)) *Reaction {
	r := &Reaction{
		DerivationCore: NewDerivationCore(name),
		effect:         effect,
		onError:        onError,
	}
	Default().registerReaction(r)
	r.Execute()
	return r
}

func (r *Reaction) derivationCore() *DerivationCore { return &r.DerivationCore }

// onBecomeStale schedules this reaction for the current (or next) batch's
// drain, idempotently — at most one entry per batch.
func (r *Reaction) onBecomeStale() {
	rt := Default()
	rt.Lock()
	if r.disposed || r.isScheduled {
		rt.Unlock()
		return
	}
	r.isScheduled = true
	rt.pendingReactions.enqueue(r)
	rt.Unlock()
}

// Execute runs shouldCompute's decision procedure and, if still necessary,
// reruns the effect under tracking. It opens its own batch so that any
// writes the effect performs are themselves batched and their resulting
// reactions queued rather than run inline, preserving FIFO ordering
// across nested triggers.
func (r *Reaction) Execute() {
	rt := Default()

	rt.Lock()
	if r.disposed {
		rt.Unlock()
		return
	}
	r.isScheduled = false
	rt.Unlock()

	rt.StartBatch()
	defer rt.EndBatch()

	rt.Lock()
	run := rt.ShouldCompute(r)
	rt.Unlock()
	if !run {
		return
	}

	caught := rt.TrackDerivedFunction(r, r.effect)
	if caught != nil {
		rt.Lock()
		handler := r.onError
		rt.Unlock()
		if handler != nil {
			handler(caught)
		} else {
			panic(caught)
		}
	}
}

// Dispose tears down the reaction: clears its observing set (unobserving
// every dependency it holds alone), marks it NOT_TRACKING, and removes it
// from the diagnostic registry. Idempotent.
func (r *Reaction) Dispose() {
	rt := Default()

	rt.Lock()
	if r.disposed {
		rt.Unlock()
		return
	}
	r.disposed = true
	rt.Unlock()

	rt.StartBatch()
	rt.ClearObserving(r)

	rt.Lock()
	r.dependenciesState = NotTracking
	rt.Unlock()
	rt.EndBatch()

	rt.unregisterReaction(r)
}

// Disposed reports whether Dispose has already run.
func (r *Reaction) Disposed() bool {
	rt := Default()
	rt.Lock()
	defer rt.Unlock()
	return r.disposed
}
