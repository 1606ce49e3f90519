package internal

// PropagateChanged handles an atom that just changed: every observer is
// marked Stale and, if it was previously UpToDate, scheduled.
func (rt *Runtime) PropagateChanged(obs Observable) {
	rt.Lock()
	defer rt.Unlock()
	rt.propagateChanged(obs)
}

func (rt *Runtime) propagateChanged(obs Observable) {
	oc := obs.observableCore()
	if oc.lowestObserverState == Stale {
		return
	}
	oc.lowestObserverState = Stale

	for _, d := range oc.observers {
		dc := d.derivationCore()
		if dc.dependenciesState == UpToDate {
			d.onBecomeStale()
		}
		dc.dependenciesState = Stale
	}
}

// PropagateChangeConfirmed handles a computed that has just confirmed its
// value actually changed.
func (rt *Runtime) PropagateChangeConfirmed(obs Observable) {
	rt.Lock()
	defer rt.Unlock()
	rt.propagateChangeConfirmed(obs)
}

func (rt *Runtime) propagateChangeConfirmed(obs Observable) {
	oc := obs.observableCore()
	if oc.lowestObserverState == Stale {
		return
	}
	oc.lowestObserverState = Stale

	for _, d := range oc.observers {
		dc := d.derivationCore()
		switch dc.dependenciesState {
		case PossiblyStale:
			dc.dependenciesState = Stale
		case UpToDate:
			// This observer is itself currently tracking this
			// confirmation (mid-recompute, reading obs again) — it will
			// see a consistent value, so the upper bound must not lock at
			// STALE.
			oc.lowestObserverState = UpToDate
		}
	}
}

// PropagateMaybeChanged handles a computed that may have changed,
// downgrading UP_TO_DATE observers to POSSIBLY_STALE.
func (rt *Runtime) PropagateMaybeChanged(obs Observable) {
	rt.Lock()
	defer rt.Unlock()
	rt.propagateMaybeChanged(obs)
}

func (rt *Runtime) propagateMaybeChanged(obs Observable) {
	oc := obs.observableCore()
	if oc.lowestObserverState != UpToDate {
		return
	}
	oc.lowestObserverState = PossiblyStale

	for _, d := range oc.observers {
		dc := d.derivationCore()
		if dc.dependenciesState == UpToDate {
			dc.dependenciesState = PossiblyStale
			d.onBecomeStale()
		}
	}
}

// changeDependenciesStateTo0 forces a derivation and every observable it
// currently observes to UP_TO_DATE. Used at the start of a tracked run and
// at the end of a confirmed-unchanged POSSIBLY_STALE walk.
func (rt *Runtime) changeDependenciesStateTo0(d Derivation) {
	dc := d.derivationCore()
	if dc.dependenciesState == UpToDate {
		return
	}
	dc.dependenciesState = UpToDate
	for _, obs := range dc.observing {
		obs.observableCore().lowestObserverState = UpToDate
	}
}

// ClearObserving removes a derivation from every observable it currently
// depends on, triggering onBecomeUnobserved on any that lose their last
// observer.
func (rt *Runtime) ClearObserving(d Derivation) {
	rt.Lock()
	defer rt.Unlock()
	rt.clearObserving(d)
}

func (rt *Runtime) clearObserving(d Derivation) {
	dc := d.derivationCore()
	for _, obs := range dc.observing {
		rt.removeObserver(obs, d)
	}
	dc.observing = nil
}

// ShouldCompute decides whether a derivation must recompute before use. It
// is generic over any Derivation: both ComputedValue and Reaction share
// this exact decision procedure. For a POSSIBLY_STALE derivation, each
// computed dependency is confirmed in read-order by forcing its own Get
// under an untracked scope; the first confirmation that flips this
// derivation to STALE (via propagateChangeConfirmed, triggered from inside
// that Get) stops the walk.
func (rt *Runtime) ShouldCompute(d Derivation) bool {
	dc := d.derivationCore()

	switch dc.dependenciesState {
	case UpToDate:
		return false
	case NotTracking, Stale:
		return true
	case PossiblyStale:
		prev := rt.UntrackedStart()
		defer rt.UntrackedEnd(prev)

		for _, obs := range dc.observing {
			if cv, ok := obs.(*ComputedValue); ok {
				cv.get()
				if dc.dependenciesState == Stale {
					return true
				}
			}
		}
		rt.changeDependenciesStateTo0(d)
		return false
	default:
		return true
	}
}
