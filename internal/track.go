package internal

// ReportObserved is the only place a dependency edge is proposed. Called
// by every observable's Get/Read.
func (rt *Runtime) ReportObserved(obs Observable) {
	rt.Lock()
	defer rt.Unlock()
	rt.reportObservedLocked(obs)
}

func (rt *Runtime) reportObservedLocked(obs Observable) {
	oc := obs.observableCore()

	if rt.trackingDerivation != nil {
		dc := rt.trackingDerivation.derivationCore()
		if oc.lastAccessedBy != dc.runID {
			oc.lastAccessedBy = dc.runID
			if dc.unboundDepsCount < len(dc.newObserving) {
				dc.newObserving[dc.unboundDepsCount] = obs
			} else {
				dc.newObserving = append(dc.newObserving, obs)
			}
			dc.unboundDepsCount++
		}
		return
	}

	if len(oc.observers) == 0 {
		rt.queueForUnobservationLocked(obs)
	}
}

// UntrackedStart saves and clears the tracking slot; paired with
// UntrackedEnd. Used anywhere a side effect must not create dependencies:
// interceptor/listener dispatch, and a computed's POSSIBLY_STALE
// confirmation walk.
func (rt *Runtime) UntrackedStart() Derivation {
	prev := rt.trackingDerivation
	rt.trackingDerivation = nil
	return prev
}

func (rt *Runtime) UntrackedEnd(prev Derivation) {
	rt.trackingDerivation = prev
}

// TrackDerivedFunction is the tracking primitive: it runs fn while
// recording every observable it reads, then rebinds the derivation's
// dependency edges to match. fn is expected to read observables (and, for
// a reaction, only incidentally write others); any panic raised inside fn
// is captured into a CaughtException rather than propagating out, and
// dependency bookkeeping still completes.
func (rt *Runtime) TrackDerivedFunction(d Derivation, fn func()) (caught *CaughtException) {
	rt.Lock()
	defer rt.Unlock()

	dc := d.derivationCore()

	// Step 1: force d's state and every currently-observed atom's
	// lowestObserverState to UP_TO_DATE, keeping the upper bound tight
	// going into the run.
	rt.changeDependenciesStateTo0(d)

	// Step 2: allocate scratch space for the new observing set.
	dc.newObserving = make([]Observable, len(dc.observing), len(dc.observing)+100)
	dc.unboundDepsCount = 0
	dc.runID = rt.nextRunID()

	// Step 3: push d onto the tracking slot, saving the previous occupant.
	prev := rt.trackingDerivation
	rt.trackingDerivation = d

	// Step 4: invoke fn, recovering a panic into a CaughtException. The
	// lock stays held across fn: the mutex is goroutine-reentrant, so fn
	// reading or writing other observables on this same goroutine re-enters
	// cleanly; a genuinely concurrent goroutine blocks here until fn
	// returns, which is the coarse-grained serialization this runtime
	// trades for simplicity.
	caught = rt.runCaptured(fn)

	// Step 5: restore the tracking slot.
	rt.trackingDerivation = prev

	// Step 6: diff previous vs new observing sets.
	rt.bindDependencies(d)

	return caught
}

func (rt *Runtime) runCaptured(fn func()) (caught *CaughtException) {
	defer func() {
		if r := recover(); r != nil {
			caught = &CaughtException{Cause: r}
		}
	}()
	fn()
	return nil
}

// bindDependencies implements the three-pass dependency diff: dedup the
// new observing set, drop edges no longer present, then add fresh ones.
func (rt *Runtime) bindDependencies(d Derivation) {
	dc := d.derivationCore()

	newObserving := dc.newObserving[:dc.unboundDepsCount]

	// Pass A: dedup the new set in first-occurrence order, using each
	// observable's diffValue as a per-run "already kept" marker.
	i0 := 0
	for i := 0; i < len(newObserving); i++ {
		obs := newObserving[i]
		oc := obs.observableCore()
		if oc.diffValue == 0 {
			oc.diffValue = 1
			newObserving[i0] = obs
			i0++
		}
	}
	newObserving = newObserving[:i0]

	// Pass B: drop edges present in the previous run but not the new one,
	// back to front (a micro-optimization, not semantic).
	for i := len(dc.observing) - 1; i >= 0; i-- {
		obs := dc.observing[i]
		oc := obs.observableCore()
		if oc.diffValue == 0 {
			rt.removeObserver(obs, d)
		}
		oc.diffValue = 0
	}

	// Pass C: add edges freshly present in the new set, back to front.
	for i := len(newObserving) - 1; i >= 0; i-- {
		obs := newObserving[i]
		oc := obs.observableCore()
		if oc.diffValue == 1 {
			oc.diffValue = 0
			rt.addObserver(obs, d)
		}
	}

	dc.observing = newObserving
	dc.newObserving = nil
}

// addObserver records d as an observer of obs. Index 0 is never stored in
// observersIndex. lowestObserverState is lowered to d's state if d is
// fresher, so the bound still covers every observer.
func (rt *Runtime) addObserver(obs Observable, d Derivation) {
	oc := obs.observableCore()
	oc.observers = append(oc.observers, d)
	if idx := len(oc.observers) - 1; idx > 0 {
		oc.observersIndex[d.ID()] = idx
	}
	if state := d.derivationCore().dependenciesState; state < oc.lowestObserverState {
		oc.lowestObserverState = state
	}
}

// removeObserver drops d from obs's observer set via swap-with-last,
// keeping observers gap-free in O(1).
func (rt *Runtime) removeObserver(obs Observable, d Derivation) {
	oc := obs.observableCore()
	n := len(oc.observers)
	if n == 0 {
		return
	}

	var idx int
	if n == 1 {
		idx = 0
	} else if v, ok := oc.observersIndex[d.ID()]; ok {
		idx = v
	} else {
		// Must be the unindexed occupant of slot 0.
		idx = 0
	}

	last := n - 1
	filler := oc.observers[last]
	oc.observers[idx] = filler
	oc.observers = oc.observers[:last]
	delete(oc.observersIndex, d.ID())

	switch {
	case idx == last:
		// d itself was the tail; nothing to reindex.
	case idx == 0:
		delete(oc.observersIndex, filler.ID())
	default:
		oc.observersIndex[filler.ID()] = idx
	}

	if len(oc.observers) == 0 {
		rt.queueForUnobservationLocked(obs)
	}
}

func (rt *Runtime) queueForUnobservationLocked(obs Observable) {
	oc := obs.observableCore()
	if oc.isPendingUnobservation {
		return
	}
	oc.isPendingUnobservation = true
	rt.pendingUnobservations.enqueue(obs)
}
