package internal

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// StartBatch opens a logical transaction.
func (rt *Runtime) StartBatch() {
	rt.Lock()
	rt.inBatch++
	rt.Unlock()
}

// EndBatch closes a logical transaction. When batch depth returns to zero
// it drains pending reactions, then pending unobservations, exactly once
// per outermost close. A reaction's own effect opens and closes its own
// nested batch (see reaction.go); if that nested EndBatch
// also lands at depth zero while the outermost drain is still in progress,
// isRunningReactions makes it a no-op — the outermost loop below picks up
// whatever got queued on its next outer iteration.
func (rt *Runtime) EndBatch() {
	rt.Lock()
	rt.inBatch--
	depth := rt.inBatch
	if depth != 0 {
		rt.Unlock()
		return
	}
	if rt.isRunningReactions {
		rt.Unlock()
		return
	}
	rt.isRunningReactions = true
	rt.Unlock()

	defer func() {
		rt.Lock()
		rt.isRunningReactions = false
		rt.stats.BatchesClosed++
		rt.Unlock()
	}()

	rt.runReactions()
	rt.drainUnobservations()
}

// runReactions drains pendingReactions FIFO. Reactions queued during the
// drain are appended and drained in the same outer loop, bounded by
// reactionDrainBudget outer iterations before a cyclic-reaction diagnostic
// is raised.
func (rt *Runtime) runReactions() {
	iterations := 0
	for {
		rt.Lock()
		n := rt.pendingReactions.len()
		if n == 0 {
			rt.Unlock()
			return
		}
		iterations++
		if iterations > reactionDrainBudget {
			rt.Unlock()
			panic(&InvariantViolation{Msg: fmt.Sprintf(
				"cyclic reaction detected: reaction queue refilled %s times without draining (budget %d)",
				humanize.Comma(int64(iterations)), reactionDrainBudget,
			)})
		}
		batch := rt.pendingReactions.drain()
		rt.Unlock()

		for _, r := range batch {
			r.Execute()
			rt.Lock()
			rt.stats.ReactionsRun++
			rt.Unlock()
		}
	}
}

// drainUnobservations fires onBecomeUnobserved exactly once on each
// observable whose observer set is still empty.
// onBecomeUnobserved may itself enqueue further observables (a computed
// clearing its own observing set unobserves its dependencies), so the loop
// re-checks until empty or unobservationDrainBudget iterations are spent.
func (rt *Runtime) drainUnobservations() {
	iterations := 0
	for {
		rt.Lock()
		n := rt.pendingUnobservations.len()
		if n == 0 {
			rt.Unlock()
			return
		}
		iterations++
		if iterations > unobservationDrainBudget {
			rt.Unlock()
			panic(&InvariantViolation{Msg: fmt.Sprintf(
				"unobservation drain exceeded budget %d", unobservationDrainBudget,
			)})
		}
		batch := rt.pendingUnobservations.drain()

		var fire []func()
		for _, obs := range batch {
			oc := obs.observableCore()
			oc.isPendingUnobservation = false
			if len(oc.observers) == 0 && oc.onBecomeUnobserved != nil {
				hook := oc.onBecomeUnobserved
				fire = append(fire, hook)
			}
		}
		rt.stats.Unobservations += uint64(len(batch))
		rt.Unlock()

		for _, hook := range fire {
			hook()
		}
	}
}
