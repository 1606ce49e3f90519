package internal

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// reactionDrainBudget bounds the outer loop of runReactions: the
	// number of times the pending-reactions queue may be refilled by
	// reactions scheduled during the drain of a previous refill, before a
	// cyclic-reaction diagnostic is raised.
	reactionDrainBudget = 100
	// unobservationDrainBudget is the analogous bound for the
	// unobservation re-check loop.
	unobservationDrainBudget = 100
)

// Runtime is a singleton holding every piece of process-wide ambient state
// the algorithm needs. It is guarded by a goroutine-reentrant lock (see
// lock.go) rather than partitioned per goroutine: a per-goroutine
// partition would let two goroutines silently run two independent graphs
// instead of serializing access to one, breaking the atomicity a batch is
// supposed to guarantee.
type Runtime struct {
	lock reentrantMutex

	trackingDerivation Derivation

	runIDCounter uint64

	inBatch int

	pendingReactions      *reactionQueue
	pendingUnobservations *unobservationQueue

	allowStateChanges bool
	strictMode        bool
	isRunningReactions bool

	// reactions is a diagnostic registry of every live reaction, keyed by
	// ID, used only by the debug graph dump — never consulted by the
	// algorithm itself.
	reactions *xsync.MapOf[NodeID, *Reaction]

	// stats accumulates ambient counters surfaced by the debug dump.
	stats RuntimeStats
}

// RuntimeStats are diagnostic counters, never read by the algorithm.
type RuntimeStats struct {
	BatchesClosed    uint64
	ReactionsRun     uint64
	RecomputesRun    uint64
	Unobservations   uint64
}

var global = newRuntime()

func newRuntime() *Runtime {
	return &Runtime{
		pendingReactions:      newReactionQueue(),
		pendingUnobservations: newUnobservationQueue(),
		allowStateChanges:     true,
		reactions:             xsync.NewMapOf[NodeID, *Reaction](),
	}
}

// Default returns the process-wide runtime singleton.
func Default() *Runtime { return global }

func (rt *Runtime) Lock()   { rt.lock.Lock() }
func (rt *Runtime) Unlock() { rt.lock.Unlock() }

// SetStrictMode toggles the strict-mode extension of
// CheckStateModificationsAllowed: once enabled, every mutation must occur
// inside an explicit batch.
func (rt *Runtime) SetStrictMode(enabled bool) {
	rt.Lock()
	defer rt.Unlock()
	rt.strictMode = enabled
}

// InBatch reports whether a batch is currently open.
func (rt *Runtime) InBatch() bool { return rt.inBatch > 0 }

func (rt *Runtime) nextRunID() uint64 {
	return atomic.AddUint64(&rt.runIDCounter, 1)
}

func (rt *Runtime) registerReaction(r *Reaction)   { rt.reactions.Store(r.ID(), r) }
func (rt *Runtime) unregisterReaction(r *Reaction) { rt.reactions.Delete(r.ID()) }
