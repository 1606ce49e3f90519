// Package internal implements the dependency-tracking graph: the bipartite
// relationship between observables and derivations, the three-pass
// dependency diff, and the staleness propagation algorithm.
package internal

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// DependencyState is the four-valued freshness enumeration. Lower is fresher.
type DependencyState int

const (
	NotTracking   DependencyState = -1
	UpToDate      DependencyState = 0
	PossiblyStale DependencyState = 1
	Stale         DependencyState = 2
)

func (s DependencyState) String() string {
	switch s {
	case NotTracking:
		return "NOT_TRACKING"
	case UpToDate:
		return "UP_TO_DATE"
	case PossiblyStale:
		return "POSSIBLY_STALE"
	case Stale:
		return "STALE"
	default:
		return "UNKNOWN"
	}
}

var nextNodeID uint64

// NodeID is the stable identifier used as the key of an observable's
// observersIndex map. It has no bearing on dependency-tracking identity
// beyond equality.
type NodeID uint64

func newNodeID() NodeID {
	return NodeID(atomic.AddUint64(&nextNodeID, 1))
}

func defaultName(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// Observable is any node that can be depended on: an atom, an observable
// value, or a computed value viewed from its observable side.
type Observable interface {
	observableCore() *ObservableCore
	// ID returns the stable identifier used for observer-index bookkeeping.
	ID() NodeID
	// Name returns the human-readable debug label.
	Name() string
}

// Derivation is any node that depends on observables: a computed value or a
// reaction.
type Derivation interface {
	derivationCore() *DerivationCore
	ID() NodeID
	Name() string
	// onBecomeStale is invoked by propagation when this derivation's belief
	// about its freshness must be downgraded.
	onBecomeStale()
}

// ObservableCore holds the bookkeeping every observable node needs: its
// observer set and the freshness bound that set implies. It is meant to be
// embedded.
type ObservableCore struct {
	id   NodeID
	name string

	// observers is the ordered sequence of derivations depending on this
	// node. Index 0 is never recorded in observersIndex (an optimization).
	observers []Derivation
	// observersIndex maps a derivation's ID to its index in observers,
	// skipping index 0.
	observersIndex map[NodeID]int

	// lowestObserverState is the minimum dependenciesState observed across
	// all observers; an upper bound used to skip redundant propagation.
	lowestObserverState DependencyState

	// lastAccessedBy is the runID of the derivation that most recently
	// reported observing this node during its current run; dedupes reads
	// within a run.
	lastAccessedBy uint64

	// diffValue is scratch state exclusively owned by whichever derivation
	// is currently in bindDependencies against this observable.
	diffValue int

	isPendingUnobservation bool

	// onBecomeUnobserved fires once, when the last observer leaves and a
	// batch is closing. nil for plain atoms that don't need the hook.
	onBecomeUnobserved func()
}

func NewObservableCore(name string) ObservableCore {
	if name == "" {
		name = defaultName("observable")
	}
	return ObservableCore{
		id:                  newNodeID(),
		name:                name,
		observersIndex:      make(map[NodeID]int),
		lowestObserverState: UpToDate,
	}
}

func (c *ObservableCore) ID() NodeID   { return c.id }
func (c *ObservableCore) Name() string { return c.name }

// Observers exposes the current observer sequence; callers must not mutate
// the returned slice.
func (c *ObservableCore) Observers() []Derivation { return c.observers }

// LowestObserverState exposes the freshness upper bound for diagnostics.
func (c *ObservableCore) LowestObserverState() DependencyState { return c.lowestObserverState }

// DerivationCore holds the bookkeeping every derivation node needs: the
// observable set it read last run and its current freshness. It is meant
// to be embedded.
type DerivationCore struct {
	id   NodeID
	name string

	// observing is the unique, ordered set of observables read during the
	// most recent completed run.
	observing []Observable
	// newObserving is scratch space used during a run; it is allocated
	// fresh at the start of each run with len(observing) empty slots, so
	// entries past unboundDepsCount are nil.
	newObserving []Observable
	// unboundDepsCount is the number of live entries written into
	// newObserving so far during the current run.
	unboundDepsCount int

	dependenciesState DependencyState
	// runID is assigned fresh each time this derivation starts tracking.
	runID uint64
}

func NewDerivationCore(name string) DerivationCore {
	if name == "" {
		name = defaultName("derivation")
	}
	return DerivationCore{
		id:                newNodeID(),
		name:              name,
		dependenciesState: NotTracking,
	}
}

func (c *DerivationCore) ID() NodeID                         { return c.id }
func (c *DerivationCore) Name() string                       { return c.name }
func (c *DerivationCore) DependenciesState() DependencyState { return c.dependenciesState }
func (c *DerivationCore) Observing() []Observable            { return c.observing }
