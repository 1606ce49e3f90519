// Package reactor implements a transparent functional-reactive state
// engine: observable values and computed values track each other's reads
// automatically, and reactions rerun exactly when something they read
// actually changed.
//
//	count := reactor.NewAtom(0)
//	doubled := reactor.NewComputed(func() int { return count.Get() * 2 })
//	reactor.NewReaction(func() { fmt.Println(doubled.Get()) })
//	count.Set(21)
//
// The dependency graph, staleness propagation, and batching machinery live
// in the internal package; this package is a thin generic façade over it.
package reactor
