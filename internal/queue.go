package internal

import mapset "github.com/deckarep/golang-set/v2"

// reactionQueue is the FIFO pending-reactions queue drained at the close of
// the outermost batch. Order of first enqueue is preserved; a golang-set
// membership set makes the "already queued" check in Reaction.onBecomeStale
// O(1) without disturbing order.
type reactionQueue struct {
	order  []*Reaction
	queued mapset.Set[*Reaction]
}

func newReactionQueue() *reactionQueue {
	return &reactionQueue{queued: mapset.NewThreadUnsafeSet[*Reaction]()}
}

func (q *reactionQueue) enqueue(r *Reaction) {
	if q.queued.Contains(r) {
		return
	}
	q.queued.Add(r)
	q.order = append(q.order, r)
}

func (q *reactionQueue) len() int { return len(q.order) }

// drain returns the currently queued reactions and clears the queue,
// allowing reactions scheduled during execution of this batch to be
// appended fresh and drained in a subsequent outer iteration.
func (q *reactionQueue) drain() []*Reaction {
	batch := q.order
	q.order = nil
	q.queued.Clear()
	return batch
}

// unobservationQueue is the pending-unobservations queue drained at the
// close of the outermost batch. No observable is queued twice per batch:
// each observable's own isPendingUnobservation flag is checked by the
// caller before enqueue; the set here only prevents double-processing if a
// re-entrant drain iteration re-adds the same observable.
type unobservationQueue struct {
	order  []Observable
	queued mapset.Set[Observable]
}

func newUnobservationQueue() *unobservationQueue {
	return &unobservationQueue{queued: mapset.NewThreadUnsafeSet[Observable]()}
}

func (q *unobservationQueue) enqueue(obs Observable) {
	if q.queued.Contains(obs) {
		return
	}
	q.queued.Add(obs)
	q.order = append(q.order, obs)
}

func (q *unobservationQueue) len() int { return len(q.order) }

func (q *unobservationQueue) drain() []Observable {
	batch := q.order
	q.order = nil
	q.queued.Clear()
	return batch
}
