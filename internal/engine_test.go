package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertBidirectional checks that d is in obs.observers iff obs is in
// d.observing.
func assertBidirectional(t *testing.T, obs Observable, d Derivation) {
	t.Helper()
	oc := obs.observableCore()
	dc := d.derivationCore()

	inObservers := false
	for _, o := range oc.observers {
		if o.ID() == d.ID() {
			inObservers = true
			break
		}
	}
	inObserving := false
	for _, o := range dc.observing {
		if o.ID() == obs.ID() {
			inObserving = true
			break
		}
	}
	assert.Equal(t, inObservers, inObserving, "bidirectional consistency violated")
}

func TestInvariants(t *testing.T) {
	t.Run("observer edges are bidirectional and duplicate-free", func(t *testing.T) {
		a := NewObservableValue("a", 1, nil, nil)
		r := NewReaction("r", func() {
			rt := Default()
			rt.ReportObserved(a)
			rt.ReportObserved(a) // read twice in one run: must dedup
		}, nil)
		defer r.Dispose()

		assertBidirectional(t, a, r)
		assert.Len(t, a.observers, 1, "duplicate read did not dedup")
		assert.Len(t, r.observing, 1, "duplicate read did not dedup")
	})

	t.Run("index 0 is never stored in observersIndex", func(t *testing.T) {
		a := NewObservableValue("a", 1, nil, nil)
		r1 := NewReaction("r1", func() { Default().ReportObserved(a) }, nil)
		r2 := NewReaction("r2", func() { Default().ReportObserved(a) }, nil)
		defer r1.Dispose()
		defer r2.Dispose()

		assert.Len(t, a.observers, 2)
		_, firstIndexed := a.observersIndex[r1.ID()]
		assert.False(t, firstIndexed, "slot 0's occupant must not be indexed")
		idx, secondIndexed := a.observersIndex[r2.ID()]
		assert.True(t, secondIndexed)
		assert.Equal(t, 1, idx)
	})

	t.Run("disposal leaves a reaction NOT_TRACKING with an empty observing set", func(t *testing.T) {
		a := NewObservableValue("a", 1, nil, nil)
		r := NewReaction("r", func() { Default().ReportObserved(a) }, nil)

		r.Dispose()
		assert.Equal(t, NotTracking, r.dependenciesState)
		assert.Empty(t, r.observing)
	})

	t.Run("diffValue returns to zero once rebinding completes", func(t *testing.T) {
		a := NewObservableValue("a", 1, nil, nil)
		b := NewObservableValue("b", 2, nil, nil)
		rt := Default()

		r := NewReaction("r", func() {
			rt.ReportObserved(a)
			rt.ReportObserved(b)
		}, nil)
		defer r.Dispose()

		assert.Equal(t, 0, a.diffValue)
		assert.Equal(t, 0, b.diffValue)
	})

	t.Run("batch depth never goes negative and reactions run only at depth 1->0", func(t *testing.T) {
		rt := Default()
		runs := 0
		a := NewObservableValue("a", 0, nil, nil)
		r := NewReaction("r", func() {
			runs++
			rt.ReportObserved(a)
		}, nil)
		defer r.Dispose()

		rt.StartBatch()
		rt.StartBatch()
		assert.True(t, rt.InBatch())
		assert.NoError(t, a.Set(1))
		rt.EndBatch()
		assert.True(t, rt.InBatch(), "closing an inner batch must not flush")
		assert.Equal(t, 1, runs, "closing an inner batch must not flush")
		rt.EndBatch()
		assert.False(t, rt.InBatch())
		assert.Equal(t, 2, runs, "closing the outermost batch flushes")
	})

	t.Run("identity-equal write to the source of a computed chain skips the rerun", func(t *testing.T) {
		a := NewObservableValue("a", 5, nil, nil)
		c1 := NewComputedValue("c1", func() any {
			return a.Get().(int) + 0
		}, false)
		c2 := NewComputedValue("c2", func() any {
			v, _ := c1.Get()
			return v
		}, false)

		runs := 0
		r := NewReaction("r", func() {
			runs++
			c2.Get()
		}, nil)
		defer r.Dispose()
		assert.Equal(t, 1, runs)

		a.Set(5) // identity-equal: no propagation at all
		assert.Equal(t, 1, runs)
	})

	t.Run("onBecomeUnobserved fires at most once per batch", func(t *testing.T) {
		a := NewObservableValue("a", 1, nil, nil)
		fires := 0
		c := NewComputedValue("c", func() any { return a.Get().(int) }, false)
		c.onBecomeUnobserved = func() {
			fires++
			c.handleBecomeUnobserved()
		}

		r := NewReaction("r", func() {
			v, _ := c.Get()
			_ = v
		}, nil)
		r.Dispose()

		assert.LessOrEqual(t, fires, 1)
	})
}
