package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScenarios exercises end-to-end reactive scenarios using the public
// API only: diamond dependencies, short-circuiting, staleness
// confirmation, unobservation cascades, nested batching, and exception
// isolation.
func TestScenarios(t *testing.T) {
	t.Run("diamond: reaction fires exactly once per batched write", func(t *testing.T) {
		a := NewAtom(1)
		b := NewAtom(1)
		c := NewComputed(func() int { return a.Get() + b.Get() })
		d := NewComputed(func() int { return c.Get() * 2 })

		runs := 0
		var lastSeen int
		NewReaction(func() {
			runs++
			lastSeen = d.Get()
		})
		assert.Equal(t, 4, lastSeen)
		assert.Equal(t, 1, runs)

		Batch(func() {
			a.Set(2)
		})

		assert.Equal(t, 6, lastSeen)
		assert.Equal(t, 2, runs)
	})

	t.Run("short-circuit: unrelated writes do not trigger recomputation", func(t *testing.T) {
		a := NewAtom(1)
		b := NewAtom(10)
		c := NewComputed(func() int {
			if a.Get() < 0 {
				return b.Get()
			}
			return 0
		})

		var seen []int
		NewReaction(func() { seen = append(seen, c.Get()) })
		assert.Equal(t, []int{0}, seen)

		b.Set(20) // c does not observe b while a >= 0: no recompute, no rerun
		assert.Equal(t, []int{0}, seen)

		a.Set(-1) // c now observes b, recomputes to 20
		assert.Equal(t, []int{0, 20}, seen)

		b.Set(30)
		assert.Equal(t, []int{0, 20, 30}, seen)
	})

	t.Run("POSSIBLY_STALE confirms no-op without rerunning the reaction", func(t *testing.T) {
		a := NewAtom(5)
		c1 := NewComputed(func() int { return a.Get() + 0 })
		c2 := NewComputed(func() int { return c1.Get() })

		runs := 0
		NewReaction(func() {
			runs++
			c2.Get()
		})
		assert.Equal(t, 1, runs)

		a.Set(5) // equal by identity: no change anywhere
		assert.Equal(t, 1, runs)

		a.Set(7) // genuinely different: exactly one rerun
		assert.Equal(t, 2, runs)
	})

	t.Run("disposing a reaction cascades unobservation through the whole chain", func(t *testing.T) {
		a := NewAtom(1)
		c := NewComputed(func() int { return a.Get() })

		r := NewReaction(func() { c.Get() })
		r.Dispose()

		assert.Empty(t, c.core.Observers())
		assert.Empty(t, a.core.Observers())
	})

	t.Run("nested batches defer the reaction until the outermost close", func(t *testing.T) {
		a := NewAtom(0)
		b := NewAtom(0)
		runs := 0

		NewReaction(func() {
			runs++
			a.Get()
			b.Get()
		})
		assert.Equal(t, 1, runs)

		Batch(func() {
			a.Set(1)
			Batch(func() {
				b.Set(1)
			})
			assert.Equal(t, 1, runs)
		})

		assert.Equal(t, 2, runs)
	})

	t.Run("exception isolation: a throwing getter is re-raised until fixed", func(t *testing.T) {
		divisor := NewAtom(0)
		quotient := NewComputed(func() int {
			d := divisor.Get()
			if d == 0 {
				panic("division by zero")
			}
			return 10 / d
		})

		_, err := quotient.TryGet()
		assert.Error(t, err)

		divisor.Set(2)
		v, err := quotient.TryGet()
		assert.NoError(t, err)
		assert.Equal(t, 5, v)
	})
}
