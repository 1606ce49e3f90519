package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputed(t *testing.T) {
	t.Run("derives from an atom", func(t *testing.T) {
		count := NewAtom(2)
		doubled := NewComputed(func() int { return count.Get() * 2 })

		assert.Equal(t, 4, doubled.Get())
		count.Set(5)
		assert.Equal(t, 10, doubled.Get())
	})

	t.Run("recomputes at most once per batch of writes", func(t *testing.T) {
		a := NewAtom(1)
		b := NewAtom(1)
		runs := 0
		sum := NewComputed(func() int {
			runs++
			return a.Get() + b.Get()
		})

		sum.Get()
		assert.Equal(t, 1, runs)

		Batch(func() {
			a.Set(2)
			b.Set(2)
		})
		sum.Get()
		assert.Equal(t, 2, runs)
	})

	t.Run("does not recompute when read without changed dependencies", func(t *testing.T) {
		count := NewAtom(1)
		runs := 0
		doubled := NewComputed(func() int {
			runs++
			return count.Get() * 2
		})

		doubled.Get()
		doubled.Get()
		doubled.Get()
		assert.Equal(t, 1, runs)
	})

	t.Run("diamond dependency: sum recomputes once per write, not once per path", func(t *testing.T) {
		root := NewAtom(1)
		left := NewComputed(func() int { return root.Get() * 2 })
		right := NewComputed(func() int { return root.Get() * 3 })

		sumRuns := 0
		sum := NewComputed(func() int {
			sumRuns++
			return left.Get() + right.Get()
		})

		var lastSeen int
		NewReaction(func() { lastSeen = sum.Get() })
		assert.Equal(t, 5, lastSeen)
		assert.Equal(t, 1, sumRuns)

		root.Set(2)
		assert.Equal(t, 10, lastSeen)
		assert.Equal(t, 2, sumRuns)
	})

	t.Run("structural equality option compares slices by value", func(t *testing.T) {
		count := NewAtom(1)
		runs := 0
		tags := NewComputed(func() []string {
			runs++
			return []string{fmt.Sprintf("tag-%d", count.Get()%2)}
		}, WithStructuralEquality[[]string]())

		downstream := 0
		NewReaction(func() {
			downstream++
			tags.Get()
		})
		assert.Equal(t, 1, downstream)

		count.Set(3) // count%2 unchanged (1 -> 1): tags value compares equal
		assert.Equal(t, 1, downstream)

		count.Set(4) // count%2 changes (1 -> 0)
		assert.Equal(t, 2, downstream)
		assert.Equal(t, 3, runs)
	})

	t.Run("panic in compute is re-raised on every Get until fixed", func(t *testing.T) {
		broken := NewAtom(true)
		c := NewComputed(func() int {
			if broken.Get() {
				panic("boom")
			}
			return 1
		})

		assert.Panics(t, func() { c.Get() })

		_, err := c.TryGet()
		assert.Error(t, err)

		broken.Set(false)
		assert.Equal(t, 1, c.Get())
	})
}
