package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	t.Run("coalesces multiple writes into a single rerun", func(t *testing.T) {
		var log []string
		count := NewAtom(0)

		NewReaction(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Get()))
		})

		Batch(func() {
			count.Set(10)
			count.Set(20)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"changed 20",
		}, log)
	})

	t.Run("coalesces writes to multiple atoms observed by different reactions", func(t *testing.T) {
		var log []string
		a := NewAtom(0)
		b := NewAtom(0)

		NewReaction(func() { log = append(log, fmt.Sprintf("a=%d", a.Get())) })
		NewReaction(func() { log = append(log, fmt.Sprintf("b=%d", b.Get())) })

		Batch(func() {
			a.Set(1)
			b.Set(2)
		})

		assert.Equal(t, []string{
			"a=0",
			"b=0",
			"a=1",
			"b=2",
		}, log)
	})

	t.Run("nested batches only flush once, at the outermost close", func(t *testing.T) {
		runs := 0
		count := NewAtom(0)
		NewReaction(func() {
			runs++
			count.Get()
		})

		Batch(func() {
			Batch(func() {
				count.Set(1)
			})
			assert.Equal(t, 1, runs) // inner batch closing did not flush
			count.Set(2)
		})

		assert.Equal(t, 2, runs)
	})
}
