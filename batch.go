package reactor

import "github.com/kestrel-state/reactor/internal"

// Batch defers reaction execution until fn returns, so that several writes
// produce at most one rerun per affected reaction instead of one per write.
func Batch(fn func()) {
	rt := internal.Default()
	rt.StartBatch()
	defer rt.EndBatch()
	fn()
}

// Untrack runs fn without creating dependency edges on any observable it
// reads, even if called from within a tracked derivation.
func Untrack[T any](fn func() T) T {
	rt := internal.Default()
	rt.Lock()
	prev := rt.UntrackedStart()
	rt.Unlock()

	defer func() {
		rt.Lock()
		rt.UntrackedEnd(prev)
		rt.Unlock()
	}()

	return fn()
}

// SetStrictMode toggles whether observable writes are only permitted
// inside an explicit Batch.
func SetStrictMode(enabled bool) { internal.Default().SetStrictMode(enabled) }
