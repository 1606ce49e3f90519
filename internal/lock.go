package internal

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// reentrantMutex serializes access to the runtime singleton across
// goroutines while allowing the goroutine already holding it to re-enter
// freely. A derivation that writes to another atom from within its own
// run is a normal pattern and must not deadlock against itself.
type reentrantMutex struct {
	mu    sync.Mutex
	owner int64 // goroutine id currently holding the lock, 0 if unlocked
	depth int
}

func (m *reentrantMutex) Lock() {
	gid := goid.Get()
	if atomic.LoadInt64(&m.owner) == gid {
		m.depth++
		return
	}
	m.mu.Lock()
	atomic.StoreInt64(&m.owner, gid)
	m.depth = 1
}

func (m *reentrantMutex) Unlock() {
	m.depth--
	if m.depth == 0 {
		atomic.StoreInt64(&m.owner, 0)
		m.mu.Unlock()
	}
}
