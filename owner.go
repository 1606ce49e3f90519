package reactor

import "github.com/kestrel-state/reactor/internal"

// Owner groups reactions and cleanup callbacks so they can be torn down
// together, cascading through any nested owners.
type Owner struct {
	core *internal.Owner
}

// NewOwner creates a root owner.
func NewOwner() *Owner { return &Owner{core: internal.NewOwner()} }

// NewChild creates a child owner disposed when o is.
func (o *Owner) NewChild() *Owner { return &Owner{core: o.core.NewChild()} }

// OnCleanup registers fn to run when o is disposed, after its children and
// tracked reactions have already been torn down.
func (o *Owner) OnCleanup(fn func()) { o.core.OnCleanup(fn) }

// Dispose tears down the owner's entire subtree.
func (o *Owner) Dispose() { o.core.Dispose() }

// Disposed reports whether Dispose has already run.
func (o *Owner) Disposed() bool { return o.core.Disposed() }
