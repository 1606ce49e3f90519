package reactor

import "github.com/kestrel-state/reactor/internal"

// DebugSnapshot is a point-in-time view of the live dependency graph.
type DebugSnapshot = internal.DebugSnapshot

// Dump returns a snapshot of every node reachable from a live reaction.
func Dump() DebugSnapshot { return internal.Default().Dump() }

// DumpTable renders the current graph as a table, for debugging.
func DumpTable() string { return internal.Default().Dump().RenderTable() }
