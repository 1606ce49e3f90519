package internal

import (
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// NodeSnapshot is one row of a graph dump, read-only with respect to every
// algorithmic field it reports.
type NodeSnapshot struct {
	ID            NodeID
	Name          string
	Kind          string
	State         string
	ObserverCount int
	ObservingCount int
}

// DebugSnapshot is a point-in-time view of the live dependency graph,
// reachable from every registered reaction outward through its observing
// set. Unreachable computeds (observed only by other unreachable computeds
// with no live reaction downstream) would already have been swept by
// unobservation, so this walk is exhaustive in practice.
type DebugSnapshot struct {
	Nodes []NodeSnapshot
	Stats RuntimeStats
}

// Dump walks the graph and returns a snapshot. It takes the runtime lock
// only long enough to copy bookkeeping fields; it never mutates diffValue,
// lowestObserverState, or any other field the algorithm owns.
func (rt *Runtime) Dump() DebugSnapshot {
	rt.Lock()
	defer rt.Unlock()

	seen := make(map[NodeID]bool)
	var nodes []NodeSnapshot

	var visitObservable func(obs Observable)
	var visitDerivation func(d Derivation)

	visitObservable = func(obs Observable) {
		oc := obs.observableCore()
		if seen[obs.ID()] {
			return
		}
		seen[obs.ID()] = true

		kind := "ObservableValue"
		if d, ok := obs.(Derivation); ok {
			kind = "ComputedValue"
			nodes = append(nodes, NodeSnapshot{
				ID:             obs.ID(),
				Name:           obs.Name(),
				Kind:           kind,
				State:          d.derivationCore().dependenciesState.String(),
				ObserverCount:  len(oc.observers),
				ObservingCount: len(d.derivationCore().observing),
			})
			for _, dep := range d.derivationCore().observing {
				visitObservable(dep)
			}
			return
		}

		nodes = append(nodes, NodeSnapshot{
			ID:            obs.ID(),
			Name:          obs.Name(),
			Kind:          kind,
			State:         oc.lowestObserverState.String(),
			ObserverCount: len(oc.observers),
		})
	}

	visitDerivation = func(d Derivation) {
		if seen[d.ID()] {
			return
		}
		seen[d.ID()] = true
		dc := d.derivationCore()
		nodes = append(nodes, NodeSnapshot{
			ID:             d.ID(),
			Name:           d.Name(),
			Kind:           "Reaction",
			State:          dc.dependenciesState.String(),
			ObservingCount: len(dc.observing),
		})
		for _, obs := range dc.observing {
			visitObservable(obs)
		}
	}

	rt.reactions.Range(func(_ NodeID, r *Reaction) bool {
		visitDerivation(r)
		return true
	})

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return DebugSnapshot{Nodes: nodes, Stats: rt.stats}
}

// RenderTable formats a snapshot as a go-pretty table, mirroring the
// retrieval pack's benchmark table layout.
func (s DebugSnapshot) RenderTable() string {
	tbl := table.NewWriter()
	tbl.SetTitle("Reactive Graph")
	tbl.AppendHeader(table.Row{"id", "name", "kind", "state", "observers", "observing"})
	for _, n := range s.Nodes {
		tbl.AppendRow(table.Row{n.ID, n.Name, n.Kind, n.State, n.ObserverCount, n.ObservingCount})
	}
	tbl.AppendFooter(table.Row{"", "", "", "batches closed", humanize.Comma(int64(s.Stats.BatchesClosed)), ""})
	tbl.AppendFooter(table.Row{"", "", "", "reactions run", humanize.Comma(int64(s.Stats.ReactionsRun)), ""})
	tbl.AppendFooter(table.Row{"", "", "", "unobservations", humanize.Comma(int64(s.Stats.Unobservations)), ""})
	return tbl.Render()
}
