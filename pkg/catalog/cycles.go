package catalog

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/model"
)

// Cycle is a group of items that reach each other through resolved edges.
// IDs are sorted ascending.
type Cycle struct {
	IDs      []model.ItemID `json:"ids"`
	SelfLoop bool           `json:"self_loop,omitempty"`
}

// Cycles reports self-loops and strongly connected components of the graph.
// The renderer tolerates both; this is informational output only.
func Cycles(g *Graph) []Cycle {
	defer metrics.Timer(metrics.CycleDetection)()

	dg := simple.NewDirectedGraph()
	var cycles []Cycle

	for _, e := range g.edges {
		// simple.DirectedGraph panics on self edges.
		if e.Parent == e.Child {
			cycles = append(cycles, Cycle{IDs: []model.ItemID{e.Parent}, SelfLoop: true})
			continue
		}
		for _, id := range []model.ItemID{e.Parent, e.Child} {
			if dg.Node(int64(id)) == nil {
				dg.AddNode(simple.Node(id))
			}
		}
		dg.SetEdge(dg.NewEdge(simple.Node(e.Parent), simple.Node(e.Child)))
	}

	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) < 2 {
			continue
		}
		ids := make([]model.ItemID, 0, len(scc))
		for _, n := range scc {
			ids = append(ids, model.ItemID(n.ID()))
		}
		slices.Sort(ids)
		cycles = append(cycles, Cycle{IDs: ids})
	}

	slices.SortFunc(cycles, func(a, b Cycle) int {
		if a.IDs[0] != b.IDs[0] {
			if a.IDs[0] < b.IDs[0] {
				return -1
			}
			return 1
		}
		return len(a.IDs) - len(b.IDs)
	})
	return cycles
}
