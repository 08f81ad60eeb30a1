package catalog

import (
	"strings"

	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/model"
)

// IsAccessoryLike reports whether an item type marks an add-on rather than a
// standalone product. The match is a case-sensitive substring test.
func IsAccessoryLike(itemType string) bool {
	return strings.Contains(itemType, "Accessory") || strings.Contains(itemType, "Upgrade")
}

// Edge is a resolved parent -> child relationship.
type Edge struct {
	Parent model.ItemID `json:"parent"`
	Child  model.ItemID `json:"child"`
}

// Graph is the directed adjacency derived from the full catalog.
// Neighbor lists keep edge discovery order.
type Graph struct {
	childrenOf map[model.ItemID]*idSet
	parentsOf  map[model.ItemID]*idSet
	edges      []Edge
	dangling   int
}

// Children returns the child IDs of id in discovery order.
func (g *Graph) Children(id model.ItemID) []model.ItemID {
	return g.childrenOf[id].list()
}

// Parents returns the parent IDs of id in discovery order.
func (g *Graph) Parents(id model.ItemID) []model.ItemID {
	return g.parentsOf[id].list()
}

// HasParent reports whether any edge targets id.
func (g *Graph) HasParent(id model.ItemID) bool {
	return g.parentsOf[id].len() > 0
}

// HasChildren reports whether id is the parent of any edge.
func (g *Graph) HasChildren(id model.ItemID) bool {
	return g.childrenOf[id].len() > 0
}

// Edges returns every resolved edge in discovery order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// DanglingCount returns how many links pointed at unknown items.
func (g *Graph) DanglingCount() int {
	return g.dangling
}

// FromEdges builds a graph from already-directed edges. Duplicates collapse.
func FromEdges(edges []Edge) *Graph {
	g := &Graph{
		childrenOf: make(map[model.ItemID]*idSet),
		parentsOf:  make(map[model.ItemID]*idSet),
	}
	for _, e := range edges {
		g.addEdge(e.Parent, e.Child)
	}
	return g
}

func (g *Graph) addEdge(parent, child model.ItemID) {
	if g.childrenOf[parent] == nil {
		g.childrenOf[parent] = newIDSet()
	}
	if g.parentsOf[child] == nil {
		g.parentsOf[child] = newIDSet()
	}
	if g.childrenOf[parent].add(child) {
		g.edges = append(g.edges, Edge{Parent: parent, Child: child})
	}
	g.parentsOf[child].add(parent)
}

// Resolver turns undirected item links into directed edges.
type Resolver struct {
	// Classify marks accessory-like items. Defaults to IsAccessoryLike on the
	// item type.
	Classify func(*model.Item) bool
}

// Resolve runs the default resolver over the catalog.
func Resolve(c *Catalog) *Graph {
	return Resolver{}.Resolve(c)
}

// Resolve builds the adjacency for every link in the catalog.
//
// For a link between A (the item being scanned) and B:
//   - if exactly one of them is accessory-like, the other is the parent;
//   - otherwise the more expensive item is the parent, and a tie goes to A.
//
// The first discovery of an unordered pair decides its direction; the same
// pair seen again from the other side adds nothing. Links to unknown IDs are
// skipped.
func (r Resolver) Resolve(c *Catalog) *Graph {
	defer metrics.Timer(metrics.Resolve)()

	classify := r.Classify
	if classify == nil {
		classify = func(it *model.Item) bool { return IsAccessoryLike(it.Type) }
	}

	g := &Graph{
		childrenOf: make(map[model.ItemID]*idSet),
		parentsOf:  make(map[model.ItemID]*idSet),
	}
	seen := make(map[pairKey]struct{})

	for _, a := range c.Items() {
		for _, linked := range a.LinkedIDs {
			b := c.Get(linked)
			if b == nil {
				g.dangling++
				debug.Log("item %s links to unknown item %s", a.ID, linked)
				continue
			}

			key := newPairKey(a.ID, b.ID)
			if _, done := seen[key]; done {
				continue
			}
			seen[key] = struct{}{}

			parent, child := orient(a, b, classify)
			g.addEdge(parent.ID, child.ID)
		}
	}

	debug.Log("resolved %d edges from %d items (%d dangling links)", len(g.edges), c.Len(), g.dangling)
	return g
}

func orient(a, b *model.Item, classify func(*model.Item) bool) (parent, child *model.Item) {
	aAcc, bAcc := classify(a), classify(b)
	switch {
	case aAcc && !bAcc:
		return b, a
	case !aAcc && bAcc:
		return a, b
	case a.CostValue() >= b.CostValue():
		return a, b
	default:
		return b, a
	}
}

type pairKey struct {
	lo, hi model.ItemID
}

func newPairKey(a, b model.ItemID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// idSet is an insertion-ordered set of item IDs.
type idSet struct {
	order []model.ItemID
	has   map[model.ItemID]struct{}
}

func newIDSet() *idSet {
	return &idSet{has: make(map[model.ItemID]struct{})}
}

func (s *idSet) add(id model.ItemID) bool {
	if _, ok := s.has[id]; ok {
		return false
	}
	s.has[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *idSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *idSet) list() []model.ItemID {
	if s == nil {
		return nil
	}
	out := make([]model.ItemID, len(s.order))
	copy(out, s.order)
	return out
}
