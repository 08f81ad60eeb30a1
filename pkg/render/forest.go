// Package render walks the resolved item graph and produces the ordered,
// indented forest shown by store listings.
package render

import (
	"github.com/vanderheijden86/flavortown/pkg/catalog"
	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/filter"
	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/model"
)

// Entry is one rendered node of the forest, in display order.
type Entry struct {
	Item  *model.Item
	Depth int
	// ParentID is nil for roots.
	ParentID *model.ItemID
	// HasChildren is set when attached items follow at Depth+1.
	HasChildren bool
}

// Options controls forest construction.
type Options struct {
	// Grouping nests attached items under their resolved parent. When off,
	// every selected item is a root and children are never traversed.
	Grouping bool
	// Compare orders siblings; it should be the comparator used to order the
	// top-level list. Nil means ascending cost.
	Compare filter.Comparator
}

// Forest renders ordered (already filtered and sorted) items.
//
// With grouping on, an item is a root only if nothing in the full catalog
// claims it as a child, and each root is followed by its attached subtree.
// A child already on the current root-to-node path is skipped, so cycles and
// self-loops terminate. No item is emitted as a root twice.
func Forest(ordered []*model.Item, cat *catalog.Catalog, g *catalog.Graph, opts Options) []Entry {
	defer metrics.Timer(metrics.Render)()

	w := walker{
		cat:      cat,
		graph:    g,
		grouping: opts.Grouping && g != nil,
		compare:  opts.Compare,
		path:     make(map[model.ItemID]struct{}),
	}
	if w.compare == nil {
		w.compare = filter.ComparatorFor(filter.SortCostAsc)
	}

	rendered := make(map[model.ItemID]struct{}, len(ordered))
	for _, item := range ordered {
		if item == nil {
			continue
		}
		if w.grouping && g.HasParent(item.ID) {
			continue
		}
		if _, done := rendered[item.ID]; done {
			debug.Log("item %s already rendered as a root", item.ID)
			continue
		}
		rendered[item.ID] = struct{}{}
		w.visit(item, 0, nil)
	}
	return w.entries
}

type walker struct {
	cat      *catalog.Catalog
	graph    *catalog.Graph
	grouping bool
	compare  filter.Comparator

	// path holds the ancestors of the node being visited, itself included.
	path    map[model.ItemID]struct{}
	entries []Entry
}

func (w *walker) visit(item *model.Item, depth int, parent *model.ItemID) {
	idx := len(w.entries)
	w.entries = append(w.entries, Entry{Item: item, Depth: depth, ParentID: parent})

	if !w.grouping || !w.graph.HasChildren(item.ID) {
		return
	}

	w.path[item.ID] = struct{}{}
	defer delete(w.path, item.ID)

	children := w.attached(item.ID)
	if len(children) == 0 {
		return
	}
	w.entries[idx].HasChildren = true

	id := item.ID
	for _, child := range children {
		w.visit(child, depth+1, &id)
	}
}

// attached resolves the children of id that are not already on the path,
// ordered with the sibling comparator.
func (w *walker) attached(id model.ItemID) []*model.Item {
	childIDs := w.graph.Children(id)
	out := make([]*model.Item, 0, len(childIDs))
	for _, cid := range childIDs {
		if _, onPath := w.path[cid]; onPath {
			continue
		}
		if child := w.cat.Get(cid); child != nil {
			out = append(out, child)
		}
	}
	w.compare.Sort(out)
	return out
}

// Roots returns the number of top-level entries.
func Roots(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Depth == 0 {
			n++
		}
	}
	return n
}
