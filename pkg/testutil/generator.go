// Package testutil provides catalog fixture generators for various link
// topologies. All generators produce deterministic output for reproducible
// tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/flavortown/pkg/catalog"
	"github.com/vanderheijden86/flavortown/pkg/model"
)

// GraphFixture is an abstract parent/child topology.
type GraphFixture struct {
	Description string     `json:"description"`
	Nodes       []string   `json:"nodes"`
	Edges       [][2]int   `json:"edges"` // [parent_idx, child_idx]
	Properties  Properties `json:"properties,omitempty"`
}

// Properties holds optional metadata about the fixture.
type Properties struct {
	HasCycles     bool `json:"has_cycles,omitempty"`
	ExpectedRoots int  `json:"expected_roots,omitempty"`
	ExpectedDepth int  `json:"expected_depth,omitempty"`
}

// GeneratorConfig controls item generation.
type GeneratorConfig struct {
	Seed      int64    // Random seed (0 = 42)
	BaseID    int64    // ID of the first node (default 1)
	RootTypes []string // Types for items nothing links to as a child
	WithStock bool     // Generate random stock levels instead of unlimited
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		BaseID:    1,
		RootTypes: []string{"ShopItem::Gadget", "ShopItem::Furniture", "ShopItem::Sticker"},
	}
}

// Generator creates catalog fixtures with various topologies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.BaseID == 0 {
		cfg.BaseID = 1
	}
	if len(cfg.RootTypes) == 0 {
		cfg.RootTypes = DefaultConfig().RootTypes
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// ============================================================================
// Topology Generators
// ============================================================================

// Chain creates n0 -> n1 -> ... -> n{size-1}.
func (g *Generator) Chain(size int) GraphFixture {
	nodes := names(size)
	edges := make([][2]int, 0, size)
	for i := 1; i < size; i++ {
		edges = append(edges, [2]int{i - 1, i})
	}
	return GraphFixture{
		Description: fmt.Sprintf("Chain of %d items", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedRoots: min(size, 1), ExpectedDepth: max(size-1, 0)},
	}
}

// Star creates a hub (n0) with spokes attached items.
func (g *Generator) Star(spokes int) GraphFixture {
	nodes := names(spokes + 1)
	edges := make([][2]int, 0, spokes)
	for i := 1; i <= spokes; i++ {
		edges = append(edges, [2]int{0, i})
	}
	return GraphFixture{
		Description: fmt.Sprintf("Hub with %d attachments", spokes),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedRoots: 1, ExpectedDepth: min(spokes, 1)},
	}
}

// Tree creates a complete tree of the given depth and breadth, in
// breadth-first node order.
func (g *Generator) Tree(depth, breadth int) GraphFixture {
	var edges [][2]int
	count := 1
	level := []int{0}
	for d := 0; d < depth; d++ {
		var next []int
		for _, parent := range level {
			for b := 0; b < breadth; b++ {
				edges = append(edges, [2]int{parent, count})
				next = append(next, count)
				count++
			}
		}
		level = next
	}
	return GraphFixture{
		Description: fmt.Sprintf("Tree depth %d breadth %d", depth, breadth),
		Nodes:       names(count),
		Edges:       edges,
		Properties:  Properties{ExpectedRoots: 1, ExpectedDepth: depth},
	}
}

// Cycle creates a directed ring n0 -> n1 -> ... -> n0. Link resolution never
// produces such a ring, so use ToGraph for traversal tests.
func (g *Generator) Cycle(size int) GraphFixture {
	nodes := names(size)
	edges := make([][2]int, 0, size)
	for i := 0; i < size; i++ {
		edges = append(edges, [2]int{i, (i + 1) % size})
	}
	return GraphFixture{
		Description: fmt.Sprintf("Ring of %d items", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{HasCycles: true},
	}
}

// SelfLoop creates a single item linked to itself.
func (g *Generator) SelfLoop() GraphFixture {
	return GraphFixture{
		Description: "Single self-linked item",
		Nodes:       names(1),
		Edges:       [][2]int{{0, 0}},
		Properties:  Properties{HasCycles: true},
	}
}

// Forest creates components stars side by side, each with spokes children.
func (g *Generator) Forest(components, spokes int) GraphFixture {
	var nodes []string
	var edges [][2]int
	for c := 0; c < components; c++ {
		hub := len(nodes)
		nodes = append(nodes, fmt.Sprintf("c%d_hub", c))
		for s := 0; s < spokes; s++ {
			edges = append(edges, [2]int{hub, len(nodes)})
			nodes = append(nodes, fmt.Sprintf("c%d_s%d", c, s))
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("%d hubs with %d attachments each", components, spokes),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{ExpectedRoots: components, ExpectedDepth: min(spokes, 1)},
	}
}

// RandomDAG creates edges from lower to higher indices with the given density.
func (g *Generator) RandomDAG(size int, density float64) GraphFixture {
	var edges [][2]int
	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			if g.rng.Float64() < density {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("Random DAG of %d items (density %.2f)", size, density),
		Nodes:       names(size),
		Edges:       edges,
	}
}

// ============================================================================
// Item Generators
// ============================================================================

// ToItems converts a fixture into catalog items whose links resolve to the
// fixture's edges whenever every edge points from a lower to a higher index.
// Items with an incoming edge are typed as accessories, others get a root
// type, and cost falls with the node index.
func (g *Generator) ToItems(gf GraphFixture) []model.Item {
	hasParent := make(map[int]bool)
	links := make(map[int][]int)
	for _, e := range gf.Edges {
		hasParent[e[1]] = true
		links[e[0]] = append(links[e[0]], e[1])
	}

	items := make([]model.Item, len(gf.Nodes))
	for i, name := range gf.Nodes {
		cost := float64((len(gf.Nodes) - i) * 10)
		itemType := g.cfg.RootTypes[g.rng.Intn(len(g.cfg.RootTypes))]
		if hasParent[i] {
			itemType = "ShopItem::Accessory"
		}
		desc := fmt.Sprintf("Fixture item %s", name)

		item := model.Item{
			ID:          g.ID(i),
			Name:        "Item " + name,
			Description: &desc,
			Type:        itemType,
			Cost:        &cost,
		}
		if g.cfg.WithStock {
			stock := g.rng.Intn(5)
			item.Stock = &stock
		}
		for _, j := range links[i] {
			item.LinkedIDs = append(item.LinkedIDs, g.ID(j))
		}
		items[i] = item
	}
	return items
}

// ToGraph converts a fixture directly into a resolved graph, bypassing link
// resolution.
func (g *Generator) ToGraph(gf GraphFixture) *catalog.Graph {
	edges := make([]catalog.Edge, len(gf.Edges))
	for i, e := range gf.Edges {
		edges[i] = catalog.Edge{Parent: g.ID(e[0]), Child: g.ID(e[1])}
	}
	return catalog.FromEdges(edges)
}

// ID returns the item id assigned to node index i.
func (g *Generator) ID(i int) model.ItemID {
	return model.ItemID(g.cfg.BaseID + int64(i))
}

// ToJSON converts items to an indented JSON array in the flattened local shape.
func ToJSON(items []model.Item) string {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ToJSONL converts items to JSONL format (one JSON object per line).
func ToJSONL(items []model.Item) string {
	var sb strings.Builder
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("n%d", i)
	}
	return out
}

// ============================================================================
// Quick Helpers
// ============================================================================

// QuickChain returns chain items with the default config.
func QuickChain(size int) []model.Item {
	g := NewDefault()
	return g.ToItems(g.Chain(size))
}

// QuickStar returns star items with the default config.
func QuickStar(spokes int) []model.Item {
	g := NewDefault()
	return g.ToItems(g.Star(spokes))
}

// QuickTree returns tree items with the default config.
func QuickTree(depth, breadth int) []model.Item {
	g := NewDefault()
	return g.ToItems(g.Tree(depth, breadth))
}

// QuickForest returns forest items with the default config.
func QuickForest(components, spokes int) []model.Item {
	g := NewDefault()
	return g.ToItems(g.Forest(components, spokes))
}
