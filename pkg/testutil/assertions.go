package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/flavortown/pkg/catalog"
	"github.com/vanderheijden86/flavortown/pkg/model"
)

// AssertItemCount verifies the expected number of items.
func AssertItemCount(t *testing.T, items []model.Item, expected int) {
	t.Helper()
	if len(items) != expected {
		t.Errorf("expected %d items, got %d", expected, len(items))
	}
}

// AssertNoDuplicateIDs verifies all item IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, items []model.Item) {
	t.Helper()
	seen := make(map[model.ItemID]bool)
	for _, item := range items {
		if seen[item.ID] {
			t.Errorf("duplicate item ID: %s", item.ID)
		}
		seen[item.ID] = true
	}
}

// AssertAllValid verifies all items pass validation.
func AssertAllValid(t *testing.T, items []model.Item) {
	t.Helper()
	for i := range items {
		if err := items[i].Validate(); err != nil {
			t.Errorf("item %d (%s) invalid: %v", i, items[i].ID, err)
		}
	}
}

// AssertEdge verifies that parent -> child was resolved.
func AssertEdge(t *testing.T, g *catalog.Graph, parent, child model.ItemID) {
	t.Helper()
	if !slices.Contains(g.Children(parent), child) {
		t.Errorf("expected edge %s -> %s, children of %s are %v", parent, child, parent, g.Children(parent))
	}
	if !slices.Contains(g.Parents(child), parent) {
		t.Errorf("edge %s -> %s missing from the reverse adjacency", parent, child)
	}
}

// AssertNoEdge verifies that parent -> child was not resolved.
func AssertNoEdge(t *testing.T, g *catalog.Graph, parent, child model.ItemID) {
	t.Helper()
	if slices.Contains(g.Children(parent), child) {
		t.Errorf("unexpected edge %s -> %s", parent, child)
	}
}

// AssertSameEdges verifies both graphs hold the same edges in the same order.
func AssertSameEdges(t *testing.T, want, got *catalog.Graph) {
	t.Helper()
	if !slices.Equal(want.Edges(), got.Edges()) {
		t.Errorf("edges differ:\nwant %v\ngot  %v", want.Edges(), got.Edges())
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file, or rewrites the
// file when GENERATE_GOLDEN is set.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) == actual {
		return
	}
	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %q\nactual:   %q", i+1, expLine, actLine)
			return
		}
	}
}

// File helpers

// WriteCatalogFile writes items as a JSON array to path and returns it.
func WriteCatalogFile(t *testing.T, path string, items []model.Item) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSON(items)), 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

// MustCatalog builds a catalog or fails the test.
func MustCatalog(t *testing.T, items []model.Item) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(items)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

// GetIDs extracts item IDs in order.
func GetIDs(items []model.Item) []model.ItemID {
	ids := make([]model.ItemID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
