package export

import (
	"database/sql"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/vanderheijden86/flavortown/pkg/catalog"
	"github.com/vanderheijden86/flavortown/pkg/model"

	_ "modernc.org/sqlite"
)

func ptr[T any](v T) *T { return &v }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]model.Item{
		{ID: 1, Name: "Lamp", Type: "Furniture", Cost: ptr(100.0), Description: ptr("A bright lamp"), LinkedIDs: []model.ItemID{2, 999}},
		{ID: 2, Name: "Lampshade", Type: "ShopItem::Accessory", Cost: ptr(20.0), Stock: ptr(0), LinkedIDs: []model.ItemID{1}},
		{ID: 3, Name: "Loop", Type: "Gadget", LinkedIDs: []model.ItemID{3}, Limited: true},
		{ID: 4, Name: "Sticker", ImageURL: "https://example.com/s.png", MaxQty: ptr(2), OnePerPersonEver: true},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func queryIDs(t *testing.T, db *sql.DB, query string) []model.ItemID {
	t.Helper()
	rows, err := db.Query(query)
	if err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	defer rows.Close()

	var out []model.ItemID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			t.Fatal(err)
		}
		out = append(out, model.ItemID(id))
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestExport_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "store.sqlite3")

	exp := NewSQLiteExporter(testCatalog(t), nil)
	exp.Source = "fixture"
	exp.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	summary, err := exp.Export(path)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	want := ExportSummary{Path: path, Items: 4, Links: 4, Edges: 2, Cycles: 1, Dangling: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}

	db := openDB(t, path)

	if got := queryIDs(t, db, `SELECT id FROM items ORDER BY id`); !slices.Equal(got, []model.ItemID{1, 2, 3, 4}) {
		t.Errorf("items = %v", got)
	}

	var parent, child int64
	if err := db.QueryRow(`SELECT parent_id, child_id FROM item_edges WHERE parent_id <> child_id`).Scan(&parent, &child); err != nil {
		t.Fatal(err)
	}
	if parent != 1 || child != 2 {
		t.Errorf("edge = %d->%d, want 1->2", parent, child)
	}

	if got := queryIDs(t, db, `SELECT linked_id FROM item_links WHERE dangling = 1`); !slices.Equal(got, []model.ItemID{999}) {
		t.Errorf("dangling links = %v", got)
	}

	// Item 3 is a self-loop so it is not a root; 2 is claimed by 1.
	if got := queryIDs(t, db, `SELECT id FROM item_roots ORDER BY id`); !slices.Equal(got, []model.ItemID{1, 4}) {
		t.Errorf("roots = %v", got)
	}

	if got := queryIDs(t, db, `SELECT item_id FROM item_cycles WHERE self_loop = 1`); !slices.Equal(got, []model.ItemID{3}) {
		t.Errorf("self-loop cycles = %v", got)
	}

	for key, want := range map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"item_count":     "4",
		"edge_count":     "2",
		"dangling_links": "1",
		"source":         "fixture",
		"generated_at":   "2026-01-02T03:04:05Z",
	} {
		got, err := GetMetaValue(db, key)
		if err != nil {
			t.Errorf("meta %s: %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("meta %s = %q, want %q", key, got, want)
		}
	}
}

func TestExport_NullableColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.sqlite3")
	if _, err := NewSQLiteExporter(testCatalog(t), nil).Export(path); err != nil {
		t.Fatal(err)
	}
	db := openDB(t, path)

	var cost sql.NullFloat64
	var stock sql.NullInt64
	var accessory int
	if err := db.QueryRow(`SELECT cost, stock, accessory_like FROM items WHERE id = 3`).Scan(&cost, &stock, &accessory); err != nil {
		t.Fatal(err)
	}
	if cost.Valid || stock.Valid {
		t.Errorf("absent cost/stock should be NULL, got %v %v", cost, stock)
	}
	if accessory != 0 {
		t.Error("item 3 is not accessory-like")
	}

	if err := db.QueryRow(`SELECT stock, accessory_like FROM items WHERE id = 2`).Scan(&stock, &accessory); err != nil {
		t.Fatal(err)
	}
	if !stock.Valid || stock.Int64 != 0 || accessory != 1 {
		t.Errorf("item 2 stock=%v accessory=%d", stock, accessory)
	}
}

func TestExport_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.sqlite3")
	if err := os.WriteFile(path, []byte("not a database"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSQLiteExporter(testCatalog(t), nil).Export(path); err != nil {
		t.Fatalf("Export over stale file: %v", err)
	}
	if _, err := NewSQLiteExporter(testCatalog(t), nil).Export(path); err != nil {
		t.Fatalf("second Export: %v", err)
	}

	db := openDB(t, path)
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("expected 4 items after re-export, got %d", n)
	}
}

func TestExport_FullTextSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.sqlite3")
	if _, err := NewSQLiteExporter(testCatalog(t), nil).Export(path); err != nil {
		t.Fatal(err)
	}
	db := openDB(t, path)

	var exists int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'items_fts'`).Scan(&exists); err != nil {
		t.Fatal(err)
	}
	if exists == 0 {
		t.Skip("FTS5 not available")
	}

	got := queryIDs(t, db, `SELECT rowid FROM items_fts WHERE items_fts MATCH 'bright'`)
	if !slices.Equal(got, []model.ItemID{1}) {
		t.Errorf("fts match = %v", got)
	}
}

func TestExport_EmptyCatalog(t *testing.T) {
	c, err := catalog.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	summary, err := NewSQLiteExporter(c, nil).Export(filepath.Join(t.TempDir(), "empty.sqlite3"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if summary.Items != 0 || summary.Edges != 0 || summary.Cycles != 0 {
		t.Errorf("summary = %+v", summary)
	}
}
