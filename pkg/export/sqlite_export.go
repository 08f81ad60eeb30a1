package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vanderheijden86/flavortown/pkg/catalog"
	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/version"

	_ "modernc.org/sqlite"
)

// SQLiteExporter writes a catalog and its resolved graph to a database file.
type SQLiteExporter struct {
	Catalog *catalog.Catalog
	Graph   *catalog.Graph
	// Source describes where the catalog came from (API URL or file path).
	Source string

	now func() time.Time
}

// NewSQLiteExporter creates an exporter. A nil graph is resolved from cat.
func NewSQLiteExporter(cat *catalog.Catalog, g *catalog.Graph) *SQLiteExporter {
	if g == nil {
		g = catalog.Resolve(cat)
	}
	return &SQLiteExporter{Catalog: cat, Graph: g, now: time.Now}
}

// ExportSummary reports what was written.
type ExportSummary struct {
	Path     string `json:"path"`
	Items    int    `json:"items"`
	Links    int    `json:"links"`
	Edges    int    `json:"edges"`
	Cycles   int    `json:"cycles"`
	Dangling int    `json:"dangling_links"`
}

// Export writes the database to path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) (ExportSummary, error) {
	defer metrics.Timer(metrics.SQLiteExport)()

	summary := ExportSummary{Path: path}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return summary, fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return summary, fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(db); err != nil {
		return summary, fmt.Errorf("create schema: %w", err)
	}
	if summary.Items, err = e.insertItems(db); err != nil {
		return summary, fmt.Errorf("insert items: %w", err)
	}
	if summary.Links, err = e.insertLinks(db); err != nil {
		return summary, fmt.Errorf("insert links: %w", err)
	}
	if summary.Edges, err = e.insertEdges(db); err != nil {
		return summary, fmt.Errorf("insert edges: %w", err)
	}
	if summary.Cycles, err = e.insertCycles(db); err != nil {
		return summary, fmt.Errorf("insert cycles: %w", err)
	}
	summary.Dangling = e.Graph.DanglingCount()

	if err := CreateFTSIndex(db); err != nil {
		debug.Log("FTS5 not available: %v", err)
	}
	if err := e.insertMeta(db, summary); err != nil {
		return summary, fmt.Errorf("insert meta: %w", err)
	}
	if err := OptimizeDatabase(db); err != nil {
		debug.Log("optimize database: %v", err)
	}

	if err := db.Close(); err != nil {
		return summary, fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return summary, nil
}

func (e *SQLiteExporter) insertItems(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (id, name, description, type, cost, stock, limited, long_description, max_qty, one_per_person_ever, image_url, accessory_like)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, item := range e.Catalog.Items() {
		var imageURL *string
		if item.ImageURL != "" {
			imageURL = &item.ImageURL
		}
		_, err := stmt.Exec(
			int64(item.ID),
			item.Name,
			item.Description,
			item.Type,
			item.Cost,
			item.Stock,
			boolInt(item.Limited),
			item.LongDescription,
			item.MaxQty,
			boolInt(item.OnePerPersonEver),
			imageURL,
			boolInt(catalog.IsAccessoryLike(item.Type)),
		)
		if err != nil {
			return n, fmt.Errorf("insert item %s: %w", item.ID, err)
		}
		n++
	}
	return n, tx.Commit()
}

func (e *SQLiteExporter) insertLinks(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO item_links (item_id, linked_id, position, dangling) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, item := range e.Catalog.Items() {
		for pos, linked := range item.LinkedIDs {
			dangling := e.Catalog.Get(linked) == nil
			if _, err := stmt.Exec(int64(item.ID), int64(linked), pos, boolInt(dangling)); err != nil {
				return n, fmt.Errorf("insert link %s->%s: %w", item.ID, linked, err)
			}
			n++
		}
	}
	return n, tx.Commit()
}

func (e *SQLiteExporter) insertEdges(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO item_edges (parent_id, child_id) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	edges := e.Graph.Edges()
	for _, edge := range edges {
		if _, err := stmt.Exec(int64(edge.Parent), int64(edge.Child)); err != nil {
			return 0, fmt.Errorf("insert edge %s->%s: %w", edge.Parent, edge.Child, err)
		}
	}
	return len(edges), tx.Commit()
}

func (e *SQLiteExporter) insertCycles(db *sql.DB) (int, error) {
	cycles := catalog.Cycles(e.Graph)
	if len(cycles) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO item_cycles (cycle_id, item_id, self_loop) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, c := range cycles {
		for _, id := range c.IDs {
			if _, err := stmt.Exec(i+1, int64(id), boolInt(c.SelfLoop)); err != nil {
				return 0, fmt.Errorf("insert cycle %d item %s: %w", i+1, id, err)
			}
		}
	}
	return len(cycles), tx.Commit()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB, s ExportSummary) error {
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	meta := map[string]string{
		"version":        version.Version,
		"generated_at":   now().UTC().Format(time.RFC3339),
		"schema_version": strconv.Itoa(SchemaVersion),
		"item_count":     strconv.Itoa(s.Items),
		"link_count":     strconv.Itoa(s.Links),
		"edge_count":     strconv.Itoa(s.Edges),
		"cycle_count":    strconv.Itoa(s.Cycles),
		"dangling_links": strconv.Itoa(s.Dangling),
	}
	if e.Source != "" {
		meta["source"] = e.Source
	}

	for key, value := range meta {
		if err := InsertMetaValue(db, key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
