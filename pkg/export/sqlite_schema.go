// Package export writes a store catalog and its resolved relationships to a
// SQLite database for ad-hoc querying.
//
// This file implements schema creation.
package export

import (
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 1

// CreateSchema creates all tables, indexes, and views in the database.
func CreateSchema(db *sql.DB) error {
	if err := createCoreTables(db); err != nil {
		return fmt.Errorf("create core tables: %w", err)
	}
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	if err := createViews(db); err != nil {
		return fmt.Errorf("create views: %w", err)
	}
	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	return nil
}

// createCoreTables creates the items, links, edges, and cycles tables.
func createCoreTables(db *sql.DB) error {
	tables := []struct {
		name string
		sql  string
	}{
		{"items", `
			CREATE TABLE IF NOT EXISTS items (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				type TEXT NOT NULL DEFAULT '',
				cost REAL,
				stock INTEGER,
				limited INTEGER NOT NULL DEFAULT 0,
				long_description TEXT,
				max_qty INTEGER,
				one_per_person_ever INTEGER NOT NULL DEFAULT 0,
				image_url TEXT,
				accessory_like INTEGER NOT NULL DEFAULT 0
			)
		`},
		// Raw links as listed by each item, including ones to unknown ids.
		{"item_links", `
			CREATE TABLE IF NOT EXISTS item_links (
				item_id INTEGER NOT NULL,
				linked_id INTEGER NOT NULL,
				position INTEGER NOT NULL,
				dangling INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (item_id) REFERENCES items(id)
			)
		`},
		{"item_edges", `
			CREATE TABLE IF NOT EXISTS item_edges (
				parent_id INTEGER NOT NULL,
				child_id INTEGER NOT NULL,
				PRIMARY KEY (parent_id, child_id),
				FOREIGN KEY (parent_id) REFERENCES items(id),
				FOREIGN KEY (child_id) REFERENCES items(id)
			)
		`},
		{"item_cycles", `
			CREATE TABLE IF NOT EXISTS item_cycles (
				cycle_id INTEGER NOT NULL,
				item_id INTEGER NOT NULL,
				self_loop INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (cycle_id, item_id)
			)
		`},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.sql); err != nil {
			return fmt.Errorf("create %s table: %w", tbl.name, err)
		}
	}
	return nil
}

// createIndexes creates indexes for common queries.
func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_items_type ON items(type)`,
		`CREATE INDEX IF NOT EXISTS idx_items_cost ON items(cost)`,
		`CREATE INDEX IF NOT EXISTS idx_links_item ON item_links(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_child ON item_edges(child_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// createViews creates convenience views over the resolved graph.
func createViews(db *sql.DB) error {
	views := []string{
		// Items shown at the top level of a grouped listing.
		`CREATE VIEW IF NOT EXISTS item_roots AS
			SELECT i.* FROM items i
			WHERE NOT EXISTS (SELECT 1 FROM item_edges e WHERE e.child_id = i.id)`,
		`CREATE VIEW IF NOT EXISTS item_children AS
			SELECT e.parent_id, p.name AS parent_name, e.child_id, c.name AS child_name, c.cost AS child_cost
			FROM item_edges e
			JOIN items p ON p.id = e.parent_id
			JOIN items c ON c.id = e.child_id`,
	}
	for _, stmt := range views {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create view: %w", err)
		}
	}
	return nil
}

// createMetaTable creates the export metadata table.
func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create export_meta table: %w", err)
	}
	return nil
}

// CreateFTSIndex creates the FTS5 full-text index over item names and
// descriptions. It must be called after items are inserted.
func CreateFTSIndex(db *sql.DB) error {
	ftsSQL := `
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			name,
			description,
			type,
			content='items',
			content_rowid='id',
			tokenize='porter unicode61'
		)
	`
	if _, err := db.Exec(ftsSQL); err != nil {
		return fmt.Errorf("create items_fts: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO items_fts(items_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("populate items_fts: %w", err)
	}
	return nil
}

// InsertMetaValue upserts a key into export_meta.
func InsertMetaValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT OR REPLACE INTO export_meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// GetMetaValue reads a key from export_meta.
func GetMetaValue(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM export_meta WHERE key = ?`, key).Scan(&value)
	return value, err
}

// OptimizeDatabase compacts the finished database.
func OptimizeDatabase(db *sql.DB) error {
	optimizations := []string{
		`PRAGMA journal_mode=DELETE`,
		`ANALYZE`,
		`PRAGMA optimize`,
	}
	for _, stmt := range optimizations {
		// Some pragmas may fail depending on state; continue with the rest.
		_, _ = db.Exec(stmt)
	}
	_, _ = db.Exec(`INSERT INTO items_fts(items_fts) VALUES('optimize')`)
	return nil
}
