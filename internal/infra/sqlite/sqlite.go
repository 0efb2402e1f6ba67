// Package sqlite provides durable profile storage on modernc.org/sqlite.
// It implements domain.ProfileStore: the whole profile (user, nodes,
// catalogs, transaction logs) is written through on every save.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database under dir and applies migrations.
func Open(dir string) (*DB, error) {
	path := filepath.Join(dir, "inside.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Single writer; the core serializes mutations anyway.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// migrate applies the schema. Each string is a single SQL statement
// (SQLite executes one at a time).
func (db *DB) migrate() error {
	for _, stmt := range migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func migrations() []string {
	return []string{
		// Primary user record. Single row, fixed key.
		`CREATE TABLE IF NOT EXISTS profile (
			key             INTEGER PRIMARY KEY CHECK (key = 1),
			id              TEXT NOT NULL DEFAULT '',
			name            TEXT NOT NULL DEFAULT '',
			currency_name   TEXT NOT NULL DEFAULT '',
			currency_symbol TEXT NOT NULL DEFAULT '',
			updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Relationship nodes
		`CREATE TABLE IF NOT EXISTS nodes (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			relationship    TEXT NOT NULL DEFAULT '',
			currency_name   TEXT NOT NULL,
			currency_symbol TEXT NOT NULL,
			balance         INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0)
		)`,

		// Per-node catalogs
		`CREATE TABLE IF NOT EXISTS market_items (
			id       TEXT PRIMARY KEY,
			node_id  TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
			title    TEXT NOT NULL,
			cost     INTEGER NOT NULL CHECK (cost >= 0),
			icon     TEXT NOT NULL DEFAULT '',
			kind     TEXT NOT NULL,
			category TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_node ON market_items(node_id)`,

		// Append-only transaction logs. seq preserves log order per node.
		`CREATE TABLE IF NOT EXISTS transactions (
			id         TEXT PRIMARY KEY,
			node_id    TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
			seq        INTEGER NOT NULL,
			item_id    TEXT NOT NULL,
			title      TEXT NOT NULL,
			cost       INTEGER NOT NULL,
			icon       TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL,
			status     TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_node ON transactions(node_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_status ON transactions(status)`,
	}
}
