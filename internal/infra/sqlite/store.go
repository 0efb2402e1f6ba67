package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/inside-labs/inside/internal/domain"
)

// ─── ProfileStore Implementation ────────────────────────────────────────────
// Save replaces the stored profile inside one SQL transaction, so a partially
// written profile is never observable. Load returns nil for an empty store.

// Save writes the full profile through to disk.
func (db *DB) Save(p *domain.Profile) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO profile (key, id, name, currency_name, currency_symbol, updated_at)
		VALUES (1, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			id              = excluded.id,
			name            = excluded.name,
			currency_name   = excluded.currency_name,
			currency_symbol = excluded.currency_symbol,
			updated_at      = datetime('now')
	`, p.ID, p.Name, p.Economy.CurrencyName, p.Economy.CurrencySymbol); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	// Whole-snapshot replace: nodes removed from the profile disappear from
	// storage too (deleting a node discards its ledger and history).
	for _, table := range []string{"transactions", "market_items", "nodes"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, node := range p.Nodes {
		if _, err := tx.Exec(`
			INSERT INTO nodes (id, name, relationship, currency_name, currency_symbol, balance)
			VALUES (?, ?, ?, ?, ?, ?)
		`, node.ID, node.Name, node.Relationship, node.Economy.CurrencyName, node.Economy.CurrencySymbol, node.Balance); err != nil {
			return fmt.Errorf("save node %s: %w", node.ID, err)
		}

		for _, item := range node.MarketItems {
			if _, err := tx.Exec(`
				INSERT INTO market_items (id, node_id, title, cost, icon, kind, category)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, item.ID, node.ID, item.Title, item.Cost, item.Icon, string(item.Kind), string(item.Category)); err != nil {
				return fmt.Errorf("save item %s: %w", item.ID, err)
			}
		}

		for seq, rec := range node.Transactions {
			if _, err := tx.Exec(`
				INSERT INTO transactions (id, node_id, seq, item_id, title, cost, icon, category, status, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, rec.ID, node.ID, seq, rec.ItemID, rec.Title, rec.Cost, rec.Icon,
				string(rec.Category), string(rec.Status), rec.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("save transaction %s: %w", rec.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Load reads the stored profile. Returns (nil, nil) when nothing has been
// saved yet.
func (db *DB) Load() (*domain.Profile, error) {
	var p domain.Profile
	err := db.db.QueryRow(`
		SELECT id, name, currency_name, currency_symbol FROM profile WHERE key = 1
	`).Scan(&p.ID, &p.Name, &p.Economy.CurrencyName, &p.Economy.CurrencySymbol)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	nodes, err := db.loadNodes()
	if err != nil {
		return nil, err
	}
	p.Nodes = nodes
	return &p, nil
}

func (db *DB) loadNodes() ([]domain.Node, error) {
	rows, err := db.db.Query(`
		SELECT id, name, relationship, currency_name, currency_symbol, balance
		FROM nodes ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		var n domain.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.Relationship,
			&n.Economy.CurrencyName, &n.Economy.CurrencySymbol, &n.Balance); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range nodes {
		if nodes[i].MarketItems, err = db.loadItems(nodes[i].ID); err != nil {
			return nil, err
		}
		if nodes[i].Transactions, err = db.loadTransactions(nodes[i].ID); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func (db *DB) loadItems(nodeID string) ([]domain.MarketItem, error) {
	rows, err := db.db.Query(`
		SELECT id, title, cost, icon, kind, category
		FROM market_items WHERE node_id = ? ORDER BY rowid
	`, nodeID)
	if err != nil {
		return nil, fmt.Errorf("load items for %s: %w", nodeID, err)
	}
	defer rows.Close()

	var items []domain.MarketItem
	for rows.Next() {
		var item domain.MarketItem
		var kind, category string
		if err := rows.Scan(&item.ID, &item.Title, &item.Cost, &item.Icon, &kind, &category); err != nil {
			return nil, err
		}
		item.Kind = domain.ItemKind(kind)
		item.Category = domain.ItemCategory(category)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (db *DB) loadTransactions(nodeID string) ([]domain.Transaction, error) {
	rows, err := db.db.Query(`
		SELECT id, item_id, title, cost, icon, category, status, created_at
		FROM transactions WHERE node_id = ? ORDER BY seq
	`, nodeID)
	if err != nil {
		return nil, fmt.Errorf("load transactions for %s: %w", nodeID, err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var rec domain.Transaction
		var category, status, createdStr string
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.Title, &rec.Cost, &rec.Icon,
			&category, &status, &createdStr); err != nil {
			return nil, err
		}
		rec.Category = domain.ItemCategory(category)
		rec.Status = domain.TransactionStatus(status)
		created, err := time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: bad created_at %q: %w", rec.ID, createdStr, err)
		}
		rec.CreatedAt = created
		txs = append(txs, rec)
	}
	return txs, rows.Err()
}
