// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import "time"

// ─── Economy Types ──────────────────────────────────────────────────────────

// EconomyConfig describes one virtual currency. Immutable value type; each
// relationship node owns one (its offered currency), and the primary user
// owns one of their own.
type EconomyConfig struct {
	CurrencyName   string `json:"currency_name"`
	CurrencySymbol string `json:"currency_symbol"`
}

// ─── Market Types ───────────────────────────────────────────────────────────

// ItemKind classifies what a market item physically is.
type ItemKind string

const (
	KindService ItemKind = "service"
	KindProduct ItemKind = "product"
	KindQuest   ItemKind = "quest"
)

// ItemCategory determines which side of the economy an item sits on.
type ItemCategory string

const (
	// CategoryEarn items are bounties: completing them pays the node's
	// currency to the primary user.
	CategoryEarn ItemCategory = "earn"
	// CategorySpend items are rewards: purchasable with accumulated currency.
	CategorySpend ItemCategory = "spend"
)

// MarketItem is a listable catalog entry on a relationship node.
// Transactions copy Cost/Title/Icon at creation time, so editing or removing
// a catalog item never rewrites historical transactions.
type MarketItem struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Cost     int64        `json:"cost"`
	Icon     string       `json:"icon"`
	Kind     ItemKind     `json:"kind"`
	Category ItemCategory `json:"category"`
}

// ─── Transaction Types ──────────────────────────────────────────────────────

// TransactionStatus is the closed set of transaction lifecycle states.
// Every transition site in the ledger matches one edge of the state table;
// there is no free-form status string anywhere in the system.
type TransactionStatus string

const (
	// StatusPurchased: reward bought, sitting in the vault, not yet used.
	StatusPurchased TransactionStatus = "purchased"
	// StatusRedeemed: reward consumed. Terminal.
	StatusRedeemed TransactionStatus = "redeemed"
	// StatusAccepted: bounty taken, in progress.
	StatusAccepted TransactionStatus = "accepted"
	// StatusPendingApproval: bounty marked done, awaiting the counterpart.
	StatusPendingApproval TransactionStatus = "pending_approval"
	// StatusApproved: counterpart confirmed, currency paid out. Terminal.
	StatusApproved TransactionStatus = "approved"
	// StatusCanceled: bounty abandoned. Terminal.
	StatusCanceled TransactionStatus = "canceled"
)

// Terminal reports whether no further transition is allowed from s.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusRedeemed, StatusApproved, StatusCanceled:
		return true
	}
	return false
}

// Active reports whether a bounty transaction in this status blocks a new
// acceptance of the same item (the duplicate-active-bounty rule).
func (s TransactionStatus) Active() bool {
	return s == StatusAccepted || s == StatusPendingApproval
}

// Transaction is one row in a node's append-only transaction log. Rows are
// only ever transitioned in place to a new status, never deleted or reordered.
type Transaction struct {
	ID        string            `json:"id"`
	ItemID    string            `json:"item_id"`
	Title     string            `json:"title"`
	Cost      int64             `json:"cost"`
	Icon      string            `json:"icon"`
	Category  ItemCategory      `json:"category"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// ─── Actor Types ────────────────────────────────────────────────────────────

// Actor identifies which side of a relationship performs an operation.
// Bounty approval is a two-party protocol: the owner who accepted the bounty
// cannot also approve it.
type Actor string

const (
	ActorOwner       Actor = "owner"
	ActorCounterpart Actor = "counterpart"
)

// ─── Node & Profile Types ───────────────────────────────────────────────────

// Node is the persisted state of one relationship node: its currency, the
// primary user's balance of that currency, the item catalog, and the
// transaction log.
type Node struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Relationship string        `json:"relationship"`
	Economy      EconomyConfig `json:"economy"`
	Balance      int64         `json:"balance"`
	MarketItems  []MarketItem  `json:"market_items"`
	Transactions []Transaction `json:"transactions"`
}

// Profile is the full persisted record: the primary user plus all of their
// relationship nodes.
type Profile struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Economy EconomyConfig `json:"economy"`
	Nodes   []Node        `json:"nodes"`
}
