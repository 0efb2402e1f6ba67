// Package ledger implements the multi-ledger economy core: per-node balance
// bookkeeping, catalog management, and the transaction state machine.
//
// Each Ledger:
//  1. Validates the requested operation against the state table
//  2. Mutates balance and transaction log as a single atomic step
//  3. Fires economy event hooks for subscribers
//  4. Routes the updated profile to the injected store (write-through)
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inside-labs/inside/internal/domain"
)

// Ledger owns one relationship node's balance, catalog, and append-only
// transaction log. All state-machine operations on one node are serialized by
// its mutex; operations across different nodes proceed independently.
type Ledger struct {
	mu      sync.Mutex
	quiesce *sync.RWMutex // shared snapshot lock, held read-side during mutation
	node    domain.Node
	events  domain.EconomyEvents
	save    func() error // persists the owning registry's profile; nil in tests
}

// newLedger wires a ledger around node state. The registry is the only
// production caller; tests construct ledgers directly via NewStandalone.
func newLedger(node domain.Node, quiesce *sync.RWMutex, events domain.EconomyEvents, save func() error) *Ledger {
	if events == nil {
		events = domain.NopEvents{}
	}
	if quiesce == nil {
		quiesce = &sync.RWMutex{}
	}
	return &Ledger{node: node, quiesce: quiesce, events: events, save: save}
}

// NewStandalone creates a ledger detached from any registry or store.
func NewStandalone(node domain.Node, events domain.EconomyEvents) *Ledger {
	return newLedger(node, nil, events, nil)
}

// NodeID returns the owning node's id.
func (l *Ledger) NodeID() string { return l.node.ID }

// Snapshot returns a deep copy of the node state. Safe to retain.
func (l *Ledger) Snapshot() domain.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneNode(l.node)
}

// Balance returns the current balance.
func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.node.Balance
}

// mutate runs fn with exclusive access to the node state. If fn returns an
// error the node is left exactly as before the call (fn validates before it
// writes). On success the profile is persisted write-through: the in-memory
// mutation stays authoritative even when the save fails, and the save failure
// is returned wrapped in domain.ErrPersistenceFailure.
func (l *Ledger) mutate(fn func(n *domain.Node) error) error {
	l.quiesce.RLock()
	l.mu.Lock()
	err := fn(&l.node)
	l.mu.Unlock()
	l.quiesce.RUnlock()
	if err != nil {
		return err
	}
	if l.save != nil {
		if serr := l.save(); serr != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, serr)
		}
	}
	return nil
}

// ─── Catalog Management ─────────────────────────────────────────────────────

// AddItem lists a new item in the node's catalog and returns it.
// Catalog changes never touch balance or transactions.
func (l *Ledger) AddItem(title string, cost int64, icon string, kind domain.ItemKind, category domain.ItemCategory) (domain.MarketItem, error) {
	if title == "" {
		return domain.MarketItem{}, domain.ErrEmptyTitle
	}
	if cost < 0 {
		return domain.MarketItem{}, domain.ErrNegativeCost
	}

	item := domain.MarketItem{
		ID:       uuid.NewString(),
		Title:    title,
		Cost:     cost,
		Icon:     icon,
		Kind:     kind,
		Category: category,
	}

	err := l.mutate(func(n *domain.Node) error {
		n.MarketItems = append(n.MarketItems, item)
		return nil
	})
	return item, err
}

// RemoveItem delists an item. Transactions that already reference the item
// remain valid — they carry their own copy of cost, title, and icon.
func (l *Ledger) RemoveItem(itemID string) error {
	return l.mutate(func(n *domain.Node) error {
		for i, item := range n.MarketItems {
			if item.ID == itemID {
				n.MarketItems = append(n.MarketItems[:i], n.MarketItems[i+1:]...)
				return nil
			}
		}
		return domain.ErrItemNotFound
	})
}

// Items returns a copy of the catalog.
func (l *Ledger) Items() []domain.MarketItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.MarketItem, len(l.node.MarketItems))
	copy(out, l.node.MarketItems)
	return out
}

// SetEconomy replaces the node's currency configuration. Historical
// transactions keep their recorded costs; only the display currency changes.
func (l *Ledger) SetEconomy(eco domain.EconomyConfig) error {
	return l.mutate(func(n *domain.Node) error {
		n.Economy = eco
		return nil
	})
}

// ─── Transaction State Machine ──────────────────────────────────────────────

// InitiatePurchase buys a spend-category item: debits the balance and appends
// a purchased transaction in one atomic step. Rejected with
// ErrInsufficientFunds when the balance cannot cover the cost.
func (l *Ledger) InitiatePurchase(itemID string) (domain.Transaction, error) {
	var tx domain.Transaction
	err := l.mutate(func(n *domain.Node) error {
		item, ok := findItem(n, itemID)
		if !ok {
			return domain.ErrItemNotFound
		}
		if item.Category != domain.CategorySpend {
			return fmt.Errorf("%w: item %q is not purchasable", domain.ErrInvalidTransition, item.Title)
		}
		if n.Balance < item.Cost {
			return domain.ErrInsufficientFunds
		}

		tx = newTransaction(item, domain.StatusPurchased)
		n.Balance -= item.Cost
		n.Transactions = append(n.Transactions, tx)

		l.events.OnNodeBalanceChanged(n.ID, n.Balance)
		l.events.OnTransactionStatusChanged(n.ID, tx.ID, tx.Status)
		return nil
	})
	return tx, err
}

// Redeem consumes a purchased reward. No balance change.
func (l *Ledger) Redeem(txID string) error {
	return l.transition(txID, domain.StatusRedeemed, func(tx *domain.Transaction, n *domain.Node) error {
		if tx.Status != domain.StatusPurchased {
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// InitiateBounty accepts an earn-category item. A bounty cannot be in flight
// twice concurrently for the same node: an existing transaction for the item
// in accepted or pending_approval blocks a new acceptance.
func (l *Ledger) InitiateBounty(itemID string) (domain.Transaction, error) {
	var tx domain.Transaction
	err := l.mutate(func(n *domain.Node) error {
		item, ok := findItem(n, itemID)
		if !ok {
			return domain.ErrItemNotFound
		}
		if item.Category != domain.CategoryEarn {
			return fmt.Errorf("%w: item %q is not a bounty", domain.ErrInvalidTransition, item.Title)
		}
		for _, t := range n.Transactions {
			if t.ItemID == itemID && t.Category == domain.CategoryEarn && t.Status.Active() {
				return domain.ErrDuplicateActiveBounty
			}
		}

		tx = newTransaction(item, domain.StatusAccepted)
		n.Transactions = append(n.Transactions, tx)

		l.events.OnTransactionStatusChanged(n.ID, tx.ID, tx.Status)
		return nil
	})
	return tx, err
}

// MarkComplete moves an accepted bounty to pending_approval. No balance change.
func (l *Ledger) MarkComplete(txID string) error {
	return l.transition(txID, domain.StatusPendingApproval, func(tx *domain.Transaction, n *domain.Node) error {
		if tx.Status != domain.StatusAccepted {
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// Approve settles a pending bounty: credits the balance and marks the
// transaction approved in one atomic step. Approval is a two-party protocol —
// the counterpart verifies completion, so the initiating owner cannot approve
// their own bounty.
func (l *Ledger) Approve(txID string, actor domain.Actor) error {
	if actor != domain.ActorCounterpart {
		return domain.ErrUnauthorizedActor
	}
	return l.transition(txID, domain.StatusApproved, func(tx *domain.Transaction, n *domain.Node) error {
		if tx.Status != domain.StatusPendingApproval {
			return domain.ErrInvalidTransition
		}
		n.Balance += tx.Cost
		l.events.OnNodeBalanceChanged(n.ID, n.Balance)
		return nil
	})
}

// Cancel abandons an in-flight bounty. Either party may cancel. The canceled
// transaction stays in the log for auditability but releases the item for a
// fresh acceptance.
func (l *Ledger) Cancel(txID string, actor domain.Actor) error {
	if actor != domain.ActorOwner && actor != domain.ActorCounterpart {
		return domain.ErrUnauthorizedActor
	}
	return l.transition(txID, domain.StatusCanceled, func(tx *domain.Transaction, n *domain.Node) error {
		if !tx.Status.Active() {
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// Credit applies an unconditional balance credit outside the bounty flow.
// This is the injection path for completed activities: the activities
// subsystem awards currency directly, with no state-machine transition and no
// transaction appended.
func (l *Ledger) Credit(amount int64, reason string) error {
	if amount < 0 {
		return domain.ErrNegativeCost
	}
	return l.mutate(func(n *domain.Node) error {
		n.Balance += amount
		l.events.OnNodeBalanceChanged(n.ID, n.Balance)
		return nil
	})
}

// Transactions returns a copy of the transaction log, oldest first.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Transaction, len(l.node.Transactions))
	copy(out, l.node.Transactions)
	return out
}

// transition locates txID and applies check, then sets the target status.
// check validates the current status (and may adjust balance); if it errors,
// nothing is mutated.
func (l *Ledger) transition(txID string, to domain.TransactionStatus, check func(tx *domain.Transaction, n *domain.Node) error) error {
	return l.mutate(func(n *domain.Node) error {
		for i := range n.Transactions {
			if n.Transactions[i].ID != txID {
				continue
			}
			if err := check(&n.Transactions[i], n); err != nil {
				return err
			}
			n.Transactions[i].Status = to
			l.events.OnTransactionStatusChanged(n.ID, txID, to)
			return nil
		}
		return domain.ErrTransactionNotFound
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func findItem(n *domain.Node, itemID string) (domain.MarketItem, bool) {
	for _, item := range n.MarketItems {
		if item.ID == itemID {
			return item, true
		}
	}
	return domain.MarketItem{}, false
}

// newTransaction copies the item's cost, title, and icon so later catalog
// edits cannot retroactively change this record.
func newTransaction(item domain.MarketItem, status domain.TransactionStatus) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.NewString(),
		ItemID:    item.ID,
		Title:     item.Title,
		Cost:      item.Cost,
		Icon:      item.Icon,
		Category:  item.Category,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func cloneNode(n domain.Node) domain.Node {
	out := n
	out.MarketItems = make([]domain.MarketItem, len(n.MarketItems))
	copy(out.MarketItems, n.MarketItems)
	out.Transactions = make([]domain.Transaction, len(n.Transactions))
	copy(out.Transactions, n.Transactions)
	return out
}
