package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every error here is
// recoverable at the call site; the core never terminates on any of them.

var (
	// Ledger errors
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrDuplicateActiveBounty = errors.New("bounty already active for this item")
	ErrInvalidTransition     = errors.New("invalid transaction status transition")
	ErrItemNotFound          = errors.New("market item not found")
	ErrTransactionNotFound   = errors.New("transaction not found")

	// Registry errors
	ErrLedgerNotFound = errors.New("no ledger for node")
	ErrLedgerExists   = errors.New("ledger already exists for node")

	// Two-party protocol errors
	ErrUnauthorizedActor = errors.New("operation not permitted for this actor")

	// Catalog validation errors
	ErrEmptyTitle   = errors.New("item title must not be empty")
	ErrNegativeCost = errors.New("item cost must not be negative")

	// Persistence errors — callers wrap the store's own failure around this
	// sentinel so the underlying cause stays inspectable.
	ErrPersistenceFailure = errors.New("persistence failure")
)
