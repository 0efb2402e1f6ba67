package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// ProfileStore abstracts durable profile storage. The core calls Save after
// every mutating operation; failure handling is the store's responsibility,
// surfaced to the core as an error it wraps in ErrPersistenceFailure.
type ProfileStore interface {
	Load() (*Profile, error)
	Save(*Profile) error
}

// EconomyEvents is the notification surface the core exposes to the rest of
// the product. Consumers (notification presentation, activity-completion
// flows) subscribe to award or display currency changes. Implementations must
// be cheap and non-blocking — they are invoked while a ledger is held.
type EconomyEvents interface {
	OnNodeBalanceChanged(nodeID string, newBalance int64)
	OnTransactionStatusChanged(nodeID, txID string, status TransactionStatus)
}

// NopEvents is an EconomyEvents that discards everything. Useful as a default
// and in tests.
type NopEvents struct{}

func (NopEvents) OnNodeBalanceChanged(string, int64)                        {}
func (NopEvents) OnTransactionStatusChanged(string, string, TransactionStatus) {}
