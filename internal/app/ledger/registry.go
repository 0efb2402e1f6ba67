package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/inside-labs/inside/internal/domain"
)

// Registry maps relationship-node identity to its Ledger and owns node
// lifecycle. It holds no business rules beyond existence checks; all
// state-machine logic lives in Ledger.
type Registry struct {
	mu      sync.RWMutex // guards ledgers map and profile fields
	quiesce sync.RWMutex // snapshot lock shared with every ledger
	ledgers map[string]*Ledger

	store  domain.ProfileStore
	events domain.EconomyEvents

	// Primary-user fields of the persisted profile. Node state lives in the
	// ledgers themselves.
	profileID   string
	profileName string
	userEconomy domain.EconomyConfig

	// Defaults applied to newly created nodes. Overridable from the daemon
	// config via SetNodeDefaults.
	defaultEconomy domain.EconomyConfig
	defaultBalance int64
}

// NewRegistry creates an empty registry. store may be nil (no persistence,
// used in tests); events may be nil.
func NewRegistry(store domain.ProfileStore, events domain.EconomyEvents) *Registry {
	if events == nil {
		events = domain.NopEvents{}
	}
	return &Registry{
		ledgers:        make(map[string]*Ledger),
		store:          store,
		events:         events,
		userEconomy:    domain.DefaultEconomy(),
		defaultEconomy: domain.DefaultEconomy(),
		defaultBalance: domain.DefaultStartingBalance,
	}
}

// SetNodeDefaults overrides the economy and starting balance seeded onto new
// nodes. A zero economy or negative balance leaves the current default.
func (r *Registry) SetNodeDefaults(eco domain.EconomyConfig, balance int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if eco != (domain.EconomyConfig{}) {
		r.defaultEconomy = eco
	}
	if balance >= 0 {
		r.defaultBalance = balance
	}
}

// LoadProfile hydrates the registry from the store. A missing or empty
// profile leaves the registry empty and is not an error.
func (r *Registry) LoadProfile() error {
	if r.store == nil {
		return nil
	}
	profile, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	if profile == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.profileID = profile.ID
	r.profileName = profile.Name
	if profile.Economy != (domain.EconomyConfig{}) {
		r.userEconomy = profile.Economy
	}
	for _, node := range profile.Nodes {
		r.ledgers[node.ID] = newLedger(cloneNode(node), &r.quiesce, r.events, r.persist)
	}
	return nil
}

// SetUser records the primary user's identity and own offered currency.
func (r *Registry) SetUser(id, name string, eco domain.EconomyConfig) error {
	r.mu.Lock()
	r.profileID = id
	r.profileName = name
	if eco != (domain.EconomyConfig{}) {
		r.userEconomy = eco
	}
	r.mu.Unlock()
	return r.persist()
}

// UserEconomy returns the primary user's own currency configuration.
func (r *Registry) UserEconomy() domain.EconomyConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userEconomy
}

// CreateLedger creates a node and its ledger. A zero-valued economy or nil
// catalog is filled with the configured defaults; a negative balance
// (domain.UseDefaultBalance) requests the configured starting balance, so an
// explicit zero stays zero. Creating twice for the same id is an error.
func (r *Registry) CreateLedger(node domain.Node) (*Ledger, error) {
	r.mu.RLock()
	defEco, defBalance := r.defaultEconomy, r.defaultBalance
	r.mu.RUnlock()

	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	if node.Economy == (domain.EconomyConfig{}) {
		node.Economy = defEco
	}
	if node.MarketItems == nil {
		for _, item := range domain.DefaultMarketItems() {
			item.ID = uuid.NewString()
			node.MarketItems = append(node.MarketItems, item)
		}
	}
	if node.Balance < 0 {
		node.Balance = defBalance
	}

	r.mu.Lock()
	if _, exists := r.ledgers[node.ID]; exists {
		r.mu.Unlock()
		return nil, domain.ErrLedgerExists
	}
	l := newLedger(node, &r.quiesce, r.events, r.persist)
	r.ledgers[node.ID] = l
	r.mu.Unlock()

	if err := r.persist(); err != nil {
		return l, err
	}
	return l, nil
}

// Get returns the ledger for nodeID.
func (r *Registry) Get(nodeID string) (*Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.ledgers[nodeID]
	if !ok {
		return nil, domain.ErrLedgerNotFound
	}
	return l, nil
}

// Remove deletes a node and its ledger. Irreversible: the node's balance and
// transaction history are discarded.
func (r *Registry) Remove(nodeID string) error {
	r.mu.Lock()
	if _, ok := r.ledgers[nodeID]; !ok {
		r.mu.Unlock()
		return domain.ErrLedgerNotFound
	}
	delete(r.ledgers, nodeID)
	r.mu.Unlock()

	return r.persist()
}

// Len returns the number of registered ledgers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ledgers)
}

// SnapshotAll returns a consistent deep copy of every node, ordered by node
// name then id. The snapshot lock excludes all in-flight mutations, so the
// result never mixes before/after states of concurrently mutated ledgers.
func (r *Registry) SnapshotAll() []domain.Node {
	r.quiesce.Lock()
	defer r.quiesce.Unlock()

	r.mu.RLock()
	nodes := make([]domain.Node, 0, len(r.ledgers))
	for _, l := range r.ledgers {
		nodes = append(nodes, cloneNode(l.node))
	}
	r.mu.RUnlock()

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// persist writes the full profile through to the store. Save failures are
// wrapped in ErrPersistenceFailure by the caller-facing paths; the in-memory
// state remains authoritative for the session either way.
func (r *Registry) persist() error {
	if r.store == nil {
		return nil
	}
	profile := r.Profile()
	if err := r.store.Save(&profile); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// Profile assembles the current persisted-state view of the whole registry.
func (r *Registry) Profile() domain.Profile {
	nodes := r.SnapshotAll()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.Profile{
		ID:      r.profileID,
		Name:    r.profileName,
		Economy: r.userEconomy,
		Nodes:   nodes,
	}
}
