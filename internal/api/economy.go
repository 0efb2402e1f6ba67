package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inside-labs/inside/internal/app/ledger"
	"github.com/inside-labs/inside/internal/domain"
	"github.com/inside-labs/inside/internal/infra/observability"
)

// ─── Economy API ────────────────────────────────────────────────────────────
// REST endpoints for the marketplace UI:
//
// GET    /api/nodes                                 — list nodes with balances
// POST   /api/nodes                                 — create a node (seeded defaults)
// GET    /api/nodes/{id}                            — full node state
// DELETE /api/nodes/{id}                            — remove node, discard history
// PUT    /api/nodes/{id}/economy                    — set node currency
// GET    /api/nodes/{id}/market                     — catalog
// POST   /api/nodes/{id}/market                     — list an item
// DELETE /api/nodes/{id}/market/{itemID}            — delist an item
// POST   /api/nodes/{id}/purchase                   — buy a reward
// POST   /api/nodes/{id}/bounties                   — accept a bounty
// POST   /api/nodes/{id}/credit                     — unconditional credit
// GET    /api/nodes/{id}/transactions               — full log incl. canceled
// POST   /api/nodes/{id}/transactions/{tx}/redeem   — consume a purchase
// POST   /api/nodes/{id}/transactions/{tx}/complete — mark bounty done
// POST   /api/nodes/{id}/transactions/{tx}/approve  — counterpart settles
// POST   /api/nodes/{id}/transactions/{tx}/cancel   — abandon a bounty
// GET    /api/vault                                 — aggregated lifecycle view

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrDuplicateActiveBounty):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLedgerExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrLedgerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedActor):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrEmptyTitle), errors.Is(err, domain.ErrNegativeCost):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) ledgerFor(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, bool) {
	l, err := s.registry.Get(chi.URLParam(r, "nodeID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return nil, false
	}
	return l, true
}

// ─── Node Lifecycle ─────────────────────────────────────────────────────────

// HandleListNodes returns all nodes with balances and currencies, catalog and
// log sizes only (the full state is one more GET away).
func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	type nodeSummary struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Relationship   string `json:"relationship"`
		Balance        int64  `json:"balance"`
		CurrencyName   string `json:"currency_name"`
		CurrencySymbol string `json:"currency_symbol"`
		Items          int    `json:"items"`
		Transactions   int    `json:"transactions"`
	}

	var out []nodeSummary
	for _, n := range s.registry.SnapshotAll() {
		out = append(out, nodeSummary{
			ID:             n.ID,
			Name:           n.Name,
			Relationship:   n.Relationship,
			Balance:        n.Balance,
			CurrencyName:   n.Economy.CurrencyName,
			CurrencySymbol: n.Economy.CurrencySymbol,
			Items:          len(n.MarketItems),
			Transactions:   len(n.Transactions),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"nodes": out})
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		Relationship    string `json:"relationship"`
		CurrencyName    string `json:"currency_name"`
		CurrencySymbol  string `json:"currency_symbol"`
		StartingBalance *int64 `json:"starting_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "node name required")
		return
	}

	node := domain.Node{
		ID:           req.ID,
		Name:         req.Name,
		Relationship: req.Relationship,
		Balance:      domain.UseDefaultBalance,
	}
	if req.StartingBalance != nil {
		if *req.StartingBalance < 0 {
			writeError(w, http.StatusBadRequest, "starting_balance must not be negative")
			return
		}
		node.Balance = *req.StartingBalance
	}
	if req.CurrencyName != "" {
		node.Economy = domain.EconomyConfig{
			CurrencyName:   req.CurrencyName,
			CurrencySymbol: req.CurrencySymbol,
		}
	}

	l, err := s.registry.CreateLedger(node)
	observability.RecordOperation("create_node", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	observability.RegisteredNodes.Set(float64(s.registry.Len()))
	writeJSON(w, http.StatusCreated, l.Snapshot())
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, l.Snapshot())
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	err := s.registry.Remove(chi.URLParam(r, "nodeID"))
	observability.RecordOperation("remove_node", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	observability.RegisteredNodes.Set(float64(s.registry.Len()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleSetEconomy(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	var req domain.EconomyConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CurrencyName == "" {
		writeError(w, http.StatusBadRequest, "currency_name required")
		return
	}
	if err := l.SetEconomy(req); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleCurrencyPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"presets": domain.CurrencyPresets(),
	})
}

// ─── Catalog ────────────────────────────────────────────────────────────────

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": l.Items()})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Title    string `json:"title"`
		Cost     int64  `json:"cost"`
		Icon     string `json:"icon"`
		Kind     string `json:"kind"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := domain.ItemKind(req.Kind)
	if kind == "" {
		kind = domain.KindService
	}
	category := domain.ItemCategory(req.Category)
	if category != domain.CategoryEarn && category != domain.CategorySpend {
		writeError(w, http.StatusBadRequest, "category must be earn or spend")
		return
	}

	item, err := l.AddItem(req.Title, req.Cost, req.Icon, kind, category)
	observability.RecordOperation("add_item", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	err := l.RemoveItem(chi.URLParam(r, "itemID"))
	observability.RecordOperation("remove_item", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ─── State Machine ──────────────────────────────────────────────────────────

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := l.InitiatePurchase(req.ItemID)
	observability.RecordOperation("purchase", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction": tx,
		"balance":     l.Balance(),
	})
}

func (s *Server) handleAcceptBounty(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := l.InitiateBounty(req.ItemID)
	observability.RecordOperation("accept_bounty", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"transaction": tx})
}

func (s *Server) handleCredit(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := l.Credit(req.Amount, req.Reason)
	observability.RecordOperation("credit", err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"balance": l.Balance()})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": l.Transactions(),
	})
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "redeem", func(l *ledger.Ledger, txID string, _ domain.Actor) error {
		return l.Redeem(txID)
	})
}

func (s *Server) handleMarkComplete(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "complete", func(l *ledger.Ledger, txID string, _ domain.Actor) error {
		return l.MarkComplete(txID)
	})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "approve", func(l *ledger.Ledger, txID string, actor domain.Actor) error {
		return l.Approve(txID, actor)
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "cancel", func(l *ledger.Ledger, txID string, actor domain.Actor) error {
		return l.Cancel(txID, actor)
	})
}

// transition runs one status-transition handler. The actor defaults to owner;
// approve requires an explicit counterpart actor in the body.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, op string, fn func(l *ledger.Ledger, txID string, actor domain.Actor) error) {
	l, ok := s.ledgerFor(w, r)
	if !ok {
		return
	}

	actor := domain.ActorOwner
	if r.Body != nil {
		var req struct {
			Actor string `json:"actor"`
		}
		// Empty body is fine; only decode errors on malformed JSON matter.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Actor != "" {
			actor = domain.Actor(req.Actor)
		}
	}

	txID := chi.URLParam(r, "txID")
	err := fn(l, txID, actor)
	observability.RecordOperation(op, err)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"balance": l.Balance(),
	})
}

// ─── Vault ──────────────────────────────────────────────────────────────────

func (s *Server) handleVault(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vault.View())
}
