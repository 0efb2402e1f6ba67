package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/inside-labs/inside/internal/domain"
)

// ─── Live Economy Event Feed ────────────────────────────────────────────────
// The product UI reacts instantly to balance and transaction changes; the hub
// fans economy events out to connected clients over Server-Sent Events.
// Delivered as {type: "balance_changed", node_id: ..., balance: 650} and
// {type: "status_changed", node_id: ..., tx_id: ..., status: "approved"}.

// EventHub manages SSE subscriptions for the live economy feed. It implements
// domain.EconomyEvents and can sit directly on the registry (alone or inside
// an observability.Fanout).
type EventHub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[chan []byte]struct{}),
	}
}

// EconomyEvent is one entry in the live feed.
type EconomyEvent struct {
	Type      string `json:"type"` // "balance_changed" or "status_changed"
	NodeID    string `json:"node_id"`
	TxID      string `json:"tx_id,omitempty"`
	Balance   int64  `json:"balance,omitempty"`
	Status    string `json:"status,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix epoch
}

// OnNodeBalanceChanged implements domain.EconomyEvents.
func (h *EventHub) OnNodeBalanceChanged(nodeID string, newBalance int64) {
	h.broadcast(EconomyEvent{
		Type:      "balance_changed",
		NodeID:    nodeID,
		Balance:   newBalance,
		Timestamp: time.Now().Unix(),
	})
}

// OnTransactionStatusChanged implements domain.EconomyEvents.
func (h *EventHub) OnTransactionStatusChanged(nodeID, txID string, status domain.TransactionStatus) {
	h.broadcast(EconomyEvent{
		Type:      "status_changed",
		NodeID:    nodeID,
		TxID:      txID,
		Status:    string(status),
		Timestamp: time.Now().Unix(),
	})
}

// broadcast sends an event to all connected clients without blocking: a
// client that cannot keep up drops messages rather than stalling a ledger
// operation.
func (h *EventHub) broadcast(event EconomyEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client too slow — drop message
		}
	}
}

// Subscribe registers a new client. Returns the channel and an unsubscribe func.
func (h *EventHub) Subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleSSE serves the live economy feed via Server-Sent Events.
// GET /api/events/live
func (h *EventHub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	flusher.Flush()

	ch, unsub := h.Subscribe()
	defer unsub()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			w.Write([]byte("data: "))
			w.Write(data)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
