// Package observability exposes Prometheus metrics for the economy core:
// operation counters, per-node balance gauges, and transaction status counts.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/inside-labs/inside/internal/domain"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// LedgerOperations counts state-machine operations by operation and outcome.
var LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "inside",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Total ledger operations by operation and outcome.",
}, []string{"op", "outcome"})

// NodeBalance tracks the current balance per relationship node.
var NodeBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "inside",
	Subsystem: "ledger",
	Name:      "node_balance",
	Help:      "Current currency balance per relationship node.",
}, []string{"node_id"})

// TransactionStatusChanges counts status transitions by resulting status.
var TransactionStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "inside",
	Subsystem: "ledger",
	Name:      "transaction_status_changes_total",
	Help:      "Total transaction status transitions by resulting status.",
}, []string{"status"})

// RegisteredNodes tracks the number of ledgers in the registry.
var RegisteredNodes = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "inside",
	Subsystem: "registry",
	Name:      "nodes",
	Help:      "Number of relationship nodes currently registered.",
})

// RecordOperation records one ledger operation result.
func RecordOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LedgerOperations.WithLabelValues(op, outcome).Inc()
}

// ─── Event Bridge ───────────────────────────────────────────────────────────

// MetricsEvents implements domain.EconomyEvents by updating the gauges above.
// Wrap it around another consumer with Fanout to keep a notification path and
// metrics in one subscription.
type MetricsEvents struct{}

func (MetricsEvents) OnNodeBalanceChanged(nodeID string, newBalance int64) {
	NodeBalance.WithLabelValues(nodeID).Set(float64(newBalance))
}

func (MetricsEvents) OnTransactionStatusChanged(_, _ string, status domain.TransactionStatus) {
	TransactionStatusChanges.WithLabelValues(string(status)).Inc()
}

// Fanout broadcasts economy events to several consumers in order.
type Fanout []domain.EconomyEvents

func (f Fanout) OnNodeBalanceChanged(nodeID string, newBalance int64) {
	for _, e := range f {
		e.OnNodeBalanceChanged(nodeID, newBalance)
	}
}

func (f Fanout) OnTransactionStatusChanged(nodeID, txID string, status domain.TransactionStatus) {
	for _, e := range f {
		e.OnTransactionStatusChanged(nodeID, txID, status)
	}
}
