// Package api provides the HTTP server for inside.
// It exposes the economy core as a REST API: node lifecycle, catalog
// management, the transaction state machine, and the aggregated vault view.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inside-labs/inside/internal/app/ledger"
	"github.com/inside-labs/inside/internal/app/vault"
)

// Version is the reported API version.
const Version = "0.1.0"

// Server is the inside HTTP API server.
type Server struct {
	registry       *ledger.Registry
	vault          *vault.Aggregator
	events         *EventHub
	metricsEnabled bool
}

// NewServer creates a new API server over the given registry.
func NewServer(reg *ledger.Registry) *Server {
	return &Server{
		registry: reg,
		vault:    vault.New(reg),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetEventHub sets the live economy event feed.
func (s *Server) SetEventHub(h *EventHub) { s.events = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "inside is running",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/economy/presets", s.handleCurrencyPresets)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", s.handleListNodes)
			r.Post("/", s.handleCreateNode)
			r.Route("/{nodeID}", func(r chi.Router) {
				r.Get("/", s.handleGetNode)
				r.Delete("/", s.handleRemoveNode)
				r.Put("/economy", s.handleSetEconomy)

				r.Get("/market", s.handleListItems)
				r.Post("/market", s.handleAddItem)
				r.Delete("/market/{itemID}", s.handleRemoveItem)

				r.Post("/purchase", s.handlePurchase)
				r.Post("/bounties", s.handleAcceptBounty)
				r.Post("/credit", s.handleCredit)
				r.Get("/transactions", s.handleListTransactions)
				r.Post("/transactions/{txID}/redeem", s.handleRedeem)
				r.Post("/transactions/{txID}/complete", s.handleMarkComplete)
				r.Post("/transactions/{txID}/approve", s.handleApprove)
				r.Post("/transactions/{txID}/cancel", s.handleCancel)
			})
		})

		r.Get("/vault", s.handleVault)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Live economy event feed
	if s.events != nil {
		r.Get("/api/events/live", s.events.HandleSSE)
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
