// Package cli implements the inside command line interface.
// Commands operate directly on the local profile store; `inside serve` runs
// the HTTP API daemon for the product UI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inside-labs/inside/internal/app/ledger"
	"github.com/inside-labs/inside/internal/daemon"
	"github.com/inside-labs/inside/internal/infra/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "inside",
	Short: "Relationship economy engine",
	Long: `inside maintains independent relationship ledgers: each node has its
own virtual currency, a marketplace of rewards and bounties, and a running
balance. Spend currency on rewards, accept bounties that pay out once your
counterpart verifies them, and see everything aggregated in the vault.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRegistry loads config, opens the store, and hydrates the registry.
// The caller must Close the returned DB.
func openRegistry() (*ledger.Registry, *sqlite.DB, error) {
	cfg, err := daemon.Load(daemon.ConfigPath())
	if err != nil {
		return nil, nil, err
	}
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	reg := ledger.NewRegistry(db, nil)
	reg.SetNodeDefaults(cfg.NodeDefaults())
	if err := reg.LoadProfile(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return reg, db, nil
}
