package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/inside-labs/inside/internal/api"
	"github.com/inside-labs/inside/internal/app/ledger"
	"github.com/inside-labs/inside/internal/daemon"
	"github.com/inside-labs/inside/internal/infra/observability"
	"github.com/inside-labs/inside/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inside API daemon",
	Long: `Start the HTTP API server. The product UI talks to this daemon for
node lifecycle, marketplace actions, the transaction state machine, the
aggregated vault view, and the live economy event feed.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(daemon.ConfigPath())
	if err != nil {
		return err
	}
	dir, err := cfg.StorageDir()
	if err != nil {
		return err
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	hub := api.NewEventHub()
	events := observability.Fanout{observability.MetricsEvents{}, hub}

	reg := ledger.NewRegistry(db, events)
	reg.SetNodeDefaults(cfg.NodeDefaults())
	if err := reg.LoadProfile(); err != nil {
		return err
	}
	observability.RegisteredNodes.Set(float64(reg.Len()))

	srv := api.NewServer(reg)
	srv.SetEventHub(hub)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.API.Addr()
	}

	fmt.Fprintf(os.Stdout, "inside listening on %s (%d nodes)\n", addr, reg.Len())
	return http.ListenAndServe(addr, srv.Handler())
}
