package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inside-labs/inside/internal/domain"
)

func init() {
	rootCmd.AddCommand(nodeCmd)
	nodeCmd.AddCommand(nodeAddCmd)
	nodeCmd.AddCommand(nodeListCmd)
	nodeCmd.AddCommand(nodeRemoveCmd)

	nodeAddCmd.Flags().String("relationship", "", "Relationship label (partner, friend, ...)")
	nodeAddCmd.Flags().String("currency", "", "Currency name (default from config)")
	nodeAddCmd.Flags().String("symbol", "", "Currency symbol")
	nodeAddCmd.Flags().Int64("balance", domain.UseDefaultBalance, "Starting balance (configured default when omitted; 0 is honored)")
}

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Manage relationship nodes",
}

var nodeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new node with its own economy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		relationship, _ := cmd.Flags().GetString("relationship")
		currency, _ := cmd.Flags().GetString("currency")
		symbol, _ := cmd.Flags().GetString("symbol")
		balance, _ := cmd.Flags().GetInt64("balance")

		node := domain.Node{
			Name:         args[0],
			Relationship: relationship,
			Balance:      balance,
		}
		if currency != "" || symbol != "" {
			node.Economy = domain.EconomyConfig{CurrencyName: currency, CurrencySymbol: symbol}
		}

		led, err := reg.CreateLedger(node)
		if err != nil {
			return err
		}
		snap := led.Snapshot()
		fmt.Printf("created node %s (%s) with %d %s\n", snap.Name, snap.ID, snap.Balance, snap.Economy.CurrencyName)
		return nil
	},
}

var nodeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all nodes with balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		nodes := reg.SnapshotAll()
		if len(nodes) == 0 {
			fmt.Println("no nodes yet; run `inside node add <name>`")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tRELATIONSHIP\tBALANCE\tCURRENCY")
		for _, n := range nodes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d %s\t%s\n",
				n.ID, n.Name, n.Relationship, n.Balance, n.Economy.CurrencySymbol, n.Economy.CurrencyName)
		}
		return w.Flush()
	},
}

var nodeRemoveCmd = &cobra.Command{
	Use:   "remove <node-id>",
	Short: "Remove a node and its ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := reg.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed node %s\n", args[0])
		return nil
	},
}
