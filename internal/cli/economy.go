package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inside-labs/inside/internal/app/vault"
	"github.com/inside-labs/inside/internal/domain"
)

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(redeemCmd)
	rootCmd.AddCommand(creditCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(vaultCmd)

	approveCmd.Flags().String("actor", string(domain.ActorCounterpart), "owner or counterpart")
	cancelCmd.Flags().String("actor", string(domain.ActorOwner), "owner or counterpart")
	creditCmd.Flags().String("reason", "", "What the credit is for")
	vaultCmd.Flags().Bool("json", false, "Emit the full vault view as JSON")
}

var buyCmd = &cobra.Command{
	Use:   "buy <node-id> <item-id>",
	Short: "Purchase a reward from a node's catalog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		led, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		tx, err := led.InitiatePurchase(args[1])
		if err != nil {
			return err
		}
		fmt.Printf("purchased %s for %d; balance now %d (tx %s)\n", tx.Title, tx.Cost, led.Balance(), tx.ID)
		return nil
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept <node-id> <item-id>",
	Short: "Accept a bounty from a node's catalog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		led, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		tx, err := led.InitiateBounty(args[1])
		if err != nil {
			return err
		}
		fmt.Printf("accepted bounty %s worth %d (tx %s)\n", tx.Title, tx.Cost, tx.ID)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <node-id> <tx-id>",
	Short: "Mark an accepted bounty as done, awaiting approval",
	Args:  cobra.ExactArgs(2),
	RunE:  transitionRunE(func(led ledgerOps, txID, _ string) error { return led.MarkComplete(txID) }),
}

var approveCmd = &cobra.Command{
	Use:   "approve <node-id> <tx-id>",
	Short: "Approve a completed bounty and pay it out",
	Args:  cobra.ExactArgs(2),
	RunE:  transitionRunE(func(led ledgerOps, txID, actor string) error { return led.Approve(txID, domain.Actor(actor)) }),
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <node-id> <tx-id>",
	Short: "Cancel an in-flight bounty",
	Args:  cobra.ExactArgs(2),
	RunE:  transitionRunE(func(led ledgerOps, txID, actor string) error { return led.Cancel(txID, domain.Actor(actor)) }),
}

var redeemCmd = &cobra.Command{
	Use:   "redeem <node-id> <tx-id>",
	Short: "Redeem a purchased reward",
	Args:  cobra.ExactArgs(2),
	RunE:  transitionRunE(func(led ledgerOps, txID, _ string) error { return led.Redeem(txID) }),
}

// ledgerOps is the slice of Ledger the transition commands need.
type ledgerOps interface {
	MarkComplete(txID string) error
	Approve(txID string, actor domain.Actor) error
	Cancel(txID string, actor domain.Actor) error
	Redeem(txID string) error
	Balance() int64
}

func transitionRunE(apply func(led ledgerOps, txID, actor string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		led, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		actor, _ := cmd.Flags().GetString("actor")
		if err := apply(led, args[1], actor); err != nil {
			return err
		}
		fmt.Printf("ok; balance now %d\n", led.Balance())
		return nil
	}
}

var creditCmd = &cobra.Command{
	Use:   "credit <node-id> <amount>",
	Short: "Credit currency to a node, e.g. for a completed activity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		led, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		var amount int64
		if _, err := fmt.Sscanf(args[1], "%d", &amount); err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		reason, _ := cmd.Flags().GetString("reason")
		if err := led.Credit(amount, reason); err != nil {
			return err
		}
		fmt.Printf("credited %d; balance now %d\n", amount, led.Balance())
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <node-id>",
	Short: "Show a node's current balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		led, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		snap := led.Snapshot()
		fmt.Printf("%s: %d %s %s\n", snap.Name, snap.Balance, snap.Economy.CurrencySymbol, snap.Economy.CurrencyName)
		return nil
	},
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Show the aggregated vault across all nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, db, err := openRegistry()
		if err != nil {
			return err
		}
		defer db.Close()

		view := vault.New(reg).View()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}

		fmt.Println("Wallets:")
		for _, w := range view.Wallets {
			fmt.Printf("  %-20s %d %s\n", w.NodeName, w.Balance, w.CurrencySymbol)
		}
		printBucket := func(label string, entries []vault.Entry) {
			if len(entries) == 0 {
				return
			}
			fmt.Printf("%s:\n", label)
			for _, e := range entries {
				fmt.Printf("  %s %s (%s, %d %s) [%s]\n", e.Icon, e.Title, e.NodeName, e.Cost, e.CurrencySymbol, e.Status)
			}
		}
		printBucket("Inventory", view.Inventory)
		printBucket("Active bounties", view.ActiveBounties)
		printBucket("Pending verification", view.PendingVerification)
		printBucket("History", view.History)
		return nil
	},
}
