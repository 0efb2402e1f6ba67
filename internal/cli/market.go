package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inside-labs/inside/internal/domain"
)

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(marketListCmd)
	marketCmd.AddCommand(marketAddCmd)
	marketCmd.AddCommand(marketRemoveCmd)

	marketAddCmd.Flags().Int64("cost", 0, "Item cost in node currency")
	marketAddCmd.Flags().String("icon", "", "Display icon")
	marketAddCmd.Flags().String("kind", string(domain.KindService), "service, product, or quest")
	marketAddCmd.Flags().String("category", string(domain.CategorySpend), "spend (reward) or earn (bounty)")
	marketAddCmd.MarkFlagRequired("cost")
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Manage a node's market catalog",
}

var marketListCmd = &cobra.Command{
	Use:   "list <node-id>",
	Short: "List catalog items for a node",
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
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCOST\tKIND\tCATEGORY")
		for _, it := range led.Items() {
			fmt.Fprintf(w, "%s\t%s %s\t%d\t%s\t%s\n", it.ID, it.Icon, it.Title, it.Cost, it.Kind, it.Category)
		}
		return w.Flush()
	},
}

var marketAddCmd = &cobra.Command{
	Use:   "add <node-id> <title>",
	Short: "Add an item to a node's catalog",
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
		cost, _ := cmd.Flags().GetInt64("cost")
		icon, _ := cmd.Flags().GetString("icon")
		kind, _ := cmd.Flags().GetString("kind")
		category, _ := cmd.Flags().GetString("category")

		item, err := led.AddItem(args[1], cost, icon, domain.ItemKind(kind), domain.ItemCategory(category))
		if err != nil {
			return err
		}
		fmt.Printf("added %s item %s (%s, %d)\n", item.Category, item.Title, item.ID, item.Cost)
		return nil
	},
}

var marketRemoveCmd = &cobra.Command{
	Use:   "remove <node-id> <item-id>",
	Short: "Remove an item from a node's catalog",
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
		if err := led.RemoveItem(args[1]); err != nil {
			return err
		}
		fmt.Printf("removed item %s\n", args[1])
		return nil
	},
}
