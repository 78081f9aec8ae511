package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipqr/internal/history"
	"github.com/berrythewa/clipqr/pkg/format"
)

// newHistoryCmd creates the history command with all subcommands
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage recent items",
		Long: `Manage recent items:
  • List recent items, most recent first
  • Remove items by id`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryRemoveCmd())

	return cmd
}

// newHistoryListCmd creates the list subcommand
func newHistoryListCmd() *cobra.Command {
	var (
		limit    int
		useJSON  bool
		compact  bool
		noColors bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent items",
		Long: `List recent items, most recent first.

Examples:
  clipqr history list              # Show all items
  clipqr history list -n 5         # Show the five most recent
  clipqr history list --json       # Machine-readable output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(GetConfig(), GetZapLogger(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			records := rt.app.Store().Records()
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}

			if useJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			opts := format.DefaultOptions()
			opts.Compact = compact
			opts.UseColors = !noColors
			fmt.Fprintln(cmd.OutOrStdout(), format.New(opts).FormatRecords(records, history.EmptyPlaceholder))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of items to show")
	cmd.Flags().BoolVar(&useJSON, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&compact, "compact", false, "one line per item")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "disable colored output")

	return cmd
}

// newHistoryRemoveCmd creates the remove subcommand
func newHistoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove items by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(GetConfig(), GetZapLogger(), runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, id := range args {
				if rt.app.RemoveHistory(id) {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "No item %s\n", id)
				}
			}
			return nil
		},
	}
}
