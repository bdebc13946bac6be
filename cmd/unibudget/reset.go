package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/cli"
)

// confirmReset is replaced in tests.
var confirmReset = cli.Confirm

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every transaction, limit, custom category and setting",
		Long: `Reset empties all four collections in a single transaction. Either
everything is deleted or nothing is. Export first if you want a backup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				if !force {
					ok, err := confirmReset(
						"Delete all data?",
						fmt.Sprintf("%d transactions, %d limits and %d custom categories will be removed.",
							len(a.coord.Transactions()), len(a.coord.Limits()), len(a.coord.CustomCategories())),
					)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, cli.FormatInfo("Reset canceled."))
						return nil
					}
				}

				if err := a.coord.ClearAllData(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("All data deleted"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
