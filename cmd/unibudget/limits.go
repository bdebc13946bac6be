package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/model"
)

func limitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "limits",
		Aliases: []string{"budget"},
		Short:   "Manage monthly spending limits per category",
	}
	cmd.AddCommand(limitsListCmd(), limitsSetCmd(), limitsRemoveCmd())
	return cmd
}

func limitsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show limits with this month's spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				return a.renderer(cmd).Limits(a.coord.BudgetStatus())
			})
		},
	}
}

func limitsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <category> <amount>",
		Short:   "Create or replace the limit for a category",
		Example: "  unibudget limits set Food 3000",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(strings.TrimSpace(args[1]))
			if err != nil {
				return common.NewUserError("limit must be a number", err)
			}
			limit := model.BudgetLimit{Category: strings.TrimSpace(args[0]), Limit: amount}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if !a.coord.Catalog().Has(limit.Category) {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("%q is not a known category", limit.Category)))
				}
				if err := a.coord.SaveLimit(ctx, limit); err != nil {
					return entryError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Limit for %s set to %s",
					limit.Category, a.money.Format(limit.Limit))))
				return nil
			})
		},
	}
}

func limitsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <category>",
		Aliases: []string{"rm"},
		Short:   "Remove the limit for a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.coord.DeleteLimit(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed limit for "+args[0]))
				return nil
			})
		},
	}
}
