package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/ledger"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balances and this month's budget status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				r := a.renderer(cmd)
				if err := r.Summary(a.coord.Summary()); err != nil {
					return err
				}
				if statuses := a.coord.BudgetStatus(); len(statuses) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.TitleStyle.Render("Budgets this month"))
					return r.Limits(statuses)
				}
				return nil
			})
		},
	}
}

func analyticsCmd() *cobra.Command {
	var (
		month string
		daily bool
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Monthly income, spending and category breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				period := ledger.MonthOf(a.clock.Now())
				if month != "" {
					p, err := parseMonth(month, a.cfg.Location)
					if err != nil {
						return err
					}
					period = p
				}

				year, mon := period.Start.Year(), period.Start.Month()
				txns := a.coord.Transactions()
				stats := ledger.MonthlyStats(txns, year, mon, a.cfg.Location)
				breakdown := ledger.CategoryBreakdown(txns, period)

				if err := a.renderer(cmd).MonthStats(period.Start.Format("January 2006"), stats, breakdown); err != nil {
					return err
				}
				if !daily {
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, cli.TableHeaderStyle.Render("Day")+"\t"+
					cli.TableHeaderStyle.Render("Income")+"\t"+
					cli.TableHeaderStyle.Render("Expense"))
				for _, d := range ledger.DailyTotals(txns, year, mon, a.cfg.Location) {
					if d.Income.IsZero() && d.Expense.IsZero() {
						continue
					}
					fmt.Fprintf(w, "%02d\t%s\t%s\n", d.Day, a.money.Format(d.Income), a.money.Format(d.Expense))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&daily, "daily", false, "also show per-day totals")
	return cmd
}
