package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/ledger"
	"github.com/MoneNarendra/unibudget/internal/model"
)

var whenLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func addEntryFlags(fs *pflag.FlagSet) {
	fs.StringP("amount", "a", "", "amount, e.g. 120.50")
	fs.StringP("type", "t", "expense", "income or expense")
	fs.StringP("category", "c", "", "category name")
	fs.StringP("method", "m", "cash", "cash or card")
	fs.StringP("date", "d", "", "date as YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (default: now)")
	fs.StringP("note", "n", "", "free-text note")
}

func parseWhen(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// applyEntryFlags copies every flag that was set (or, when all is true, every
// flag with its default) onto t.
func applyEntryFlags(fs *pflag.FlagSet, t *model.Transaction, all bool, now time.Time) error {
	set := func(name string) (string, bool) {
		v, _ := fs.GetString(name)
		return v, all || fs.Changed(name)
	}

	if v, ok := set("amount"); ok {
		amount, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return common.NewUserError("amount must be a number", err)
		}
		t.Amount = amount
	}
	if v, ok := set("type"); ok {
		typ, err := model.ParseTransactionType(v)
		if err != nil {
			return common.NewUserError("type must be income or expense", err)
		}
		t.Type = typ
	}
	if v, ok := set("method"); ok {
		method, err := model.ParsePaymentMethod(v)
		if err != nil {
			return common.NewUserError("method must be cash or card", err)
		}
		t.Method = method
	}
	if v, ok := set("category"); ok {
		t.Category = strings.TrimSpace(v)
	}
	if v, ok := set("note"); ok {
		t.Note = v
	}
	if v, ok := set("date"); ok {
		if v == "" {
			t.Date = now
		} else {
			when, err := parseWhen(v, now.Location())
			if err != nil {
				return common.NewUserError("date must be YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"", err)
			}
			t.Date = when
		}
	}
	return nil
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Example: `  unibudget add -a 120 -c Food -n lunch
  unibudget add -a 5000 -t income -c Scholarship -m card`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				var draft model.Transaction
				if err := applyEntryFlags(cmd.Flags(), &draft, true, a.clock.Now()); err != nil {
					return err
				}
				saved, err := a.coord.SaveTransaction(ctx, draft)
				if err != nil {
					return entryError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s in %s (ID: %s)",
					strings.ToLower(string(saved.Type)), a.money.Format(saved.Amount), saved.Category, saved.ID)))
				return nil
			})
		},
	}
	addEntryFlags(cmd.Flags())
	return cmd
}

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				existing, ok := a.coord.Transaction(args[0])
				if !ok {
					return common.NewUserError("no transaction with ID "+args[0], common.ErrNotFound)
				}
				if err := applyEntryFlags(cmd.Flags(), &existing, false, a.clock.Now()); err != nil {
					return err
				}
				saved, err := a.coord.SaveTransaction(ctx, existing)
				if err != nil {
					return entryError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated transaction "+saved.ID))
				return nil
			})
		},
	}
	addEntryFlags(cmd.Flags())
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.coord.DeleteTransaction(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted transaction "+args[0]))
				return nil
			})
		},
	}
}

func listCmd() *cobra.Command {
	var (
		limit int
		month string
		week  bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				txns := a.coord.Transactions()
				switch {
				case week:
					txns = ledger.InRange(txns, ledger.WeekOf(a.clock.Now()))
				case month != "":
					period, err := parseMonth(month, a.cfg.Location)
					if err != nil {
						return err
					}
					txns = ledger.InRange(txns, period)
				}
				return a.renderer(cmd).Transactions(ledger.Recent(txns, limit))
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum rows to show (0 for all)")
	cmd.Flags().StringVar(&month, "month", "", "only show a month, as YYYY-MM")
	cmd.Flags().BoolVar(&week, "week", false, "only show the current week (Monday to Sunday)")
	return cmd
}

func parseMonth(s string, loc *time.Location) (ledger.Period, error) {
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return ledger.Period{}, common.NewUserError("month must be YYYY-MM", err)
	}
	return ledger.Month(t.Year(), t.Month(), loc), nil
}

func entryError(err error) error {
	if errors.Is(err, model.ErrValidation) {
		return common.NewUserError("transaction rejected", err)
	}
	return err
}
