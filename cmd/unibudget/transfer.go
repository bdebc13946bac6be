package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/csvcodec"
	"github.com/MoneNarendra/unibudget/internal/ofx"
)

func importCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV export",
		Long: `Import rows in the export format:

  Date,Type,Category,Amount,Method,Note

The first line is always treated as the header. Rows with a bad date, a
non-positive amount or an unknown type or method are skipped. Every accepted
row gets a new ID, so importing the same file twice duplicates it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
				ctx, stop := handler.HandleInterrupts(ctx)
				defer stop()

				var onRow func(done, total int)
				if !quiet {
					bar := cli.NewImportProgress(cmd.ErrOrStderr(), "Importing transactions...")
					defer bar.Finish()
					onRow = bar.Update
				}

				summary, err := a.coord.ImportWithProgress(ctx, string(data), onRow)
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Imported %d rows, skipped %d", summary.Imported, summary.Skipped)))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Import complete"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not draw a progress bar")
	return cmd
}

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ofx <file> [file...]",
		Short: "Import bank or card statements in OFX/QFX format",
		Long: `Import OFX/QFX statements. Every statement line becomes a CARD transaction:
credits as income and debits as expenses. Fees and service charges are put in
Fees. Other lines are categorized by the import.rules patterns in the config
file, then by built-in merchant rules, and otherwise land in Other. Re-importing a statement updates the same
transactions instead of duplicating them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				rules, err := a.cfg.Import.Matcher()
				if err != nil {
					return err
				}
				parser := ofx.NewParser(rules)
				total := 0
				for _, path := range args {
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("failed to open %s: %w", path, err)
					}
					st, err := parser.Parse(ctx, f)
					_ = f.Close()
					if err != nil {
						return fmt.Errorf("%s: %w", filepath.Base(path), err)
					}

					added, err := a.coord.MergeTransactions(ctx, st.Transactions)
					if err != nil {
						return fmt.Errorf("%s: %w", filepath.Base(path), err)
					}
					total += added
					slog.Debug("Imported statement", "file", path, "accounts", st.Accounts)
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("%s: %d new, %d updated, %d skipped",
						filepath.Base(path), added, len(st.Transactions)-added, st.Skipped)))
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions", total)))
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				text := a.coord.ExportToText()
				if output == "-" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
					return err
				}

				path := output
				if path == "" {
					path = csvcodec.ExportFileName(a.clock.Now())
				}
				if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s",
					len(a.coord.Transactions()), path)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout (default: uni_budget_export_<date>.csv)")
	return cmd
}
