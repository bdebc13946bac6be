package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/cli"
)

func adviseCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Get spending tips based on recent transactions",
		Long: `Send the 50 most recent transactions (date, type, amount, category and
method only) to the configured language model and print its tips.

Set advisor.api_key in the config file, UNIBUDGET_ADVISOR_API_KEY, or the
provider's usual variable (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
				defer cancel()

				advice := a.coord.Advice(ctx)
				if raw {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), advice)
					return err
				}

				rendered, err := cli.RenderMarkdown(advice, a.coord.Theme(), 80)
				if err != nil {
					rendered = advice
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(cli.BrainIcon+" Spending tips"))
				_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown without rendering")
	return cmd
}
