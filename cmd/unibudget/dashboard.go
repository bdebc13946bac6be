package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return tui.Run(ctx, tui.Config{
					Source:   a.coord,
					Money:    a.money,
					Location: a.cfg.Location,
					Now:      a.clock.Now,
				})
			})
		},
	}
}
