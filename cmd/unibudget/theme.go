package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/model"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the display theme",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the saved theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.coord.Theme())
				return nil
			})
		},
	}, &cobra.Command{
		Use:       "set <light|dark|system>",
		Short:     "Save the theme preference",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark), string(model.ThemeSystem)},
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := model.ParseTheme(args[0])
			if err != nil {
				return common.NewUserError("theme must be light, dark or system", err)
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.coord.SaveTheme(ctx, theme); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Theme set to "+string(theme)))
				return nil
			})
		},
	})
	return cmd
}
