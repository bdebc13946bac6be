package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List built-in categories and manage custom ones",
	}
	cmd.AddCommand(categoriesListCmd(), categoriesAddCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				return a.renderer(cmd).Categories(a.coord.CustomCategories())
			})
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if a.coord.Catalog().Has(args[0]) {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("%q already exists; built-in colors take precedence", args[0])))
				}
				saved, err := a.coord.SaveCustomCategory(ctx, model.CustomCategory{
					Name:    args[0],
					IconKey: icon,
					Color:   color,
				})
				if err != nil {
					return entryError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %s %s (%s)",
					cli.CategorySwatch(saved.Color), saved.Name, saved.IconKey)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&icon, "icon", model.IconStar, "icon: "+strings.Join(model.CustomIcons, ", "))
	cmd.Flags().StringVar(&color, "color", model.DefaultCustomColor, "hex color, e.g. #FF8800")
	return cmd
}
