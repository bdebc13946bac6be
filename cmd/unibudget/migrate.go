package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/config"
	"github.com/MoneNarendra/unibudget/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Long: `Initialize or update the database schema to the latest version.

Every command migrates when it opens the database; this command upgrades
ahead of time and reports the schema version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStorage(cfg.Database.Path, cfg.Database.Driver)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			slog.Info("Running database migrations", "database", cfg.Database.Path)
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			current, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Database:        %s\n", cfg.Database.Path)
			fmt.Fprintf(out, "Schema version:  %d\n", current)
			fmt.Fprintf(out, "Latest version:  %d\n", storage.ExpectedSchemaVersion)
			fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed"))
			return nil
		},
	}
}
