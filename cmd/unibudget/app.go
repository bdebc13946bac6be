package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MoneNarendra/unibudget/internal/cli"
	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/config"
	"github.com/MoneNarendra/unibudget/internal/csvcodec"
	"github.com/MoneNarendra/unibudget/internal/engine"
	"github.com/MoneNarendra/unibudget/internal/llm"
	"github.com/MoneNarendra/unibudget/internal/storage"
	"github.com/MoneNarendra/unibudget/internal/tui"
)

var _ tui.Source = (*engine.Coordinator)(nil)

// app bundles what a command needs after configuration is loaded.
type app struct {
	cfg   *config.Config
	store *storage.SQLiteStorage
	coord *engine.Coordinator
	money cli.Money
	clock common.ZoneClock
}

// openApp opens the store, loads every collection and wires the advisor
// when an API key is configured.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLiteStorage(ctx, cfg.Database.Path, cfg.Database.Driver)
	if err != nil {
		return nil, common.NewUserError("could not open the ledger at "+cfg.Database.Path, err)
	}

	clock := common.ZoneClock{Loc: cfg.Location}
	ids := common.UUIDGenerator{}
	deps := engine.Dependencies{Storage: store, Clock: clock, IDs: ids}

	if cfg.Advisor.APIKey != "" {
		advisor, advErr := llm.NewAdvisor(ctx, cfg.Advisor.LLM())
		if advErr != nil {
			slog.Warn("Advisor disabled", "provider", cfg.Advisor.Provider, "error", advErr)
		} else {
			deps.Advisor = advisor
		}
	}

	coord := engine.New(deps,
		engine.WithConfig(engine.Config{
			RollbackOnFailure: cfg.Engine.RollbackOnFailure,
			AdviceSampleSize:  cfg.Engine.AdviceSampleSize,
		}),
		engine.WithCodec(csvcodec.New(ids, csvcodec.WithLocation(cfg.Location))),
	)
	if err := coord.Load(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &app{
		cfg:   cfg,
		store: store,
		coord: coord,
		money: cli.NewMoney(cfg.Currency),
		clock: clock,
	}, nil
}

// withApp runs fn with an opened app and closes the store afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}()
	return fn(ctx, a)
}

func (a *app) renderer(cmd *cobra.Command) *cli.Renderer {
	return cli.NewRenderer(cmd.OutOrStdout(), a.money, a.coord.Catalog()).In(a.cfg.Location)
}
