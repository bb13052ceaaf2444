package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Furnace/internal/config"
	"Furnace/internal/repo"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "labctl",
	Short: "Laboratory experiment store maintenance",
	Long:  "Migrates the experiment store, seeds reference experiments, imports and exports spreadsheets and renders experiment reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return cfg.Validate(cmd.Name())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore opens the configured store and brings its schema up to date.
func openStore(ctx context.Context) (*repo.Store, error) {
	driver, err := repo.ParseDriver(cfg.Store.Driver)
	if err != nil {
		return nil, err
	}
	store, err := repo.Open(ctx, driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
