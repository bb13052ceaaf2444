package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the experiment store schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		zap.L().Info("migration complete",
			zap.String("driver", string(store.Driver())),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
