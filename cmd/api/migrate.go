// cmd/api/migrate.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trendlab/internal/adapter/storage"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|redo|reset] [args...]",
		Short:     "Apply or inspect database migrations",
		ValidArgs: []string{"up", "down", "status", "version", "redo", "reset"},
		Args:      cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command, args = args[0], args[1:]
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := storage.Connect(cmd.Context(), storage.PoolConfig{DSN: cfg.Database.DSN()})
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			return storage.Migrate(cmd.Context(), db, command, &logger, args...)
		},
	}
}
