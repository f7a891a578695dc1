package main

import (
	"github.com/donorhub/dhs/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := bootstrap(true); err != nil {
			return err
		}
		defer logger.Sync()

		logger.Info("Database migration completed")
		return nil
	},
}
