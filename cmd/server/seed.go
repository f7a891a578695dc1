package main

import (
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the demo dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		summary, err := seed.Run(cmd.Context(), db)
		if err != nil {
			return err
		}

		logger.Info("Seed completed. %d users, %d donors, %d campaigns, %d donations, %d tasks",
			summary.Users, summary.Donors, summary.Campaigns, summary.Donations, summary.Tasks)
		logger.Info("Demo login: %s / %s", seed.DemoEmail, seed.DemoPassword)
		return nil
	},
}
