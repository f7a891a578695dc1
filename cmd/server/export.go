package main

import (
	"errors"

	"github.com/donorhub/dhs/internal/export"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload a CSV snapshot of all donations once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.Export.Bucket == "" {
			return errors.New("export.bucket is not configured")
		}

		uploader, err := export.NewS3Uploader(cmd.Context(), cfg.Export)
		if err != nil {
			return err
		}

		result, err := export.NewExporter(db, uploader, cfg.Export.Prefix).Run(cmd.Context())
		if err != nil {
			return err
		}

		logger.Info("Exported %d donations to s3://%s/%s", result.Rows, cfg.Export.Bucket, result.Key)
		return nil
	},
}
