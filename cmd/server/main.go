package main

import (
	"fmt"
	"os"

	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/database"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "donorhub",
	Short: "DonorHub donor management server",
	Long: `DonorHub tracks donors, donations, fundraising campaigns and follow-up tasks
behind a token-authenticated JSON API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}

// bootstrap 加载配置、初始化日志并连接数据库
func bootstrap(migrate bool) (*config.Config, *gorm.DB, error) {
	cfg := config.Load(configFile)
	logger.Init(cfg.Log)

	var (
		db  *gorm.DB
		err error
	)
	if migrate {
		db, err = database.Init(cfg.Database)
	} else {
		db, err = database.Open(cfg.Database)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
