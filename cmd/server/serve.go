package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/donorhub/dhs/internal/event"
	"github.com/donorhub/dhs/internal/export"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/logic"
	"github.com/donorhub/dhs/internal/router"
	"github.com/donorhub/dhs/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	// 捐赠后置钩子
	dispatcher, err := event.NewDispatcher(cfg.Events.Workers)
	if err != nil {
		return err
	}
	defer dispatcher.Close()
	dispatcher.RegisterDonationHooks(logic.NewTaskLogic(db), logic.NewCampaignLogic(db))

	gin.SetMode(cfg.Server.Mode)
	r := router.Setup(db, dispatcher, cfg)

	var exporter *export.Exporter
	if cfg.Export.Enabled {
		uploader, err := export.NewS3Uploader(cmd.Context(), cfg.Export)
		if err != nil {
			return err
		}
		exporter = export.NewExporter(db, uploader, cfg.Export.Prefix)
	}

	// 启动定时任务
	manager, err := scheduler.NewManager(db, cfg, exporter)
	if err != nil {
		return err
	}
	if err := manager.Start(); err != nil {
		return err
	}
	defer manager.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
