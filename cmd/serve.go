package main

import (
	"os/signal"
	"syscall"

	"github.com/eaglebank/finance/internal/app"
	"github.com/eaglebank/finance/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg

			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.Log.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, cleanup, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			log.Info("starting financed",
				zap.String("port", cfg.Server.Port),
				zap.String("driver", cfg.Database.Driver),
				zap.String("config", cfg.ConfigPath),
			)
			if err := application.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			log.Info("stopped")
			return nil
		},
	}
}
