package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"secheaders/internal/api"
	"secheaders/internal/config"
	"secheaders/pkg/logger"
	"secheaders/pkg/scanservice/httpapi"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config) func(ctx context.Context) {
	client := httpapi.New(&http.Client{Timeout: cfg.Client.Timeout}, cfg.Client.BaseURL)

	server, err := api.NewServer(ctx, api.Deps{Client: client}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the scan API and the scan form page",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stopWebserver := setupServer(ctx, cfg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
