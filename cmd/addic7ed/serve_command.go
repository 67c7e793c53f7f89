package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	grpcserver "github.com/Belphemur/Addic7edSubtitles/internal/grpc"
	"github.com/Belphemur/Addic7edSubtitles/internal/httpapi"
	"github.com/Belphemur/Addic7edSubtitles/internal/metrics"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the subtitle API over gRPC and HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			logger := config.GetLogger()

			logger.Info().
				Str("strategy", cfg.Provider.Strategy).
				Str("library", cfg.Library.Type).
				Str("cache", cfg.Cache.Type).
				Int("server_port", cfg.Server.Port).
				Str("server_address", cfg.Server.Address).
				Msg("Application started with configuration")

			if cfg.Sentry.DSN != "" {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:         cfg.Sentry.DSN,
					Environment: cfg.Sentry.Environment,
				}); err != nil {
					return fmt.Errorf("init sentry: %w", err)
				}
				defer sentry.Flush(2 * time.Second)
			}

			p, err := ctx.subtitleProvider(cmd.Context())
			if err != nil {
				return err
			}

			// Create and configure the gRPC server
			grpcServer := grpcserver.NewGRPCServer(p)

			// Start the HTTP API, with Prometheus metrics and health probe
			if cfg.HTTP.Enabled {
				httpServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.HTTP.Port, httpapi.NewRouter(p))
				go func() {
					logger.Info().Str("address", httpServer.Addr).Msg("Starting HTTP server")
					if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Fatal().Err(err).Msg("Failed to serve HTTP")
					}
				}()
				defer func() {
					if err := httpServer.Shutdown(cmd.Context()); err != nil {
						logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
					}
				}()
			}

			// Create a listener
			address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
			listener, err := net.Listen("tcp", address)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", address, err)
			}

			logger.Info().Str("address", address).Msg("Starting gRPC server")

			// Handle graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			go func() {
				sig := <-sigChan
				logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
				grpcServer.GracefulStop()
			}()

			if err := grpcServer.Serve(listener); err != nil {
				return fmt.Errorf("serve gRPC: %w", err)
			}

			logger.Info().Msg("Server stopped gracefully")
			return nil
		},
	}
}
