package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/contrib/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP host bridge",
	Long: `Starts an in-process host and exposes it over HTTP: the manifest, context keys
(with an SSE stream of updates), command execution, when-clause evaluation and
Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := app.cfg.HTTP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := newBridge(ctx)
		if err != nil {
			return err
		}
		defer b.closer.Close()

		opts := []httpAdapter.Option{
			httpAdapter.WithManifest(b.manifest),
			httpAdapter.WithSchema(b.schema),
			httpAdapter.WithLogger(app.logger),
		}
		if app.cfg.HTTP.Metrics {
			opts = append(opts, httpAdapter.WithMetrics(b.metrics.Handler()))
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           httpAdapter.NewHandler(b.host, b.store, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			app.logger.Info("Starting contrib server", "address", srv.Addr, "contributions", app.cfg.Contributions)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			app.logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			app.logger.Info("contrib server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
