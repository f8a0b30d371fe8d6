package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	httpAdapter "github.com/grigi/workstate/internal/adapters/http"
	"github.com/grigi/workstate/internal/metrics"
	"github.com/grigi/workstate/internal/presentation/tui"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Start the HTTP API",
		Long:  `Serves the model over a read-only JSON API with Prometheus metrics on /metrics.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.Addr
			}

			store, closeStore, err := a.cfg.OpenStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ws, err := a.workstate(cmd, args, store)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			handler := httpAdapter.NewHandler(ws,
				httpAdapter.WithMetrics(metrics.New(reg), reg),
				httpAdapter.WithLogger(a.logger),
			)

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)

			go func() {
				tui.PrintBanner(cmd.ErrOrStderr())
				a.logger.Info("starting workstate server", "addr", srv.Addr, "model", ws.Name, "store", a.cfg.Store)
				serverErrors <- srv.ListenAndServe()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case <-ctx.Done():
				a.logger.Info("shutdown signal received")

				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("graceful shutdown did not complete", "error", err)
					return srv.Close()
				}
				a.logger.Info("workstate server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().String("addr", "", "Address to listen on (default $WORKSTATE_ADDR or :8080)")
	return cmd
}
