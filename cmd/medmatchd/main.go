// Command medmatchd is the medmatch HTTP service. It serves the matcher
// endpoint the NGO dashboard calls, run history, health and metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medmatch/medmatch/internal/api"
	"github.com/medmatch/medmatch/internal/observability"
	"github.com/medmatch/medmatch/pkg/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "medmatchd",
		Short:         "Serve the medmatch donation matcher over HTTP",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// godotenv.Load does not override variables already set.
			_ = godotenv.Load()

			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	registerFlags(cmd.Flags())
	bindFlags(v, cmd.Flags())
	return cmd
}

// serve runs the HTTP server until ctx is cancelled or a signal arrives.
func serve(ctx context.Context, cfg *config.Config) error {
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting medmatchd", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return err
	}
	return nil
}

// handlerChain wraps the API mux with the request middleware.
func handlerChain(h *api.Handler, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return api.Chain(mux,
		api.RequestMetrics(metrics),
		api.RequestLogger(logger),
		api.CORS(cfg.Server.AllowedOrigins),
	)
}
