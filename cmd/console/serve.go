package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rflorenc/catalog-console/internal/api"
	"github.com/rflorenc/catalog-console/internal/config"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the console API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cfg)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Verify the backend early; an unreachable backend is not fatal.
	healthURL := a.backend.URL(a.cfg.HealthPath)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if h, err := a.client.CheckHealth(pingCtx, healthURL); err != nil {
		a.logger.Warn("backend ping failed", "url", healthURL, "error", err)
	} else {
		a.logger.Info("backend reachable", "url", healthURL, "service", h.Service, "version", h.Version)
	}
	cancel()

	srv := &http.Server{
		Addr: a.cfg.Listen,
		Handler: api.NewRouter(&api.Server{
			Console: a.console,
			Backend: a.backend,
			Logger:  a.logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("catalog console starting", "version", version, "listen", a.cfg.Listen, "backend", a.backend.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
