package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rflorenc/catalog-console/internal/config"
	"github.com/rflorenc/catalog-console/internal/console"
	"github.com/rflorenc/catalog-console/internal/logging"
	"github.com/rflorenc/catalog-console/internal/models"
	"github.com/rflorenc/catalog-console/internal/request"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}
	root := &cobra.Command{
		Use:          "console",
		Short:        "Build and send requests against the catalog API",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}
	cfg.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(cfg),
		newSendCmd(cfg),
		newPreviewCmd(cfg),
		newResourcesCmd(),
	)
	return root
}

// app is the wired console for one command invocation.
type app struct {
	cfg     *config.Config
	backend *models.Backend
	client  *console.Client
	console *console.Console
	logger  *slog.Logger
}

func newApp(cmd *cobra.Command, cfg *config.Config) (*app, error) {
	if err := cfg.Resolve(cmd.Flags()); err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}
	client := console.NewClient(backend, cfg.Timeout, logger)
	return &app{
		cfg:     cfg,
		backend: backend,
		client:  client,
		console: console.New(request.NewBuilder(backend), client),
		logger:  logger,
	}, nil
}
