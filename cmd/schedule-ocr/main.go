// Package main provides the schedule-ocr command: an MCP server, an HTTP API
// and one-shot extraction for photos of weekly work schedules.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/config"
	"github.com/ironsheep/schedule-ocr-mcp/internal/logging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/session"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schedule-ocr",
		Short: "Read weekly work schedules from photos and turn them into calendar events",
		Long: `schedule-ocr reads a photo of a weekly schedule table, extracts the work
intervals of each day and exports them as calendar events.

Without a subcommand it runs the MCP server on stdin/stdout.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: schedule-ocr.yaml in ., ./config or $XDG_CONFIG_HOME/schedule-ocr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHTTPCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newKeyringCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the configuration and the API key of the selected
// engine.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// setup loads the configuration, builds the logger and the session runtime.
func setup(ctx context.Context, extra session.Options) (*config.Config, *zap.Logger, *session.Runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		return nil, nil, nil, err
	}

	if cfg.OCR.Engine != config.EngineTesseract {
		if err := cfg.ResolveSecrets(); err != nil {
			logger.Warn("keyring unavailable", zap.Error(err))
		}
	}

	rt, err := session.FromConfig(ctx, cfg, logger, extra)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("failed to start: %w", err)
	}
	return cfg, logger, rt, nil
}
