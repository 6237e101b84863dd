package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/httpapi"
	"github.com/ironsheep/schedule-ocr-mcp/internal/server"
	"github.com/ironsheep/schedule-ocr-mcp/internal/session"
)

var httpAddr string

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, logger, rt, err := setup(ctx, session.Options{})
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer rt.Close()

	logger.Info("mcp server starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	srv := server.New(rt.Service, logger, Version)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server stopped", zap.Error(err))
		return err
	}
	return nil
}

func newHTTPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the HTTP API for the browser front end",
		Args:  cobra.NoArgs,
		RunE:  runHTTP,
	}
	cmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (default from http.addr)")
	return cmd
}

func runHTTP(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, rt, err := setup(ctx, session.Options{})
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer rt.Close()

	addr := cfg.HTTP.Addr
	if httpAddr != "" {
		addr = httpAddr
	}

	router := httpapi.NewRouter(rt.Service, logger, httpapi.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Production:     cfg.IsProduction(),
	})
	return httpapi.ListenAndServe(ctx, addr, router, logger)
}
