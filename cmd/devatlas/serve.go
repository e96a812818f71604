// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devatlas/devatlas/internal/api"
	"github.com/devatlas/devatlas/internal/catalog"
	"github.com/devatlas/devatlas/internal/config"
	"github.com/devatlas/devatlas/internal/ingest"
	"github.com/devatlas/devatlas/internal/logging"
	"github.com/devatlas/devatlas/internal/supervisor"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe wires the catalog store, provider fetcher, sync manager and HTTP
// API under a supervision tree and blocks until SIGINT/SIGTERM.
func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Str("sync_cron", cfg.Sync.Cron).
		Msg("Starting DevAtlas")

	store, err := catalog.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	fetcher := ingest.NewFetcherFromConfig(cfg.Providers)
	manager, err := ingest.NewManager(fetcher, store, cfg.Sync)
	if err != nil {
		return err
	}

	srv := newHTTPServer(cfg.Server, api.NewRouter(api.NewHandlers(manager, store), api.DefaultRouterConfig()))

	treeCfg := supervisor.DefaultTreeConfig()
	tree := supervisor.NewTree(slog.New(logging.NewSlogHandler()), treeCfg)
	tree.AddIngestService(supervisor.NewSyncService(manager))
	tree.AddAPIService(supervisor.NewHTTPService(srv, treeCfg.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("DevAtlas stopped")
	return nil
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       2 * timeout,
	}
}
