// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devatlas/devatlas/internal/catalog"
	"github.com/devatlas/devatlas/internal/ingest"
	"github.com/devatlas/devatlas/internal/logging"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [brand]",
		Short: "Run one sync pass and exit",
		Long: `Runs a full catalog sync, or syncs a single brand when one is given,
then exits. Useful for cron-external scheduling and initial seeding.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing catalog store")
				}
			}()

			manager, err := ingest.NewManager(ingest.NewFetcherFromConfig(cfg.Providers), store, cfg.Sync)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if len(args) == 1 {
				return manager.SyncBrand(ctx, args[0])
			}
			return manager.FullSync(ctx)
		},
	}
}
