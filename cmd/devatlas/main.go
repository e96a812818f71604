// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

// DevAtlas ingests device specifications from tiered upstream providers into
// a local catalog and serves them over an admin HTTP API.
//
// # Commands
//
//	devatlas serve          Run the catalog service (default)
//	devatlas sync [brand]   Run one sync pass and exit
//
// # Configuration
//
// Configuration is layered: built-in defaults, an optional config.yaml, then
// DEVATLAS_* environment variables. A local .env file is honored for
// development. See internal/config for the full variable list.
//
// # Port 8632
//
// The default port 8632 is arbitrary but stable; override it with
// DEVATLAS_SERVER_PORT.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/devatlas/devatlas/internal/config"
	"github.com/devatlas/devatlas/internal/env"
	"github.com/devatlas/devatlas/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "devatlas",
	Short: "Device specifications catalog and ingestion engine",
	Long: `DevAtlas pulls device specifications from tiered upstream providers,
normalizes them into a local catalog, and serves the catalog over HTTP
with on-demand fetch-through for unknown devices.`,
	// Bare `devatlas` runs the service.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newServeCmd(), newSyncCmd())
	_ = env.Ensure()
}

// loadConfig builds the runtime configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
