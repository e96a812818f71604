// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

// Package config defines the DevAtlas configuration surface and loads it via
// Koanf v2 with layered sources (defaults, optional YAML file, environment).
package config

import (
	"fmt"
	"time"

	"github.com/devatlas/devatlas/internal/logging"
)

// Config is the root configuration for the DevAtlas service. It is built once
// at startup and passed explicitly into constructors; nothing reads
// configuration globals after initialization.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Providers ProvidersConfig `koanf:"providers"`
	Sync      SyncConfig      `koanf:"sync"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings for the admin API.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds catalog store settings.
type DatabaseConfig struct {
	// Path is the BadgerDB directory for the catalog store.
	Path string `koanf:"path"`

	// InMemory runs the store without disk persistence. Test/dev only.
	InMemory bool `koanf:"in_memory"`
}

// ProviderConfig identifies one upstream specifications provider.
type ProviderConfig struct {
	// BaseURL is the provider API root, e.g. https://specs-arena.p.example.com
	BaseURL string `koanf:"base_url"`

	// Host is the API-gateway host header value for this provider.
	Host string `koanf:"host"`
}

// ProvidersConfig holds settings shared by both upstream providers.
//
// Both providers are metered through the same API gateway, so a single key
// authenticates against either. A missing key is a warning at startup, not a
// fatal error: the service still runs, and every provider call fails with an
// upstream auth error until a key is supplied.
type ProvidersConfig struct {
	// APIKey is the shared gateway credential sent as X-RapidAPI-Key.
	APIKey string `koanf:"api_key"`

	// Primary is the first provider tried for every fetch.
	Primary ProviderConfig `koanf:"primary"`

	// Secondary is the fallback provider.
	Secondary ProviderConfig `koanf:"secondary"`

	// Timeout bounds each outbound provider request.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRedirects bounds redirect following per request.
	MaxRedirects int `koanf:"max_redirects"`

	// RequestsPerSecond paces outbound calls. Zero disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// SyncConfig holds synchronization scheduling settings.
type SyncConfig struct {
	// Enabled controls the scheduled sync loop. Manual triggers work
	// regardless.
	Enabled bool `koanf:"enabled"`

	// Cron is a standard 5-field cron expression for incremental syncs.
	Cron string `koanf:"cron"`

	// OnStartup runs a full sync when the service starts.
	OnStartup bool `koanf:"on_startup"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. Defaults load
// first and are overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8632,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:     "/data/devatlas",
			InMemory: false,
		},
		Providers: ProvidersConfig{
			APIKey: "",
			Primary: ProviderConfig{
				BaseURL: "",
				Host:    "",
			},
			Secondary: ProviderConfig{
				BaseURL: "",
				Host:    "",
			},
			Timeout:           5 * time.Second,
			MaxRedirects:      5,
			RequestsPerSecond: 0, // unpaced unless configured
		},
		Sync: SyncConfig{
			Enabled:   true,
			Cron:      "0 2 * * *", // daily at 02:00
			OnStartup: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for hard errors and logs warnings for
// degraded-but-runnable states.
//
// A missing provider API key is deliberately NOT an error: the service starts
// and serves its catalog, and provider calls fail at runtime until a key is
// configured.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}
	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive, got %s", c.Providers.Timeout)
	}
	if c.Providers.MaxRedirects < 0 {
		return fmt.Errorf("providers.max_redirects must not be negative, got %d", c.Providers.MaxRedirects)
	}

	if c.Providers.APIKey == "" {
		logging.Warn().Msg("Provider API key is not configured - all provider requests will fail until DEVATLAS_API_KEY is set")
	}
	if c.Providers.Primary.BaseURL == "" {
		logging.Warn().Msg("Primary provider base URL is not configured")
	}
	if c.Providers.Secondary.BaseURL == "" {
		logging.Warn().Msg("Secondary provider base URL is not configured - fallback is disabled")
	}

	return nil
}
