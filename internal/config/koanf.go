// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file search paths, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/devatlas/config.yaml",
	"/etc/devatlas/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "DEVATLAS_CONFIG"

// envPrefix namespaces every DevAtlas environment variable.
const envPrefix = "DEVATLAS_"

// Load builds the configuration from layered sources, highest priority last:
//
//  1. Built-in defaults (structs provider)
//  2. Optional YAML config file
//  3. Environment variables (DEVATLAS_ prefix)
//
// Examples of environment mapping:
//
//	DEVATLAS_API_KEY                    -> providers.api_key
//	DEVATLAS_PRIMARY_BASE_URL           -> providers.primary.base_url
//	DEVATLAS_SECONDARY_HOST             -> providers.secondary.host
//	DEVATLAS_SYNC_CRON                  -> sync.cron
//	DEVATLAS_SERVER_PORT                -> server.port
//	DEVATLAS_DATABASE_PATH              -> database.path
//	DEVATLAS_LOG_LEVEL                  -> logging.level
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or empty.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps a DEVATLAS_* environment variable name onto its koanf
// config path. Well-known short names map explicitly; anything else falls
// back to lowercasing and replacing single underscores with dots.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	mappings := map[string]string{
		"api_key": "providers.api_key",

		"primary_base_url":   "providers.primary.base_url",
		"primary_host":       "providers.primary.host",
		"secondary_base_url": "providers.secondary.base_url",
		"secondary_host":     "providers.secondary.host",

		"provider_timeout":    "providers.timeout",
		"max_redirects":       "providers.max_redirects",
		"requests_per_second": "providers.requests_per_second",

		"sync_enabled":    "sync.enabled",
		"sync_cron":       "sync.cron",
		"sync_on_startup": "sync.on_startup",

		"server_host":    "server.host",
		"server_port":    "server.port",
		"server_timeout": "server.timeout",

		"database_path":      "database.path",
		"database_in_memory": "database.in_memory",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if path, ok := mappings[key]; ok {
		return path
	}
	return strings.ReplaceAll(key, "_", ".")
}
