// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// FiscalPulse client.
//
// Supports TOML, JSON and YAML configuration files, with sensible defaults,
// environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ServiceConfig: Where the audit service lives and how long to wait
//   - UIConfig: Theme and rendering preferences
//   - LoggingConfig: Log level and file
//   - Watcher: fsnotify-based reloader for a config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FISCALPULSE_*, NO_COLOR)
//   - The file given by --config
//   - ~/.fiscalpulse/config.toml, config.json, config.yaml, config.yml
//     (first one found)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Resolve(flagPath)
//	if err != nil {
//	    return err
//	}
//	client := audit.NewClientWithConfig(cfg.ClientConfig())
package config
