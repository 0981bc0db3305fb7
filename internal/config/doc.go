// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for meetcost.
//
// Supports both TOML and JSON configuration formats, with defaults, .env
// files, environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MEETCOST_*), including those from .env files
//   - ~/.meetcost/config.toml
//   - ~/.meetcost/config.json
//   - Built-in defaults
//
// MEETCOST_HOME relocates ~/.meetcost.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	rates, err := cfg.RateConfig()
//
// Keys can be read and written in dot notation, as the `config get` and
// `config set` commands do:
//
//	cfg.Set("rates.headcount.SR", "3")
//	v, _ := cfg.Get("tracker.tick_ms")
package config
