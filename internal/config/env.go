// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// DOTENV
// =============================================================================

// LoadDotEnv loads .env.local and .env from the working directory and the
// config directory. Variables already set in the environment win. Set
// MEETCOST_DOTENV=0 to skip.
func LoadDotEnv() []string {
	if isDisabled(os.Getenv("MEETCOST_DOTENV")) {
		return nil
	}

	var paths []string
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, ".env.local"), filepath.Join(wd, ".env"))
	}
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	var loaded []string
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", p, err)
			}
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}

func isDisabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "off", "no":
		return true
	default:
		return false
	}
}

func isEnabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - MEETCOST_MODE: rates.mode
//   - MEETCOST_ATTENDEES: rates.attendees
//   - MEETCOST_HOURLY_RATE: rates.hourly_rate
//   - MEETCOST_HEADCOUNT: rates.headcount as "SR=2,VP=1"
//   - MEETCOST_SOUND: tracker.sound
//   - MEETCOST_HISTORY_BACKEND: history.backend
//   - MEETCOST_HISTORY_DIR: history.dir
//   - MEETCOST_EXPORT_DIR: export.dir
//   - MEETCOST_SLACK_WEBHOOK: share.slack_webhook
//   - MEETCOST_THEME: ui.theme
//   - MEETCOST_LOG_LEVEL: log.level
//
// Numeric values that do not parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MEETCOST_MODE"); v != "" {
		c.Rates.Mode = v
	}
	if v := os.Getenv("MEETCOST_ATTENDEES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Rates.Attendees = n
		}
	}
	if v := os.Getenv("MEETCOST_HOURLY_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Rates.HourlyRate = f
		}
	}
	if v := os.Getenv("MEETCOST_HEADCOUNT"); v != "" {
		if hc, err := ParseHeadcount(v); err == nil {
			c.Rates.Headcount = hc
		}
	}
	if v := os.Getenv("MEETCOST_SOUND"); v != "" {
		c.Tracker.Sound = isEnabled(v)
	}
	if v := os.Getenv("MEETCOST_HISTORY_BACKEND"); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv("MEETCOST_HISTORY_DIR"); v != "" {
		c.History.Dir = v
	}
	if v := os.Getenv("MEETCOST_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("MEETCOST_SLACK_WEBHOOK"); v != "" {
		c.Share.SlackWebhook = v
	}
	if v := os.Getenv("MEETCOST_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("MEETCOST_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// ParseHeadcount parses "SR=2,VP=1" into a headcount map.
func ParseHeadcount(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, count, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("headcount entry '%s' must be ROLE=N", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("headcount for '%s' is not a number", name)
		}
		out[strings.TrimSpace(name)] = n
	}
	return out, nil
}
