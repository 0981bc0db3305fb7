// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/history"
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid field found in one pass.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ExportFormats lists the accepted export.format values.
var ExportFormats = []string{"text", "markdown", "json", "yaml", "html", "png"}

// Validate checks every section and returns ValidateErrors when anything is
// wrong. Negative or non-finite counts and rates are not errors; SetDefaults
// clamps them to zero.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Rates
	switch accrual.Mode(strings.ToLower(c.Rates.Mode)) {
	case accrual.ModeFlat, accrual.ModeRoles:
	default:
		add("rates.mode", "invalid mode '%s', must be one of: flat, roles", c.Rates.Mode)
	}

	names := make(map[string]bool, len(c.Rates.Roles))
	for i, r := range c.Rates.Roles {
		field := fmt.Sprintf("rates.roles[%d]", i)
		if strings.TrimSpace(r.Name) == "" {
			add(field+".name", "must not be empty")
			continue
		}
		if names[r.Name] {
			add(field+".name", "duplicate role '%s'", r.Name)
		}
		names[r.Name] = true
	}
	for name := range c.Rates.Headcount {
		if !names[name] {
			add("rates.headcount."+name, "unknown role '%s'", name)
		}
	}

	// Tracker
	if c.Tracker.TickMs < 50 || c.Tracker.TickMs > 60000 {
		add("tracker.tick_ms", "must be between 50 and 60000, got %d", c.Tracker.TickMs)
	}
	if c.Tracker.CheckpointSecs < 0 {
		add("tracker.checkpoint_secs", "must be >= 0, got %d", c.Tracker.CheckpointSecs)
	}

	// History
	switch strings.ToLower(c.History.Backend) {
	case history.BackendJSON, history.BackendSQLite:
	default:
		add("history.backend", "invalid backend '%s', must be one of: json, sqlite", c.History.Backend)
	}
	if c.History.Limit < 1 || c.History.Limit > 1000 {
		add("history.limit", "must be between 1 and 1000, got %d", c.History.Limit)
	}

	// Export
	if !contains(ExportFormats, strings.ToLower(c.Export.Format)) {
		add("export.format", "invalid format '%s', must be one of: %s", c.Export.Format, strings.Join(ExportFormats, ", "))
	}

	// Share
	if c.Share.PageURL != "" {
		if u, err := url.Parse(c.Share.PageURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("share.page_url", "must be an absolute URL")
		}
	}
	if c.Share.SlackWebhook != "" {
		if u, err := url.Parse(c.Share.SlackWebhook); err != nil || u.Scheme != "https" || u.Host == "" {
			add("share.slack_webhook", "must be an https URL")
		}
	}

	// UI
	if !contains([]string{"auto", "dark", "light"}, strings.ToLower(c.UI.Theme)) {
		add("ui.theme", "invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme)
	}

	// Log
	if !contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}
	if !contains([]string{"json", "console"}, strings.ToLower(c.Log.Format)) {
		add("log.format", "invalid format '%s', must be one of: json, console", c.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
