// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/history"
)

// isolate points the config directory at a temp dir and disables .env
// loading so tests never touch the real home directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MEETCOST_HOME", dir)
	t.Setenv("MEETCOST_DOTENV", "0")
	for _, k := range []string{
		"MEETCOST_MODE", "MEETCOST_ATTENDEES", "MEETCOST_HOURLY_RATE", "MEETCOST_HEADCOUNT",
		"MEETCOST_SOUND", "MEETCOST_HISTORY_BACKEND", "MEETCOST_HISTORY_DIR", "MEETCOST_EXPORT_DIR",
		"MEETCOST_SLACK_WEBHOOK", "MEETCOST_THEME", "MEETCOST_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	return dir
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	rates, err := cfg.RateConfig()
	require.NoError(t, err)
	assert.Equal(t, accrual.ModeRoles, rates.Mode)
	assert.InDelta(t, 550, rates.CombinedHourlyRate(), 1e-9)
	assert.Equal(t, history.DefaultLimit, cfg.History.Limit)
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Rates.Headcount, cfg.Rates.Headcount)
	assert.Equal(t, 1000, cfg.Tracker.TickMs)
}

func TestLoad_TOML(t *testing.T) {
	dir := isolate(t)

	content := `
[rates]
mode = "flat"
attendees = 6
hourly_rate = 120.5

[tracker]
tick_ms = 250
sound = true

[history]
backend = "sqlite"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "flat", cfg.Rates.Mode)
	assert.Equal(t, 6, cfg.Rates.Attendees)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval())
	assert.True(t, cfg.Tracker.Sound)
	assert.Equal(t, "sqlite", cfg.History.Backend)
	assert.Equal(t, 10, cfg.History.Limit, "unset fields keep defaults")

	rates, err := cfg.RateConfig()
	require.NoError(t, err)
	assert.InDelta(t, 723, rates.CombinedHourlyRate(), 1e-9)
}

func TestLoad_TOMLHeadcountReplacesDefault(t *testing.T) {
	dir := isolate(t)

	content := `
[rates.headcount]
SR = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"SR": 3}, cfg.Rates.Headcount)
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)

	content := `{"rates": {"mode": "flat", "attendees": 2, "hourly_rate": 75}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Rates.Attendees)
	assert.Equal(t, 75.0, cfg.Rates.HourlyRate)
}

func TestLoad_BadTOMLFallsBackWithError(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[rates\nmode="), 0600))

	cfg, err := Load()
	assert.Error(t, err)
	require.NotNil(t, cfg, "defaults are still returned")
	assert.Equal(t, Default().Rates.Mode, cfg.Rates.Mode)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := isolate(t)
	content := `
[tracker]
tick_ms = 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg, "defaults are still returned")
	assert.Equal(t, Default().Tracker.TickMs, cfg.Tracker.TickMs)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "tracker.tick_ms", verrs[0].Field)
}

func TestLoad_NegativeRatesClampToZero(t *testing.T) {
	dir := isolate(t)
	content := `
[rates]
mode = "flat"
attendees = -3
hourly_rate = -100

[[rates.roles]]
name = "SR"
hourly_rate = -50

[rates.headcount]
SR = -2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Rates.Attendees)
	assert.Equal(t, 0.0, cfg.Rates.HourlyRate)
	require.Len(t, cfg.Rates.Roles, 1)
	assert.Equal(t, 0.0, cfg.Rates.Roles[0].HourlyRate)
	assert.Equal(t, 0, cfg.Rates.Headcount["SR"])

	rates, err := cfg.RateConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.0, rates.CombinedHourlyRate())
}

func TestLoad_NegativeEnvClampsToZero(t *testing.T) {
	isolate(t)
	t.Setenv("MEETCOST_MODE", "flat")
	t.Setenv("MEETCOST_ATTENDEES", "-2")
	t.Setenv("MEETCOST_HOURLY_RATE", "-40")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Rates.Attendees)
	assert.Equal(t, 0.0, cfg.Rates.HourlyRate)
}

func TestLoad_BadEnvStillReturnsConfig(t *testing.T) {
	isolate(t)
	t.Setenv("MEETCOST_THEME", "neon")

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().UI.Theme, cfg.UI.Theme)
}

func TestSetDefaults_ClampsNonFinite(t *testing.T) {
	cfg := Default()
	cfg.Rates.HourlyRate = math.NaN()
	cfg.Rates.Roles[0].HourlyRate = math.Inf(1)
	cfg.SetDefaults()

	assert.Equal(t, 0.0, cfg.Rates.HourlyRate)
	assert.Equal(t, 0.0, cfg.Rates.Roles[0].HourlyRate)
	assert.NoError(t, cfg.Validate())
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Rates.Headcount["VP"] = 4
	cfg.Share.SlackWebhook = "https://hooks.slack.com/services/T000/B000/XXXX"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rates, loaded.Rates)
	assert.Equal(t, cfg.Share, loaded.Share)
}

func TestSaveJSONRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.UI.Theme = "dark"
	require.NoError(t, SaveJSON(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.UI.Theme)
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MEETCOST_MODE", "flat")
	t.Setenv("MEETCOST_ATTENDEES", "9")
	t.Setenv("MEETCOST_HOURLY_RATE", "not-a-number")
	t.Setenv("MEETCOST_HEADCOUNT", "SR=2, CEO=1")
	t.Setenv("MEETCOST_SOUND", "yes")
	t.Setenv("MEETCOST_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "flat", cfg.Rates.Mode)
	assert.Equal(t, 9, cfg.Rates.Attendees)
	assert.Equal(t, 100.0, cfg.Rates.HourlyRate, "unparseable value ignored")
	assert.Equal(t, map[string]int{"SR": 2, "CEO": 1}, cfg.Rates.Headcount)
	assert.True(t, cfg.Tracker.Sound)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("MEETCOST_DOTENV", "")
	t.Setenv("MEETCOST_LOG_LEVEL", "")
	os.Unsetenv("MEETCOST_LOG_LEVEL")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEETCOST_LOG_LEVEL=debug\n"), 0600))

	loaded := LoadDotEnv()
	assert.Contains(t, loaded, filepath.Join(dir, ".env"))
	assert.Equal(t, "debug", os.Getenv("MEETCOST_LOG_LEVEL"))
}

func TestParseHeadcount(t *testing.T) {
	hc, err := ParseHeadcount("JR=1,SR=2")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"JR": 1, "SR": 2}, hc)

	_, err = ParseHeadcount("JR")
	assert.Error(t, err)
	_, err = ParseHeadcount("JR=x")
	assert.Error(t, err)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad mode", func(c *Config) { c.Rates.Mode = "hourly" }, "rates.mode"},
		{"unknown headcount role", func(c *Config) { c.Rates.Headcount["CTO"] = 1 }, "rates.headcount.CTO"},
		{"duplicate role", func(c *Config) {
			c.Rates.Roles = append(c.Rates.Roles, accrual.Role{Name: "SR", HourlyRate: 1})
		}, "rates.roles[4].name"},
		{"bad backend", func(c *Config) { c.History.Backend = "redis" }, "history.backend"},
		{"bad limit", func(c *Config) { c.History.Limit = 0 }, "history.limit"},
		{"bad format", func(c *Config) { c.Export.Format = "pdf" }, "export.format"},
		{"http webhook", func(c *Config) { c.Share.SlackWebhook = "http://example.com/hook" }, "share.slack_webhook"},
		{"relative page url", func(c *Config) { c.Share.PageURL = "/meeting" }, "share.page_url"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, len(verrs))
			for i, e := range verrs {
				fields[i] = e.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

// =============================================================================
// DOT NOTATION
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("tracker.tick_ms", "500"))
	v, err := cfg.Get("tracker.tick_ms")
	require.NoError(t, err)
	assert.Equal(t, 500, v)

	require.NoError(t, cfg.Set("rates.hourly_rate", "87.5"))
	assert.Equal(t, 87.5, cfg.Rates.HourlyRate)

	require.NoError(t, cfg.Set("tracker.sound", "true"))
	assert.True(t, cfg.Tracker.Sound)

	require.NoError(t, cfg.Set("rates.headcount.VP", "3"))
	v, err = cfg.Get("rates.headcount.VP")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	require.NoError(t, cfg.Set("rates.headcount", "JR=5"))
	assert.Equal(t, map[string]int{"JR": 5}, cfg.Rates.Headcount)

	require.NoError(t, cfg.Set("ui.theme", "dark"))
	assert.Equal(t, "dark", cfg.UI.Theme)

	_, err = cfg.Get("tracker.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("tracker.tick_ms", "fast"))
	assert.Error(t, cfg.Set("", "x"))
	_, err = cfg.Get("rates.headcount.CTO")
	assert.Error(t, err)
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	assert.Contains(t, keys, "rates.mode")
	assert.Contains(t, keys, "tracker.tick_ms")
	assert.Contains(t, keys, "share.slack_webhook")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, "key %s", k)
	}
}

func TestString_RedactsWebhook(t *testing.T) {
	cfg := Default()
	cfg.Share.SlackWebhook = "https://hooks.slack.com/services/SECRET"

	s := cfg.String()
	assert.NotContains(t, s, "SECRET")
	assert.Contains(t, s, "[REDACTED]")
	assert.Equal(t, "https://hooks.slack.com/services/SECRET", cfg.Share.SlackWebhook)
}

func TestClone_IsDeep(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Rates.Headcount["SR"] = 99
	clone.Rates.Roles[0].HourlyRate = 1

	assert.Equal(t, 1, cfg.Rates.Headcount["SR"])
	assert.Equal(t, 50.0, cfg.Rates.Roles[0].HourlyRate)
}

// =============================================================================
// GLOBAL
// =============================================================================

// TestConfig_ConcurrentAccess checks Global and SetGlobal under -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_ConcurrentReload(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	_ = Global()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
	}
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_DeliversReload(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	w, err := NewWatcher(context.Background(), path, nil)
	require.NoError(t, err)
	defer w.Close()

	cfg := Default()
	cfg.Rates.Mode = "flat"
	cfg.Rates.Attendees = 12
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case got := <-w.Changes():
		assert.Equal(t, 12, got.Rates.Attendees)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcher_SkipsInvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	w, err := NewWatcher(context.Background(), path, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[tracker]\ntick_ms = 1\n"), 0600))

	select {
	case got := <-w.Changes():
		t.Fatalf("invalid config delivered: %+v", got.Tracker)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_DeliversClampedRates(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	w, err := NewWatcher(context.Background(), path, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[rates]\nmode = \"flat\"\nattendees = -5\nhourly_rate = 80\n"), 0600))

	select {
	case got := <-w.Changes():
		assert.Equal(t, 0, got.Rates.Attendees)
		assert.Equal(t, 80.0, got.Rates.HourlyRate)
	case <-time.After(5 * time.Second):
		t.Fatal("clamped config was not delivered")
	}
}
