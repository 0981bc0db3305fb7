// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/util"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete meetcost configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Rates   RatesConfig   `toml:"rates" json:"rates"`
	Tracker TrackerConfig `toml:"tracker" json:"tracker"`
	History HistoryConfig `toml:"history" json:"history"`
	Export  ExportConfig  `toml:"export" json:"export"`
	Share   ShareConfig   `toml:"share" json:"share"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// RatesConfig describes who attends and what they cost.
type RatesConfig struct {
	// Mode is "flat" (attendees x hourly_rate) or "roles" (headcount x table).
	Mode string `toml:"mode" json:"mode"`

	Attendees  int     `toml:"attendees" json:"attendees"`
	HourlyRate float64 `toml:"hourly_rate" json:"hourly_rate"`

	Roles     []accrual.Role `toml:"roles" json:"roles"`
	Headcount map[string]int `toml:"headcount" json:"headcount"`
}

// TrackerConfig controls the live session.
type TrackerConfig struct {
	// TickMs is the display refresh period. Cost is computed from elapsed
	// time, so this only affects smoothness.
	TickMs int `toml:"tick_ms" json:"tick_ms"`

	// CheckpointSecs throttles checkpoint writes from ticks. 0 disables
	// tick checkpoints; transitions are always written.
	CheckpointSecs int `toml:"checkpoint_secs" json:"checkpoint_secs"`

	// Sound rings the terminal bell on milestones.
	Sound bool `toml:"sound" json:"sound"`
}

// HistoryConfig selects the meeting history store.
type HistoryConfig struct {
	Backend string `toml:"backend" json:"backend"` // "json" or "sqlite"
	Dir     string `toml:"dir" json:"dir"`         // default: config dir
	Limit   int    `toml:"limit" json:"limit"`
}

// ExportConfig controls summary export.
type ExportConfig struct {
	Dir    string `toml:"dir" json:"dir"`       // default: current directory
	Format string `toml:"format" json:"format"` // text, markdown, json, yaml, png
}

// ShareConfig holds sharing targets.
type ShareConfig struct {
	PageURL      string `toml:"page_url" json:"page_url"`
	SlackWebhook string `toml:"slack_webhook" json:"slack_webhook"`
}

// UIConfig controls the terminal interface.
type UIConfig struct {
	Theme string `toml:"theme" json:"theme"` // auto, dark, light
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`   // debug, info, warn, error
	Format string `toml:"format" json:"format"` // json or console
	File   string `toml:"file" json:"file"`     // empty: stderr (CLI) or meetcost.log (TUI)
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration: one of each default role.
func Default() *Config {
	table := accrual.DefaultRateTable()
	headcount := make(map[string]int, len(table))
	for _, r := range table {
		headcount[r.Name] = 1
	}

	return &Config{
		Version: CurrentVersion,
		Rates: RatesConfig{
			Mode:       string(accrual.ModeRoles),
			Attendees:  4,
			HourlyRate: 100,
			Roles:      table,
			Headcount:  headcount,
		},
		Tracker: TrackerConfig{
			TickMs:         1000,
			CheckpointSecs: 5,
			Sound:          false,
		},
		History: HistoryConfig{
			Backend: history.BackendJSON,
			Limit:   history.DefaultLimit,
		},
		Export: ExportConfig{
			Format: "text",
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the meetcost directory, ~/.meetcost unless MEETCOST_HOME
// is set.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MEETCOST_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".meetcost"), nil
}

func configFile(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) { return configFile("config.toml") }

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) { return configFile("config.json") }

// CheckpointPath returns where the live session is checkpointed.
func CheckpointPath() (string, error) { return configFile("session.json") }

// LogPath returns the default log file used while the TUI owns the terminal.
func LogPath() (string, error) { return configFile("meetcost.log") }

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions tightens a config file to 0600. It may hold a
// Slack webhook URL, which is a credential.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads .env files, then config.toml, then config.json, and falls back
// to defaults. Environment overrides are applied last. A file that exists
// but cannot be decoded or fails validation is reported alongside the
// defaults; the returned config is never nil.
func Load() (*Config, error) {
	LoadDotEnv()

	var loadErr error

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			cfg := Default()
			if err := LoadTOML(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else if cfg, err = finish(cfg); err != nil {
				loadErr = err
			} else {
				return cfg, nil
			}
		}
	}

	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			cfg := Default()
			if err := LoadJSON(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else if cfg, err = finish(cfg); err != nil {
				loadErr = err
			} else {
				return cfg, nil
			}
		}
	}

	// A bad file or env value still leaves a usable config so that
	// `meetcost config set` can repair it.
	cfg, err := finish(Default())
	if err != nil {
		if loadErr == nil {
			loadErr = err
		}
		return Default(), loadErr
	}
	return cfg, loadErr
}

// LoadFromPath loads one file, choosing the decoder by extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

// LoadTOML decodes path over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	// Decoding into a non-empty map merges; replace so the file wins.
	cfg.Rates.Headcount = nil
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if !md.IsDefined("rates", "headcount") {
		cfg.Rates.Headcount = Default().Rates.Headcount
	}
	return nil
}

// LoadJSON decodes path over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	var probe struct {
		Rates struct {
			Headcount json.RawMessage `json:"headcount"`
		} `json:"rates"`
	}
	_ = json.Unmarshal(data, &probe)
	if len(probe.Rates.Headcount) > 0 {
		cfg.Rates.Headcount = nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills zero values that would otherwise fail validation.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Rates.Mode == "" {
		c.Rates.Mode = d.Rates.Mode
	}
	if len(c.Rates.Roles) == 0 {
		c.Rates.Roles = d.Rates.Roles
	}
	if c.Rates.Headcount == nil {
		c.Rates.Headcount = map[string]int{}
	}
	if c.Tracker.TickMs == 0 {
		c.Tracker.TickMs = d.Tracker.TickMs
	}
	if c.History.Backend == "" {
		c.History.Backend = d.History.Backend
	}
	if c.History.Limit == 0 {
		c.History.Limit = d.History.Limit
	}
	if c.Export.Format == "" {
		c.Export.Format = d.Export.Format
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}

	c.clampRates()
}

// clampRates zeroes negative or non-finite counts and rates, matching what
// the accrual engine does with them.
func (c *Config) clampRates() {
	if c.Rates.Attendees < 0 {
		c.Rates.Attendees = 0
	}
	c.Rates.HourlyRate = clampFloat(c.Rates.HourlyRate)
	for i := range c.Rates.Roles {
		c.Rates.Roles[i].HourlyRate = clampFloat(c.Rates.Roles[i].HourlyRate)
	}
	for name, n := range c.Rates.Headcount {
		if n < 0 {
			c.Rates.Headcount[name] = 0
		}
	}
}

func clampFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path with a short header, mode 0600.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# meetcost configuration file\n")
	b.WriteString("# Run `meetcost config show` to see effective values.\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg to path as indented JSON, mode 0600.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// RateConfig converts the rates section into an engine configuration.
func (c *Config) RateConfig() (accrual.RateConfig, error) {
	if accrual.Mode(strings.ToLower(c.Rates.Mode)) == accrual.ModeFlat {
		return accrual.FlatConfig(c.Rates.Attendees, c.Rates.HourlyRate), nil
	}
	return accrual.RoleConfig(accrual.RateTable(c.Rates.Roles), c.Rates.Headcount)
}

// TickInterval returns the display refresh period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Tracker.TickMs) * time.Millisecond
}

// CheckpointInterval returns the tick checkpoint throttle period.
func (c *Config) CheckpointInterval() time.Duration {
	return time.Duration(c.Tracker.CheckpointSecs) * time.Second
}

// HistoryStore returns the history store settings with the directory
// defaulted to ConfigDir.
func (c *Config) HistoryStore() (history.Config, error) {
	dir := c.History.Dir
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return history.Config{}, err
		}
		dir = d
	}
	return history.Config{
		Backend: c.History.Backend,
		Dir:     dir,
		Limit:   c.History.Limit,
	}, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	clone := *c

	if c.Rates.Roles != nil {
		clone.Rates.Roles = make([]accrual.Role, len(c.Rates.Roles))
		copy(clone.Rates.Roles, c.Rates.Roles)
	}
	if c.Rates.Headcount != nil {
		clone.Rates.Headcount = make(map[string]int, len(c.Rates.Headcount))
		for k, v := range c.Rates.Headcount {
			clone.Rates.Headcount[k] = v
		}
	}
	return &clone
}

// String renders the config as JSON with the Slack webhook redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Share.SlackWebhook != "" {
		safe.Share.SlackWebhook = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults with a warning on stderr.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal replaces the global configuration.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting forgets the global configuration.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}

// errEmptyKey is returned by Get and Set for "".
var errEmptyKey = errors.New("empty key")
