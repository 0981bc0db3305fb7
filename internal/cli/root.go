// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/config"
	"github.com/jeranaias/meetcost/internal/export"
	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/logging"
	"github.com/jeranaias/meetcost/internal/session"
	"github.com/jeranaias/meetcost/internal/ui/tracker"
)

// Dependencies is what every command needs. main builds it once.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Clock defaults to accrual.SystemClock.
	Clock accrual.Clock
}

// NewRootCmd builds the meetcost command tree. Without a subcommand it
// opens the live tracker.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetcost",
		Short: "Watch what your meeting costs while it happens",
		Long: "meetcost tracks the running dollar cost of a meeting from attendee\n" +
			"rates and elapsed time, calls out milestones, keeps a short history\n" +
			"and exports summaries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracker(cmd, deps)
		},
	}

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(FullVersion() + "\n")

	rootCmd.AddCommand(NewStartCmd(deps))
	rootCmd.AddCommand(NewPauseCmd(deps))
	rootCmd.AddCommand(NewStopCmd(deps))
	rootCmd.AddCommand(NewResetCmd(deps))
	rootCmd.AddCommand(NewStatusCmd(deps))
	rootCmd.AddCommand(NewWatchCmd(deps))
	rootCmd.AddCommand(NewClassifyCmd(deps))
	rootCmd.AddCommand(NewHistoryCmd(deps))
	rootCmd.AddCommand(NewExportCmd(deps))
	rootCmd.AddCommand(NewShareCmd(deps))
	rootCmd.AddCommand(NewRolesCmd(deps))
	rootCmd.AddCommand(NewConfigCmd(deps))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

func (d *Dependencies) clock() accrual.Clock {
	if d.Clock == nil {
		return accrual.SystemClock{}
	}
	return d.Clock
}

func (d *Dependencies) logger() *zap.Logger {
	return logging.OrNop(d.Logger)
}

func (d *Dependencies) settings() *config.Config {
	if d.Config == nil {
		d.Config = config.Default()
	}
	return d.Config
}

// openManager builds a session manager over the on-disk checkpoint so that
// start, pause and stop work across invocations. A restored meeting that has
// not accrued anything picks up the current rate configuration.
func (d *Dependencies) openManager(logger *zap.Logger) (*session.Manager, error) {
	cfg := d.settings()
	rates, err := cfg.RateConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid rate configuration: %w", err)
	}
	path, err := config.CheckpointPath()
	if err != nil {
		return nil, err
	}

	m := session.NewManager(session.Config{
		Rates:              rates,
		Clock:              d.clock(),
		CheckpointPath:     path,
		CheckpointInterval: cfg.CheckpointInterval(),
		Logger:             logger,
	})
	if err := m.Restore(); err != nil && !errors.Is(err, session.ErrNoCheckpoint) {
		return nil, err
	}
	if !m.Running() && m.Snapshot().Elapsed == 0 {
		if err := m.Configure(rates); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (d *Dependencies) openStore() (history.Store, error) {
	hc, err := d.settings().HistoryStore()
	if err != nil {
		return nil, err
	}
	return history.Open(hc)
}

func (d *Dependencies) exportOptions() *export.Options {
	cfg := d.settings()
	opts := export.DefaultOptions()
	if cfg.Export.Dir != "" {
		opts.OutputDir = cfg.Export.Dir
	}
	if cfg.UI.Theme == "dark" {
		opts.Theme = "dark"
	}
	opts.Now = func() time.Time { return d.clock().Now() }
	return opts
}

// saveMeeting stores the current meeting in history. ok is false when the
// meeting has no elapsed time.
func (d *Dependencies) saveMeeting(m *session.Manager) (rec history.Record, ok bool, err error) {
	rec, ok = m.ToRecord()
	if !ok {
		return rec, false, nil
	}

	store, err := d.openStore()
	if err != nil {
		return rec, false, err
	}
	defer store.Close()

	if err := store.Save(rec); err != nil {
		return rec, false, NewCommandError("history", "save", "could not store meeting", err)
	}
	d.logger().Info("meeting saved",
		zap.String("id", rec.ID),
		zap.Float64("cost", rec.Cost))
	return rec, true, nil
}

// =============================================================================
// LIVE TRACKER
// =============================================================================

// runTracker opens the full-screen tracker. deps.Logger must not write to
// the terminal.
func runTracker(cmd *cobra.Command, deps *Dependencies) error {
	ctx := cmd.Context()
	cfg := deps.settings()
	logger := deps.logger()

	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	m, err := deps.openManager(logger)
	if err != nil {
		return err
	}

	store, err := deps.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := tracker.Options{
		Manager: m,
		Store:   store,
		Config:  cfg,
		Logger:  logger,
		Now:     func() time.Time { return deps.clock().Now() },
	}

	if path := watchedConfigPath(); path != "" {
		w, err := config.NewWatcher(ctx, path, logger)
		if err != nil {
			logger.Warn("config reload disabled", zap.Error(err))
		} else {
			defer w.Close()
			opts.ConfigChanges = w.Changes()
		}
	}

	return tracker.Run(ctx, opts)
}

// watchedConfigPath prefers config.toml and falls back to an existing
// config.json.
func watchedConfigPath() string {
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	if jsonPath, err := config.ConfigPathJSON(); err == nil {
		if _, err := os.Stat(jsonPath); err == nil {
			return jsonPath
		}
	}
	return tomlPath
}
