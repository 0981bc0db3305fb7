// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/classify"
	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/util"
)

// ErrNoCheckpoint is returned by Restore when there is no usable checkpoint.
var ErrNoCheckpoint = errors.New("no saved session")

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager owns the one live meeting: the accrual session, its milestone
// watermark, name and outcome. It is safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	clock     accrual.Clock
	session   accrual.Session
	watermark classify.Watermark
	name      string
	outcome   history.Outcome

	checkpointPath  string
	checkpointEvery *rate.Sometimes

	logger *zap.Logger
}

// Config holds configuration for the session manager.
type Config struct {
	// Rates is the initial rate configuration.
	Rates accrual.RateConfig

	// Clock defaults to accrual.SystemClock.
	Clock accrual.Clock

	// CheckpointPath enables checkpointing when non-empty.
	CheckpointPath string

	// CheckpointInterval throttles checkpoints written from Tick. Zero
	// disables tick checkpoints; transitions always write.
	CheckpointInterval time.Duration

	Logger *zap.Logger
}

// DefaultConfig returns a manager configuration for the default role table
// with one of each role.
func DefaultConfig() Config {
	table := accrual.DefaultRateTable()
	counts := make(map[string]int, len(table))
	for _, name := range table.Names() {
		counts[name] = 1
	}
	rates, _ := accrual.RoleConfig(table, counts)

	return Config{
		Rates:              rates,
		Clock:              accrual.SystemClock{},
		CheckpointInterval: 5 * time.Second,
	}
}

// NewManager creates a stopped manager at zero.
func NewManager(cfg Config) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = accrual.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		clock:          clock,
		session:        accrual.NewSession(cfg.Rates),
		checkpointPath: cfg.CheckpointPath,
		logger:         logger.Named("session"),
	}
	if cfg.CheckpointInterval > 0 {
		m.checkpointEvery = &rate.Sometimes{Interval: cfg.CheckpointInterval}
	}
	return m
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Start begins or resumes the meeting. With resumeFromCost set, the elapsed
// baseline is recovered from that cost and milestones at or below it are
// treated as already announced.
func (m *Manager) Start(resumeFromCost *float64) (accrual.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if resumeFromCost != nil {
		m.session = accrual.StartFromCost(m.session, *resumeFromCost, now)
	} else {
		m.session = accrual.Start(m.session, now)
	}

	snap := m.session.Snapshot(now)
	if resumeFromCost != nil {
		m.watermark, _ = m.watermark.Advance(snap.TotalCost)
	}

	m.logger.Info("meeting started",
		zap.Float64("hourly_rate", snap.HourlyRate),
		zap.Duration("elapsed", snap.Elapsed))
	return snap, m.checkpointLocked()
}

// Pause freezes accrual and returns the final snapshot.
func (m *Manager) Pause() (accrual.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var snap accrual.Snapshot
	m.session, snap = accrual.Stop(m.session, m.clock.Now())

	m.logger.Info("meeting paused",
		zap.Duration("elapsed", snap.Elapsed),
		zap.Float64("cost", snap.TotalCost))
	return snap, m.checkpointLocked()
}

// Tick samples the meeting and returns milestones crossed since the last
// tick, in ascending order. Checkpoint failures are logged, not returned.
func (m *Manager) Tick() (accrual.Snapshot, []classify.Milestone) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var snap accrual.Snapshot
	m.session, snap = accrual.Tick(m.session, m.clock.Now())

	var crossed []classify.Milestone
	m.watermark, crossed = m.watermark.Advance(snap.TotalCost)
	for _, ms := range crossed {
		m.logger.Info("milestone reached",
			zap.Float64("threshold", ms.Threshold),
			zap.String("message", ms.Message))
	}

	if m.session.Running && m.checkpointEvery != nil {
		m.checkpointEvery.Do(func() {
			if err := m.checkpointLocked(); err != nil {
				m.logger.Warn("checkpoint failed", zap.Error(err))
			}
		})
	}
	return snap, crossed
}

// Reset stops the meeting and clears elapsed time, name, outcome and the
// milestone watermark. The rate configuration is kept.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = accrual.Reset(m.session)
	m.watermark = m.watermark.Reset()
	m.name = ""
	m.outcome = history.OutcomeNone

	m.logger.Info("meeting reset")
	return m.checkpointLocked()
}

// Configure replaces the rate configuration. It fails with
// accrual.ErrRunning while the meeting is running.
func (m *Manager) Configure(cfg accrual.RateConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := accrual.Configure(m.session, cfg)
	if err != nil {
		return err
	}
	m.session = s

	m.logger.Debug("rates configured", zap.Float64("hourly_rate", cfg.CombinedHourlyRate()))
	return m.checkpointLocked()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Snapshot returns the current cost without advancing the session.
func (m *Manager) Snapshot() accrual.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Snapshot(m.clock.Now())
}

// Session returns a copy of the underlying accrual state.
func (m *Manager) Session() accrual.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Rates returns the current rate configuration.
func (m *Manager) Rates() accrual.RateConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Config
}

// Running reports whether time is accruing.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Running
}

// Watermark returns the milestone watermark.
func (m *Manager) Watermark() classify.Watermark {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watermark
}

// Name returns the meeting name, possibly empty.
func (m *Manager) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// SetName sets the meeting name.
func (m *Manager) SetName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
	return m.checkpointLocked()
}

// Outcome returns the recorded outcome.
func (m *Manager) Outcome() history.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

// SetOutcome records what the meeting produced.
func (m *Manager) SetOutcome(o history.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcome = o
	return m.checkpointLocked()
}

// ToRecord converts the meeting into a history record dated now. ok is false
// when no time has elapsed, since there is nothing worth saving.
func (m *Manager) ToRecord() (rec history.Record, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	snap := m.session.Snapshot(now)
	if snap.Elapsed <= 0 {
		return history.Record{}, false
	}

	cfg := m.session.Config
	return history.NewRecord(m.name, m.outcome, now, snap.Elapsed, snap.TotalCost,
		cfg.AttendeeCount(), cfg.RoleCounts()), true
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a point-in-time view of the meeting.
type Status struct {
	Name           string              `json:"name"`
	Outcome        history.Outcome     `json:"outcome,omitempty"`
	Running        bool                `json:"running"`
	EffectiveStart time.Time           `json:"effective_start,omitempty"`
	Attendees      int                 `json:"attendees"`
	Snapshot       accrual.Snapshot    `json:"snapshot"`
	Breakdown      []accrual.RoleShare `json:"breakdown,omitempty"`
	Insights       accrual.Insights    `json:"insights"`
	Classification classify.Result     `json:"classification"`
}

// GetStatus returns the current status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.session.Snapshot(m.clock.Now())
	cfg := m.session.Config
	return Status{
		Name:           m.name,
		Outcome:        m.outcome,
		Running:        m.session.Running,
		EffectiveStart: m.session.EffectiveStart(),
		Attendees:      cfg.AttendeeCount(),
		Snapshot:       snap,
		Breakdown:      accrual.Breakdown(cfg, snap),
		Insights:       snap.Insights(),
		Classification: classify.Classify(snap.TotalCost),
	}
}

// =============================================================================
// CHECKPOINT
// =============================================================================

// checkpoint is the on-disk form of a live meeting.
type checkpoint struct {
	Session   accrual.Session    `json:"session"`
	Watermark classify.Watermark `json:"watermark"`
	Name      string             `json:"name,omitempty"`
	Outcome   history.Outcome    `json:"outcome,omitempty"`
	SavedAt   time.Time          `json:"saved_at"`
}

// Checkpoint writes the current state immediately.
func (m *Manager) Checkpoint() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkpointLocked()
}

func (m *Manager) checkpointLocked() error {
	if m.checkpointPath == "" {
		return nil
	}

	data, err := json.MarshalIndent(checkpoint{
		Session:   m.session,
		Watermark: m.watermark,
		Name:      m.name,
		Outcome:   m.outcome,
		SavedAt:   m.clock.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := util.AtomicWriteFile(m.checkpointPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// Restore loads the checkpoint, replacing the in-memory meeting. A missing
// file returns ErrNoCheckpoint. A corrupt file is logged and also returns
// ErrNoCheckpoint so the caller starts fresh.
func (m *Manager) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.checkpointPath == "" {
		return ErrNoCheckpoint
	}

	data, err := os.ReadFile(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoCheckpoint
		}
		return fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		m.logger.Warn("ignoring corrupt checkpoint", zap.String("path", m.checkpointPath), zap.Error(err))
		return ErrNoCheckpoint
	}

	m.session = cp.Session
	m.watermark = cp.Watermark
	m.name = cp.Name
	m.outcome = cp.Outcome

	m.logger.Debug("checkpoint restored",
		zap.Bool("running", cp.Session.Running),
		zap.Time("saved_at", cp.SavedAt))
	return nil
}

// ClearCheckpoint removes the checkpoint file. A missing file is not an error.
func (m *Manager) ClearCheckpoint() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.checkpointPath == "" {
		return nil
	}
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}
