// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
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

var t0 = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, rates accrual.RateConfig, checkpoint string) (*Manager, *accrual.ManualClock) {
	t.Helper()
	clock := accrual.NewManualClock(t0)
	m := NewManager(Config{
		Rates:              rates,
		Clock:              clock,
		CheckpointPath:     checkpoint,
		CheckpointInterval: time.Hour,
	})
	return m, clock
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Rates.CombinedHourlyRate(); got != 550 {
		t.Errorf("Default combined rate = %v, want 550", got)
	}
	if cfg.CheckpointInterval != 5*time.Second {
		t.Errorf("Default CheckpointInterval = %v, want 5s", cfg.CheckpointInterval)
	}
	if cfg.Clock == nil {
		t.Error("Default Clock should be set")
	}
}

func TestNewManager_StartsStoppedAtZero(t *testing.T) {
	m := NewManager(Config{Rates: accrual.FlatConfig(4, 100)})

	if m.Running() {
		t.Error("new manager should not be running")
	}
	if snap := m.Snapshot(); snap.TotalCost != 0 || snap.Elapsed != 0 {
		t.Errorf("new manager snapshot = %+v, want zero", snap)
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestManager_StartTickPause(t *testing.T) {
	m, clock := newTestManager(t, accrual.FlatConfig(4, 100), "")

	_, err := m.Start(nil)
	require.NoError(t, err)
	require.True(t, m.Running())

	clock.Advance(36 * time.Second)
	snap, crossed := m.Tick()
	assert.InDelta(t, 4.00, snap.TotalCost, 1e-9)
	assert.Empty(t, crossed)

	paused, err := m.Pause()
	require.NoError(t, err)
	assert.False(t, m.Running())

	clock.Advance(time.Hour)
	assert.InDelta(t, paused.TotalCost, m.Snapshot().TotalCost, 1e-9, "nothing accrues while paused")
}

func TestManager_TickReportsMilestonesOnce(t *testing.T) {
	m, clock := newTestManager(t, accrual.FlatConfig(1, 3600), "")
	_, err := m.Start(nil)
	require.NoError(t, err)

	var thresholds []float64
	for i := 0; i < 1200; i++ {
		clock.Advance(time.Second)
		_, crossed := m.Tick()
		for _, c := range crossed {
			thresholds = append(thresholds, c.Threshold)
		}
	}
	assert.Equal(t, []float64{100, 500, 1000}, thresholds)
}

func TestManager_ResetClearsEverything(t *testing.T) {
	m, clock := newTestManager(t, accrual.FlatConfig(1, 3600), "")
	require.NoError(t, m.SetName("Planning"))
	require.NoError(t, m.SetOutcome(history.OutcomeDecision))

	_, err := m.Start(nil)
	require.NoError(t, err)
	clock.Advance(200 * time.Second)
	m.Tick()

	require.NoError(t, m.Reset())
	assert.False(t, m.Running())
	assert.Zero(t, m.Snapshot().TotalCost)
	assert.Empty(t, m.Name())
	assert.Equal(t, history.OutcomeNone, m.Outcome())
	assert.Zero(t, m.Watermark().Last)
	assert.InDelta(t, 3600, m.Rates().CombinedHourlyRate(), 1e-9, "rates survive reset")

	// The 100 milestone fires again after reset.
	_, err = m.Start(nil)
	require.NoError(t, err)
	clock.Advance(150 * time.Second)
	_, crossed := m.Tick()
	require.Len(t, crossed, 1)
	assert.Equal(t, 100.0, crossed[0].Threshold)
}

func TestManager_ConfigureOnlyWhilePaused(t *testing.T) {
	m, clock := newTestManager(t, accrual.FlatConfig(2, 100), "")
	_, err := m.Start(nil)
	require.NoError(t, err)

	err = m.Configure(accrual.FlatConfig(4, 100))
	assert.True(t, errors.Is(err, accrual.ErrRunning))

	clock.Advance(time.Hour)
	_, err = m.Pause()
	require.NoError(t, err)

	require.NoError(t, m.Configure(accrual.FlatConfig(4, 100)))
	assert.InDelta(t, 400, m.Snapshot().TotalCost, 1e-9)
}

func TestManager_StartFromCostSuppressesPastMilestones(t *testing.T) {
	m, clock := newTestManager(t, accrual.FlatConfig(1, 3600), "")

	cost := 600.0
	snap, err := m.Start(&cost)
	require.NoError(t, err)
	assert.InDelta(t, 600, snap.TotalCost, 1e-6)

	clock.Advance(time.Second)
	_, crossed := m.Tick()
	assert.Empty(t, crossed, "100 and 500 were already behind us")

	clock.Advance(400 * time.Second)
	_, crossed = m.Tick()
	require.Len(t, crossed, 1)
	assert.Equal(t, 1000.0, crossed[0].Threshold)
}

func TestManager_ToRecord(t *testing.T) {
	roles, err := accrual.RoleConfig(accrual.DefaultRateTable(), map[string]int{"SR": 2, "VP": 1})
	require.NoError(t, err)
	m, clock := newTestManager(t, roles, "")

	_, ok := m.ToRecord()
	assert.False(t, ok, "nothing to save at zero elapsed")

	require.NoError(t, m.SetOutcome(history.OutcomeActionItems))
	_, err = m.Start(nil)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, err = m.Pause()
	require.NoError(t, err)

	rec, ok := m.ToRecord()
	require.True(t, ok)
	assert.Equal(t, history.DefaultName, rec.Name)
	assert.Equal(t, history.OutcomeActionItems, rec.Outcome)
	assert.Equal(t, int64(1800), rec.Duration)
	assert.InDelta(t, 175, rec.Cost, 1e-9)
	assert.Equal(t, 3, rec.Attendees)
	assert.Equal(t, map[string]int{"SR": 2, "VP": 1}, rec.Roles)
	assert.True(t, rec.Date.Equal(clock.Now()))
}

func TestManager_GetStatus(t *testing.T) {
	m, clock := newTestManager(t, accrual.FlatConfig(4, 100), "")
	require.NoError(t, m.SetName("Retro"))
	_, err := m.Start(nil)
	require.NoError(t, err)
	clock.Advance(90 * time.Minute)

	st := m.GetStatus()
	assert.Equal(t, "Retro", st.Name)
	assert.True(t, st.Running)
	assert.Equal(t, 4, st.Attendees)
	assert.InDelta(t, 600, st.Snapshot.TotalCost, 1e-9)
	assert.Len(t, st.Breakdown, 1)
	assert.Equal(t, "Could save $180.00 by wrapping up in 45min", st.Insights.Suggestion)
	assert.Equal(t, t0, st.EffectiveStart)
	assert.NotNil(t, st.Classification.Milestone)
}

// =============================================================================
// CHECKPOINT TESTS
// =============================================================================

func TestManager_CheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m, clock := newTestManager(t, accrual.FlatConfig(4, 100), path)

	require.NoError(t, m.SetName("Sprint Review"))
	_, err := m.Start(nil)
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	m.Tick()
	_, err = m.Pause()
	require.NoError(t, err)

	restored, _ := newTestManager(t, accrual.FlatConfig(1, 1), path)
	require.NoError(t, restored.Restore())

	assert.Equal(t, "Sprint Review", restored.Name())
	assert.False(t, restored.Running())
	assert.Equal(t, 2*time.Minute, restored.Snapshot().Elapsed)
	assert.InDelta(t, 400, restored.Rates().CombinedHourlyRate(), 1e-9)
}

func TestManager_CheckpointRunningAcrossProcesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m, clock := newTestManager(t, accrual.FlatConfig(1, 3600), path)
	_, err := m.Start(nil)
	require.NoError(t, err)

	// A second process restores later and sees time still running.
	other := NewManager(Config{Clock: clock, CheckpointPath: path})
	clock.Advance(10 * time.Second)
	require.NoError(t, other.Restore())
	assert.True(t, other.Running())
	assert.InDelta(t, 10, other.Snapshot().TotalCost, 1e-9)
}

func TestManager_RestoreMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	m, _ := newTestManager(t, accrual.FlatConfig(1, 1), path)
	assert.True(t, errors.Is(m.Restore(), ErrNoCheckpoint))

	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0644))
	assert.True(t, errors.Is(m.Restore(), ErrNoCheckpoint))

	noPath, _ := newTestManager(t, accrual.FlatConfig(1, 1), "")
	assert.True(t, errors.Is(noPath.Restore(), ErrNoCheckpoint))
}

func TestManager_ClearCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m, _ := newTestManager(t, accrual.FlatConfig(1, 1), path)

	require.NoError(t, m.Checkpoint())
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, m.ClearCheckpoint())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, m.ClearCheckpoint(), "clearing twice is fine")
}

func TestManager_TickCheckpointThrottled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m, clock := newTestManager(t, accrual.FlatConfig(1, 3600), path)
	_, err := m.Start(nil)
	require.NoError(t, err)

	// First tick writes (Sometimes always runs the first call).
	clock.Advance(time.Second)
	m.Tick()
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	// Later ticks inside the hour-long interval are skipped.
	clock.Advance(time.Minute)
	m.Tick()
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

// TestManager_ConcurrentTicks exercises the mutex under -race.
func TestManager_ConcurrentTicks(t *testing.T) {
	m, clock := newTestManager(t, accrual.FlatConfig(3, 100), "")
	_, err := m.Start(nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			m.Tick()
		}()
		go func() {
			defer wg.Done()
			_ = m.GetStatus()
		}()
	}
	wg.Wait()

	assert.InDelta(t, 20.0/3600*300, m.Snapshot().TotalCost, 1e-9)
}
