// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package accrual

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestCostMatchesClosedForm(t *testing.T) {
	rates := []float64{0, 1, 37.5, 400, 550, 12345.67}
	elapsed := []time.Duration{0, time.Millisecond, 36 * time.Second, 17*time.Minute + 3*time.Second, 3 * time.Hour}

	for _, rate := range rates {
		for _, e := range elapsed {
			snap := NewSnapshot(rate, e)
			want := rate / 3600 * e.Seconds()
			assert.InDelta(t, want, snap.TotalCost, eps, "rate=%v elapsed=%v", rate, e)
		}
	}
}

func TestScenario_FlatFourAtHundred(t *testing.T) {
	cfg := FlatConfig(4, 100)
	require.InDelta(t, 400, cfg.CombinedHourlyRate(), eps)

	s := Start(NewSession(cfg), t0)
	_, snap := Tick(s, t0.Add(36*time.Second))

	assert.InDelta(t, 4.00, snap.TotalCost, eps)
	assert.Equal(t, 36*time.Second, snap.Elapsed)
}

func TestScenario_RolesOneHour(t *testing.T) {
	cfg, err := RoleConfig(DefaultRateTable(), map[string]int{"JR": 1, "SR": 1, "VP": 1, "CEO": 1})
	require.NoError(t, err)
	require.InDelta(t, 550, cfg.CombinedHourlyRate(), eps)

	s := Start(NewSession(cfg), t0)
	_, snap := Tick(s, t0.Add(time.Hour))
	assert.InDelta(t, 550.00, snap.TotalCost, eps)

	shares := Breakdown(cfg, snap)
	require.Len(t, shares, 4)

	sumPct, sumCost := 0.0, 0.0
	for _, sh := range shares {
		sumPct += sh.Percentage
		sumCost += sh.Cost
	}
	assert.InDelta(t, 100, sumPct, eps)
	assert.InDelta(t, snap.TotalCost, sumCost, eps)
	assert.Equal(t, "JR", shares[0].Role)
	assert.InDelta(t, 50.0/550*100, shares[0].Percentage, eps)
}

func TestPauseResumeContinuity(t *testing.T) {
	configs := []RateConfig{
		FlatConfig(1, 1),
		FlatConfig(4, 100),
		FlatConfig(12, 237.25),
	}
	roleCfg, err := RoleConfig(DefaultRateTable(), map[string]int{"JR": 3, "CEO": 2})
	require.NoError(t, err)
	configs = append(configs, roleCfg)

	for _, cfg := range configs {
		s := Start(NewSession(cfg), t0)
		now := t0.Add(7*time.Minute + 13*time.Second)

		s, stopped := Stop(s, now)
		assert.False(t, s.Running)

		// Time passes while paused; nothing accrues.
		later := now.Add(20 * time.Minute)
		_, paused := Tick(s, later)
		assert.InDelta(t, stopped.TotalCost, paused.TotalCost, eps)

		s = Start(s, later)
		_, resumed := Tick(s, later)
		assert.InDelta(t, stopped.TotalCost, resumed.TotalCost, eps, "rate=%v", cfg.CombinedHourlyRate())

		// And it keeps going from there without a gap.
		_, next := Tick(s, later.Add(time.Minute))
		assert.InDelta(t, CostFor(cfg.CombinedHourlyRate(), (8*time.Minute+13*time.Second).Seconds()), next.TotalCost, eps)
	}
}

func TestStartFromCost(t *testing.T) {
	cfg := FlatConfig(4, 100)
	s := StartFromCost(NewSession(cfg), 4.00, t0)

	_, snap := Tick(s, t0)
	assert.InDelta(t, 4.00, snap.TotalCost, 1e-6)
	assert.InDelta(t, 36, snap.ElapsedSeconds(), 1e-6)

	_, snap = Tick(s, t0.Add(36*time.Second))
	assert.InDelta(t, 8.00, snap.TotalCost, 1e-6)
}

func TestStartFromCost_ZeroRateIsNoop(t *testing.T) {
	s := StartFromCost(NewSession(FlatConfig(0, 100)), 42, t0)
	require.True(t, s.Running)

	_, snap := Tick(s, t0.Add(10*time.Second))
	assert.Equal(t, 10*time.Second, snap.Elapsed, "elapsed still advances")
	assert.Zero(t, snap.TotalCost)
}

func TestStartWithoutPriorSessionIsFresh(t *testing.T) {
	var s Session
	s = Start(s, t0)
	_, snap := Tick(s, t0)
	assert.Zero(t, snap.Elapsed)
	assert.Zero(t, snap.TotalCost)
}

func TestStartTwiceIsNoop(t *testing.T) {
	s := Start(NewSession(FlatConfig(2, 60)), t0)
	again := Start(s, t0.Add(time.Minute))
	assert.Equal(t, s, again)
}

func TestTickIdempotentAndMonotonic(t *testing.T) {
	s := Start(NewSession(FlatConfig(3, 90)), t0)

	now := t0.Add(90 * time.Second)
	s1, a := Tick(s, now)
	s2, b := Tick(s1, now)
	assert.Equal(t, a, b)
	assert.Equal(t, s1, s2)

	prev := 0.0
	for i := 0; i < 50; i++ {
		var snap Snapshot
		s, snap = Tick(s, t0.Add(time.Duration(i)*100*time.Millisecond))
		assert.GreaterOrEqual(t, snap.TotalCost, prev)
		prev = snap.TotalCost
	}
}

func TestTickClampsBackwardClock(t *testing.T) {
	s := Start(NewSession(FlatConfig(1, 3600)), t0)

	s, a := Tick(s, t0.Add(10*time.Second))
	s, b := Tick(s, t0.Add(4*time.Second))
	assert.Equal(t, a.Elapsed, b.Elapsed, "elapsed must not decrease")
	assert.InDelta(t, 10, b.TotalCost, eps)

	s, stopped := Stop(s, t0.Add(2*time.Second))
	assert.Equal(t, 10*time.Second, stopped.Elapsed)
	assert.Equal(t, 10*time.Second, s.Accumulated)
}

func TestTickRateIndependent(t *testing.T) {
	cfg := FlatConfig(7, 130)
	end := t0.Add(5 * time.Minute)

	fine := Start(NewSession(cfg), t0)
	var fineSnap Snapshot
	for now := t0; !now.After(end); now = now.Add(100 * time.Millisecond) {
		fine, fineSnap = Tick(fine, now)
	}

	coarse := Start(NewSession(cfg), t0)
	_, coarseSnap := Tick(coarse, end)

	assert.InDelta(t, coarseSnap.TotalCost, fineSnap.TotalCost, eps)
}

func TestResetIdempotent(t *testing.T) {
	cfg := FlatConfig(5, 80)
	states := []Session{
		NewSession(cfg),
		Start(NewSession(cfg), t0),
	}
	stopped, _ := Stop(Start(NewSession(cfg), t0), t0.Add(time.Hour))
	states = append(states, stopped)

	for _, s := range states {
		r := Reset(s)
		_, snap := Tick(r, t0.Add(2*time.Hour))
		assert.Zero(t, snap.Elapsed)
		assert.Zero(t, snap.TotalCost)
		assert.False(t, r.Running)
		assert.Equal(t, cfg, r.Config, "reset keeps configuration")
		assert.Equal(t, r, Reset(r))
	}
}

func TestConfigure(t *testing.T) {
	s := Start(NewSession(FlatConfig(2, 100)), t0)

	_, err := Configure(s, FlatConfig(3, 100))
	require.True(t, errors.Is(err, ErrRunning))

	s, _ = Stop(s, t0.Add(time.Hour))
	s, err = Configure(s, FlatConfig(3, 100))
	require.NoError(t, err)

	_, snap := Tick(s, t0.Add(3*time.Hour))
	assert.Equal(t, time.Hour, snap.Elapsed, "elapsed survives a rate change")
	assert.InDelta(t, 300, snap.TotalCost, eps)
}

func TestNegativeInputsClamp(t *testing.T) {
	cfg := FlatConfig(-3, -50)
	assert.Zero(t, cfg.Attendees)
	assert.Zero(t, cfg.HourlyRate)
	assert.Zero(t, cfg.CombinedHourlyRate())

	nan := FlatConfig(2, math.NaN())
	assert.Zero(t, nan.CombinedHourlyRate())

	roles, err := RoleConfig(DefaultRateTable(), map[string]int{"JR": -4, "SR": 2})
	require.NoError(t, err)
	assert.InDelta(t, 200, roles.CombinedHourlyRate(), eps)

	assert.Zero(t, NewSnapshot(-100, time.Hour).TotalCost)
	assert.Zero(t, NewSnapshot(100, -time.Hour).TotalCost)
}

func TestCostPerMinute(t *testing.T) {
	_, ok := NewSnapshot(600, 0).CostPerMinute()
	assert.False(t, ok, "undefined at zero elapsed")

	perMin, ok := NewSnapshot(600, 2*time.Minute).CostPerMinute()
	assert.True(t, ok)
	assert.InDelta(t, 10, perMin, eps)
}

func TestEffectiveStart(t *testing.T) {
	s := Start(NewSession(FlatConfig(1, 1)), t0)
	s, _ = Stop(s, t0.Add(5*time.Minute))
	resumeAt := t0.Add(time.Hour)
	s = Start(s, resumeAt)

	assert.Equal(t, resumeAt.Add(-5*time.Minute), s.EffectiveStart())
	assert.True(t, Reset(s).EffectiveStart().IsZero())
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(t0)
	c.Advance(time.Second)
	assert.Equal(t, t0.Add(time.Second), c.Now())
	c.Set(t0)
	assert.Equal(t, t0, c.Now())
}
