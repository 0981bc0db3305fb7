// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package accrual

import (
	"errors"
	"math"
	"time"
)

// ErrRunning is returned by Configure while the session is accruing. Rate
// changes are only accepted while paused.
var ErrRunning = errors.New("session is running; pause before changing rates")

// =============================================================================
// SESSION
// =============================================================================

// Session is the complete accrual state. It is a value: transitions return a
// new Session and never modify their argument.
type Session struct {
	Config RateConfig

	// SegmentStart is when the current run segment began. Zero when paused.
	SegmentStart time.Time

	// Accumulated is elapsed time banked by previous segments.
	Accumulated time.Duration

	Running bool

	// HighWater is the largest elapsed value ever reported. Elapsed never
	// drops below it, which absorbs clocks that step backward.
	HighWater time.Duration
}

// NewSession returns a stopped session at zero with the given configuration.
func NewSession(cfg RateConfig) Session {
	return Session{Config: cfg}
}

// Elapsed returns total elapsed time as of now without changing the session.
func (s Session) Elapsed(now time.Time) time.Duration {
	e := s.Accumulated
	if s.Running {
		if d := now.Sub(s.SegmentStart); d > 0 {
			e += d
		}
	}
	if e < s.HighWater {
		e = s.HighWater
	}
	return e
}

// EffectiveStart is the instant the meeting would have started had it never
// been paused. Zero when not running.
func (s Session) EffectiveStart() time.Time {
	if !s.Running {
		return time.Time{}
	}
	return s.SegmentStart.Add(-s.Accumulated)
}

// Snapshot derives the cost as of now without changing the session.
func (s Session) Snapshot(now time.Time) Snapshot {
	return NewSnapshot(s.Config.CombinedHourlyRate(), s.Elapsed(now))
}

// IsZero reports whether no time has accrued.
func (s Session) IsZero() bool {
	return !s.Running && s.Accumulated == 0 && s.HighWater == 0
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Start begins or resumes accrual at now. Starting a running session is a
// no-op.
func Start(s Session, now time.Time) Session {
	if s.Running {
		return s
	}
	s.SegmentStart = now
	s.Running = true
	return s
}

// StartFromCost resumes accrual so that the first snapshot shows cost. The
// elapsed baseline is cost / (rate/3600). With a zero rate the baseline
// cannot be recovered and the session resumes from its own elapsed time.
func StartFromCost(s Session, cost float64, now time.Time) Session {
	if s.Running {
		return s
	}
	rate := s.Config.CombinedHourlyRate()
	if rate <= 0 || math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return Start(s, now)
	}
	secs := cost / (rate / 3600)
	s.Accumulated = time.Duration(secs * float64(time.Second))
	s.HighWater = s.Accumulated
	return Start(s, now)
}

// Tick samples the session at now. It is idempotent for a given now and
// returns the frozen snapshot while paused.
func Tick(s Session, now time.Time) (Session, Snapshot) {
	e := s.Elapsed(now)
	if e > s.HighWater {
		s.HighWater = e
	}
	return s, NewSnapshot(s.Config.CombinedHourlyRate(), e)
}

// Stop freezes accrual at now and returns the final snapshot. A later Start
// resumes from this point.
func Stop(s Session, now time.Time) (Session, Snapshot) {
	e := s.Elapsed(now)
	if s.Running {
		s.Accumulated = e
		s.SegmentStart = time.Time{}
		s.Running = false
	}
	if e > s.HighWater {
		s.HighWater = e
	}
	return s, NewSnapshot(s.Config.CombinedHourlyRate(), e)
}

// Reset clears elapsed time and cost. Configuration is kept and the session
// is left stopped.
func Reset(s Session) Session {
	return Session{Config: s.Config}
}

// Configure replaces the rate configuration. Elapsed time is preserved, so
// the displayed cost jumps to the new rate's value for the same duration.
func Configure(s Session, cfg RateConfig) (Session, error) {
	if s.Running {
		return s, ErrRunning
	}
	s.Config = cfg
	return s, nil
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the derived cost at one instant.
type Snapshot struct {
	Elapsed    time.Duration `json:"elapsed"`
	HourlyRate float64       `json:"hourly_rate"`
	TotalCost  float64       `json:"total_cost"`
}

// NewSnapshot computes cost from rate and elapsed time using the closed form.
func NewSnapshot(hourlyRate float64, elapsed time.Duration) Snapshot {
	if elapsed < 0 {
		elapsed = 0
	}
	hourlyRate = clampRate(hourlyRate)
	return Snapshot{
		Elapsed:    elapsed,
		HourlyRate: hourlyRate,
		TotalCost:  CostFor(hourlyRate, elapsed.Seconds()),
	}
}

// CostFor returns (hourlyRate/3600) * elapsedSeconds, clamped to >= 0.
func CostFor(hourlyRate, elapsedSeconds float64) float64 {
	hourlyRate = clampRate(hourlyRate)
	if elapsedSeconds <= 0 || math.IsNaN(elapsedSeconds) {
		return 0
	}
	return hourlyRate / 3600 * elapsedSeconds
}

// ElapsedSeconds returns elapsed time in fractional seconds.
func (s Snapshot) ElapsedSeconds() float64 {
	return s.Elapsed.Seconds()
}

// CostPerMinute returns the average spend per elapsed minute. ok is false
// when no time has elapsed and the ratio is undefined.
func (s Snapshot) CostPerMinute() (perMinute float64, ok bool) {
	minutes := s.Elapsed.Minutes()
	if minutes <= 0 {
		return 0, false
	}
	return s.TotalCost / minutes, true
}
