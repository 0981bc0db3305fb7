// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"time"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/classify"
	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/session"
)

// =============================================================================
// SUMMARY
// =============================================================================

// Summary is everything an exporter needs to describe one meeting.
type Summary struct {
	Name       string          `json:"name" yaml:"name"`
	Outcome    history.Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Date       time.Time       `json:"date" yaml:"date"`
	Elapsed    time.Duration   `json:"-" yaml:"-"`
	Seconds    int64           `json:"duration_seconds" yaml:"duration_seconds"`
	HourlyRate float64         `json:"hourly_rate" yaml:"hourly_rate"`
	TotalCost  float64         `json:"total_cost" yaml:"total_cost"`
	Attendees  int             `json:"attendees" yaml:"attendees"`

	Breakdown      []accrual.RoleShare `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	Insights       accrual.Insights    `json:"insights" yaml:"insights"`
	Classification classify.Result     `json:"classification" yaml:"classification"`
}

// FromSession summarizes the live meeting as of date.
func FromSession(st session.Status, date time.Time) *Summary {
	return newSummary(st.Name, st.Outcome, date, st.Attendees, st.Snapshot, st.Breakdown)
}

// FromRecord summarizes a saved meeting. The role breakdown is rebuilt from
// table; roles the table no longer knows are reported without a breakdown.
func FromRecord(rec history.Record, table accrual.RateTable) *Summary {
	elapsed := rec.Elapsed()

	rate := 0.0
	if hours := elapsed.Hours(); hours > 0 {
		rate = rec.Cost / hours
	}
	snap := accrual.Snapshot{Elapsed: elapsed, HourlyRate: rate, TotalCost: rec.Cost}

	var shares []accrual.RoleShare
	if len(rec.Roles) > 0 {
		if cfg, err := accrual.RoleConfig(table, rec.Roles); err == nil {
			shares = accrual.Breakdown(cfg, snap)
		}
	} else if rec.Attendees > 0 && rate > 0 {
		shares = accrual.Breakdown(accrual.FlatConfig(rec.Attendees, rate/float64(rec.Attendees)), snap)
	}

	return newSummary(rec.Name, rec.Outcome, rec.Date, rec.Attendees, snap, shares)
}

func newSummary(name string, outcome history.Outcome, date time.Time, attendees int, snap accrual.Snapshot, shares []accrual.RoleShare) *Summary {
	return &Summary{
		Name:           name,
		Outcome:        outcome,
		Date:           date,
		Elapsed:        snap.Elapsed,
		Seconds:        int64(snap.Elapsed / time.Second),
		HourlyRate:     snap.HourlyRate,
		TotalCost:      snap.TotalCost,
		Attendees:      attendees,
		Breakdown:      shares,
		Insights:       snap.Insights(),
		Classification: classify.Classify(snap.TotalCost),
	}
}

// DisplayName is Name, or "Unnamed" when empty.
func (s *Summary) DisplayName() string {
	if s.Name == "" {
		return "Unnamed"
	}
	return s.Name
}
