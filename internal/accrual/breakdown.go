// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package accrual

import (
	"fmt"
	"math"
)

// FlatRoleName labels the single share produced for a flat configuration.
const FlatRoleName = "Attendee"

// RoleShare is one role's slice of the meeting cost.
type RoleShare struct {
	Role       string  `json:"role"`
	Count      int     `json:"count"`
	Rate       float64 `json:"rate"`
	Cost       float64 `json:"cost"`
	Percentage float64 `json:"percentage"`
}

// Breakdown splits a snapshot's cost across roles by their share of the
// combined hourly rate. Roles with no headcount are omitted. The result is
// empty when the combined rate is zero.
func Breakdown(cfg RateConfig, snap Snapshot) []RoleShare {
	total := cfg.CombinedHourlyRate()
	if total <= 0 {
		return nil
	}

	if cfg.Mode != ModeRoles {
		return []RoleShare{{
			Role:       FlatRoleName,
			Count:      cfg.AttendeeCount(),
			Rate:       clampRate(cfg.HourlyRate),
			Cost:       snap.TotalCost,
			Percentage: 100,
		}}
	}

	shares := make([]RoleShare, 0, len(cfg.Table))
	for _, r := range cfg.Table {
		n := clampCount(cfg.Headcount[r.Name])
		rate := clampRate(r.HourlyRate)
		if n == 0 {
			continue
		}
		weight := rate * float64(n) / total
		shares = append(shares, RoleShare{
			Role:       r.Name,
			Count:      n,
			Rate:       rate,
			Cost:       weight * snap.TotalCost,
			Percentage: weight * 100,
		})
	}
	return shares
}

// =============================================================================
// INSIGHTS
// =============================================================================

// Reference prices used for the "what else could this have bought" lines.
const (
	CoffeePrice = 5.0
	LunchPrice  = 15.0
)

// Insights are the derived one-liners shown alongside a meeting summary.
type Insights struct {
	CostPerMinute    float64 `json:"cost_per_minute,omitempty"`
	HasCostPerMinute bool    `json:"has_cost_per_minute"`
	Coffees          int     `json:"coffees"`
	Lunches          int     `json:"lunches"`
	Suggestion       string  `json:"suggestion"`
}

// Insights derives the summary one-liners for a snapshot.
func (s Snapshot) Insights() Insights {
	perMin, ok := s.CostPerMinute()
	return Insights{
		CostPerMinute:    perMin,
		HasCostPerMinute: ok,
		Coffees:          int(math.Floor(s.TotalCost / CoffeePrice)),
		Lunches:          int(math.Floor(s.TotalCost / LunchPrice)),
		Suggestion:       Suggestion(s),
	}
}

// Suggestion returns the wrap-up nudge for a meeting of the snapshot's length.
func Suggestion(s Snapshot) string {
	minutes := s.Elapsed.Minutes()
	switch {
	case minutes > 60:
		return fmt.Sprintf("Could save $%.2f by wrapping up in 45min", s.TotalCost*0.3)
	case minutes > 30:
		return "On track. Consider async updates for routine items"
	default:
		return "Keep it focused - you're doing well!"
	}
}
