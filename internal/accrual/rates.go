// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package accrual

import (
	"errors"
	"fmt"
	"math"
)

// =============================================================================
// RATE TABLE
// =============================================================================

// Role is a salary band with its loaded hourly rate in dollars.
type Role struct {
	Name       string  `json:"name" toml:"name"`
	HourlyRate float64 `json:"hourly_rate" toml:"hourly_rate"`
}

// RateTable is an ordered list of roles. Order is display order.
type RateTable []Role

// DefaultRateTable returns the built-in salary bands.
func DefaultRateTable() RateTable {
	return RateTable{
		{Name: "JR", HourlyRate: 50},
		{Name: "SR", HourlyRate: 100},
		{Name: "VP", HourlyRate: 150},
		{Name: "CEO", HourlyRate: 250},
	}
}

// Rate returns the hourly rate for a role and whether it exists.
func (t RateTable) Rate(name string) (float64, bool) {
	for _, r := range t {
		if r.Name == name {
			return clampRate(r.HourlyRate), true
		}
	}
	return 0, false
}

// Names returns role names in table order.
func (t RateTable) Names() []string {
	names := make([]string, len(t))
	for i, r := range t {
		names[i] = r.Name
	}
	return names
}

// =============================================================================
// RATE CONFIGURATION
// =============================================================================

// Mode selects how the combined hourly rate is computed.
type Mode string

const (
	// ModeFlat multiplies an attendee count by a single per-person rate.
	ModeFlat Mode = "flat"
	// ModeRoles sums headcount x rate over a role table.
	ModeRoles Mode = "roles"
)

var (
	// ErrUnknownRole is returned when a headcount names a role missing from the table.
	ErrUnknownRole = errors.New("unknown role")
	// ErrDuplicateRole is returned when a rate table lists the same role twice.
	ErrDuplicateRole = errors.New("duplicate role")
)

// RateConfig describes who is in the meeting and what they cost.
type RateConfig struct {
	Mode Mode

	// Flat mode
	Attendees  int
	HourlyRate float64

	// Role mode
	Headcount map[string]int
	Table     RateTable
}

// FlatConfig builds a flat configuration. Negative inputs clamp to zero.
func FlatConfig(attendees int, hourlyRate float64) RateConfig {
	return RateConfig{
		Mode:       ModeFlat,
		Attendees:  clampCount(attendees),
		HourlyRate: clampRate(hourlyRate),
	}
}

// RoleConfig builds a role-weighted configuration. Every headcount key must
// exist in table and table names must be unique.
func RoleConfig(table RateTable, headcount map[string]int) (RateConfig, error) {
	seen := make(map[string]bool, len(table))
	for _, r := range table {
		if seen[r.Name] {
			return RateConfig{}, fmt.Errorf("%w: %s", ErrDuplicateRole, r.Name)
		}
		seen[r.Name] = true
	}

	counts := make(map[string]int, len(headcount))
	for name, n := range headcount {
		if !seen[name] {
			return RateConfig{}, fmt.Errorf("%w: %s", ErrUnknownRole, name)
		}
		counts[name] = clampCount(n)
	}

	tbl := make(RateTable, len(table))
	copy(tbl, table)

	return RateConfig{
		Mode:      ModeRoles,
		Headcount: counts,
		Table:     tbl,
	}, nil
}

// CombinedHourlyRate returns the combined dollars-per-hour for the whole meeting.
// Always >= 0.
func (c RateConfig) CombinedHourlyRate() float64 {
	switch c.Mode {
	case ModeRoles:
		total := 0.0
		for _, r := range c.Table {
			total += float64(clampCount(c.Headcount[r.Name])) * clampRate(r.HourlyRate)
		}
		return total
	default:
		return float64(clampCount(c.Attendees)) * clampRate(c.HourlyRate)
	}
}

// AttendeeCount returns the number of people in the meeting.
func (c RateConfig) AttendeeCount() int {
	if c.Mode != ModeRoles {
		return clampCount(c.Attendees)
	}
	total := 0
	for _, n := range c.Headcount {
		total += clampCount(n)
	}
	return total
}

// WithHeadcount returns a copy with one role's headcount replaced. The count
// is clamped to zero; unknown roles return ErrUnknownRole.
func (c RateConfig) WithHeadcount(role string, n int) (RateConfig, error) {
	if _, ok := c.Table.Rate(role); !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	out := c.clone()
	out.Headcount[role] = clampCount(n)
	return out, nil
}

// RoleCounts returns a copy of the role headcount map, omitting zeros.
func (c RateConfig) RoleCounts() map[string]int {
	out := make(map[string]int)
	if c.Mode != ModeRoles {
		return out
	}
	for name, n := range c.Headcount {
		if n > 0 {
			out[name] = n
		}
	}
	return out
}

// SortedRoles returns role names with a non-zero headcount in table order.
func (c RateConfig) SortedRoles() []string {
	var names []string
	for _, r := range c.Table {
		if c.Headcount[r.Name] > 0 {
			names = append(names, r.Name)
		}
	}
	return names
}

func (c RateConfig) clone() RateConfig {
	out := c
	out.Headcount = make(map[string]int, len(c.Headcount))
	for k, v := range c.Headcount {
		out.Headcount[k] = v
	}
	out.Table = make(RateTable, len(c.Table))
	copy(out.Table, c.Table)
	return out
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func clampRate(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0
	}
	return r
}
