// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package accrual

import (
	"errors"
	"testing"
	"time"
)

func TestRoleConfig_UnknownRole(t *testing.T) {
	_, err := RoleConfig(DefaultRateTable(), map[string]int{"INTERN": 2})
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRoleConfig_DuplicateRole(t *testing.T) {
	table := RateTable{{Name: "SR", HourlyRate: 100}, {Name: "SR", HourlyRate: 120}}
	_, err := RoleConfig(table, nil)
	if !errors.Is(err, ErrDuplicateRole) {
		t.Fatalf("expected ErrDuplicateRole, got %v", err)
	}
}

func TestRoleConfig_CopiesInputs(t *testing.T) {
	table := DefaultRateTable()
	counts := map[string]int{"SR": 2}

	cfg, err := RoleConfig(table, counts)
	if err != nil {
		t.Fatalf("RoleConfig failed: %v", err)
	}

	counts["SR"] = 99
	table[1].HourlyRate = 1

	if got := cfg.CombinedHourlyRate(); got != 200 {
		t.Errorf("combined rate changed through aliasing: got %v, want 200", got)
	}
}

func TestWithHeadcount(t *testing.T) {
	cfg, _ := RoleConfig(DefaultRateTable(), map[string]int{"SR": 1})

	next, err := cfg.WithHeadcount("VP", 2)
	if err != nil {
		t.Fatalf("WithHeadcount failed: %v", err)
	}
	if got := next.CombinedHourlyRate(); got != 400 {
		t.Errorf("combined rate: got %v, want 400", got)
	}
	if got := cfg.CombinedHourlyRate(); got != 100 {
		t.Errorf("original mutated: got %v, want 100", got)
	}

	clamped, _ := next.WithHeadcount("VP", -1)
	if clamped.Headcount["VP"] != 0 {
		t.Errorf("negative headcount not clamped: %d", clamped.Headcount["VP"])
	}

	if _, err := cfg.WithHeadcount("CTO", 1); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}

func TestAttendeeCount(t *testing.T) {
	tests := []struct {
		name string
		cfg  RateConfig
		want int
	}{
		{"flat", FlatConfig(6, 10), 6},
		{"flat negative", FlatConfig(-1, 10), 0},
		{"roles", mustRoles(t, map[string]int{"JR": 2, "CEO": 1}), 3},
		{"roles empty", mustRoles(t, nil), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.AttendeeCount(); got != tt.want {
				t.Errorf("AttendeeCount: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSortedRolesAndCounts(t *testing.T) {
	cfg := mustRoles(t, map[string]int{"CEO": 1, "JR": 2, "VP": 0})

	got := cfg.SortedRoles()
	if len(got) != 2 || got[0] != "JR" || got[1] != "CEO" {
		t.Errorf("SortedRoles: got %v, want [JR CEO]", got)
	}
	if counts := cfg.RoleCounts(); len(counts) != 2 {
		t.Errorf("RoleCounts should omit zeros: %v", counts)
	}
	if counts := FlatConfig(3, 1).RoleCounts(); len(counts) != 0 {
		t.Errorf("flat RoleCounts should be empty: %v", counts)
	}
}

func TestBreakdown_Flat(t *testing.T) {
	cfg := FlatConfig(4, 100)
	snap := NewSnapshot(cfg.CombinedHourlyRate(), 36*time.Second)

	shares := Breakdown(cfg, snap)
	if len(shares) != 1 {
		t.Fatalf("expected 1 share, got %d", len(shares))
	}
	if shares[0].Role != FlatRoleName || shares[0].Percentage != 100 || shares[0].Count != 4 {
		t.Errorf("unexpected share: %+v", shares[0])
	}
}

func TestBreakdown_ZeroRate(t *testing.T) {
	if shares := Breakdown(FlatConfig(0, 100), NewSnapshot(0, time.Hour)); len(shares) != 0 {
		t.Errorf("expected no shares for zero rate, got %v", shares)
	}
}

func TestInsights(t *testing.T) {
	tests := []struct {
		name       string
		snap       Snapshot
		coffees    int
		lunches    int
		suggestion string
	}{
		{
			name:       "short",
			snap:       NewSnapshot(400, 36*time.Second),
			coffees:    0,
			lunches:    0,
			suggestion: "Keep it focused - you're doing well!",
		},
		{
			name:       "forty minutes",
			snap:       NewSnapshot(3600, 40*time.Minute),
			coffees:    480,
			lunches:    160,
			suggestion: "On track. Consider async updates for routine items",
		},
		{
			name:       "ninety minutes",
			snap:       NewSnapshot(3600, 90*time.Minute),
			coffees:    1080,
			lunches:    360,
			suggestion: "Could save $1620.00 by wrapping up in 45min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.snap.Insights()
			if in.Coffees != tt.coffees {
				t.Errorf("coffees: got %d, want %d", in.Coffees, tt.coffees)
			}
			if in.Lunches != tt.lunches {
				t.Errorf("lunches: got %d, want %d", in.Lunches, tt.lunches)
			}
			if in.Suggestion != tt.suggestion {
				t.Errorf("suggestion: got %q, want %q", in.Suggestion, tt.suggestion)
			}
			if !in.HasCostPerMinute {
				t.Error("cost per minute should be defined")
			}
		})
	}

	if NewSnapshot(100, 0).Insights().HasCostPerMinute {
		t.Error("cost per minute should be suppressed at zero elapsed")
	}
}

func mustRoles(t *testing.T, counts map[string]int) RateConfig {
	t.Helper()
	cfg, err := RoleConfig(DefaultRateTable(), counts)
	if err != nil {
		t.Fatalf("RoleConfig failed: %v", err)
	}
	return cfg
}
