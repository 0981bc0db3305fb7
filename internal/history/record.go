// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists finished meetings as a bounded, newest-first list.
package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is how many meetings are kept.
	DefaultLimit = 10

	// DefaultName replaces an empty meeting name.
	DefaultName = "Unnamed Meeting"
)

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome records what the meeting produced. Empty means not recorded.
type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeDecision    Outcome = "decision"
	OutcomeActionItems Outcome = "action-items"
	OutcomeInfoOnly    Outcome = "info-only"
	OutcomeNoOutcome   Outcome = "no-outcome"
)

var outcomeCycle = []Outcome{
	OutcomeNone,
	OutcomeDecision,
	OutcomeActionItems,
	OutcomeInfoOnly,
	OutcomeNoOutcome,
}

// ParseOutcome accepts the stored form of an outcome, case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, o := range outcomeCycle {
		if string(o) == s {
			return o, nil
		}
	}
	return OutcomeNone, fmt.Errorf("unknown outcome %q (want decision, action-items, info-only or no-outcome)", s)
}

// Next returns the following outcome in display order, wrapping to empty.
func (o Outcome) Next() Outcome {
	for i, c := range outcomeCycle {
		if c == o {
			return outcomeCycle[(i+1)%len(outcomeCycle)]
		}
	}
	return OutcomeNone
}

// Label is the human-readable form.
func (o Outcome) Label() string {
	switch o {
	case OutcomeDecision:
		return "Decision made"
	case OutcomeActionItems:
		return "Action items"
	case OutcomeInfoOnly:
		return "Info only"
	case OutcomeNoOutcome:
		return "No outcome"
	default:
		return "-"
	}
}

// =============================================================================
// RECORD
// =============================================================================

// Record is one finished meeting. Records are never modified after creation.
type Record struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Outcome   Outcome        `json:"outcome,omitempty"`
	Date      time.Time      `json:"date"`
	Duration  int64          `json:"duration"` // whole seconds
	Cost      float64        `json:"cost"`
	Attendees int            `json:"attendees"`
	Roles     map[string]int `json:"roles,omitempty"`
}

// NewRecord creates a record with a fresh ID. An empty name becomes
// DefaultName and zero counts are dropped from roles.
func NewRecord(name string, outcome Outcome, date time.Time, elapsed time.Duration, cost float64, attendees int, roles map[string]int) Record {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	var rc map[string]int
	for role, n := range roles {
		if n <= 0 {
			continue
		}
		if rc == nil {
			rc = make(map[string]int, len(roles))
		}
		rc[role] = n
	}

	if elapsed < 0 {
		elapsed = 0
	}
	if cost < 0 {
		cost = 0
	}

	return Record{
		ID:        uuid.NewString(),
		Name:      name,
		Outcome:   outcome,
		Date:      date.UTC(),
		Duration:  int64(elapsed / time.Second),
		Cost:      cost,
		Attendees: attendees,
		Roles:     rc,
	}
}

// Elapsed returns Duration as a time.Duration.
func (r Record) Elapsed() time.Duration {
	return time.Duration(r.Duration) * time.Second
}

// RoleNames returns role names with a headcount, sorted.
func (r Record) RoleNames() []string {
	names := make([]string, 0, len(r.Roles))
	for name := range r.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prepend returns a new list with rec first, any older copy of rec.ID
// removed, and at most limit entries. limit <= 0 means DefaultLimit. The
// input slice is not modified.
func Prepend(list []Record, rec Record, limit int) []Record {
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := make([]Record, 0, min(len(list)+1, limit))
	out = append(out, rec)
	for _, r := range list {
		if len(out) == limit {
			break
		}
		if r.ID == rec.ID {
			continue
		}
		out = append(out, r)
	}
	return out
}
