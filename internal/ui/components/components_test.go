// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/ui/styles"
)

func TestRoleRows_ListsEveryRole(t *testing.T) {
	cfg, err := accrual.RoleConfig(accrual.DefaultRateTable(), map[string]int{"SR": 2, "VP": 1})
	require.NoError(t, err)
	snap := accrual.NewSnapshot(cfg.CombinedHourlyRate(), 30*time.Minute)

	rows := RoleRows(cfg, snap)
	require.Len(t, rows, 4)
	assert.Equal(t, "JR", rows[0].Name)
	assert.Zero(t, rows[0].Count)
	assert.Zero(t, rows[0].Share.Cost)
	assert.Equal(t, "SR", rows[1].Name)
	assert.InDelta(t, 100, rows[1].Share.Cost, 1e-9)
	assert.InDelta(t, 75, rows[2].Share.Cost, 1e-9)
}

func TestRoleRows_Flat(t *testing.T) {
	cfg := accrual.FlatConfig(4, 100)
	rows := RoleRows(cfg, accrual.NewSnapshot(cfg.CombinedHourlyRate(), 36*time.Second))

	require.Len(t, rows, 1)
	assert.Equal(t, accrual.FlatRoleName, rows[0].Name)
	assert.Equal(t, 4, rows[0].Count)
	assert.InDelta(t, 4, rows[0].Share.Cost, 1e-9)
	assert.InDelta(t, 100, rows[0].Share.Percentage, 1e-9)
}

func TestRoleTable_View(t *testing.T) {
	cfg, err := accrual.RoleConfig(accrual.DefaultRateTable(), map[string]int{"SR": 2, "VP": 1})
	require.NoError(t, err)
	rows := RoleRows(cfg, accrual.NewSnapshot(cfg.CombinedHourlyRate(), 30*time.Minute))

	table := NewRoleTable(styles.NewTheme("dark"))
	table.SetWidth(80)
	out := table.View(rows, 1)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "> SR")
	assert.Contains(t, lines[1], "$100.00")
	assert.NotContains(t, lines[0], ">")
	assert.Contains(t, lines[2], "$150/hr")

	assert.Contains(t, table.View(nil, 0), "No roles configured")
}

func TestHistoryList_View(t *testing.T) {
	list := NewHistoryList(styles.NewTheme("light"))
	assert.Contains(t, list.View(nil), "No saved meetings")

	date := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	recs := []history.Record{
		history.NewRecord("Retro", history.OutcomeActionItems, date, time.Hour, 400, 4, nil),
		history.NewRecord("Standup", "", date, 15*time.Minute, 100, 4, nil),
	}
	out := list.View(recs)

	assert.Contains(t, out, "Retro")
	assert.Contains(t, out, "Action items")
	assert.Contains(t, out, "01:00:00")
	assert.Contains(t, out, "$500.00 across 2 meetings (1h15m00s)")
}
