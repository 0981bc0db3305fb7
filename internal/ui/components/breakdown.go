// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/ui/styles"
	"github.com/jeranaias/meetcost/internal/util"
)

// =============================================================================
// ROLE TABLE
// =============================================================================

const (
	roleNameWidth = 10
	minBarWidth   = 10
	maxBarWidth   = 30
)

// RoleRow is one line of the role table. Count may be zero, in which case
// the role is shown so its headcount can be raised.
type RoleRow struct {
	Name  string
	Count int
	Rate  float64
	Share accrual.RoleShare
}

// RoleRows lists every configured role with its current share. In flat
// mode a single "Attendee" row is returned.
func RoleRows(cfg accrual.RateConfig, snap accrual.Snapshot) []RoleRow {
	shares := accrual.Breakdown(cfg, snap)
	byName := make(map[string]accrual.RoleShare, len(shares))
	for _, s := range shares {
		byName[s.Role] = s
	}

	if cfg.Mode != accrual.ModeRoles {
		return []RoleRow{{
			Name:  accrual.FlatRoleName,
			Count: cfg.AttendeeCount(),
			Rate:  cfg.HourlyRate,
			Share: byName[accrual.FlatRoleName],
		}}
	}

	rows := make([]RoleRow, 0, len(cfg.Table))
	for _, r := range cfg.Table {
		rows = append(rows, RoleRow{
			Name:  r.Name,
			Count: cfg.Headcount[r.Name],
			Rate:  r.HourlyRate,
			Share: byName[r.Name],
		})
	}
	return rows
}

// RoleTable renders role rows with a share bar each.
type RoleTable struct {
	theme *styles.Theme
	width int
}

// NewRoleTable creates a role table.
func NewRoleTable(theme *styles.Theme) *RoleTable {
	return &RoleTable{theme: theme, width: 60}
}

// SetWidth sets the available width.
func (rt *RoleTable) SetWidth(width int) {
	rt.width = width
}

// SetTheme swaps the theme after a toggle.
func (rt *RoleTable) SetTheme(theme *styles.Theme) {
	rt.theme = theme
}

// View renders rows, highlighting selected.
func (rt *RoleTable) View(rows []RoleRow, selected int) string {
	if len(rows) == 0 {
		return rt.theme.Muted.Render("No roles configured")
	}

	barWidth := rt.width - roleNameWidth - 36
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	bar := progress.New(
		progress.WithSolidFill(styles.Purple.Dark),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth),
	)

	var b strings.Builder
	for i, row := range rows {
		marker := "  "
		style := rt.theme.RoleRow
		if i == selected {
			marker = "> "
			style = rt.theme.RoleRowSelected
		}

		line := fmt.Sprintf("%s%s %3d x %-9s %s %5.1f%% %10s",
			marker,
			util.PadRight(util.TruncateWidth(row.Name, roleNameWidth), roleNameWidth),
			row.Count,
			fmt.Sprintf("$%.0f/hr", row.Rate),
			bar.ViewAs(row.Share.Percentage/100),
			row.Share.Percentage,
			util.FormatMoney(row.Share.Cost),
		)
		b.WriteString(style.Render(line))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
