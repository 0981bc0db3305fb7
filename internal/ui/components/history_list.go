// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/ui/styles"
	"github.com/jeranaias/meetcost/internal/util"
)

// =============================================================================
// HISTORY LIST
// =============================================================================

// HistoryList renders saved meetings, newest first.
type HistoryList struct {
	theme *styles.Theme
	width int
}

// NewHistoryList creates a history list.
func NewHistoryList(theme *styles.Theme) *HistoryList {
	return &HistoryList{theme: theme, width: 60}
}

// SetWidth sets the available width.
func (hl *HistoryList) SetWidth(width int) {
	hl.width = width
}

// SetTheme swaps the theme after a toggle.
func (hl *HistoryList) SetTheme(theme *styles.Theme) {
	hl.theme = theme
}

// View renders records with a total line.
func (hl *HistoryList) View(records []history.Record) string {
	if len(records) == 0 {
		return hl.theme.Muted.Render("No saved meetings yet. Press x to stop and save.")
	}

	nameWidth := hl.width - 40
	if nameWidth < 12 {
		nameWidth = 12
	}

	var b strings.Builder
	b.WriteString(hl.theme.Label.Render("Recent meetings"))
	b.WriteString("\n")
	for _, rec := range records {
		name := util.PadRight(util.TruncateWidth(rec.Name, nameWidth), nameWidth)
		meta := fmt.Sprintf("%s  %s  %s",
			rec.Date.Local().Format("Jan 02 15:04"),
			util.FormatClock(rec.Elapsed()),
			util.PadLeft(util.FormatMoney(rec.Cost), 11),
		)
		b.WriteString(hl.theme.HistoryItem.Render(name))
		b.WriteString(" ")
		b.WriteString(hl.theme.HistoryMeta.Render(meta))
		if rec.Outcome != "" {
			b.WriteString(" ")
			b.WriteString(hl.theme.Muted.Render(rec.Outcome.Label()))
		}
		b.WriteString("\n")
	}

	cost, secs := history.Total(records)
	fmt.Fprintf(&b, "%s %s across %d meetings (%s)",
		hl.theme.Label.Render("Total:"),
		util.FormatMoney(cost),
		len(records),
		util.FormatDuration(time.Duration(secs)*time.Second),
	)
	return b.String()
}
