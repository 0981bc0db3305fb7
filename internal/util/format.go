// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"math"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// =============================================================================
// MONEY
// =============================================================================

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders a dollar amount with two decimals and thousands
// separators. NaN and infinities render as $0.00.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if v < 0 {
		return "-" + moneyPrinter.Sprintf("$%.2f", -v)
	}
	return moneyPrinter.Sprintf("$%.2f", v)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return moneyPrinter.Sprintf("%d", n)
}

// =============================================================================
// DURATIONS
// =============================================================================

// FormatClock renders d as HH:MM:SS, truncating sub-second precision.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDuration renders d compactly: 45s, 3m07s, 1h02m09s.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// =============================================================================
// DISPLAY WIDTH
// =============================================================================

// PadRight pads s with spaces to the given display width. Emoji and CJK
// characters count as two columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s within the given display width.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// TruncateWidth cuts s to at most maxWidth columns, ending in "..." when cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
