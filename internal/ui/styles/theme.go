// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/meetcost/internal/classify"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the tracker.
type Theme struct {
	// Mode is the configured mode; IsDark is what it resolved to.
	Mode         string
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// COST PANEL
	// ==========================================================================

	Panel     lipgloss.Style
	Clock     lipgloss.Style
	Cost      lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Milestone lipgloss.Style
	Remark    lipgloss.Style

	// ==========================================================================
	// BREAKDOWN AND HISTORY
	// ==========================================================================

	RoleRow         lipgloss.Style
	RoleRowSelected lipgloss.Style
	HistoryItem     lipgloss.Style
	HistoryMeta     lipgloss.Style

	// ==========================================================================
	// PROMPTS AND STATUS
	// ==========================================================================

	Prompt lipgloss.Style
	Flash  lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
}

// NewTheme creates a theme. mode is "auto", "dark" or "light"; auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	mode = strings.ToLower(mode)
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		mode = ModeAuto
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// Toggle returns the opposite explicit theme.
func (t *Theme) Toggle() *Theme {
	next := ModeDark
	if t.IsDark {
		next = ModeLight
	}
	nt := NewTheme(next)
	nt.SetSize(t.Width, t.Height)
	return nt
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 3)

	t.Clock = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.Cost = lipgloss.NewStyle().
		Bold(true)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Value = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.Running = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Paused = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.Milestone = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(0, 2)

	t.Remark = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.RoleRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.RoleRowSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.HistoryItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.HistoryMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Prompt = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.Flash = lipgloss.NewStyle().
		Foreground(Cyan)

	t.Error = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// CostStyle returns the cost style coloured for the given heat.
func (t *Theme) CostStyle(h classify.Heat) lipgloss.Style {
	return t.Cost.Foreground(HeatColor(h))
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
