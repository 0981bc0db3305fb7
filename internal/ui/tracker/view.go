// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tracker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/session"
	"github.com/jeranaias/meetcost/internal/ui/components"
	"github.com/jeranaias/meetcost/internal/ui/styles"
	"github.com/jeranaias/meetcost/internal/util"
)

// View renders the tracker.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.mgr.GetStatus()
	sections := []string{
		m.renderHeader(st),
		m.renderCostPanel(st),
	}

	if banner := m.renderClassification(st); banner != "" {
		sections = append(sections, banner)
	}

	rows := components.RoleRows(m.mgr.Rates(), st.Snapshot)
	sections = append(sections, m.roles.View(rows, m.selectedRole))
	sections = append(sections, m.renderInsights(st))

	if m.showHistory {
		sections = append(sections, m.history.View(m.records))
	}

	if dlg := m.renderDialog(); dlg != "" {
		sections = append(sections, dlg)
	}
	if m.flash != "" {
		style := m.theme.Flash
		if m.flashErr {
			style = m.theme.Error
		}
		sections = append(sections, style.Render(m.flash))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderHeader(st session.Status) string {
	name := st.Name
	if name == "" {
		name = history.DefaultName
	}

	state := m.theme.Paused.Render(styles.StatusIndicators.Paused + " PAUSED")
	if st.Running {
		state = m.theme.Running.Render(styles.StatusIndicators.Running + " RUNNING")
	}

	parts := []string{
		m.theme.HeaderTitle.Render("meetcost"),
		m.theme.Value.Render(name),
		state,
	}
	if st.Outcome != "" {
		parts = append(parts, m.theme.HeaderMeta.Render(st.Outcome.Label()))
	}
	if m.sound {
		parts = append(parts, m.theme.Muted.Render("♪"))
	}
	if m.pendingConfig != nil {
		parts = append(parts, m.theme.Muted.Render("(config pending)"))
	}
	return m.theme.Header.Render(strings.Join(parts, "  "))
}

func (m Model) renderCostPanel(st session.Status) string {
	clock := m.theme.Clock.Render(util.FormatClock(st.Snapshot.Elapsed))
	cost := m.theme.CostStyle(st.Classification.Heat).Render(util.FormatMoney(st.Snapshot.TotalCost))

	rate := fmt.Sprintf("%s/hr", util.FormatMoney(st.Snapshot.HourlyRate))
	meta := []string{
		m.theme.Label.Render("burn ") + m.theme.Value.Render(rate),
		m.theme.Label.Render("attendees ") + m.theme.Value.Render(fmt.Sprintf("%d", st.Attendees)),
	}
	if st.Insights.HasCostPerMinute {
		meta = append(meta, m.theme.Label.Render("per min ")+m.theme.Value.Render(util.FormatMoney(st.Insights.CostPerMinute)))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		clock+"   "+cost,
		strings.Join(meta, "   "),
	)
	return m.theme.Panel.Render(body)
}

func (m Model) renderClassification(st session.Status) string {
	c := st.Classification
	var lines []string
	if c.Milestone != nil {
		lines = append(lines, m.theme.Milestone.Render(c.Milestone.Message))
	}
	if c.Comparison != "" {
		lines = append(lines, m.theme.Label.Render("That's ")+c.Comparison)
	}
	if st.Snapshot.TotalCost > 0 {
		lines = append(lines, m.theme.Label.Render("Opportunity cost: ")+c.Opportunity.Label(st.Snapshot.TotalCost))
	}
	if c.Auditor != "" {
		lines = append(lines, m.theme.Remark.Render("Auditor: "+c.Auditor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderInsights(st session.Status) string {
	in := st.Insights
	return m.theme.Muted.Render(fmt.Sprintf("%s coffees · %s lunches · %s",
		util.FormatCount(in.Coffees), util.FormatCount(in.Lunches), in.Suggestion))
}

func (m Model) renderDialog() string {
	switch m.dialog {
	case DialogConfirmReset:
		return m.theme.Prompt.Render("Save this meeting before resetting? y/n (esc to cancel)")
	case DialogEditName:
		return m.input.View()
	}
	return ""
}
