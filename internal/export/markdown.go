// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/meetcost/internal/util"
)

// MarkdownExporter renders a meeting as a markdown report.
type MarkdownExporter struct {
	// IncludeFrontmatter adds a YAML header block for static site tools.
	IncludeFrontmatter bool
}

// NewMarkdownExporter creates a new markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{IncludeFrontmatter: true}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns "text/markdown".
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// Export renders s as markdown.
func (e *MarkdownExporter) Export(s *Summary) ([]byte, error) {
	if s == nil {
		return nil, errNilSummary
	}

	var b strings.Builder

	if e.IncludeFrontmatter {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "title: \"%s\"\n", escapeYAML(s.DisplayName()))
		fmt.Fprintf(&b, "date: %s\n", s.Date.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "duration_seconds: %d\n", s.Seconds)
		fmt.Fprintf(&b, "total_cost: %.2f\n", s.TotalCost)
		fmt.Fprintf(&b, "heat: %s\n", s.Classification.Heat)
		if s.Outcome != "" {
			fmt.Fprintf(&b, "outcome: %s\n", s.Outcome)
		}
		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(s.DisplayName()))

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| **Date** | %s |\n", s.Date.Local().Format(DateLayout))
	fmt.Fprintf(&b, "| **Duration** | %s |\n", util.FormatClock(s.Elapsed))
	fmt.Fprintf(&b, "| **Attendees** | %d |\n", s.Attendees)
	fmt.Fprintf(&b, "| **Burn rate** | %s/hr |\n", util.FormatMoney(s.HourlyRate))
	fmt.Fprintf(&b, "| **Total cost** | **%s** |\n", util.FormatMoney(s.TotalCost))
	if s.Outcome != "" {
		fmt.Fprintf(&b, "| **Outcome** | %s |\n", s.Outcome.Label())
	}
	b.WriteString("\n")

	if len(s.Breakdown) > 0 {
		b.WriteString("## Breakdown by Role\n\n")
		b.WriteString("| Role | Count | Rate | Cost | Share |\n")
		b.WriteString("|------|------:|-----:|-----:|------:|\n")
		for _, share := range s.Breakdown {
			fmt.Fprintf(&b, "| %s | %d | $%.0f/hr | %s | %.1f%% |\n",
				escapeMarkdown(share.Role), share.Count, share.Rate,
				util.FormatMoney(share.Cost), share.Percentage)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Insights\n\n")
	if s.Insights.HasCostPerMinute {
		fmt.Fprintf(&b, "- Cost per minute: %s\n", util.FormatMoney(s.Insights.CostPerMinute))
	}
	fmt.Fprintf(&b, "- Equivalent Starbucks coffees: %s\n", util.FormatCount(s.Insights.Coffees))
	fmt.Fprintf(&b, "- Could have bought: %s lunch meals\n", util.FormatCount(s.Insights.Lunches))
	if s.Classification.Comparison != "" {
		fmt.Fprintf(&b, "- That's %s\n", s.Classification.Comparison)
	}
	fmt.Fprintf(&b, "- Opportunity cost: %s\n", s.Classification.Opportunity.Label(s.TotalCost))
	if s.Insights.Suggestion != "" {
		fmt.Fprintf(&b, "\n> %s\n", s.Insights.Suggestion)
	}
	if s.Classification.Auditor != "" {
		fmt.Fprintf(&b, ">\n> *Auditor:* %s\n", s.Classification.Auditor)
	}

	return []byte(b.String()), nil
}

// escapeYAML escapes a string for a double-quoted YAML scalar.
func escapeYAML(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// escapeMarkdown escapes characters that would change inline rendering.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`*`, `\*`,
		`_`, `\_`,
		"`", "\\`",
		`|`, `\|`,
		`[`, `\[`,
		`]`, `\]`,
		`#`, `\#`,
	)
	return replacer.Replace(s)
}
