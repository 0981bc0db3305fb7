// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/meetcost/internal/util"
)

// DateLayout is how dates appear in human-readable exports.
const DateLayout = "1/2/2006, 3:04:05 PM"

// TextExporter renders the plain-text meeting summary.
type TextExporter struct{}

// NewTextExporter creates a new text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// FileExtension returns ".txt".
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns "text/plain".
func (e *TextExporter) MimeType() string {
	return "text/plain; charset=utf-8"
}

// Export renders s as plain text.
func (e *TextExporter) Export(s *Summary) ([]byte, error) {
	if s == nil {
		return nil, errNilSummary
	}

	var b strings.Builder
	b.WriteString("Meeting Cost Summary\n")
	b.WriteString("===================\n")
	fmt.Fprintf(&b, "Meeting: %s\n", s.DisplayName())
	fmt.Fprintf(&b, "Date: %s\n", s.Date.Local().Format(DateLayout))
	fmt.Fprintf(&b, "Duration: %s\n", util.FormatClock(s.Elapsed))
	fmt.Fprintf(&b, "Total Cost: %s\n", util.FormatMoney(s.TotalCost))
	if s.Outcome != "" {
		fmt.Fprintf(&b, "Outcome: %s\n", s.Outcome.Label())
	}

	if len(s.Breakdown) > 0 {
		b.WriteString("\nBreakdown by Role:\n")
		for _, share := range s.Breakdown {
			fmt.Fprintf(&b, "%s: %d × $%.0f/hr = %s\n",
				share.Role, share.Count, share.Rate, util.FormatMoney(share.Cost))
		}
	}

	b.WriteString("\nInsights:\n")
	if s.Insights.HasCostPerMinute {
		fmt.Fprintf(&b, "- Cost per minute: %s\n", util.FormatMoney(s.Insights.CostPerMinute))
	}
	fmt.Fprintf(&b, "- Equivalent Starbucks coffees: %s\n", util.FormatCount(s.Insights.Coffees))
	fmt.Fprintf(&b, "- Could have bought: %s lunch meals\n", util.FormatCount(s.Insights.Lunches))
	if s.Insights.Suggestion != "" {
		fmt.Fprintf(&b, "- %s\n", s.Insights.Suggestion)
	}

	return []byte(b.String()), nil
}
