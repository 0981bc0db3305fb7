// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/meetcost/internal/util"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders a meeting as a printable invoice page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns "text/html".
func (e *HTMLExporter) MimeType() string {
	return "text/html; charset=utf-8"
}

// Export renders s as an HTML invoice.
func (e *HTMLExporter) Export(s *Summary) ([]byte, error) {
	if s == nil {
		return nil, errNilSummary
	}

	theme := e.options.Theme
	if theme != "dark" {
		theme = "light"
	}
	title := html.EscapeString(s.DisplayName())

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>Invoice: %s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"meetcost\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", s.Date.UTC().Format(time.RFC3339))
	sb.WriteString(invoiceCSS)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", theme)
	sb.WriteString("    <div class=\"invoice\">\n")

	sb.WriteString("        <header>\n")
	sb.WriteString("            <h1>INVOICE</h1>\n")
	fmt.Fprintf(&sb, "            <p class=\"meta\">%s &middot; %s</p>\n",
		title, html.EscapeString(s.Date.Local().Format(DateLayout)))
	fmt.Fprintf(&sb, "            <p class=\"meta\">Duration %s &middot; %d attendees</p>\n",
		util.FormatClock(s.Elapsed), s.Attendees)
	if s.Outcome != "" {
		fmt.Fprintf(&sb, "            <p class=\"meta\">Outcome: %s</p>\n", html.EscapeString(s.Outcome.Label()))
	}
	sb.WriteString("        </header>\n")

	sb.WriteString(e.renderLines(s))

	fmt.Fprintf(&sb, "        <p class=\"total heat-%s\">Total due: %s</p>\n",
		s.Classification.Heat, util.FormatMoney(s.TotalCost))

	sb.WriteString("        <ul class=\"insights\">\n")
	if s.Classification.Comparison != "" {
		fmt.Fprintf(&sb, "            <li>That's %s</li>\n", html.EscapeString(s.Classification.Comparison))
	}
	fmt.Fprintf(&sb, "            <li>Opportunity cost: %s</li>\n",
		html.EscapeString(s.Classification.Opportunity.Label(s.TotalCost)))
	if s.Insights.Suggestion != "" {
		fmt.Fprintf(&sb, "            <li>%s</li>\n", html.EscapeString(s.Insights.Suggestion))
	}
	sb.WriteString("        </ul>\n")

	if s.Classification.Auditor != "" {
		fmt.Fprintf(&sb, "        <footer>Auditor: %s</footer>\n", html.EscapeString(s.Classification.Auditor))
	}

	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// renderLines renders one invoice line per role.
func (e *HTMLExporter) renderLines(s *Summary) string {
	var sb strings.Builder
	sb.WriteString("        <table>\n")
	sb.WriteString("            <thead><tr><th>Role</th><th>Qty</th><th>Rate</th><th>Amount</th></tr></thead>\n")
	sb.WriteString("            <tbody>\n")
	if len(s.Breakdown) == 0 {
		sb.WriteString("                <tr><td colspan=\"4\" class=\"empty\">No billable attendees</td></tr>\n")
	}
	for _, share := range s.Breakdown {
		fmt.Fprintf(&sb, "                <tr><td>%s</td><td>%d</td><td>$%.0f/hr</td><td>%s</td></tr>\n",
			html.EscapeString(share.Role), share.Count, share.Rate, util.FormatMoney(share.Cost))
	}
	sb.WriteString("            </tbody>\n")
	sb.WriteString("        </table>\n")
	return sb.String()
}

const invoiceCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --heat-low: #9ece6a;
            --heat-medium: #e0af68;
            --heat-high: #ff9e64;
            --heat-critical: #f7768e;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --heat-low: #22863a;
            --heat-medium: #b08800;
            --heat-high: #e36209;
            --heat-critical: #d73a49;
        }

        body {
            font-family: var(--font-sans);
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .invoice {
            max-width: 720px;
            margin: 0 auto;
            padding: 32px;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 12px;
        }

        header h1 { font-size: 32px; letter-spacing: 4px; margin-bottom: 8px; }
        .meta { color: var(--text-muted); font-size: 14px; }

        table { width: 100%; border-collapse: collapse; margin: 24px 0; font-family: var(--font-mono); }
        th, td { padding: 8px; border-bottom: 1px solid var(--border-color); text-align: right; }
        th:first-child, td:first-child { text-align: left; }
        .empty { text-align: center; color: var(--text-muted); }

        .total { font-size: 24px; font-weight: 700; text-align: right; }
        .heat-low { color: var(--heat-low); }
        .heat-medium { color: var(--heat-medium); }
        .heat-high { color: var(--heat-high); }
        .heat-critical { color: var(--heat-critical); }

        .insights { margin: 24px 0 0 20px; }
        footer { margin-top: 24px; font-style: italic; color: var(--text-muted); }

        @media print {
            body { padding: 0; }
            .invoice { border: none; }
        }
    </style>
`
