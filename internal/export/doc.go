// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export turns a meeting into shareable artifacts.
//
// A Summary is built from the live session (FromSession) or a saved record
// (FromRecord) and handed to an Exporter:
//
//   - TextExporter: the plain-text summary with insights
//   - MarkdownExporter: a markdown report, also rendered in the terminal via glamour
//   - JSONExporter / YAMLExporter: machine-readable summaries
//   - HTMLExporter: a printable invoice page
//   - PNGExporter: a receipt image
//
// Sharing helpers build a LinkedIn share URL, post to a Slack incoming
// webhook, or copy the share text to the clipboard.
package export
