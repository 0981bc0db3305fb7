// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// TERMINAL PREVIEW
// =============================================================================

// PreviewOptions controls terminal rendering.
type PreviewOptions struct {
	// Width wraps markdown output. Zero means 80 columns.
	Width int

	// Plain disables colour: markdown uses glamour's notty style and data
	// formats are returned unhighlighted.
	Plain bool
}

// Preview renders s in format for display in a terminal. Binary formats
// are not previewable.
func Preview(s *Summary, format string, opts PreviewOptions) (string, error) {
	exporter, err := ForFormat(format, nil)
	if err != nil {
		return "", err
	}
	if _, ok := exporter.(*PNGExporter); ok {
		return "", fmt.Errorf("format %q cannot be previewed in a terminal", format)
	}

	if md, ok := exporter.(*MarkdownExporter); ok {
		md.IncludeFrontmatter = false
		body, err := md.Export(s)
		if err != nil {
			return "", err
		}
		return RenderMarkdown(string(body), opts)
	}

	content, err := exporter.Export(s)
	if err != nil {
		return "", err
	}

	switch exporter.(type) {
	case *JSONExporter:
		return highlight(string(content), "json", opts), nil
	case *YAMLExporter:
		return highlight(string(content), "yaml", opts), nil
	case *HTMLExporter:
		return highlight(string(content), "html", opts), nil
	default:
		return string(content), nil
	}
}

// RenderMarkdown renders markdown for the terminal with glamour.
func RenderMarkdown(md string, opts PreviewOptions) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	styleOpt := glamour.WithAutoStyle()
	if opts.Plain {
		styleOpt = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// highlight applies chroma syntax highlighting for the given language.
func highlight(code, language string, opts PreviewOptions) string {
	if opts.Plain {
		return code
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
