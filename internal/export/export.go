// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a meeting summary in one format.
type Exporter interface {
	// Export renders s and returns the file content.
	Export(s *Summary) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// errNilSummary is returned by every exporter for a nil summary.
var errNilSummary = errors.New("summary is nil")

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// Theme for HTML and PNG output ("light" or "dark").
	Theme string

	// Now stamps file names. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir: ".",
		Theme:     "light",
	}
}

// Formats lists the names accepted by ForFormat.
var Formats = []string{"text", "markdown", "json", "yaml", "html", "png"}

// ForFormat returns the exporter for a format name. "md" and "txt" are
// accepted as aliases.
func ForFormat(name string, opts *Options) (Exporter, error) {
	switch strings.ToLower(name) {
	case "text", "txt", "":
		return NewTextExporter(), nil
	case "markdown", "md":
		return NewMarkdownExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	case "yaml", "yml":
		return NewYAMLExporter(), nil
	case "html":
		return NewHTMLExporter(opts), nil
	case "png":
		return NewPNGExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders s and writes meeting-cost-<name>-<timestamp><ext>
// into opts.OutputDir. Returns the written path.
func ExportToFile(s *Summary, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(s)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	outputPath := filepath.Join(opts.OutputDir, FileName(s, now(), exporter.FileExtension()))

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// The file exists; failing to open it is not an export error.
			fmt.Fprintf(os.Stderr, "Warning: could not open file: %v\n", err)
		}
	}
	return outputPath, nil
}

// FileName builds the export file name for s at t.
func FileName(s *Summary, t time.Time, ext string) string {
	name := "meeting"
	if s != nil && s.Name != "" {
		name = s.Name
	}
	return fmt.Sprintf("meeting-cost-%s-%s%s", sanitizeFilename(name), t.Format("20060102-150405"), ext)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in filenames and
// limits the result to 50 runes.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	var b strings.Builder
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "meeting"
	}
	return b.String()
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
