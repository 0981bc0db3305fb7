// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// JSON
// =============================================================================

// JSONExporter renders the summary as indented JSON.
type JSONExporter struct {
	// Indent is the indentation string. Empty produces compact output.
	Indent string
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: "  "}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns "application/json".
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// Export renders s as JSON.
func (e *JSONExporter) Export(s *Summary) ([]byte, error) {
	if s == nil {
		return nil, errNilSummary
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if e.Indent != "" {
		enc.SetIndent("", e.Indent)
	}
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// YAML
// =============================================================================

// YAMLExporter renders the summary as YAML.
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// FileExtension returns ".yaml".
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType returns "application/yaml".
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}

// Export renders s as YAML.
func (e *YAMLExporter) Export(s *Summary) ([]byte, error) {
	if s == nil {
		return nil, errNilSummary
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}
