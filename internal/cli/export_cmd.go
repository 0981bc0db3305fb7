// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/meetcost/internal/export"
)

// NewExportCmd writes a meeting summary to a file or stdout. Without an ID
// it exports the meeting currently in the tracker.
func NewExportCmd(deps *Dependencies) *cobra.Command {
	var (
		format string
		outDir string
		stdout bool
		open   bool
	)

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a meeting summary",
		Example: "  meetcost export --format markdown\n" +
			"  meetcost export 3f2a --format png --out ~/receipts\n" +
			"  meetcost export --format json --stdout | jq .total_cost",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := deps.loadSummary(args)
			if err != nil {
				return err
			}

			opts := deps.exportOptions()
			if outDir != "" {
				opts.OutputDir = outDir
			}
			opts.OpenAfterExport = open

			if format == "" {
				format = deps.settings().Export.Format
			}
			exporter, err := export.ForFormat(format, opts)
			if err != nil {
				return NewValidationError("format", format, err.Error(), "--format markdown")
			}

			if stdout {
				content, err := exporter.Export(s)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}

			path, err := export.ExportToFile(s, exporter, opts)
			if err != nil {
				return NewCommandError("export", format, "could not write summary", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderOK("Exported to "+path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "text, markdown, json, yaml, html or png (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write to stdout instead of a file")
	cmd.Flags().BoolVar(&open, "open", false, "open the file after exporting")
	return cmd
}

// loadSummary builds the summary for a saved meeting when args holds an ID
// prefix, or for the live meeting otherwise.
func (d *Dependencies) loadSummary(args []string) (*export.Summary, error) {
	if len(args) > 0 {
		rec, err := d.findRecord(args[0])
		if err != nil {
			return nil, err
		}
		return export.FromRecord(rec, d.rateTable()), nil
	}

	m, err := d.openManager(d.logger())
	if err != nil {
		return nil, err
	}
	return export.FromSession(m.GetStatus(), d.clock().Now()), nil
}
