// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/export"
	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/util"
)

// =============================================================================
// HISTORY
// =============================================================================

func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "List, show and delete saved meetings",
	}

	cmd.AddCommand(newHistoryListCmd(deps))
	cmd.AddCommand(newHistoryShowCmd(deps))
	cmd.AddCommand(newHistoryDeleteCmd(deps))
	cmd.AddCommand(newHistoryClearCmd(deps))
	return cmd
}

func newHistoryListCmd(deps *Dependencies) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved meetings, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, "history list", func() (interface{}, error) {
					return recs, nil
				})
			}
			printHistory(out, recs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func printHistory(w io.Writer, recs []history.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No saved meetings yet. Run `meetcost stop --save` after a meeting."))
		return
	}

	fmt.Fprintf(w, "%-8s  %-24s  %-16s  %8s  %4s  %12s\n", "ID", "NAME", "DATE", "DURATION", "PPL", "COST")
	for _, r := range recs {
		fmt.Fprintf(w, "%-8s  %s  %-16s  %8s  %4d  %12s\n",
			shortID(r.ID),
			util.PadRight(util.TruncateWidth(r.Name, 24), 24),
			r.Date.Local().Format("2006-01-02 15:04"),
			util.FormatClock(r.Elapsed()),
			r.Attendees,
			util.FormatMoney(r.Cost))
	}

	cost, secs := history.Total(recs)
	fmt.Fprintln(w, RenderSeparator(84))
	fmt.Fprintf(w, "Total: %s across %s meetings (%s)\n",
		util.FormatMoney(cost), strconv.Itoa(len(recs)), util.FormatDuration(time.Duration(secs)*time.Second))
}

func newHistoryShowCmd(deps *Dependencies) *cobra.Command {
	var (
		format string
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved meeting",
		Long:  "Show one saved meeting. Any unique prefix of the ID is accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := deps.findRecord(args[0])
			if err != nil {
				return err
			}

			s := export.FromRecord(rec, deps.rateTable())
			rendered, err := export.Preview(s, format, export.PreviewOptions{
				Width: GetTerminalWidth(),
				Plain: plain || !ColorsEnabled(),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "text, markdown, json, yaml or html")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colour and styling")
	return cmd
}

func newHistoryDeleteCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one saved meeting",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := history.FindPrefix(store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(rec.ID); err != nil {
				return NewCommandError("history", "delete", "could not delete meeting", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderOK(fmt.Sprintf("Deleted %q (%s)", rec.Name, shortID(rec.ID))))
			return nil
		},
	}
}

func newHistoryClearCmd(deps *Dependencies) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := RequireConfirmation(yes, "delete all saved meetings")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, DimStyle.Render("Cancelled."))
				return nil
			}

			store, err := deps.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				return NewCommandError("history", "clear", "could not clear history", err)
			}
			fmt.Fprintln(out, RenderOK("History cleared"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// =============================================================================
// HELPERS
// =============================================================================

// findRecord resolves an ID prefix against the configured store.
func (d *Dependencies) findRecord(prefix string) (history.Record, error) {
	store, err := d.openStore()
	if err != nil {
		return history.Record{}, err
	}
	defer store.Close()
	return history.FindPrefix(store, prefix)
}

// rateTable is the configured table, used to rebuild breakdowns of saved
// meetings.
func (d *Dependencies) rateTable() accrual.RateTable {
	if roles := d.settings().Rates.Roles; len(roles) > 0 {
		return accrual.RateTable(roles)
	}
	return accrual.DefaultRateTable()
}
