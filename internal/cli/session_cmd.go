// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - Headless meeting lifecycle: start, pause, stop, reset
// and status. State lives in the checkpoint file between invocations.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/meetcost/internal/history"
	"github.com/jeranaias/meetcost/internal/session"
	"github.com/jeranaias/meetcost/internal/util"
)

// errAlreadyRunning is returned by start when the meeting is running.
var errAlreadyRunning = errors.New("meeting is already running")

// =============================================================================
// START
// =============================================================================

func NewStartCmd(deps *Dependencies) *cobra.Command {
	var (
		name     string
		outcome  string
		fromCost string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start or resume the meeting clock",
		Long: "Start or resume the meeting clock. With --from-cost the clock is\n" +
			"wound forward to the point where the meeting had already cost that much.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := deps.openManager(deps.logger())
			if err != nil {
				return err
			}
			if m.Running() {
				return errAlreadyRunning
			}

			if name != "" {
				if err := m.SetName(name); err != nil {
					return err
				}
			}
			if outcome != "" {
				o, err := history.ParseOutcome(outcome)
				if err != nil {
					return NewValidationError("outcome", outcome, err.Error(), "--outcome decision")
				}
				if err := m.SetOutcome(o); err != nil {
					return err
				}
			}

			var resume *float64
			if fromCost != "" {
				v, err := strconv.ParseFloat(fromCost, 64)
				if err != nil {
					return NewValidationError("from-cost", fromCost, "not a number", "--from-cost 250")
				}
				resume = &v
			}

			snap, err := m.Start(resume)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, RenderOK(fmt.Sprintf("Meeting started at %s/hr", util.FormatMoney(snap.HourlyRate))))
			if snap.Elapsed > 0 {
				fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("Resuming from %s (%s)", util.FormatMoney(snap.TotalCost), util.FormatClock(snap.Elapsed))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "meeting name")
	cmd.Flags().StringVar(&outcome, "outcome", "", "meeting outcome (decision, action-items, info-only, no-outcome)")
	cmd.Flags().StringVar(&fromCost, "from-cost", "", "resume as if the meeting had already cost this many dollars")
	return cmd
}

// =============================================================================
// PAUSE / STOP
// =============================================================================

func NewPauseCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the meeting clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := deps.openManager(deps.logger())
			if err != nil {
				return err
			}
			snap, err := m.Pause()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderOK(fmt.Sprintf("Paused at %s after %s",
				util.FormatMoney(snap.TotalCost), util.FormatClock(snap.Elapsed))))
			return nil
		},
	}
}

func NewStopCmd(deps *Dependencies) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the meeting and print its summary",
		Long: "Stop the meeting and print its summary. With --save the meeting is\n" +
			"added to history and the tracker is cleared for the next one.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := deps.openManager(deps.logger())
			if err != nil {
				return err
			}
			if _, err := m.Pause(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printStatus(out, m.GetStatus())

			if !save {
				return nil
			}
			return saveAndClear(out, deps, m)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save the meeting to history and clear the tracker")
	return cmd
}

// =============================================================================
// RESET
// =============================================================================

func NewResetCmd(deps *Dependencies) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the meeting clock, name and outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := deps.openManager(deps.logger())
			if err != nil {
				return err
			}
			if _, err := m.Pause(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if save {
				return saveAndClear(out, deps, m)
			}
			if err := m.Reset(); err != nil {
				return err
			}
			if err := m.ClearCheckpoint(); err != nil {
				return err
			}
			fmt.Fprintln(out, RenderOK("Meeting reset"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save the meeting to history before resetting")
	return cmd
}

// saveAndClear stores the meeting, resets the manager and removes the
// checkpoint. A meeting with no elapsed time is reset without saving.
func saveAndClear(out io.Writer, deps *Dependencies, m *session.Manager) error {
	rec, ok, err := deps.saveMeeting(m)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(out, RenderOK(fmt.Sprintf("Saved %q to history (%s)", rec.Name, shortID(rec.ID))))
	} else {
		fmt.Fprintln(out, WarningStyle.Render("Nothing to save yet"))
	}

	if err := m.Reset(); err != nil {
		return err
	}
	return m.ClearCheckpoint()
}

// =============================================================================
// STATUS
// =============================================================================

func NewStatusCmd(deps *Dependencies) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current meeting cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := deps.openManager(deps.logger())
			if err != nil {
				return err
			}
			st := m.GetStatus()

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), "status", func() (interface{}, error) {
					return st, nil
				})
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// printStatus renders a status block shared by status, stop and watch.
func printStatus(w io.Writer, st session.Status) {
	name := st.Name
	if name == "" {
		name = history.DefaultName
	}
	state := "PAUSED"
	if st.Running {
		state = "RUNNING"
	}

	snap := st.Snapshot
	class := st.Classification

	fmt.Fprintln(w, TitleStyle.Render(name)+"  "+DimStyle.Render(state))
	fmt.Fprintln(w, RenderSeparator())
	fmt.Fprintln(w, RenderField("Elapsed", util.FormatClock(snap.Elapsed)))
	fmt.Fprintln(w, RenderField("Total cost", RenderCost(util.FormatMoney(snap.TotalCost), class.Heat)))
	fmt.Fprintln(w, RenderField("Burn rate", util.FormatMoney(snap.HourlyRate)+"/hr"))
	fmt.Fprintln(w, RenderField("Attendees", strconv.Itoa(st.Attendees)))
	if st.Insights.HasCostPerMinute {
		fmt.Fprintln(w, RenderField("Per minute", util.FormatMoney(st.Insights.CostPerMinute)))
	}
	if st.Outcome != history.OutcomeNone {
		fmt.Fprintln(w, RenderField("Outcome", st.Outcome.Label()))
	}

	if class.Milestone != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render(class.Milestone.Message))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "That's "+class.Comparison)
	fmt.Fprintln(w, "Could have bought "+class.Opportunity.Label(snap.TotalCost))
	fmt.Fprintln(w, DimStyle.Render("Auditor: "+class.Auditor))

	if len(st.Breakdown) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, SectionStyle.Render("Breakdown"))
		for _, sh := range st.Breakdown {
			fmt.Fprintf(w, "  %-8s %3d x %-10s %12s  %5.1f%%\n",
				sh.Role, sh.Count, util.FormatMoney(sh.Rate)+"/hr", util.FormatMoney(sh.Cost), sh.Percentage)
		}
	}

	if st.Insights.Suggestion != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, DimStyle.Render(st.Insights.Suggestion))
	}
}

// shortID abbreviates a record ID for display; history commands accept any
// unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
