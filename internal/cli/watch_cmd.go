// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/classify"
	"github.com/jeranaias/meetcost/internal/session"
	"github.com/jeranaias/meetcost/internal/ticker"
	"github.com/jeranaias/meetcost/internal/util"
)

// =============================================================================
// WATCH
// =============================================================================

// NewWatchCmd runs the meeting in the foreground without the full-screen
// tracker: one status line per tick, milestones on their own line. On
// interrupt the meeting is paused and the user is asked whether to save it.
func NewWatchCmd(deps *Dependencies) *cobra.Command {
	var (
		save     bool
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the meeting clock in the foreground until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			logger := deps.logger()
			m, err := deps.openManager(logger)
			if err != nil {
				return err
			}
			if !m.Running() {
				if _, err := m.Start(nil); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			cfg := deps.settings()
			line := newStatusLine(out, cmd.ErrOrStderr(), cfg.Tracker.Sound, IsStdoutTTY())

			sched := ticker.New(cfg.TickInterval())
			sched.Start(ctx, func(time.Time) {
				snap, crossed := m.Tick()
				line.update(snap, crossed)
			})
			<-ctx.Done()
			sched.Stop()

			if _, err := m.Pause(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			printStatus(out, m.GetStatus())
			logger.Info("watch ended", zap.Duration("elapsed", m.Snapshot().Elapsed))

			return offerSave(out, deps, m, save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save to history when the watch ends without asking")
	cmd.Flags().DurationVar(&duration, "for", 0, "stop watching after this long (e.g. 45m)")
	return cmd
}

// offerSave saves when save is set, asks when a terminal is available, and
// otherwise leaves the paused meeting in the checkpoint.
func offerSave(out io.Writer, deps *Dependencies, m *session.Manager, save bool) error {
	if !save {
		if !CanPrompt() {
			fmt.Fprintln(out, DimStyle.Render("Meeting paused. Run `meetcost stop --save` to keep it."))
			return nil
		}
		yes, err := PromptYesNo("Save this meeting?")
		if err != nil {
			return err
		}
		if !yes {
			fmt.Fprintln(out, DimStyle.Render("Meeting paused and kept in the tracker."))
			return nil
		}
	}
	return saveAndClear(out, deps, m)
}

// =============================================================================
// STATUS LINE
// =============================================================================

// statusLine redraws one line in place on a terminal and appends lines
// otherwise.
type statusLine struct {
	out   io.Writer
	bell  io.Writer
	sound bool
	tty   bool
}

func newStatusLine(out, bell io.Writer, sound, tty bool) *statusLine {
	return &statusLine{out: out, bell: bell, sound: sound, tty: tty}
}

func (l *statusLine) update(snap accrual.Snapshot, crossed []classify.Milestone) {
	for _, ms := range crossed {
		l.clear()
		fmt.Fprintln(l.out, WarningStyle.Render(ms.Message))
	}
	if len(crossed) > 0 && l.sound {
		fmt.Fprint(l.bell, "\a")
	}

	heat := classify.Classify(snap.TotalCost).Heat
	text := fmt.Sprintf("%s  %s  %s/hr",
		util.FormatClock(snap.Elapsed),
		RenderCost(util.FormatMoney(snap.TotalCost), heat),
		util.FormatMoney(snap.HourlyRate))

	if l.tty {
		l.clear()
		fmt.Fprint(l.out, text)
		return
	}
	fmt.Fprintln(l.out, text)
}

func (l *statusLine) clear() {
	if l.tty {
		fmt.Fprint(l.out, "\r\033[K")
	}
}
