// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/meetcost/internal/accrual"
	"github.com/jeranaias/meetcost/internal/config"
	"github.com/jeranaias/meetcost/internal/util"
)

// roleRow is one line of `meetcost roles`.
type roleRow struct {
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	Count      int     `json:"count"`
	PerHour    float64 `json:"per_hour"`
}

// NewRolesCmd shows the rate table and headcount, and with --set changes
// the headcount in the config file.
func NewRolesCmd(deps *Dependencies) *cobra.Command {
	var (
		jsonOut bool
		set     string
	)

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Show salary bands and headcount",
		Example: "  meetcost roles\n" +
			"  meetcost roles --set SR=3,VP=1",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if set != "" {
				if err := deps.setHeadcount(out, set); err != nil {
					return err
				}
			}

			rates, err := deps.settings().RateConfig()
			if err != nil {
				return err
			}
			rows := roleRows(rates)

			if jsonOut {
				return writeJSON(out, "roles", func() (interface{}, error) {
					return rows, nil
				})
			}
			printRoles(out, rates, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	cmd.Flags().StringVar(&set, "set", "", "set headcount, e.g. SR=3,VP=1 (switches to role mode)")
	return cmd
}

func roleRows(rates accrual.RateConfig) []roleRow {
	if rates.Mode == accrual.ModeFlat {
		return []roleRow{{
			Role:       "Attendee",
			HourlyRate: rates.HourlyRate,
			Count:      rates.Attendees,
			PerHour:    rates.CombinedHourlyRate(),
		}}
	}

	rows := make([]roleRow, 0, len(rates.Table))
	for _, r := range rates.Table {
		n := rates.Headcount[r.Name]
		rows = append(rows, roleRow{
			Role:       r.Name,
			HourlyRate: r.HourlyRate,
			Count:      n,
			PerHour:    float64(n) * r.HourlyRate,
		})
	}
	return rows
}

func printRoles(w io.Writer, rates accrual.RateConfig, rows []roleRow) {
	fmt.Fprintln(w, TitleStyle.Render("Rates")+"  "+DimStyle.Render(string(rates.Mode)+" mode"))
	fmt.Fprintln(w, RenderSeparator(44))
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %10s  x %3d  = %12s\n",
			util.PadRight(r.Role, 10),
			util.FormatMoney(r.HourlyRate)+"/hr",
			r.Count,
			util.FormatMoney(r.PerHour)+"/hr")
	}
	fmt.Fprintln(w, RenderSeparator(44))
	fmt.Fprintf(w, "  %d attendees, %s/hr combined\n",
		rates.AttendeeCount(), util.FormatMoney(rates.CombinedHourlyRate()))
}

// setHeadcount merges assignments into the configured headcount, saves the config
// and applies it to a paused meeting.
func (d *Dependencies) setHeadcount(w io.Writer, assignments string) error {
	counts, err := config.ParseHeadcount(assignments)
	if err != nil {
		return NewValidationError("headcount", assignments, err.Error(), "--set SR=3,VP=1")
	}

	cfg := d.settings().Clone()
	cfg.Rates.Mode = string(accrual.ModeRoles)
	if cfg.Rates.Headcount == nil {
		cfg.Rates.Headcount = make(map[string]int)
	}
	for name, n := range counts {
		cfg.Rates.Headcount[name] = n
	}

	rates, err := cfg.RateConfig()
	if err != nil {
		return NewValidationError("headcount", assignments, err.Error(), "roles: "+fmt.Sprint(d.rateTable().Names()))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	d.Config = cfg

	m, err := d.openManager(d.logger())
	if err != nil {
		return err
	}
	if err := m.Configure(rates); err != nil {
		if errors.Is(err, accrual.ErrRunning) {
			fmt.Fprintln(w, WarningStyle.Render("Saved. The meeting is running, so pause it and run this again to apply the new headcount now."))
			return nil
		}
		return err
	}
	fmt.Fprintln(w, RenderOK("Headcount updated"))
	return nil
}
