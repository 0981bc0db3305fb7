// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// classify_cmd.go - Look up what a dollar amount means without running a
// meeting: heat level, milestone, comparison, opportunity cost, auditor remark.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/meetcost/internal/classify"
	"github.com/jeranaias/meetcost/internal/util"
)

func NewClassifyCmd(deps *Dependencies) *cobra.Command {
	var (
		jsonOut    bool
		milestones bool
	)

	cmd := &cobra.Command{
		Use:   "classify <cost>",
		Short: "Classify a meeting cost",
		Example: "  meetcost classify 750\n" +
			"  meetcost classify '$1,200' --json\n" +
			"  meetcost classify --milestones",
		Args: func(cmd *cobra.Command, args []string) error {
			if milestones {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if milestones {
				if jsonOut {
					return writeJSON(out, "classify", func() (interface{}, error) {
						return classify.Milestones(), nil
					})
				}
				printMilestones(out)
				return nil
			}

			cost, err := parseCost(args[0])
			if err != nil {
				return err
			}
			res := classify.Classify(cost)

			if jsonOut {
				return writeJSON(out, "classify", func() (interface{}, error) {
					return res, nil
				})
			}
			printClassification(out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&milestones, "milestones", false, "list every milestone threshold")
	return cmd
}

// parseCost accepts plain numbers and the display form ($1,234.50).
func parseCost(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, NewValidationError("cost", s, "not a dollar amount", "meetcost classify 750")
	}
	return v, nil
}

func printClassification(w io.Writer, res classify.Result) {
	fmt.Fprintln(w, RenderField("Cost", RenderCost(util.FormatMoney(res.Cost), res.Heat)))
	fmt.Fprintln(w, RenderField("Heat", string(res.Heat)))
	if res.Milestone != nil {
		fmt.Fprintln(w, RenderField("Milestone", res.Milestone.Message))
	} else {
		fmt.Fprintln(w, RenderField("Milestone", DimStyle.Render("none yet")))
	}
	fmt.Fprintln(w, RenderField("That's", res.Comparison))
	fmt.Fprintln(w, RenderField("Could have bought", res.Opportunity.Label(res.Cost)))
	fmt.Fprintln(w, RenderField("Auditor", res.Auditor))
}

func printMilestones(w io.Writer) {
	for _, ms := range classify.Milestones() {
		heat := classify.HeatFor(ms.Threshold)
		fmt.Fprintf(w, "  %s  %s\n",
			RenderCost(util.PadLeft(util.FormatMoney(ms.Threshold), 10), heat),
			ms.Message)
	}
}
