// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classify

import (
	"fmt"
	"math"
)

// Result is every display hint derived from one cost value.
type Result struct {
	Cost float64 `json:"cost"`
	Heat Heat    `json:"heat"`

	// Milestone is nil below the lowest milestone threshold.
	Milestone *Milestone `json:"milestone,omitempty"`

	Comparison  string      `json:"comparison"`
	Opportunity Opportunity `json:"opportunity"`
	Auditor     string      `json:"auditor"`
}

// Classify looks cost up in every table. Negative, NaN and infinite costs
// are treated as zero.
func Classify(cost float64) Result {
	cost = sanitize(cost)

	r := Result{Cost: cost}

	if h, ok := lookup(heatTable, cost, func(e heatEntry) float64 { return e.Threshold }); ok {
		r.Heat = h.Level
	}
	if m, ok := lookup(milestoneTable, cost, func(e Milestone) float64 { return e.Threshold }); ok {
		r.Milestone = &m
	}
	if c, ok := lookup(comparisonTable, cost, func(e Comparison) float64 { return e.Threshold }); ok {
		r.Comparison = c.Text(cost)
	}
	if o, ok := lookup(opportunityTable, cost, func(e Opportunity) float64 { return e.Threshold }); ok {
		r.Opportunity = o
	}
	if a, ok := lookup(auditorTable, cost, func(e remark) float64 { return e.Threshold }); ok {
		r.Auditor = a.Text
	}

	return r
}

// HeatFor returns only the heat level for cost.
func HeatFor(cost float64) Heat {
	h, _ := lookup(heatTable, sanitize(cost), func(e heatEntry) float64 { return e.Threshold })
	return h.Level
}

// Text renders the comparison for cost, e.g. "9 Starbucks coffees".
func (c Comparison) Text(cost float64) string {
	if c.Price <= 0 {
		return c.Label
	}
	return fmt.Sprintf("%d %s", int(math.Floor(sanitize(cost)/c.Price)), c.Label)
}

// Count is how many of the item cost would buy.
func (o Opportunity) Count(cost float64) int {
	if o.Price <= 0 {
		return 0
	}
	return int(math.Floor(sanitize(cost) / o.Price))
}

// Label renders the opportunity for cost, e.g. "2 x team lunch ($75 each)".
func (o Opportunity) Label(cost float64) string {
	n := o.Count(cost)
	if n == 0 {
		return fmt.Sprintf("not yet a %s ($%.0f)", o.Item, o.Price)
	}
	return fmt.Sprintf("%d x %s ($%.0f each)", n, o.Item, o.Price)
}

// lookup returns the last entry whose threshold is <= cost. Tables are
// ascending, so the last match is the highest.
func lookup[T any](table []T, cost float64, threshold func(T) float64) (T, bool) {
	var (
		best  T
		found bool
	)
	for _, e := range table {
		if threshold(e) > cost {
			break
		}
		best, found = e, true
	}
	return best, found
}

func sanitize(cost float64) float64 {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return 0
	}
	return cost
}
