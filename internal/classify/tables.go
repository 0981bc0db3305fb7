// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classify

// =============================================================================
// HEAT
// =============================================================================

// Heat is a coarse severity used to colour the running cost.
type Heat string

const (
	HeatLow      Heat = "low"
	HeatMedium   Heat = "medium"
	HeatHigh     Heat = "high"
	HeatCritical Heat = "critical"
)

// Rank orders heat levels: low=0 ... critical=3. Unknown values rank -1.
func (h Heat) Rank() int {
	switch h {
	case HeatLow:
		return 0
	case HeatMedium:
		return 1
	case HeatHigh:
		return 2
	case HeatCritical:
		return 3
	default:
		return -1
	}
}

type heatEntry struct {
	Threshold float64
	Level     Heat
}

var heatTable = []heatEntry{
	{0, HeatLow},
	{100, HeatMedium},
	{500, HeatHigh},
	{1000, HeatCritical},
}

// =============================================================================
// MILESTONES
// =============================================================================

// Milestone is a one-shot announcement shown once cost reaches Threshold.
type Milestone struct {
	Threshold float64 `json:"threshold"`
	Message   string  `json:"message"`
}

var milestoneTable = []Milestone{
	{100, "First $100 burned"},
	{500, "Half a Grand..."},
	{1000, "$1K Milestone Hit!"},
	{2500, "Expensive Territory"},
	{5000, "CRITICAL BURN RATE"},
}

// Milestones returns a copy of the milestone table in ascending order.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestoneTable))
	copy(out, milestoneTable)
	return out
}

// =============================================================================
// COMPARISONS
// =============================================================================

// Comparison expresses the cost in some everyday unit. A zero Price means
// Label is shown as-is.
type Comparison struct {
	Threshold float64
	Label     string
	Price     float64
}

var comparisonTable = []Comparison{
	{0, "Starbucks coffees", 5},
	{50, "lunch meals", 15},
	{200, "hours of cloud compute", 10},
	{1000, "Approaching monthly salary territory!", 0},
}

// =============================================================================
// OPPORTUNITY COST
// =============================================================================

// Opportunity is the most expensive single thing the meeting could have paid
// for instead.
type Opportunity struct {
	Threshold float64 `json:"threshold"`
	Item      string  `json:"item"`
	Price     float64 `json:"price"`
}

var opportunityTable = []Opportunity{
	{0, "coffee", 5},
	{75, "team lunch", 75},
	{500, "conference ticket", 500},
	{1500, "laptop", 1500},
	{5000, "junior hire's month", 5000},
}

// =============================================================================
// AUDITOR
// =============================================================================

type remark struct {
	Threshold float64
	Text      string
}

var auditorTable = []remark{
	{0, "Nothing to flag yet."},
	{50, "Noted. Somebody is paying for this."},
	{250, "This is now a line item."},
	{1000, "Please attach minutes to the expense report."},
	{2500, "Requesting a written justification."},
	{5000, "Escalating to finance."},
}
