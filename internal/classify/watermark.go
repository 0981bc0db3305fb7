// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classify

// Watermark remembers the highest milestone threshold already announced.
// The zero value sits below every milestone.
type Watermark struct {
	Last float64 `json:"last"`
}

// Advance returns the milestones newly reached at cost, in ascending order,
// and the watermark to carry forward. A threshold fires at most once until
// the watermark is reset. Falling cost never fires anything.
func (w Watermark) Advance(cost float64) (Watermark, []Milestone) {
	cost = sanitize(cost)

	var fired []Milestone
	for _, m := range milestoneTable {
		if m.Threshold > cost {
			break
		}
		if m.Threshold > w.Last {
			fired = append(fired, m)
			w.Last = m.Threshold
		}
	}
	return w, fired
}

// Reset returns a watermark below the lowest milestone.
func (w Watermark) Reset() Watermark {
	return Watermark{}
}
