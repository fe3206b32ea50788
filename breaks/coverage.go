/*
coverage.go - Per-slot agent counts for one schedule date

PURPOSE:
  CoverageSummary is the feedback signal Balanced-Coverage reads: how many
  agents are in-seat at each 15-minute slot. Every assignment moves the
  agent out of IN at its four break slots.

VALUE SEMANTICS:
  A CoverageSummary is never mutated in place by the engine. WithAssignment
  and Release return a new summary, so a strategy is a fold over the
  ordered agent list with the summary as the accumulator.

STATISTICS:
  Min/max/avg/population variance of the in-seat count are computed with
  decimal arithmetic so the reported average does not drift.
*/
package breaks

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Coverage holds per-status agent counts for one slot.
type Coverage struct {
	In  int
	HB1 int
	B   int
	HB2 int
}

func (c *Coverage) add(status BreakStatus, n int) {
	switch status {
	case StatusIn:
		c.In += n
	case StatusHB1:
		c.HB1 += n
	case StatusB:
		c.B += n
	case StatusHB2:
		c.HB2 += n
	}
}

// CoverageSummary maps slot time to counts.
type CoverageSummary map[TimeOfDay]Coverage

// BuildCoverageSummary aggregates the intervals of every schedule.
func BuildCoverageSummary(schedules []AgentSchedule) CoverageSummary {
	summary := make(CoverageSummary)
	for _, s := range schedules {
		for at, status := range s.Intervals {
			c := summary[at]
			c.add(status, 1)
			summary[at] = c
		}
	}
	return summary
}

// Clone returns an independent copy.
func (s CoverageSummary) Clone() CoverageSummary {
	out := make(CoverageSummary, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// WithAssignment returns a new summary where one agent moved from IN to the
// assigned status at each slot.
func (s CoverageSummary) WithAssignment(slots []SlotAssignment) CoverageSummary {
	out := s.Clone()
	for _, slot := range slots {
		c := out[slot.At]
		c.In--
		c.add(slot.Status, 1)
		out[slot.At] = c
	}
	return out
}

// Release is the inverse of WithAssignment: the agent returns to IN at
// each slot.
func (s CoverageSummary) Release(slots []SlotAssignment) CoverageSummary {
	out := s.Clone()
	for _, slot := range slots {
		c := out[slot.At]
		c.In++
		c.add(slot.Status, -1)
		out[slot.At] = c
	}
	return out
}

// InAt returns the in-seat count at a slot; absent slots count as zero.
func (s CoverageSummary) InAt(at TimeOfDay) int {
	return s[at].In
}

// FindHighestCoverageIntervals enumerates every grid slot in [startMin, endMin),
// orders by in-seat count descending, ties toward the earliest time, and
// returns the first count labels. An off-grid startMin begins at the next
// slot boundary.
func FindHighestCoverageIntervals(summary CoverageSummary, startMin, endMin, count int) []TimeOfDay {
	type candidate struct {
		at TimeOfDay
		in int
	}
	var candidates []candidate
	for m := CeilToSlot(startMin); m < endMin; m += SlotMinutes {
		at := FormatMinutes(m)
		candidates = append(candidates, candidate{at: at, in: summary.InAt(at)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].in != candidates[j].in {
			return candidates[i].in > candidates[j].in
		}
		return candidates[i].at < candidates[j].at
	})
	if count > len(candidates) {
		count = len(candidates)
	}
	out := make([]TimeOfDay, 0, count)
	for _, c := range candidates[:count] {
		out = append(out, c.at)
	}
	return out
}

// =============================================================================
// COVERAGE STATISTICS
// =============================================================================

// CoverageStats summarises in-seat counts across all slots.
type CoverageStats struct {
	Min      int
	Max      int
	Avg      float64
	Variance float64 // population variance
}

// Stats computes min/max/avg/population variance of the in-seat count over
// every slot in the summary. An empty summary yields zero stats.
func (s CoverageSummary) Stats() CoverageStats {
	if len(s) == 0 {
		return CoverageStats{}
	}

	first := true
	var stats CoverageStats
	sum := decimal.Zero
	for _, c := range s {
		if first || c.In < stats.Min {
			stats.Min = c.In
		}
		if first || c.In > stats.Max {
			stats.Max = c.In
		}
		first = false
		sum = sum.Add(decimal.NewFromInt(int64(c.In)))
	}

	n := decimal.NewFromInt(int64(len(s)))
	avg := sum.Div(n)

	squares := decimal.Zero
	for _, c := range s {
		diff := decimal.NewFromInt(int64(c.In)).Sub(avg)
		squares = squares.Add(diff.Mul(diff))
	}
	variance := squares.Div(n)

	stats.Avg, _ = avg.Round(4).Float64()
	stats.Variance, _ = variance.Round(4).Float64()
	return stats
}
