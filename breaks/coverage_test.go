package breaks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/workforce-portal/breaks"
)

func TestFindHighestCoverageIntervals_OrdersByInCount(t *testing.T) {
	// GIVEN: 09:00→10, 09:15→15, 09:30→12, 09:45 absent
	summary := breaks.CoverageSummary{
		"09:00:00": {In: 10},
		"09:15:00": {In: 15},
		"09:30:00": {In: 12},
	}

	// WHEN/THEN: best slot first, then the runner-up
	assert.Equal(t, []breaks.TimeOfDay{"09:15:00"},
		breaks.FindHighestCoverageIntervals(summary, 540, 600, 1))
	assert.Equal(t, []breaks.TimeOfDay{"09:15:00", "09:30:00"},
		breaks.FindHighestCoverageIntervals(summary, 540, 600, 2))
}

func TestFindHighestCoverageIntervals_TiesGoEarliest(t *testing.T) {
	summary := breaks.CoverageSummary{
		"09:30:00": {In: 5},
		"09:00:00": {In: 5},
		"09:15:00": {In: 5},
	}
	assert.Equal(t, []breaks.TimeOfDay{"09:00:00", "09:15:00"},
		breaks.FindHighestCoverageIntervals(summary, 540, 585, 2))
}

func TestFindHighestCoverageIntervals_AbsentSlotsCountZero(t *testing.T) {
	// Only 09:30 has coverage; absent slots are still candidates
	summary := breaks.CoverageSummary{"09:30:00": {In: 1}}
	assert.Equal(t, []breaks.TimeOfDay{"09:30:00", "09:00:00", "09:15:00"},
		breaks.FindHighestCoverageIntervals(summary, 540, 585, 5))
}

func TestFindHighestCoverageIntervals_OffGridStartSnapsForward(t *testing.T) {
	// 700 = 11:40; the first candidate is 11:45, never 11:40
	summary := breaks.CoverageSummary{"11:45:00": {In: 2}, "12:00:00": {In: 2}}
	assert.Equal(t, []breaks.TimeOfDay{"11:45:00", "12:00:00", "12:15:00"},
		breaks.FindHighestCoverageIntervals(summary, 700, 740, 5))
}

func TestFindHighestCoverageIntervals_EmptyRange(t *testing.T) {
	assert.Empty(t, breaks.FindHighestCoverageIntervals(nil, 600, 600, 1))
	assert.Empty(t, breaks.FindHighestCoverageIntervals(nil, 600, 540, 1))
}

func TestCoverageSummary_WithAssignmentAndRelease(t *testing.T) {
	// GIVEN: Two agents in seat at every slot
	window := &breaks.ShiftWindow{Start: "09:00:00", End: "17:00:00"}
	agents := []breaks.AgentSchedule{
		breaks.NewAgentSchedule("u1", "Alice", "", breaks.ShiftAM, window, breaks.BreakTimes{}),
		breaks.NewAgentSchedule("u2", "Bob", "", breaks.ShiftAM, window, breaks.BreakTimes{}),
	}
	base := breaks.BuildCoverageSummary(agents)
	assert.Equal(t, breaks.Coverage{In: 2}, base["12:30:00"])

	// WHEN: Assigning one agent's breaks
	slots := breaks.BreakTimes{HB1: "10:00:00", B: "12:30:00", HB2: "15:30:00"}.Slots()
	next := base.WithAssignment(slots)

	// THEN: The new summary moved one agent out; the base is untouched
	assert.Equal(t, breaks.Coverage{In: 1, HB1: 1}, next["10:00:00"])
	assert.Equal(t, breaks.Coverage{In: 1, B: 1}, next["12:30:00"])
	assert.Equal(t, breaks.Coverage{In: 1, B: 1}, next["12:45:00"])
	assert.Equal(t, breaks.Coverage{In: 1, HB2: 1}, next["15:30:00"])
	assert.Equal(t, breaks.Coverage{In: 2}, base["10:00:00"])

	// Release is the inverse
	assert.Equal(t, base, next.Release(slots))
}

func TestCoverageSummary_Stats(t *testing.T) {
	summary := breaks.CoverageSummary{
		"09:00:00": {In: 2},
		"09:15:00": {In: 4},
	}
	stats := summary.Stats()
	assert.Equal(t, 2, stats.Min)
	assert.Equal(t, 4, stats.Max)
	assert.Equal(t, 3.0, stats.Avg)
	assert.Equal(t, 1.0, stats.Variance)

	uneven := breaks.CoverageSummary{
		"09:00:00": {In: 1},
		"09:15:00": {In: 1},
		"09:30:00": {In: 2},
	}
	stats = uneven.Stats()
	assert.Equal(t, 1.3333, stats.Avg)
	assert.Equal(t, 0.2222, stats.Variance)

	assert.Equal(t, breaks.CoverageStats{}, breaks.CoverageSummary{}.Stats())
}
