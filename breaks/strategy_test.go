package breaks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/workforce-portal/breaks"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func standardHours() breaks.ShiftHours {
	return breaks.ShiftHours{
		breaks.ShiftAM:  {Start: "09:00:00", End: "17:00:00"},
		breaks.ShiftBET: {Start: "11:00:00", End: "19:00:00"},
		breaks.ShiftPM:  {Start: "13:00:00", End: "21:00:00"},
		breaks.ShiftOFF: nil,
	}
}

func amLadder() breaks.DistributionSettings {
	return breaks.DistributionSettings{
		ShiftType:        breaks.ShiftAM,
		HB1StartColumn:   4,
		BOffsetMinutes:   150,
		HB2OffsetMinutes: 150,
		LadderIncrement:  1,
	}
}

func agent(id, name string, shift breaks.ShiftType) breaks.AgentSchedule {
	return breaks.NewAgentSchedule(id, name, "Support", shift, standardHours().Window(shift), breaks.BreakTimes{})
}

func ladderInput(agents ...breaks.AgentSchedule) breaks.DistributionInput {
	return breaks.DistributionInput{
		Agents:     agents,
		Coverage:   breaks.BuildCoverageSummary(agents),
		ShiftHours: standardHours(),
		Settings:   map[breaks.ShiftType]breaks.DistributionSettings{breaks.ShiftAM: amLadder()},
	}
}

func breaksByName(result breaks.DistributionResult) map[string]breaks.BreakTimes {
	out := make(map[string]breaks.BreakTimes)
	for _, s := range result.Schedules {
		out[s.Name] = s.Breaks
	}
	return out
}

func placedNames(result breaks.DistributionResult) []string {
	var names []string
	for _, s := range result.Schedules {
		names = append(names, s.Name)
	}
	return names
}

// =============================================================================
// STRATEGY SELECTION TESTS
// =============================================================================

func TestParseStrategyName(t *testing.T) {
	name, err := breaks.ParseStrategyName("")
	require.NoError(t, err)
	assert.Equal(t, breaks.StrategyLadder, name)

	name, err = breaks.ParseStrategyName(" Balanced_Coverage ")
	require.NoError(t, err)
	assert.Equal(t, breaks.StrategyBalancedCoverage, name)

	_, err = breaks.ParseStrategyName("random")
	assert.ErrorIs(t, err, breaks.ErrUnknownStrategy)
	assert.True(t, breaks.IsClientError(err))
}

func TestDistribute_EveryStrategyIsRegistered(t *testing.T) {
	for _, name := range breaks.StrategyNames {
		_, err := breaks.Distribute(name, breaks.DistributionInput{})
		assert.NoError(t, err, "strategy %s", name)
	}

	_, err := breaks.Distribute("nope", breaks.DistributionInput{})
	assert.ErrorIs(t, err, breaks.ErrUnknownStrategy)
}

func TestStrategies_ProposedAndFailedAreDisjoint(t *testing.T) {
	// GIVEN: A roster mixing placeable, unplaceable and OFF agents
	agents := []breaks.AgentSchedule{
		agent("u1", "Alice", breaks.ShiftAM),
		agent("u2", "Bob", breaks.ShiftPM), // no PM ladder settings
		agent("u3", "Carol", breaks.ShiftOFF),
		agent("u4", "Dan", "NIGHT"),
		agent("u5", "Eve", breaks.ShiftAM),
	}

	for _, name := range breaks.StrategyNames {
		t.Run(string(name), func(t *testing.T) {
			result, err := breaks.Distribute(name, ladderInput(agents...))
			require.NoError(t, err)

			// THEN: every non-OFF agent is in exactly one of the two lists
			seen := make(map[string]int)
			for _, s := range result.Schedules {
				seen[s.UserID]++
			}
			for _, f := range result.Failed {
				seen[f.UserID]++
			}
			assert.Equal(t, map[string]int{"u1": 1, "u2": 1, "u4": 1, "u5": 1}, seen)
		})
	}
}

// =============================================================================
// LADDER TESTS
// =============================================================================

func TestLadderBreaks_Offsets(t *testing.T) {
	// column 4 = 10:00; B = +150; HB2 = B + 30 + 150
	b := breaks.LadderBreaks(4, amLadder())
	assert.Equal(t, breaks.BreakTimes{HB1: "10:00:00", B: "12:30:00", HB2: "15:30:00"}, b)
}

func TestLadder_SortsByNameAndSteps(t *testing.T) {
	// GIVEN: Agents given out of name order
	result := breaks.Ladder(ladderInput(
		agent("u3", "Carol", breaks.ShiftAM),
		agent("u1", "Alice", breaks.ShiftAM),
		agent("u2", "Bob", breaks.ShiftAM),
	))

	// THEN: name order, one column apart
	require.Empty(t, result.Failed)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, placedNames(result))
	got := breaksByName(result)
	assert.Equal(t, breaks.TimeOfDay("10:00:00"), got["Alice"].HB1)
	assert.Equal(t, breaks.TimeOfDay("10:15:00"), got["Bob"].HB1)
	assert.Equal(t, breaks.TimeOfDay("10:30:00"), got["Carol"].HB1)
}

func TestLadder_CursorResetsEveryCycle(t *testing.T) {
	// GIVEN: max 2 agents per cycle
	in := ladderInput(
		agent("u1", "Alice", breaks.ShiftAM),
		agent("u2", "Bob", breaks.ShiftAM),
		agent("u3", "Carol", breaks.ShiftAM),
	)
	settings := amLadder()
	settings.MaxAgentsPerCycle = 2
	in.Settings[breaks.ShiftAM] = settings

	// WHEN
	got := breaksByName(breaks.Ladder(in))

	// THEN: third agent starts over at column 4
	assert.Equal(t, breaks.TimeOfDay("10:00:00"), got["Alice"].HB1)
	assert.Equal(t, breaks.TimeOfDay("10:15:00"), got["Bob"].HB1)
	assert.Equal(t, breaks.TimeOfDay("10:00:00"), got["Carol"].HB1)
}

func TestLadder_CursorAdvancesPastFailure(t *testing.T) {
	// GIVEN: 3 AM agents and a floor of 2 in seat.
	// Alice takes B at 12:30-12:45, so Bob's B at 12:45 would leave 1.
	in := ladderInput(
		agent("u1", "Alice", breaks.ShiftAM),
		agent("u2", "Bob", breaks.ShiftAM),
		agent("u3", "Carol", breaks.ShiftAM),
	)
	in.Rules = []breaks.Rule{rule("Minimum coverage", breaks.CoverageParams{MinAgents: 2})}

	// WHEN
	result := breaks.Ladder(in)

	// THEN: Bob fails, Carol still gets column 6, not Bob's column 5
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "u2", result.Failed[0].UserID)
	assert.Equal(t, "Rule violations: Minimum coverage: coverage drops to 1, below minimum 2", result.Failed[0].Reason)
	assert.Equal(t, []string{"Minimum coverage"}, result.Failed[0].BlockedBy)

	got := breaksByName(result)
	assert.Equal(t, breaks.TimeOfDay("10:00:00"), got["Alice"].HB1)
	assert.Equal(t, breaks.TimeOfDay("10:30:00"), got["Carol"].HB1)

	// The failed agent's slots were not taken out of coverage
	assert.Equal(t, 3, result.Coverage.InAt("10:15:00"))
	assert.Equal(t, 2, result.Coverage.InAt("10:00:00"))
}

func TestLadder_CycleResetCountsFailedAgents(t *testing.T) {
	// GIVEN: max 2 per cycle and only one agent in seat at 10:15
	in := ladderInput(
		agent("u1", "Alice", breaks.ShiftAM),
		agent("u2", "Bob", breaks.ShiftAM),
		agent("u3", "Carol", breaks.ShiftAM),
	)
	settings := amLadder()
	settings.MaxAgentsPerCycle = 2
	in.Settings[breaks.ShiftAM] = settings
	in.Coverage["10:15:00"] = breaks.Coverage{In: 1}
	in.Rules = []breaks.Rule{rule("Minimum coverage", breaks.CoverageParams{MinAgents: 1})}

	// WHEN
	result := breaks.Ladder(in)

	// THEN: Bob fails at column 5, and Carol still starts the next cycle at column 4
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "u2", result.Failed[0].UserID)

	got := breaksByName(result)
	assert.Equal(t, breaks.TimeOfDay("10:00:00"), got["Alice"].HB1)
	assert.Equal(t, breaks.TimeOfDay("10:00:00"), got["Carol"].HB1)
}

func TestLadder_MissingSettingsFailsWholeGroup(t *testing.T) {
	result := breaks.Ladder(ladderInput(
		agent("u1", "Paul", breaks.ShiftPM),
		agent("u2", "Pia", breaks.ShiftPM),
		agent("u3", "Alice", breaks.ShiftAM),
	))

	assert.Equal(t, []string{"Alice"}, placedNames(result))
	require.Len(t, result.Failed, 2)
	for _, f := range result.Failed {
		assert.Equal(t, "No distribution settings found for shift type PM", f.Reason)
	}
}

func TestLadder_GroupOrderAndUnknownShifts(t *testing.T) {
	// GIVEN: PM, BET, AM agents plus an unknown shift and an OFF agent
	in := ladderInput(
		agent("u1", "Zed", breaks.ShiftPM),
		agent("u2", "Yan", breaks.ShiftBET),
		agent("u3", "Xia", breaks.ShiftAM),
		agent("u4", "Wil", "NIGHT"),
		agent("u5", "Vic", breaks.ShiftOFF),
	)
	for _, shift := range []breaks.ShiftType{breaks.ShiftBET, breaks.ShiftPM} {
		s := amLadder()
		s.ShiftType = shift
		s.HB1StartColumn = 16
		in.Settings[shift] = s
	}

	result := breaks.Ladder(in)

	// THEN: AM, BET, PM; unknown shift fails last; OFF is skipped silently
	assert.Equal(t, []string{"Xia", "Yan", "Zed"}, placedNames(result))
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "u4", result.Failed[0].UserID)
	assert.Equal(t, "Invalid shift type", result.Failed[0].Reason)
}

// =============================================================================
// BALANCED-COVERAGE TESTS
// =============================================================================

func TestBalancedCoverage_UsesShiftThirds(t *testing.T) {
	result := breaks.BalancedCoverage(ladderInput(agent("u1", "Alice", breaks.ShiftAM)))

	require.Len(t, result.Schedules, 1)
	b := result.Schedules[0].Breaks
	thirds := breaks.CalculateShiftThirds(breaks.ShiftAM, standardHours())
	assert.True(t, breaks.Minutes(b.HB1) >= thirds.Early.Start && breaks.Minutes(b.HB1) < thirds.Early.End)
	assert.True(t, breaks.Minutes(b.B) >= thirds.Middle.Start && breaks.Minutes(b.B) < thirds.Middle.End)
	assert.True(t, breaks.Minutes(b.HB2) >= thirds.Late.Start && breaks.Minutes(b.HB2) < thirds.Late.End)
}

func TestBalancedCoverage_OrderSensitive(t *testing.T) {
	// GIVEN: Two AM agents with identical coverage everywhere
	alice := agent("u1", "Alice", breaks.ShiftAM)
	bob := agent("u2", "Bob", breaks.ShiftAM)

	// WHEN: Running in both orders
	forward := breaksByName(breaks.BalancedCoverage(ladderInput(alice, bob)))
	reverse := breaksByName(breaks.BalancedCoverage(ladderInput(bob, alice)))

	// THEN: Whoever goes first takes the earliest best slots. The middle
	// third starts at 11:40, so B lands on 11:45; the second B skips both
	// slots the first one holds.
	first := breaks.BreakTimes{HB1: "09:00:00", B: "11:45:00", HB2: "14:30:00"}
	second := breaks.BreakTimes{HB1: "09:15:00", B: "12:15:00", HB2: "14:45:00"}
	assert.Equal(t, first, forward["Alice"])
	assert.Equal(t, second, forward["Bob"])
	assert.Equal(t, first, reverse["Bob"])
	assert.Equal(t, second, reverse["Alice"])
}

func TestBalancedCoverage_StaysOnGridUnderZeroFloor(t *testing.T) {
	// GIVEN: Three AM agents and a coverage rule that can never block
	in := ladderInput(
		agent("u1", "Alice", breaks.ShiftAM),
		agent("u2", "Bob", breaks.ShiftAM),
		agent("u3", "Carol", breaks.ShiftAM),
	)
	in.Rules = []breaks.Rule{rule("Floor zero", breaks.CoverageParams{MinAgents: 0})}

	// WHEN
	result := breaks.BalancedCoverage(in)

	// THEN: Everyone is placed on grid slots, B spans two of them
	require.Empty(t, result.Failed)
	require.Len(t, result.Schedules, 3)
	for _, s := range result.Schedules {
		for at := range s.Intervals {
			assert.True(t, breaks.OnGrid(at), "%s has off-grid slot %s", s.Name, at)
		}
		assert.Equal(t, breaks.StatusB, s.Intervals[s.Breaks.B])
		assert.Equal(t, breaks.StatusB, s.Intervals[breaks.AddMinutesToTime(s.Breaks.B, breaks.SlotMinutes)])
	}

	// And coverage never goes negative
	for at, c := range result.Coverage {
		assert.GreaterOrEqual(t, c.In, 0, "slot %s", at)
	}
	assert.Equal(t, breaks.TimeOfDay("12:45:00"), breaksByName(result)["Carol"].B)
}

func TestBalancedCoverage_UnknownShift(t *testing.T) {
	result := breaks.BalancedCoverage(ladderInput(agent("u1", "Alice", "NIGHT")))
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Invalid shift type", result.Failed[0].Reason)
}

func TestBalancedCoverage_RejectedAgentLeavesCoverage(t *testing.T) {
	// GIVEN: A single agent and a floor they cannot satisfy
	in := ladderInput(agent("u1", "Alice", breaks.ShiftAM))
	in.Rules = []breaks.Rule{rule("Minimum coverage", breaks.CoverageParams{MinAgents: 1})}

	result := breaks.BalancedCoverage(in)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, in.Coverage, result.Coverage)
}

// =============================================================================
// STAGGERED-TIMING TESTS
// =============================================================================

func TestStaggeredBreaks_QuarterPoints(t *testing.T) {
	assert.Equal(t,
		breaks.BreakTimes{HB1: "11:00:00", B: "13:00:00", HB2: "15:00:00"},
		breaks.StaggeredBreaks(breaks.ShiftWindow{Start: "09:00:00", End: "17:00:00"}))

	// 500 minutes: 665 → 11:00, 790 → 13:00, 915 → 15:15
	assert.Equal(t,
		breaks.BreakTimes{HB1: "11:00:00", B: "13:00:00", HB2: "15:15:00"},
		breaks.StaggeredBreaks(breaks.ShiftWindow{Start: "09:00:00", End: "17:20:00"}))
}

func TestStaggeredTiming_AgentsIndependent(t *testing.T) {
	// GIVEN: Three AM agents
	in := ladderInput(
		agent("u1", "Alice", breaks.ShiftAM),
		agent("u2", "Bob", breaks.ShiftAM),
		agent("u3", "Carol", breaks.ShiftAM),
	)

	result := breaks.StaggeredTiming(in)

	// THEN: Same placement for everyone, coverage untouched
	require.Len(t, result.Schedules, 3)
	for _, s := range result.Schedules {
		assert.Equal(t, breaks.BreakTimes{HB1: "11:00:00", B: "13:00:00", HB2: "15:00:00"}, s.Breaks)
	}
	assert.Equal(t, in.Coverage, result.Coverage)
}
