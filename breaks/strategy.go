/*
strategy.go - Break distribution strategies

PURPOSE:
  Three interchangeable ways to place HB1/B/HB2 for a roster:

  Balanced-Coverage:
    HB1/B/HB2 go to the highest in-seat slot of the early/middle/late shift
    third. Each accepted agent updates coverage, so later agents see it.
    Order-sensitive: input order matters.

  Staggered-Timing:
    HB1/B/HB2 at the 1/4, 1/2, 3/4 points of the shift, floored to 15
    minutes. Coverage is read by the coverage rule but never updated, so
    agents do not influence each other.

  Ladder:
    Groups by shift (AM, BET, PM), name-sorted within a group, and walks a
    column cursor from the shift's hb1_start_column. The cursor advances on
    success AND on failure, and resets to the start column every
    max_agents_per_cycle agents.

FOLD:
  Each strategy is a left fold over the ordered agents. foldState carries
  the coverage accumulator, accepted schedules and failures; nothing is
  stored on a struct or package variable between steps.

SKIP vs FAIL:
  OFF/empty shift: skipped, no record. Anything else that cannot be placed
  becomes a FailedAgent, and the fold continues.
*/
package breaks

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// STRATEGY SELECTION
// =============================================================================

type StrategyName string

const (
	StrategyBalancedCoverage StrategyName = "balanced_coverage"
	StrategyStaggeredTiming  StrategyName = "staggered_timing"
	StrategyLadder           StrategyName = "ladder"
)

// StrategyNames lists every strategy. Each must have an entry in strategies.
var StrategyNames = []StrategyName{StrategyBalancedCoverage, StrategyStaggeredTiming, StrategyLadder}

// DefaultStrategy is used when no strategy is named.
const DefaultStrategy = StrategyLadder

// ParseStrategyName maps a request string to a strategy. Empty selects the
// default; anything unrecognised is an error.
func ParseStrategyName(s string) (StrategyName, error) {
	name := StrategyName(strings.TrimSpace(strings.ToLower(s)))
	if name == "" {
		return DefaultStrategy, nil
	}
	if _, ok := strategies[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	return name, nil
}

// Strategy places breaks for the input agents.
type Strategy func(in DistributionInput) DistributionResult

var strategies = map[StrategyName]Strategy{
	StrategyBalancedCoverage: BalancedCoverage,
	StrategyStaggeredTiming:  StaggeredTiming,
	StrategyLadder:           Ladder,
}

// Distribute runs the named strategy.
func Distribute(name StrategyName, in DistributionInput) (DistributionResult, error) {
	strategy, ok := strategies[name]
	if !ok {
		return DistributionResult{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return strategy(in), nil
}

// DistributionInput is everything a strategy reads.
type DistributionInput struct {
	// Agents to place, in processing order.
	Agents []AgentSchedule
	// Existing schedules that stay as they are; context for distribution checks.
	Existing   []AgentSchedule
	Coverage   CoverageSummary
	Rules      []Rule
	ShiftHours ShiftHours
	Settings   map[ShiftType]DistributionSettings
}

// DistributionResult is the strategy output.
type DistributionResult struct {
	Schedules []AgentSchedule
	Failed    []FailedAgent
	Coverage  CoverageSummary
}

// =============================================================================
// FOLD STATE
// =============================================================================

const (
	reasonInvalidShift  = "Invalid shift type"
	reasonNoThirds      = "Could not find suitable intervals in shift thirds"
	reasonRulesPrefix   = "Rule violations: "
	reasonNoSettingsFmt = "No distribution settings found for shift type %s"
)

type foldState struct {
	coverage CoverageSummary
	accepted []AgentSchedule
	failed   []FailedAgent
}

func newFoldState(in DistributionInput) foldState {
	cov := in.Coverage
	if cov == nil {
		cov = make(CoverageSummary)
	}
	return foldState{coverage: cov}
}

func (st foldState) fail(agent AgentSchedule, reason string, blockedBy []string) foldState {
	st.failed = append(st.failed, FailedAgent{
		UserID:    agent.UserID,
		Name:      agent.Name,
		Reason:    reason,
		BlockedBy: blockedBy,
	})
	return st
}

func (st foldState) result() DistributionResult {
	return DistributionResult{Schedules: st.accepted, Failed: st.failed, Coverage: st.coverage}
}

// place validates candidate breaks and either records a failure or commits
// the schedule. Returns the next state and whether the agent was placed.
func place(st foldState, in DistributionInput, agent AgentSchedule, window *ShiftWindow, candidate BreakTimes, updateCoverage bool) (foldState, bool) {
	context := make([]AgentSchedule, 0, len(in.Existing)+len(st.accepted))
	context = append(context, in.Existing...)
	context = append(context, st.accepted...)

	result := GetRuleViolations(candidate, in.Rules, ValidationContext{
		UserID:    agent.UserID,
		ShiftType: agent.ShiftType,
		Existing:  context,
		Coverage:  st.coverage,
	})
	if result.HasBlockingViolations {
		return st.fail(agent, reasonRulesPrefix+result.BlockingSummary(), result.BlockingRuleNames()), false
	}

	schedule := NewAgentSchedule(agent.UserID, agent.Name, agent.Department, agent.ShiftType, window, candidate)
	st.accepted = append(st.accepted, schedule)
	if updateCoverage {
		st.coverage = st.coverage.WithAssignment(candidate.Slots())
	}
	return st, true
}

// =============================================================================
// BALANCED-COVERAGE
// =============================================================================

// BalancedCoverage places each break at the best-covered slot of its shift
// third, feeding every acceptance back into coverage.
func BalancedCoverage(in DistributionInput) DistributionResult {
	st := newFoldState(in)
	for _, agent := range in.Agents {
		st = balancedStep(st, in, agent)
	}
	return st.result()
}

func balancedStep(st foldState, in DistributionInput, agent AgentSchedule) foldState {
	if !agent.ShiftType.IsSchedulable() {
		return st
	}
	thirds := CalculateShiftThirds(agent.ShiftType, in.ShiftHours)
	if thirds == nil {
		return st.fail(agent, reasonInvalidShift, nil)
	}

	hb1 := FindHighestCoverageIntervals(st.coverage, thirds.Early.Start, thirds.Early.End, 1)
	b := FindHighestCoverageIntervals(st.coverage, thirds.Middle.Start, thirds.Middle.End, 1)
	hb2 := FindHighestCoverageIntervals(st.coverage, thirds.Late.Start, thirds.Late.End, 1)
	if len(hb1) == 0 || len(b) == 0 || len(hb2) == 0 {
		return st.fail(agent, reasonNoThirds, nil)
	}

	candidate := BreakTimes{HB1: hb1[0], B: b[0], HB2: hb2[0]}
	st, _ = place(st, in, agent, in.ShiftHours.Window(agent.ShiftType), candidate, true)
	return st
}

// =============================================================================
// STAGGERED-TIMING
// =============================================================================

// StaggeredTiming places breaks at fixed fractions of the shift.
func StaggeredTiming(in DistributionInput) DistributionResult {
	st := newFoldState(in)
	for _, agent := range in.Agents {
		st = staggeredStep(st, in, agent)
	}
	return st.result()
}

// StaggeredBreaks returns the 1/4, 1/2, 3/4 placements for a window.
func StaggeredBreaks(window ShiftWindow) BreakTimes {
	start := Minutes(window.Start)
	duration := window.Duration()
	at := func(num int) TimeOfDay {
		return FormatMinutes(FloorToSlot(start + duration*num/4))
	}
	return BreakTimes{HB1: at(1), B: at(2), HB2: at(3)}
}

func staggeredStep(st foldState, in DistributionInput, agent AgentSchedule) foldState {
	if !agent.ShiftType.IsSchedulable() {
		return st
	}
	window := in.ShiftHours.Window(agent.ShiftType)
	if window == nil {
		return st.fail(agent, reasonInvalidShift, nil)
	}
	st, _ = place(st, in, agent, window, StaggeredBreaks(*window), false)
	return st
}

// =============================================================================
// LADDER
// =============================================================================

// LadderBreaks returns the placement for one cursor position.
func LadderBreaks(column int, settings DistributionSettings) BreakTimes {
	hb1 := ColumnToTime(column)
	b := AddMinutesToTime(hb1, settings.BOffsetMinutes)
	hb2 := AddMinutesToTime(b, FullBreakMinutes+settings.HB2OffsetMinutes)
	return BreakTimes{HB1: hb1, B: b, HB2: hb2}
}

// Ladder walks a per-shift column cursor over name-sorted agents.
func Ladder(in DistributionInput) DistributionResult {
	groups := make(map[ShiftType][]AgentSchedule)
	var unknown []AgentSchedule
	for _, agent := range in.Agents {
		if !agent.ShiftType.IsSchedulable() {
			continue
		}
		if !isLadderShift(agent.ShiftType) {
			unknown = append(unknown, agent)
			continue
		}
		groups[agent.ShiftType] = append(groups[agent.ShiftType], agent)
	}

	st := newFoldState(in)
	for _, shift := range LadderShiftOrder {
		group := groups[shift]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		st = ladderGroup(st, in, shift, group)
	}
	for _, agent := range unknown {
		st = st.fail(agent, reasonInvalidShift, nil)
	}
	return st.result()
}

func isLadderShift(shift ShiftType) bool {
	for _, s := range LadderShiftOrder {
		if s == shift {
			return true
		}
	}
	return false
}

func ladderGroup(st foldState, in DistributionInput, shift ShiftType, group []AgentSchedule) foldState {
	settings, ok := in.Settings[shift]
	if !ok {
		reason := fmt.Sprintf(reasonNoSettingsFmt, shift)
		for _, agent := range group {
			st = st.fail(agent, reason, nil)
		}
		return st
	}
	window := in.ShiftHours.Window(shift)

	cursor := settings.HB1StartColumn
	for i, agent := range group {
		if settings.MaxAgentsPerCycle > 0 && i > 0 && i%settings.MaxAgentsPerCycle == 0 {
			cursor = settings.HB1StartColumn
		}
		if window == nil {
			st = st.fail(agent, reasonInvalidShift, nil)
		} else {
			st, _ = place(st, in, agent, window, LadderBreaks(cursor, settings), true)
		}
		cursor += settings.LadderIncrement
	}
	return st
}
