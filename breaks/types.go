/*
Package breaks provides the break-schedule auto-distribution engine.

PURPOSE:
  Places three break events per agent (HB1, B, HB2) on a 15-minute timeline
  for one schedule date, subject to configurable business rules. Everything
  else in the portal (rosters, requests, approvals) is plain CRUD; this
  package is where the ordering, coverage and rule-checking logic lives.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeOfDay:        "HH:MM:SS" wall-clock label for a 15-minute slot
  - BreakStatus:      IN, HB1, B, HB2
  - ShiftType:        AM, PM, BET, OFF
  - AgentSchedule:    one agent's breaks and slot map for one date
  - FailedAgent:      an agent a strategy could not place, and why

INVARIANTS:
  1. B always occupies two consecutive slots; HB1/HB2 one slot each.
  2. Intervals span the agent's in-seat window, every slot IN unless a break
     overrides it.
  3. Every non-OFF agent ends a run in exactly one of the proposed schedules
     or the failed agents.

SEE ALSO:
  - time.go: column model
  - coverage.go: CoverageSummary accumulator
  - rules.go / validation.go: rule engine
  - strategy.go: the three distribution strategies
  - preview.go: preview/apply orchestrator
*/
package breaks

import "sort"

// =============================================================================
// BREAK STATUS
// =============================================================================

type BreakStatus string

const (
	StatusIn  BreakStatus = "IN"
	StatusHB1 BreakStatus = "HB1"
	StatusB   BreakStatus = "B"
	StatusHB2 BreakStatus = "HB2"
)

// BreakOrder is the default break sequence.
var BreakOrder = []BreakStatus{StatusHB1, StatusB, StatusHB2}

func (s BreakStatus) IsBreak() bool {
	return s == StatusHB1 || s == StatusB || s == StatusHB2
}

// FullBreakMinutes is the fixed duration of B.
const FullBreakMinutes = 2 * SlotMinutes

// =============================================================================
// SHIFTS
// =============================================================================

type ShiftType string

const (
	ShiftAM  ShiftType = "AM"
	ShiftPM  ShiftType = "PM"
	ShiftBET ShiftType = "BET"
	ShiftOFF ShiftType = "OFF"
)

// LadderShiftOrder is the group order ladder distribution walks.
var LadderShiftOrder = []ShiftType{ShiftAM, ShiftBET, ShiftPM}

// IsSchedulable reports whether an agent on this shift takes breaks at all.
// OFF and empty shifts are silently skipped by every strategy.
func (s ShiftType) IsSchedulable() bool {
	return s != "" && s != ShiftOFF
}

// ShiftWindow is the in-seat window of a shift.
type ShiftWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Duration returns the window length in minutes.
func (w ShiftWindow) Duration() int {
	return Minutes(w.End) - Minutes(w.Start)
}

// ShiftHours maps a shift type to its window. A nil entry means the shift
// has no window (OFF, or not configured).
type ShiftHours map[ShiftType]*ShiftWindow

// Window returns the configured window for a shift, or nil.
func (h ShiftHours) Window(shift ShiftType) *ShiftWindow {
	if h == nil {
		return nil
	}
	return h[shift]
}

// =============================================================================
// AGENT SCHEDULE
// =============================================================================

// BreakTimes holds the start slot of each break. Empty means absent.
type BreakTimes struct {
	HB1 TimeOfDay
	B   TimeOfDay
	HB2 TimeOfDay
}

// IsEmpty reports whether no break is set.
func (b BreakTimes) IsEmpty() bool {
	return b.HB1 == "" && b.B == "" && b.HB2 == ""
}

// Get returns the start time for a break type.
func (b BreakTimes) Get(status BreakStatus) TimeOfDay {
	switch status {
	case StatusHB1:
		return b.HB1
	case StatusB:
		return b.B
	case StatusHB2:
		return b.HB2
	}
	return ""
}

// Slots returns the four occupied slots: HB1, B, B+15, HB2.
// Absent breaks contribute nothing.
func (b BreakTimes) Slots() []SlotAssignment {
	var slots []SlotAssignment
	if b.HB1 != "" {
		slots = append(slots, SlotAssignment{At: b.HB1, Status: StatusHB1})
	}
	if b.B != "" {
		slots = append(slots,
			SlotAssignment{At: b.B, Status: StatusB},
			SlotAssignment{At: AddMinutesToTime(b.B, SlotMinutes), Status: StatusB},
		)
	}
	if b.HB2 != "" {
		slots = append(slots, SlotAssignment{At: b.HB2, Status: StatusHB2})
	}
	return slots
}

// SlotAssignment is one labelled 15-minute slot.
type SlotAssignment struct {
	At     TimeOfDay
	Status BreakStatus
}

// AgentSchedule is one agent's break plan for one schedule date.
type AgentSchedule struct {
	UserID     string
	Name       string
	Department string
	ShiftType  ShiftType
	Breaks     BreakTimes
	Intervals  map[TimeOfDay]BreakStatus
}

// NewAgentSchedule builds a schedule whose intervals cover the window, all IN,
// with the given breaks laid over them.
func NewAgentSchedule(userID, name, department string, shift ShiftType, window *ShiftWindow, breaks BreakTimes) AgentSchedule {
	s := AgentSchedule{
		UserID:     userID,
		Name:       name,
		Department: department,
		ShiftType:  shift,
		Breaks:     breaks,
		Intervals:  make(map[TimeOfDay]BreakStatus),
	}
	if window != nil {
		for m := Minutes(window.Start); m < Minutes(window.End); m += SlotMinutes {
			s.Intervals[FormatMinutes(m)] = StatusIn
		}
	}
	for _, slot := range breaks.Slots() {
		s.Intervals[slot.At] = slot.Status
	}
	return s
}

// HasBreaks reports whether any break is assigned, either in Breaks or as a
// non-IN interval.
func (s AgentSchedule) HasBreaks() bool {
	if !s.Breaks.IsEmpty() {
		return true
	}
	for _, st := range s.Intervals {
		if st != StatusIn {
			return true
		}
	}
	return false
}

// BreakIntervals returns the non-IN intervals, ordered by time.
func (s AgentSchedule) BreakIntervals() []SlotAssignment {
	var out []SlotAssignment
	for at, st := range s.Intervals {
		if st != StatusIn {
			out = append(out, SlotAssignment{At: at, Status: st})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// Reset returns a copy with every break cleared back to IN over the window.
func (s AgentSchedule) Reset(window *ShiftWindow) AgentSchedule {
	return NewAgentSchedule(s.UserID, s.Name, s.Department, s.ShiftType, window, BreakTimes{})
}

// BreaksFromIntervals recovers break start times from a slot map. The first
// B slot in time order is the full-break start.
func BreaksFromIntervals(intervals map[TimeOfDay]BreakStatus) BreakTimes {
	var b BreakTimes
	times := make([]TimeOfDay, 0, len(intervals))
	for at := range intervals {
		times = append(times, at)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	for _, at := range times {
		switch intervals[at] {
		case StatusHB1:
			if b.HB1 == "" {
				b.HB1 = at
			}
		case StatusB:
			if b.B == "" {
				b.B = at
			}
		case StatusHB2:
			if b.HB2 == "" {
				b.HB2 = at
			}
		}
	}
	return b
}

// =============================================================================
// DISTRIBUTION RESULTS
// =============================================================================

// FailedAgent records an agent a strategy could not place.
type FailedAgent struct {
	UserID    string
	Name      string
	Reason    string
	BlockedBy []string // rule names, when rule violations blocked the agent
}

// DistributionSettings configures the ladder for one shift type.
type DistributionSettings struct {
	ShiftType         ShiftType
	HB1StartColumn    int
	BOffsetMinutes    int
	HB2OffsetMinutes  int
	LadderIncrement   int
	MaxAgentsPerCycle int
}
