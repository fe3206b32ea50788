package breaks

import "context"

// =============================================================================
// COLLABORATORS - What the engine loads from and writes to
// =============================================================================
//
// The engine owns no persistence. Rosters, rules, shift hours and ladder
// settings come from these loaders; confirmed assignments go out through
// ScheduleWriter. Errors from any of them propagate to the caller untouched.
//
// Implementations:
//   - breaks/store: in-memory (tests, dev)
//   - store/sqlite: SQLite

// DaySchedule is the roster of one schedule date and its coverage.
type DaySchedule struct {
	Date     string
	Agents   []AgentSchedule
	Coverage CoverageSummary
}

// RosterLoader returns the roster for a date. An empty department means all.
type RosterLoader interface {
	GetScheduleForDate(ctx context.Context, date, department string) (*DaySchedule, error)
}

// RuleLoader returns the active rules, priority-ordered.
type RuleLoader interface {
	GetActiveRules(ctx context.Context) ([]Rule, error)
}

type ShiftHoursLoader interface {
	GetShiftHoursMap(ctx context.Context) (ShiftHours, error)
}

type SettingsLoader interface {
	GetSettings(ctx context.Context) (map[ShiftType]DistributionSettings, error)
}

// BreakScheduleUpdate replaces one agent's non-IN intervals for a date.
type BreakScheduleUpdate struct {
	UserID       string
	ScheduleDate string
	Intervals    []SlotAssignment
}

// UpdateResult reports whether the writer accepted an update.
type UpdateResult struct {
	Success    bool
	Violations []Violation
}

type ScheduleWriter interface {
	UpdateBreakSchedule(ctx context.Context, update BreakScheduleUpdate) (*UpdateResult, error)
}

// Store combines every collaborator.
type Store interface {
	RosterLoader
	RuleLoader
	ShiftHoursLoader
	SettingsLoader
	ScheduleWriter
}
