/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's value objects from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Roster:
    ScheduleDTO, AgentScheduleDTO, BreakTimesDTO, CoverageSlotDTO

  Distribution:
    PreviewRequest, PreviewDTO, ApplyRequest, ApplyResponse, DistributionRunDTO

  Rules:
    factory.RuleJSON, ValidateRuleRequest, ValidateRuleResponse

  Configuration:
    factory.SettingsJSON, factory.ShiftHoursJSON

  Demo:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the factory, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: RuleJSON, SettingsJSON, ShiftHoursJSON
*/
package api

import (
	"sort"
	"time"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/store/sqlite"
)

// =============================================================================
// ROSTER
// =============================================================================

// BreakTimesDTO holds break start times; empty means not placed.
type BreakTimesDTO struct {
	HB1 string `json:"hb1,omitempty"`
	B   string `json:"b,omitempty"`
	HB2 string `json:"hb2,omitempty"`
}

// AgentScheduleDTO is one agent's breaks for a date.
type AgentScheduleDTO struct {
	UserID     string            `json:"user_id"`
	Name       string            `json:"name"`
	Department string            `json:"department,omitempty"`
	ShiftType  string            `json:"shift_type"`
	Breaks     BreakTimesDTO     `json:"breaks"`
	Intervals  map[string]string `json:"intervals"`
}

// CoverageSlotDTO is the agent count at one slot.
type CoverageSlotDTO struct {
	Time string `json:"time"`
	In   int    `json:"in"`
	HB1  int    `json:"hb1"`
	B    int    `json:"b"`
	HB2  int    `json:"hb2"`
}

// CoverageStatsDTO summarises in-seat counts.
type CoverageStatsDTO struct {
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Avg      float64 `json:"avg"`
	Variance float64 `json:"variance"`
}

// ScheduleDTO is the roster view of one date.
type ScheduleDTO struct {
	Date     string             `json:"date"`
	Agents   []AgentScheduleDTO `json:"agents"`
	Coverage []CoverageSlotDTO  `json:"coverage"`
	Stats    CoverageStatsDTO   `json:"stats"`
}

// UpdateBreaksRequest places breaks by hand.
type UpdateBreaksRequest struct {
	HB1 string `json:"hb1"`
	B   string `json:"b"`
	HB2 string `json:"hb2"`
}

// UpdateShiftRequest sets an agent's shift for a date.
type UpdateShiftRequest struct {
	ShiftType string `json:"shift_type"`
}

// ViolationDTO is one rule breach.
type ViolationDTO struct {
	RuleName          string   `json:"rule_name"`
	Message           string   `json:"message"`
	Severity          string   `json:"severity"`
	AffectedIntervals []string `json:"affected_intervals,omitempty"`
}

// UpdateResultDTO is the outcome of a manual break update.
type UpdateResultDTO struct {
	Success    bool           `json:"success"`
	Violations []ViolationDTO `json:"violations"`
}

// =============================================================================
// DISTRIBUTION
// =============================================================================

// PreviewRequest asks for a distribution preview.
type PreviewRequest struct {
	ScheduleDate string `json:"schedule_date"`
	Department   string `json:"department,omitempty"`
	Strategy     string `json:"strategy,omitempty"`
	ApplyMode    string `json:"apply_mode,omitempty"`
}

// FailedAgentDTO is an agent a strategy could not place.
type FailedAgentDTO struct {
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	Reason    string   `json:"reason"`
	BlockedBy []string `json:"blocked_by,omitempty"`
}

// RuleComplianceDTO counts violations across proposed schedules.
type RuleComplianceDTO struct {
	Total    int `json:"total"`
	Blocking int `json:"blocking"`
	Warning  int `json:"warning"`
}

// PreviewDTO is the response for a distribution preview.
type PreviewDTO struct {
	PreviewID         string             `json:"preview_id"`
	ScheduleDate      string             `json:"schedule_date"`
	Department        string             `json:"department,omitempty"`
	Strategy          string             `json:"strategy"`
	ApplyMode         string             `json:"apply_mode"`
	ProposedSchedules []AgentScheduleDTO `json:"proposed_schedules"`
	CoverageStats     CoverageStatsDTO   `json:"coverage_stats"`
	RuleCompliance    RuleComplianceDTO  `json:"rule_compliance"`
	FailedAgents      []FailedAgentDTO   `json:"failed_agents"`
	Diff              string             `json:"diff,omitempty"`
	GeneratedAt       string             `json:"generated_at"`
	ExpiresAt         string             `json:"expires_at"`
}

// ApplyRequest confirms a cached preview.
type ApplyRequest struct {
	PreviewID string `json:"preview_id"`
}

// RejectedWriteDTO is a proposed schedule the store refused.
type RejectedWriteDTO struct {
	UserID     string         `json:"user_id"`
	Violations []ViolationDTO `json:"violations,omitempty"`
}

// ApplyResponse reports what apply wrote.
type ApplyResponse struct {
	RunID    string             `json:"run_id"`
	Applied  int                `json:"applied"`
	Skipped  int                `json:"skipped"`
	Rejected []RejectedWriteDTO `json:"rejected"`
}

// DistributionRunDTO is one entry of the run history.
type DistributionRunDTO struct {
	ID           string           `json:"id"`
	PreviewID    string           `json:"preview_id"`
	ScheduleDate string           `json:"schedule_date"`
	Department   string           `json:"department,omitempty"`
	Strategy     string           `json:"strategy"`
	ApplyMode    string           `json:"apply_mode"`
	Trigger      string           `json:"trigger"`
	Status       string           `json:"status"`
	Proposed     int              `json:"proposed"`
	Applied      int              `json:"applied"`
	Skipped      int              `json:"skipped"`
	Rejected     int              `json:"rejected"`
	Failed       int              `json:"failed"`
	Coverage     CoverageStatsDTO `json:"coverage"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    string           `json:"created_at"`
}

// StrategyDTO describes a selectable strategy.
type StrategyDTO struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// =============================================================================
// RULES & AGENTS
// =============================================================================

// ValidateRuleRequest checks parameters without saving.
type ValidateRuleRequest struct {
	RuleType   string         `json:"rule_type"`
	Parameters map[string]any `json:"parameters"`
}

// ValidateRuleResponse reports parameter validity.
type ValidateRuleResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// AgentDTO represents an agent in API responses.
type AgentDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"` // "ladder" or "coverage"
}

// LoadScenarioRequest selects a scenario; Date defaults to tomorrow.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
	Date       string `json:"date,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toBreakTimesDTO(b breaks.BreakTimes) BreakTimesDTO {
	return BreakTimesDTO{HB1: string(b.HB1), B: string(b.B), HB2: string(b.HB2)}
}

func toAgentScheduleDTO(s breaks.AgentSchedule) AgentScheduleDTO {
	b := s.Breaks
	if b.IsEmpty() {
		b = breaks.BreaksFromIntervals(s.Intervals)
	}
	intervals := make(map[string]string, len(s.Intervals))
	for at, status := range s.Intervals {
		intervals[string(at)] = string(status)
	}
	return AgentScheduleDTO{
		UserID:     s.UserID,
		Name:       s.Name,
		Department: s.Department,
		ShiftType:  string(s.ShiftType),
		Breaks:     toBreakTimesDTO(b),
		Intervals:  intervals,
	}
}

func toAgentScheduleDTOs(schedules []breaks.AgentSchedule) []AgentScheduleDTO {
	dtos := make([]AgentScheduleDTO, 0, len(schedules))
	for _, s := range schedules {
		dtos = append(dtos, toAgentScheduleDTO(s))
	}
	return dtos
}

func toCoverageSlotDTOs(summary breaks.CoverageSummary) []CoverageSlotDTO {
	dtos := make([]CoverageSlotDTO, 0, len(summary))
	for at, c := range summary {
		dtos = append(dtos, CoverageSlotDTO{Time: string(at), In: c.In, HB1: c.HB1, B: c.B, HB2: c.HB2})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Time < dtos[j].Time })
	return dtos
}

func toCoverageStatsDTO(s breaks.CoverageStats) CoverageStatsDTO {
	return CoverageStatsDTO{Min: s.Min, Max: s.Max, Avg: s.Avg, Variance: s.Variance}
}

func toViolationDTOs(violations []breaks.Violation) []ViolationDTO {
	dtos := make([]ViolationDTO, 0, len(violations))
	for _, v := range violations {
		affected := make([]string, 0, len(v.AffectedIntervals))
		for _, at := range v.AffectedIntervals {
			affected = append(affected, string(at))
		}
		dtos = append(dtos, ViolationDTO{
			RuleName:          v.RuleName,
			Message:           v.Message,
			Severity:          string(v.Severity),
			AffectedIntervals: affected,
		})
	}
	return dtos
}

func toPreviewDTO(p *breaks.Preview, expiresAt time.Time) PreviewDTO {
	failed := make([]FailedAgentDTO, 0, len(p.FailedAgents))
	for _, f := range p.FailedAgents {
		failed = append(failed, FailedAgentDTO{UserID: f.UserID, Name: f.Name, Reason: f.Reason, BlockedBy: f.BlockedBy})
	}
	return PreviewDTO{
		PreviewID:         p.ID,
		ScheduleDate:      p.ScheduleDate,
		Department:        p.Department,
		Strategy:          string(p.Strategy),
		ApplyMode:         string(p.ApplyMode),
		ProposedSchedules: toAgentScheduleDTOs(p.ProposedSchedules),
		CoverageStats:     toCoverageStatsDTO(p.CoverageStats),
		RuleCompliance: RuleComplianceDTO{
			Total:    p.RuleCompliance.Total,
			Blocking: p.RuleCompliance.Blocking,
			Warning:  p.RuleCompliance.Warning,
		},
		FailedAgents: failed,
		Diff:         p.Diff,
		GeneratedAt:  p.GeneratedAt.Format(time.RFC3339),
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	}
}

func toDistributionRunDTO(r sqlite.DistributionRun) DistributionRunDTO {
	return DistributionRunDTO{
		ID:           r.ID,
		PreviewID:    r.PreviewID,
		ScheduleDate: r.ScheduleDate,
		Department:   r.Department,
		Strategy:     r.Strategy,
		ApplyMode:    r.ApplyMode,
		Trigger:      r.Trigger,
		Status:       r.Status,
		Proposed:     r.Proposed,
		Applied:      r.Applied,
		Skipped:      r.Skipped,
		Rejected:     r.Rejected,
		Failed:       r.Failed,
		Coverage: CoverageStatsDTO{
			Min:      r.CoverageMin,
			Max:      r.CoverageMax,
			Avg:      r.CoverageAvg,
			Variance: r.CoverageVariance,
		},
		Error:     r.Error,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func toAgentDTO(a sqlite.Agent) AgentDTO {
	dto := AgentDTO{ID: a.ID, Name: a.Name, Email: a.Email, Department: a.Department}
	if !a.CreatedAt.IsZero() {
		dto.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return dto
}
