/*
preview.go - Preview/apply orchestrator

PURPOSE:
  Runs one strategy for a schedule date and reports what it would do. Nothing
  is written until ApplyDistribution is called with the preview.

PREVIEW FLOW:
  1. Load roster, active rules, shift hours and ladder settings
  2. Pick targets: every schedulable agent (apply_mode=all) or only agents
     with no break yet (apply_mode=only_unscheduled)
  3. Rebuild baseline coverage with targets back at IN
  4. Run the strategy
  5. Recompute coverage for the day as it would be after apply, and derive
     statistics and rule compliance from it
  6. Attach a unified diff of current versus proposed breaks

APPLY:
  One independent write per proposed agent. Writes touch disjoint
  (agent, date) keys, so they run concurrently with a bounded group. Agents
  with no non-IN intervals are skipped.

SEE ALSO:
  - strategy.go: the strategies
  - store.go: collaborator interfaces
*/
package breaks

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// REQUEST / RESULT TYPES
// =============================================================================

type ApplyMode string

const (
	ApplyModeAll             ApplyMode = "all"
	ApplyModeOnlyUnscheduled ApplyMode = "only_unscheduled"
)

// ParseApplyMode maps a request string to an apply mode. Empty means all.
func ParseApplyMode(s string) (ApplyMode, error) {
	switch ApplyMode(strings.TrimSpace(strings.ToLower(s))) {
	case "", ApplyModeAll:
		return ApplyModeAll, nil
	case ApplyModeOnlyUnscheduled:
		return ApplyModeOnlyUnscheduled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidApplyMode, s)
}

// PreviewRequest selects what to distribute.
type PreviewRequest struct {
	ScheduleDate string
	Department   string
	Strategy     StrategyName
	ApplyMode    ApplyMode
}

// RuleCompliance counts violations across every proposed schedule.
type RuleCompliance struct {
	Total    int
	Blocking int
	Warning  int
}

// Preview is the ephemeral result of one distribution run.
type Preview struct {
	ID                string
	ScheduleDate      string
	Department        string
	Strategy          StrategyName
	ApplyMode         ApplyMode
	ProposedSchedules []AgentSchedule
	CoverageStats     CoverageStats
	RuleCompliance    RuleCompliance
	FailedAgents      []FailedAgent
	Diff              string
	GeneratedAt       time.Time
}

// RejectedWrite is a proposed schedule the writer refused.
type RejectedWrite struct {
	UserID     string
	Violations []Violation
}

// ApplySummary reports the outcome of ApplyDistribution.
type ApplySummary struct {
	Applied  int
	Skipped  int
	Rejected []RejectedWrite
}

// =============================================================================
// DISTRIBUTOR
// =============================================================================

// DefaultApplyConcurrency bounds concurrent writes when none is configured.
const DefaultApplyConcurrency = 4

// Distributor orchestrates preview and apply over a Store.
type Distributor struct {
	store            Store
	applyConcurrency int
	now              func() time.Time
}

// Option configures a Distributor.
type Option func(*Distributor)

// WithApplyConcurrency bounds concurrent writes during apply.
func WithApplyConcurrency(n int) Option {
	return func(d *Distributor) {
		if n > 0 {
			d.applyConcurrency = n
		}
	}
}

// WithClock overrides the preview timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Distributor) { d.now = now }
}

// NewDistributor creates a distributor.
func NewDistributor(store Store, opts ...Option) *Distributor {
	d := &Distributor{
		store:            store,
		applyConcurrency: DefaultApplyConcurrency,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// dayContext is everything loaded for one run.
type dayContext struct {
	roster   *DaySchedule
	rules    []Rule
	hours    ShiftHours
	settings map[ShiftType]DistributionSettings
}

func (d *Distributor) load(ctx context.Context, date, department string) (*dayContext, error) {
	roster, err := d.store.GetScheduleForDate(ctx, date, department)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if roster == nil {
		roster = &DaySchedule{Date: date, Coverage: make(CoverageSummary)}
	}
	rules, err := d.store.GetActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	hours, err := d.store.GetShiftHoursMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shift hours: %w", err)
	}
	settings, err := d.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &dayContext{
		roster:   roster,
		rules:    ActiveRules(rules),
		hours:    hours,
		settings: settings,
	}, nil
}

// =============================================================================
// PREVIEW
// =============================================================================

// GenerateDistributionPreview runs the requested strategy without writing
// anything.
func (d *Distributor) GenerateDistributionPreview(ctx context.Context, req PreviewRequest) (*Preview, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = DefaultStrategy
	}
	mode := req.ApplyMode
	if mode == "" {
		mode = ApplyModeAll
	}
	if mode != ApplyModeAll && mode != ApplyModeOnlyUnscheduled {
		return nil, fmt.Errorf("%w: %q", ErrInvalidApplyMode, mode)
	}

	day, err := d.load(ctx, req.ScheduleDate, req.Department)
	if err != nil {
		return nil, err
	}

	targets, existing := splitTargets(day.roster.Agents, mode, day.hours)
	baseline := BuildCoverageSummary(append(append([]AgentSchedule{}, existing...), targets...))

	result, err := Distribute(strategy, DistributionInput{
		Agents:     targets,
		Existing:   existing,
		Coverage:   baseline,
		Rules:      day.rules,
		ShiftHours: day.hours,
		Settings:   day.settings,
	})
	if err != nil {
		return nil, err
	}

	final := BuildCoverageSummary(append(append([]AgentSchedule{}, existing...), result.Schedules...))

	preview := &Preview{
		ID:                uuid.NewString(),
		ScheduleDate:      req.ScheduleDate,
		Department:        req.Department,
		Strategy:          strategy,
		ApplyMode:         mode,
		ProposedSchedules: result.Schedules,
		CoverageStats:     final.Stats(),
		RuleCompliance:    complianceOf(result.Schedules, existing, final, day.rules),
		FailedAgents:      result.Failed,
		GeneratedAt:       d.now(),
	}
	preview.Diff, err = scheduleDiff(day.roster.Agents, result.Schedules)
	if err != nil {
		return nil, fmt.Errorf("render diff: %w", err)
	}

	log.Printf("[Distribution] %s %s: %d proposed, %d failed (strategy=%s, mode=%s)",
		req.ScheduleDate, departmentLabel(req.Department), len(preview.ProposedSchedules),
		len(preview.FailedAgents), strategy, mode)
	return preview, nil
}

// splitTargets partitions the roster into agents to place and schedules left
// as they are. Targets come back reset to IN.
func splitTargets(agents []AgentSchedule, mode ApplyMode, hours ShiftHours) (targets, existing []AgentSchedule) {
	for _, a := range agents {
		target := a.ShiftType.IsSchedulable()
		if mode == ApplyModeOnlyUnscheduled && a.HasBreaks() {
			target = false
		}
		if target {
			targets = append(targets, a.Reset(hours.Window(a.ShiftType)))
		} else {
			existing = append(existing, a)
		}
	}
	return targets, existing
}

// complianceOf re-validates every proposed schedule against the final day.
// Each schedule's own breaks are released so it is checked as a candidate.
func complianceOf(proposed, existing []AgentSchedule, final CoverageSummary, rules []Rule) RuleCompliance {
	var out RuleCompliance
	for i, s := range proposed {
		others := make([]AgentSchedule, 0, len(existing)+len(proposed)-1)
		others = append(others, existing...)
		others = append(others, proposed[:i]...)
		others = append(others, proposed[i+1:]...)

		result := GetRuleViolations(s.Breaks, rules, ValidationContext{
			UserID:    s.UserID,
			ShiftType: s.ShiftType,
			Existing:  others,
			Coverage:  final.Release(s.Breaks.Slots()),
		})
		for _, v := range result.Violations {
			out.Total++
			switch v.Severity {
			case SeverityError:
				out.Blocking++
			case SeverityWarning:
				out.Warning++
			}
		}
	}
	return out
}

// scheduleDiff renders current and proposed breaks as one line per agent and
// returns their unified diff. Agents absent from proposed keep their line.
func scheduleDiff(current, proposed []AgentSchedule) (string, error) {
	before := make(map[string]AgentSchedule, len(current))
	after := make(map[string]AgentSchedule, len(current))
	for _, s := range current {
		before[s.UserID] = s
		after[s.UserID] = s
	}
	for _, s := range proposed {
		after[s.UserID] = s
	}

	diff := difflib.UnifiedDiff{
		A:        breakTable(before),
		B:        breakTable(after),
		FromFile: "current",
		ToFile:   "proposed",
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func breakTable(schedules map[string]AgentSchedule) []string {
	lines := make([]string, 0, len(schedules))
	for _, s := range schedules {
		b := s.Breaks
		if b.IsEmpty() {
			b = BreaksFromIntervals(s.Intervals)
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\tHB1=%s\tB=%s\tHB2=%s\n",
			s.Name, s.UserID, s.ShiftType, dash(b.HB1), dash(b.B), dash(b.HB2)))
	}
	sort.Strings(lines)
	return lines
}

func dash(t TimeOfDay) string {
	if t == "" {
		return "-"
	}
	return string(t)
}

func departmentLabel(department string) string {
	if department == "" {
		return "all departments"
	}
	return department
}

// =============================================================================
// APPLY
// =============================================================================

// ApplyDistribution writes every proposed schedule's non-IN intervals for the
// date. The first writer error cancels outstanding writes and is returned.
func (d *Distributor) ApplyDistribution(ctx context.Context, preview *Preview, date string) (ApplySummary, error) {
	var (
		mu      sync.Mutex
		summary ApplySummary
	)
	if preview == nil {
		return summary, ErrPreviewNotFound
	}
	if date == "" {
		date = preview.ScheduleDate
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.applyConcurrency)

	for _, schedule := range preview.ProposedSchedules {
		s := schedule
		intervals := s.BreakIntervals()
		if len(intervals) == 0 {
			mu.Lock()
			summary.Skipped++
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			res, err := d.store.UpdateBreakSchedule(ctx, BreakScheduleUpdate{
				UserID:       s.UserID,
				ScheduleDate: date,
				Intervals:    intervals,
			})
			if err != nil {
				return fmt.Errorf("update breaks for %s: %w", s.UserID, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if res != nil && !res.Success {
				summary.Rejected = append(summary.Rejected, RejectedWrite{UserID: s.UserID, Violations: res.Violations})
				return nil
			}
			summary.Applied++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	sort.Slice(summary.Rejected, func(i, j int) bool { return summary.Rejected[i].UserID < summary.Rejected[j].UserID })

	log.Printf("[Distribution] applied %s: %d written, %d skipped, %d rejected",
		date, summary.Applied, summary.Skipped, len(summary.Rejected))
	return summary, nil
}

// =============================================================================
// MANUAL UPDATE
// =============================================================================

// UpdateAgentBreaks validates hand-placed breaks for one agent against the
// active rules and the rest of the day, then writes them. Blocking
// violations are returned without writing.
func (d *Distributor) UpdateAgentBreaks(ctx context.Context, date, userID string, breaks BreakTimes) (*UpdateResult, error) {
	day, err := d.load(ctx, date, "")
	if err != nil {
		return nil, err
	}

	var agent *AgentSchedule
	others := make([]AgentSchedule, 0, len(day.roster.Agents))
	for i := range day.roster.Agents {
		if day.roster.Agents[i].UserID == userID {
			agent = &day.roster.Agents[i]
			continue
		}
		others = append(others, day.roster.Agents[i])
	}
	if agent == nil {
		return nil, fmt.Errorf("%w: agent %s on %s", ErrAgentNotFound, userID, date)
	}
	window := day.hours.Window(agent.ShiftType)
	if !agent.ShiftType.IsSchedulable() || window == nil {
		return nil, fmt.Errorf("%w: agent %s has shift %q", ErrInvalidShift, userID, agent.ShiftType)
	}
	if err := CheckPlacement(breaks, *window); err != nil {
		return nil, err
	}

	reset := agent.Reset(window)
	coverage := BuildCoverageSummary(append(others, reset))
	result := GetRuleViolations(breaks, day.rules, ValidationContext{
		UserID:    userID,
		ShiftType: agent.ShiftType,
		Existing:  others,
		Coverage:  coverage,
	})
	if result.HasBlockingViolations {
		return &UpdateResult{Success: false, Violations: result.Violations}, nil
	}

	proposed := NewAgentSchedule(agent.UserID, agent.Name, agent.Department, agent.ShiftType, window, breaks)
	res, err := d.store.UpdateBreakSchedule(ctx, BreakScheduleUpdate{
		UserID:       userID,
		ScheduleDate: date,
		Intervals:    proposed.BreakIntervals(),
	})
	if err != nil {
		return nil, fmt.Errorf("update breaks for %s: %w", userID, err)
	}
	if res == nil {
		res = &UpdateResult{Success: true}
	}
	// Warnings do not block; surface them alongside the writer's own.
	res.Violations = append(result.Violations, res.Violations...)
	return res, nil
}
