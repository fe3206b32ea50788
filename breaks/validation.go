package breaks

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// VIOLATIONS
// =============================================================================

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one rule breach for one candidate. Never persisted.
type Violation struct {
	RuleName          string
	Message           string
	Severity          Severity
	AffectedIntervals []TimeOfDay
}

// ValidationResult is the outcome of GetRuleViolations.
type ValidationResult struct {
	Violations            []Violation
	HasBlockingViolations bool
}

// BlockingRuleNames returns the distinct rule names of error violations.
func (r ValidationResult) BlockingRuleNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, v := range r.Violations {
		if v.Severity == SeverityError && !seen[v.RuleName] {
			seen[v.RuleName] = true
			names = append(names, v.RuleName)
		}
	}
	return names
}

// BlockingSummary joins error violations as "rule: message; rule: message".
func (r ValidationResult) BlockingSummary() string {
	var parts []string
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			parts = append(parts, v.RuleName+": "+v.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// ValidationContext is what a candidate is checked against.
type ValidationContext struct {
	UserID    string
	ShiftType ShiftType
	// Existing holds already-accepted schedules plus the roster's
	// pre-existing schedules. Used by distribution.
	Existing []AgentSchedule
	// Coverage counts the candidate as IN at every slot.
	Coverage CoverageSummary
}

// =============================================================================
// RULE EVALUATION
// =============================================================================

// GetRuleViolations evaluates every rule against the candidate breaks.
// HasBlockingViolations is true iff any violation has error severity.
func GetRuleViolations(candidate BreakTimes, rules []Rule, vc ValidationContext) ValidationResult {
	var violations []Violation
	for _, rule := range rules {
		switch p := rule.Params.(type) {
		case TimingParams:
			violations = append(violations, checkTiming(rule.Name, p, candidate)...)
		case CoverageParams:
			violations = append(violations, checkCoverage(rule.Name, p, candidate, vc)...)
		case OrderingParams:
			violations = append(violations, checkOrdering(rule.Name, p, candidate)...)
		case DistributionParams:
			violations = append(violations, checkDistribution(rule.Name, p, candidate, vc)...)
		}
	}
	return NewValidationResult(violations)
}

// NewValidationResult derives the blocking flag from the violations.
func NewValidationResult(violations []Violation) ValidationResult {
	result := ValidationResult{Violations: violations}
	for _, v := range violations {
		if v.Severity == SeverityError {
			result.HasBlockingViolations = true
			break
		}
	}
	return result
}

type breakStart struct {
	status BreakStatus
	at     TimeOfDay
}

func presentBreaks(b BreakTimes) []breakStart {
	var out []breakStart
	for _, s := range BreakOrder {
		if at := b.Get(s); at != "" {
			out = append(out, breakStart{status: s, at: at})
		}
	}
	return out
}

func checkTiming(name string, p TimingParams, b BreakTimes) []Violation {
	starts := presentBreaks(b)
	sort.SliceStable(starts, func(i, j int) bool { return starts[i].at < starts[j].at })

	var out []Violation
	for i := 1; i < len(starts); i++ {
		prev, next := starts[i-1], starts[i]
		gap := Minutes(next.at) - Minutes(prev.at)
		affected := []TimeOfDay{prev.at, next.at}
		if p.MinMinutes != nil && gap < *p.MinMinutes {
			out = append(out, Violation{
				RuleName:          name,
				Message:           fmt.Sprintf("gap of %d minutes between %s and %s is below minimum %d", gap, prev.status, next.status, *p.MinMinutes),
				Severity:          SeverityError,
				AffectedIntervals: affected,
			})
		}
		if p.MaxMinutes != nil && gap > *p.MaxMinutes {
			out = append(out, Violation{
				RuleName:          name,
				Message:           fmt.Sprintf("gap of %d minutes between %s and %s exceeds maximum %d", gap, prev.status, next.status, *p.MaxMinutes),
				Severity:          SeverityError,
				AffectedIntervals: affected,
			})
		}
	}
	return out
}

func checkCoverage(name string, p CoverageParams, b BreakTimes, vc ValidationContext) []Violation {
	var below, alert []TimeOfDay
	lowest := 0
	first := true
	for _, slot := range b.Slots() {
		remaining := vc.Coverage.InAt(slot.At) - 1
		if first || remaining < lowest {
			lowest = remaining
			first = false
		}
		switch {
		case remaining < p.MinAgents:
			below = append(below, slot.At)
		case p.AlertThreshold != nil && remaining < *p.AlertThreshold:
			alert = append(alert, slot.At)
		}
	}

	var out []Violation
	if len(below) > 0 {
		out = append(out, Violation{
			RuleName:          name,
			Message:           fmt.Sprintf("coverage drops to %d, below minimum %d", lowest, p.MinAgents),
			Severity:          SeverityError,
			AffectedIntervals: below,
		})
	}
	if len(alert) > 0 {
		out = append(out, Violation{
			RuleName:          name,
			Message:           fmt.Sprintf("coverage falls under alert threshold %d", *p.AlertThreshold),
			Severity:          SeverityWarning,
			AffectedIntervals: alert,
		})
	}
	return out
}

func checkOrdering(name string, p OrderingParams, b BreakTimes) []Violation {
	seq := p.EffectiveSequence()
	var out []Violation
	for i := 0; i < len(seq); i++ {
		for j := i + 1; j < len(seq); j++ {
			earlier, later := b.Get(seq[i]), b.Get(seq[j])
			if earlier == "" || later == "" {
				continue
			}
			if later <= earlier {
				out = append(out, Violation{
					RuleName:          name,
					Message:           fmt.Sprintf("%s at %s must come after %s at %s", seq[j], later, seq[i], earlier),
					Severity:          SeverityError,
					AffectedIntervals: []TimeOfDay{earlier, later},
				})
			}
		}
	}
	return out
}

func checkDistribution(name string, p DistributionParams, b BreakTimes, vc ValidationContext) []Violation {
	var peers []AgentSchedule
	for _, s := range vc.Existing {
		if s.UserID == vc.UserID || s.ShiftType != vc.ShiftType {
			continue
		}
		peers = append(peers, s)
	}
	if len(peers) == 0 {
		return nil
	}

	var out []Violation
	for _, status := range BreakOrder {
		at := b.Get(status)
		if at == "" {
			continue
		}
		counts := make(map[TimeOfDay]int)
		total := 0
		for _, peer := range peers {
			if peerAt := peerBreak(peer, status); peerAt != "" {
				counts[peerAt]++
				total++
			}
		}
		if total == 0 {
			continue
		}
		mean := float64(total) / float64(len(counts))
		limit := mean * (1 + p.TolerancePercentage/100)
		if n := counts[at] + 1; float64(n) > limit {
			out = append(out, Violation{
				RuleName:          name,
				Message:           fmt.Sprintf("%d agents on %s at %s exceeds group mean %.2f by more than %.0f%%", n, status, at, mean, p.TolerancePercentage),
				Severity:          SeverityWarning,
				AffectedIntervals: []TimeOfDay{at},
			})
		}
	}
	return out
}

func peerBreak(s AgentSchedule, status BreakStatus) TimeOfDay {
	if at := s.Breaks.Get(status); at != "" {
		return at
	}
	return BreaksFromIntervals(s.Intervals).Get(status)
}
