/*
rules.go - Configured break-schedule rules

PURPOSE:
  Defines the four rule variants (timing, coverage, ordering, distribution)
  and their configuration-time checks. Rules are loaded active-only and
  priority-ordered before each run; the engine never mutates them.

RULE PARAMETERS:
  Each rule type carries its own parameter struct implementing
  RuleParameters. ValidateRuleParameters is a type switch over the four
  variants; a rule whose parameters fail it cannot be activated.

  timing:       {min_minutes?, max_minutes?}   gap between consecutive break starts
  coverage:     {min_agents, alert_threshold?} in-seat floor while the agent is away
  ordering:     {sequence}                     default HB1 -> B -> HB2
  distribution: {tolerance_percentage}         spread versus same-shift peers

SEE ALSO:
  - validation.go: evaluating rules against a candidate
  - factory/rules.go: building parameters from JSON/YAML maps
*/
package breaks

import (
	"fmt"
	"sort"
)

type RuleType string

const (
	RuleTiming       RuleType = "timing"
	RuleCoverage     RuleType = "coverage"
	RuleOrdering     RuleType = "ordering"
	RuleDistribution RuleType = "distribution"
)

// RuleTypes lists every rule type.
var RuleTypes = []RuleType{RuleTiming, RuleCoverage, RuleOrdering, RuleDistribution}

// RuleParameters is implemented by each rule variant's parameter record.
type RuleParameters interface {
	RuleType() RuleType
}

// TimingParams bounds the gap between consecutive break starts.
type TimingParams struct {
	MinMinutes *int
	MaxMinutes *int
}

// CoverageParams sets the in-seat floor. Falling under AlertThreshold while
// staying at or above MinAgents yields a warning.
type CoverageParams struct {
	MinAgents      int
	AlertThreshold *int
}

// OrderingParams sets the required break sequence.
type OrderingParams struct {
	Sequence []BreakStatus
}

// DistributionParams bounds how far a placement may exceed the peer mean.
type DistributionParams struct {
	TolerancePercentage float64
}

func (TimingParams) RuleType() RuleType       { return RuleTiming }
func (CoverageParams) RuleType() RuleType     { return RuleCoverage }
func (OrderingParams) RuleType() RuleType     { return RuleOrdering }
func (DistributionParams) RuleType() RuleType { return RuleDistribution }

// EffectiveSequence returns the configured sequence or the default.
func (p OrderingParams) EffectiveSequence() []BreakStatus {
	if len(p.Sequence) == 0 {
		return BreakOrder
	}
	return p.Sequence
}

// Rule is one configured business rule.
type Rule struct {
	ID       string
	Name     string
	Params   RuleParameters
	Priority int
	IsActive bool
}

// Type returns the rule type carried by the parameters.
func (r Rule) Type() RuleType {
	if r.Params == nil {
		return ""
	}
	return r.Params.RuleType()
}

// ActiveRules filters to active rules ordered by priority, then name.
func ActiveRules(rules []Rule) []Rule {
	var active []Rule
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority < active[j].Priority
		}
		return active[i].Name < active[j].Name
	})
	return active
}

// =============================================================================
// CONFIGURATION-TIME VALIDATION
// =============================================================================

// ValidateRuleParameters checks a parameter record before the rule can be
// saved or activated. Returns nil when valid.
func ValidateRuleParameters(params RuleParameters) error {
	switch p := params.(type) {
	case TimingParams:
		return validateTiming(p)
	case CoverageParams:
		return validateCoverage(p)
	case OrderingParams:
		return validateOrdering(p)
	case DistributionParams:
		return validateDistribution(p)
	case nil:
		return fmt.Errorf("%w: missing parameters", ErrInvalidRuleParameters)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownRuleType, params)
	}
}

func validateTiming(p TimingParams) error {
	if p.MinMinutes != nil && *p.MinMinutes < 0 {
		return &RuleParameterError{RuleType: RuleTiming, Message: "min_minutes cannot be negative"}
	}
	if p.MaxMinutes != nil && *p.MaxMinutes < 0 {
		return &RuleParameterError{RuleType: RuleTiming, Message: "max_minutes cannot be negative"}
	}
	if p.MinMinutes != nil && p.MaxMinutes != nil && *p.MinMinutes > *p.MaxMinutes {
		return &RuleParameterError{RuleType: RuleTiming, Message: "min_minutes cannot be greater than max_minutes"}
	}
	return nil
}

func validateCoverage(p CoverageParams) error {
	if p.MinAgents < 0 {
		return &RuleParameterError{RuleType: RuleCoverage, Message: "min_agents cannot be negative"}
	}
	if p.AlertThreshold != nil && *p.AlertThreshold < p.MinAgents {
		return &RuleParameterError{RuleType: RuleCoverage, Message: "alert_threshold cannot be less than min_agents"}
	}
	return nil
}

func validateOrdering(p OrderingParams) error {
	if len(p.Sequence) == 0 {
		return nil
	}
	if len(p.Sequence) != len(BreakOrder) {
		return &RuleParameterError{RuleType: RuleOrdering, Message: "sequence must list HB1, B and HB2 exactly once"}
	}
	seen := make(map[BreakStatus]bool)
	for _, s := range p.Sequence {
		if !s.IsBreak() {
			return &RuleParameterError{RuleType: RuleOrdering, Message: fmt.Sprintf("sequence contains unknown break type %q", s)}
		}
		if seen[s] {
			return &RuleParameterError{RuleType: RuleOrdering, Message: fmt.Sprintf("sequence lists %s more than once", s)}
		}
		seen[s] = true
	}
	return nil
}

func validateDistribution(p DistributionParams) error {
	if p.TolerancePercentage < 0 || p.TolerancePercentage > 100 {
		return &RuleParameterError{RuleType: RuleDistribution, Message: "tolerance_percentage must be between 0 and 100"}
	}
	return nil
}
