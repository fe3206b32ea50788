/*
Package factory provides JSON/YAML to Go rule conversion.

PURPOSE:
  Break-schedule rules arrive as {rule_type, parameters} where the shape of
  parameters depends on rule_type. The factory turns that loose shape into
  the typed breaks.RuleParameters variant and validates it, so nothing
  downstream ever probes a map for keys.

JSON SCHEMA:
  {
    "id": "gap-60-180",
    "name": "Gap between breaks",
    "rule_type": "timing",
    "parameters": {"min_minutes": 60, "max_minutes": 180},
    "priority": 1,
    "is_active": true
  }

  coverage:     {"min_agents": 3, "alert_threshold": 5}
  ordering:     {"sequence": ["HB1", "B", "HB2"]}
  distribution: {"tolerance_percentage": 20}

  Ladder settings and shift hours use the same factory so the API, the
  SQLite store and the YAML seed file all share one decoding path.

SEE ALSO:
  - breaks/rules.go: parameter types and ValidateRuleParameters
  - config/seed.go: YAML seed file
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/workforce-portal/breaks"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleJSON is the JSON representation of a rule.
type RuleJSON struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	RuleType   string         `json:"rule_type" yaml:"rule_type"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
	Priority   int            `json:"priority" yaml:"priority"`
	IsActive   *bool          `json:"is_active,omitempty" yaml:"is_active,omitempty"` // default true
}

type timingJSON struct {
	MinMinutes *int `json:"min_minutes,omitempty"`
	MaxMinutes *int `json:"max_minutes,omitempty"`
}

type coverageJSON struct {
	MinAgents      *int `json:"min_agents"`
	AlertThreshold *int `json:"alert_threshold,omitempty"`
}

type orderingJSON struct {
	Sequence []string `json:"sequence,omitempty"`
}

type distributionJSON struct {
	TolerancePercentage *float64 `json:"tolerance_percentage"`
}

// SettingsJSON is one shift's ladder configuration.
type SettingsJSON struct {
	ShiftType         string `json:"shift_type" yaml:"shift_type"`
	HB1StartColumn    int    `json:"hb1_start_column" yaml:"hb1_start_column"`
	BOffsetMinutes    int    `json:"b_offset_minutes" yaml:"b_offset_minutes"`
	HB2OffsetMinutes  int    `json:"hb2_offset_minutes" yaml:"hb2_offset_minutes"`
	LadderIncrement   int    `json:"ladder_increment" yaml:"ladder_increment"`
	MaxAgentsPerCycle int    `json:"max_agents_per_cycle" yaml:"max_agents_per_cycle"`
}

// ShiftHoursJSON is one shift's in-seat window.
type ShiftHoursJSON struct {
	ShiftType string `json:"shift_type" yaml:"shift_type"`
	Start     string `json:"start" yaml:"start"`
	End       string `json:"end" yaml:"end"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts JSON rules to breaks.Rule.
type RuleFactory struct{}

// NewRuleFactory creates a new rule factory.
func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParseRule parses a JSON string into a validated Rule.
func (f *RuleFactory) ParseRule(jsonStr string) (*breaks.Rule, error) {
	var rj RuleJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("failed to parse rule JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// FromJSON converts RuleJSON to a validated Rule.
func (f *RuleFactory) FromJSON(rj RuleJSON) (*breaks.Rule, error) {
	if strings.TrimSpace(rj.Name) == "" {
		return nil, fmt.Errorf("%w: rule name is required", breaks.ErrInvalidRuleParameters)
	}
	params, err := f.ParseParameters(rj.RuleType, rj.Parameters)
	if err != nil {
		return nil, err
	}
	active := true
	if rj.IsActive != nil {
		active = *rj.IsActive
	}
	return &breaks.Rule{
		ID:       rj.ID,
		Name:     rj.Name,
		Params:   params,
		Priority: rj.Priority,
		IsActive: active,
	}, nil
}

// ParseParameters builds and validates the parameter variant for ruleType.
func (f *RuleFactory) ParseParameters(ruleType string, raw map[string]any) (breaks.RuleParameters, error) {
	params, err := decodeParameters(breaks.RuleType(strings.ToLower(strings.TrimSpace(ruleType))), raw)
	if err != nil {
		return nil, err
	}
	if err := breaks.ValidateRuleParameters(params); err != nil {
		return nil, err
	}
	return params, nil
}

func decodeParameters(ruleType breaks.RuleType, raw map[string]any) (breaks.RuleParameters, error) {
	switch ruleType {
	case breaks.RuleTiming:
		var j timingJSON
		if err := remarshal(raw, &j); err != nil {
			return nil, paramError(ruleType, err)
		}
		return breaks.TimingParams{MinMinutes: j.MinMinutes, MaxMinutes: j.MaxMinutes}, nil

	case breaks.RuleCoverage:
		var j coverageJSON
		if err := remarshal(raw, &j); err != nil {
			return nil, paramError(ruleType, err)
		}
		if j.MinAgents == nil {
			return nil, &breaks.RuleParameterError{RuleType: ruleType, Message: "min_agents is required"}
		}
		return breaks.CoverageParams{MinAgents: *j.MinAgents, AlertThreshold: j.AlertThreshold}, nil

	case breaks.RuleOrdering:
		var j orderingJSON
		if err := remarshal(raw, &j); err != nil {
			return nil, paramError(ruleType, err)
		}
		p := breaks.OrderingParams{}
		for _, s := range j.Sequence {
			p.Sequence = append(p.Sequence, breaks.BreakStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
		return p, nil

	case breaks.RuleDistribution:
		var j distributionJSON
		if err := remarshal(raw, &j); err != nil {
			return nil, paramError(ruleType, err)
		}
		if j.TolerancePercentage == nil {
			return nil, &breaks.RuleParameterError{RuleType: ruleType, Message: "tolerance_percentage is required"}
		}
		return breaks.DistributionParams{TolerancePercentage: *j.TolerancePercentage}, nil
	}
	return nil, fmt.Errorf("%w: %q", breaks.ErrUnknownRuleType, ruleType)
}

// ParametersToMap is the inverse of ParseParameters, for storage and
// responses.
func ParametersToMap(params breaks.RuleParameters) map[string]any {
	out := make(map[string]any)
	switch p := params.(type) {
	case breaks.TimingParams:
		if p.MinMinutes != nil {
			out["min_minutes"] = *p.MinMinutes
		}
		if p.MaxMinutes != nil {
			out["max_minutes"] = *p.MaxMinutes
		}
	case breaks.CoverageParams:
		out["min_agents"] = p.MinAgents
		if p.AlertThreshold != nil {
			out["alert_threshold"] = *p.AlertThreshold
		}
	case breaks.OrderingParams:
		seq := make([]string, 0, len(p.Sequence))
		for _, s := range p.EffectiveSequence() {
			seq = append(seq, string(s))
		}
		out["sequence"] = seq
	case breaks.DistributionParams:
		out["tolerance_percentage"] = p.TolerancePercentage
	}
	return out
}

// ToJSON renders a rule in its wire shape.
func ToJSON(r breaks.Rule) RuleJSON {
	active := r.IsActive
	return RuleJSON{
		ID:         r.ID,
		Name:       r.Name,
		RuleType:   string(r.Type()),
		Parameters: ParametersToMap(r.Params),
		Priority:   r.Priority,
		IsActive:   &active,
	}
}

// remarshal moves a loosely typed map into a typed struct. Maps decoded from
// YAML and JSON share this path.
func remarshal(raw map[string]any, out any) error {
	if raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func paramError(ruleType breaks.RuleType, err error) error {
	return &breaks.RuleParameterError{RuleType: ruleType, Message: err.Error()}
}

// =============================================================================
// SETTINGS & SHIFT HOURS
// =============================================================================

// ParseSettings converts ladder settings and rejects nonsense values.
func ParseSettings(sj SettingsJSON) (breaks.DistributionSettings, error) {
	shift := breaks.ShiftType(strings.ToUpper(strings.TrimSpace(sj.ShiftType)))
	if !shift.IsSchedulable() {
		return breaks.DistributionSettings{}, fmt.Errorf("%w: settings for %q", breaks.ErrInvalidShift, sj.ShiftType)
	}
	if sj.HB1StartColumn < 0 || sj.HB1StartColumn >= breaks.ColumnCount {
		return breaks.DistributionSettings{}, fmt.Errorf("%w: hb1_start_column %d outside 0..%d",
			breaks.ErrInvalidRuleParameters, sj.HB1StartColumn, breaks.ColumnCount-1)
	}
	if sj.MaxAgentsPerCycle < 0 {
		return breaks.DistributionSettings{}, fmt.Errorf("%w: max_agents_per_cycle cannot be negative", breaks.ErrInvalidRuleParameters)
	}
	return breaks.DistributionSettings{
		ShiftType:         shift,
		HB1StartColumn:    sj.HB1StartColumn,
		BOffsetMinutes:    sj.BOffsetMinutes,
		HB2OffsetMinutes:  sj.HB2OffsetMinutes,
		LadderIncrement:   sj.LadderIncrement,
		MaxAgentsPerCycle: sj.MaxAgentsPerCycle,
	}, nil
}

// SettingsToJSON renders ladder settings in their wire shape.
func SettingsToJSON(s breaks.DistributionSettings) SettingsJSON {
	return SettingsJSON{
		ShiftType:         string(s.ShiftType),
		HB1StartColumn:    s.HB1StartColumn,
		BOffsetMinutes:    s.BOffsetMinutes,
		HB2OffsetMinutes:  s.HB2OffsetMinutes,
		LadderIncrement:   s.LadderIncrement,
		MaxAgentsPerCycle: s.MaxAgentsPerCycle,
	}
}

// ParseShiftHours converts one shift window. Both ends sit on slot
// boundaries and end must come after start.
func ParseShiftHours(hj ShiftHoursJSON) (breaks.ShiftType, *breaks.ShiftWindow, error) {
	shift := breaks.ShiftType(strings.ToUpper(strings.TrimSpace(hj.ShiftType)))
	if shift == "" {
		return "", nil, fmt.Errorf("%w: shift_type is required", breaks.ErrInvalidShift)
	}
	if shift == breaks.ShiftOFF {
		return shift, nil, nil
	}
	start, err := breaks.ParseTimeOfDay(hj.Start)
	if err != nil {
		return "", nil, err
	}
	end, err := breaks.ParseTimeOfDay(hj.End)
	if err != nil {
		return "", nil, err
	}
	if !breaks.OnGrid(start) || !breaks.OnGrid(end) {
		return "", nil, fmt.Errorf("%w: %s window %s-%s is not on 15-minute boundaries", breaks.ErrInvalidTime, shift, start, end)
	}
	window := &breaks.ShiftWindow{Start: start, End: end}
	if window.Duration() <= 0 {
		return "", nil, fmt.Errorf("%w: %s window %s-%s is empty", breaks.ErrInvalidTime, shift, start, end)
	}
	return shift, window, nil
}
