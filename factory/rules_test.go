package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/factory"
)

func TestParseRule_Timing(t *testing.T) {
	rf := factory.NewRuleFactory()

	rule, err := rf.ParseRule(`{
		"id": "gap",
		"name": "Gap between breaks",
		"rule_type": "timing",
		"parameters": {"min_minutes": 60, "max_minutes": 180},
		"priority": 1
	}`)
	require.NoError(t, err)

	assert.Equal(t, "gap", rule.ID)
	assert.True(t, rule.IsActive, "is_active defaults to true")
	assert.Equal(t, breaks.RuleTiming, rule.Type())
	p, ok := rule.Params.(breaks.TimingParams)
	require.True(t, ok)
	assert.Equal(t, 60, *p.MinMinutes)
	assert.Equal(t, 180, *p.MaxMinutes)
}

func TestParseRule_Inactive(t *testing.T) {
	rule, err := factory.NewRuleFactory().ParseRule(`{"name": "Order", "rule_type": "ordering", "parameters": {}, "is_active": false}`)
	require.NoError(t, err)
	assert.False(t, rule.IsActive)
	assert.Equal(t, breaks.OrderingParams{}, rule.Params)
}

func TestParseParameters_Variants(t *testing.T) {
	rf := factory.NewRuleFactory()

	cov, err := rf.ParseParameters("coverage", map[string]any{"min_agents": 3, "alert_threshold": 5})
	require.NoError(t, err)
	assert.Equal(t, 3, cov.(breaks.CoverageParams).MinAgents)
	assert.Equal(t, 5, *cov.(breaks.CoverageParams).AlertThreshold)

	ord, err := rf.ParseParameters("Ordering", map[string]any{"sequence": []any{"b", "hb1", "hb2"}})
	require.NoError(t, err)
	assert.Equal(t, []breaks.BreakStatus{breaks.StatusB, breaks.StatusHB1, breaks.StatusHB2}, ord.(breaks.OrderingParams).Sequence)

	dist, err := rf.ParseParameters("distribution", map[string]any{"tolerance_percentage": 12.5})
	require.NoError(t, err)
	assert.Equal(t, 12.5, dist.(breaks.DistributionParams).TolerancePercentage)
}

func TestParseParameters_Errors(t *testing.T) {
	rf := factory.NewRuleFactory()

	tests := []struct {
		name     string
		ruleType string
		raw      map[string]any
		wantErr  error
		message  string
	}{
		{"unknown type", "lunch", nil, breaks.ErrUnknownRuleType, ""},
		{"coverage without min", "coverage", map[string]any{"alert_threshold": 3}, breaks.ErrInvalidRuleParameters, "coverage rule: min_agents is required"},
		{"distribution without tolerance", "distribution", map[string]any{}, breaks.ErrInvalidRuleParameters, "distribution rule: tolerance_percentage is required"},
		{"timing min above max", "timing", map[string]any{"min_minutes": 90, "max_minutes": 30}, breaks.ErrInvalidRuleParameters, "timing rule: min_minutes cannot be greater than max_minutes"},
		{"timing wrong type", "timing", map[string]any{"min_minutes": "soon"}, breaks.ErrInvalidRuleParameters, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rf.ParseParameters(tt.ruleType, tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, breaks.IsClientError(err))
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestFromJSON_NameRequired(t *testing.T) {
	_, err := factory.NewRuleFactory().FromJSON(factory.RuleJSON{RuleType: "ordering"})
	assert.ErrorIs(t, err, breaks.ErrInvalidRuleParameters)
}

func TestToJSON_RoundTripsThroughFactory(t *testing.T) {
	// GIVEN: A coverage rule rendered to its wire shape
	alert := 4
	original := breaks.Rule{
		ID:       "cov",
		Name:     "Minimum coverage",
		Params:   breaks.CoverageParams{MinAgents: 2, AlertThreshold: &alert},
		Priority: 3,
		IsActive: true,
	}
	rj := factory.ToJSON(original)
	assert.Equal(t, "coverage", rj.RuleType)

	// WHEN: Parsing it back
	parsed, err := factory.NewRuleFactory().FromJSON(rj)

	// THEN: Same rule
	require.NoError(t, err)
	assert.Equal(t, original, *parsed)
}

func TestParametersToMap_OrderingShowsDefault(t *testing.T) {
	m := factory.ParametersToMap(breaks.OrderingParams{})
	assert.Equal(t, []string{"HB1", "B", "HB2"}, m["sequence"])
}

// =============================================================================
// SETTINGS & SHIFT HOURS
// =============================================================================

func TestParseSettings(t *testing.T) {
	s, err := factory.ParseSettings(factory.SettingsJSON{
		ShiftType: "am", HB1StartColumn: 4, BOffsetMinutes: 150, HB2OffsetMinutes: 150,
		LadderIncrement: 1, MaxAgentsPerCycle: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, breaks.ShiftAM, s.ShiftType)
	assert.Equal(t, factory.SettingsJSON{
		ShiftType: "AM", HB1StartColumn: 4, BOffsetMinutes: 150, HB2OffsetMinutes: 150,
		LadderIncrement: 1, MaxAgentsPerCycle: 6,
	}, factory.SettingsToJSON(s))

	_, err = factory.ParseSettings(factory.SettingsJSON{ShiftType: "OFF"})
	assert.ErrorIs(t, err, breaks.ErrInvalidShift)

	_, err = factory.ParseSettings(factory.SettingsJSON{ShiftType: "PM", HB1StartColumn: breaks.ColumnCount})
	assert.ErrorIs(t, err, breaks.ErrInvalidRuleParameters)

	_, err = factory.ParseSettings(factory.SettingsJSON{ShiftType: "PM", MaxAgentsPerCycle: -1})
	assert.ErrorIs(t, err, breaks.ErrInvalidRuleParameters)
}

func TestParseShiftHours(t *testing.T) {
	shift, window, err := factory.ParseShiftHours(factory.ShiftHoursJSON{ShiftType: "bet", Start: "11:00", End: "19:00"})
	require.NoError(t, err)
	assert.Equal(t, breaks.ShiftBET, shift)
	assert.Equal(t, &breaks.ShiftWindow{Start: "11:00:00", End: "19:00:00"}, window)

	shift, window, err = factory.ParseShiftHours(factory.ShiftHoursJSON{ShiftType: "OFF"})
	require.NoError(t, err)
	assert.Equal(t, breaks.ShiftOFF, shift)
	assert.Nil(t, window)

	_, _, err = factory.ParseShiftHours(factory.ShiftHoursJSON{ShiftType: "AM", Start: "17:00", End: "09:00"})
	assert.ErrorIs(t, err, breaks.ErrInvalidTime)

	_, _, err = factory.ParseShiftHours(factory.ShiftHoursJSON{ShiftType: "AM", Start: "09:07", End: "17:00"})
	assert.ErrorIs(t, err, breaks.ErrInvalidTime)

	_, _, err = factory.ParseShiftHours(factory.ShiftHoursJSON{ShiftType: "PM", Start: "13:00", End: "20:50"})
	assert.ErrorIs(t, err, breaks.ErrInvalidTime)

	_, _, err = factory.ParseShiftHours(factory.ShiftHoursJSON{Start: "09:00", End: "17:00"})
	assert.ErrorIs(t, err, breaks.ErrInvalidShift)
}
