/*
scenarios.go - Demo scenarios for the break planner

PURPOSE:
  Loads a ready-made roster, ladder settings and rule set so the UI can be
  explored without hand-entering data. Loading a scenario wipes the store.

SCENARIOS:
  small-team      Four AM agents, default ladder, break order rule
  mixed-shifts    AM, BET and PM groups with a coverage floor and gap rule
  tight-coverage  Three agents and a floor of two: most placements fail
  ladder-cycle    Eight AM agents, cursor resets every four

  Every scenario rosters its agents on one date: the request's date, or
  tomorrow when omitted.

SEE ALSO:
  - config/seed.go: Seed validation and write order
*/
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/config"
	"github.com/warp/workforce-portal/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "small-team",
		Name:        "Small Team",
		Description: "Four AM agents on the default ladder with a break order rule",
		Category:    "ladder",
	},
	{
		ID:          "mixed-shifts",
		Name:        "Mixed Shifts",
		Description: "AM, BET and PM groups with a coverage floor and a gap rule",
		Category:    "coverage",
	},
	{
		ID:          "tight-coverage",
		Name:        "Tight Coverage",
		Description: "Three agents and a floor of two; most placements are blocked",
		Category:    "coverage",
	},
	{
		ID:          "ladder-cycle",
		Name:        "Ladder Cycle",
		Description: "Eight AM agents, the ladder restarts every four",
		Category:    "ladder",
	},
}

var scenarioBuilders = map[string]func(date string) *config.Seed{
	"small-team":     smallTeamSeed,
	"mixed-shifts":   mixedShiftsSeed,
	"tight-coverage": tightCoverageSeed,
	"ladder-cycle":   ladderCycleSeed,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario resets the store and loads a predefined scenario.
// POST /api/scenarios/load {"scenario_id": "...", "date": "YYYY-MM-DD"}
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	build, ok := scenarioBuilders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().AddDate(0, 0, 1).Format(breaks.DateLayout)
	} else if _, err := breaks.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := build(date).Apply(ctx, h.Store); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	log.Printf("[Scenarios] Loaded %s for %s", req.ScenarioID, date)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID, "date": date})
}

// =============================================================================
// SCENARIO SEEDS
// =============================================================================

func standardShiftHours() []factory.ShiftHoursJSON {
	return []factory.ShiftHoursJSON{
		{ShiftType: "AM", Start: "09:00", End: "17:00"},
		{ShiftType: "BET", Start: "11:00", End: "19:00"},
		{ShiftType: "PM", Start: "13:00", End: "21:00"},
		{ShiftType: "OFF"},
	}
}

func standardSettings(maxPerCycle int) []factory.SettingsJSON {
	return []factory.SettingsJSON{
		{ShiftType: "AM", HB1StartColumn: 4, BOffsetMinutes: 150, HB2OffsetMinutes: 150, LadderIncrement: 1, MaxAgentsPerCycle: maxPerCycle},
		{ShiftType: "BET", HB1StartColumn: 12, BOffsetMinutes: 150, HB2OffsetMinutes: 150, LadderIncrement: 1, MaxAgentsPerCycle: maxPerCycle},
		{ShiftType: "PM", HB1StartColumn: 20, BOffsetMinutes: 150, HB2OffsetMinutes: 150, LadderIncrement: 1, MaxAgentsPerCycle: maxPerCycle},
	}
}

func breakOrderRule() factory.RuleJSON {
	return factory.RuleJSON{
		Name:       "Break order",
		RuleType:   "ordering",
		Parameters: map[string]any{"sequence": []any{"HB1", "B", "HB2"}},
		Priority:   1,
	}
}

// roster puts every agent on the same shift for date.
func roster(date, shift string, agents []config.SeedAgent) []config.SeedShift {
	out := make([]config.SeedShift, 0, len(agents))
	for _, a := range agents {
		out = append(out, config.SeedShift{Date: date, UserID: a.ID, ShiftType: shift})
	}
	return out
}

func agents(prefix, department string, names ...string) []config.SeedAgent {
	out := make([]config.SeedAgent, 0, len(names))
	for i, name := range names {
		out = append(out, config.SeedAgent{
			ID:         fmt.Sprintf("%s-%03d", prefix, i+1),
			Name:       name,
			Department: department,
		})
	}
	return out
}

func smallTeamSeed(date string) *config.Seed {
	team := agents("agent", "Support", "Alice Johnson", "Bob Martinez", "Chloe Nguyen", "David Okafor")
	return &config.Seed{
		ShiftHours: standardShiftHours(),
		Settings:   standardSettings(4),
		Rules:      []factory.RuleJSON{breakOrderRule()},
		Agents:     team,
		Roster:     roster(date, "AM", team),
	}
}

func mixedShiftsSeed(date string) *config.Seed {
	am := agents("am", "Support", "Alice Johnson", "Bob Martinez", "Chloe Nguyen")
	bet := agents("bet", "Support", "Elena Petrova", "Farid Haddad", "Grace Kim")
	pm := agents("pm", "Support", "Hugo Silva", "Ines Moreau", "Jamal Wright")
	off := agents("off", "Support", "Kira Tanaka")

	var all []config.SeedAgent
	all = append(all, am...)
	all = append(all, bet...)
	all = append(all, pm...)
	all = append(all, off...)

	var shifts []config.SeedShift
	shifts = append(shifts, roster(date, "AM", am)...)
	shifts = append(shifts, roster(date, "BET", bet)...)
	shifts = append(shifts, roster(date, "PM", pm)...)
	shifts = append(shifts, roster(date, "OFF", off)...)

	return &config.Seed{
		ShiftHours: standardShiftHours(),
		Settings:   standardSettings(3),
		Rules: []factory.RuleJSON{
			breakOrderRule(),
			{
				Name:       "Minimum coverage",
				RuleType:   "coverage",
				Parameters: map[string]any{"min_agents": 2, "alert_threshold": 3},
				Priority:   2,
			},
			{
				Name:       "Gap between breaks",
				RuleType:   "timing",
				Parameters: map[string]any{"min_minutes": 60, "max_minutes": 240},
				Priority:   3,
			},
		},
		Agents: all,
		Roster: shifts,
	}
}

func tightCoverageSeed(date string) *config.Seed {
	team := agents("agent", "Support", "Alice Johnson", "Bob Martinez", "Chloe Nguyen")
	return &config.Seed{
		ShiftHours: standardShiftHours(),
		Settings:   standardSettings(4),
		Rules: []factory.RuleJSON{{
			Name:       "Minimum coverage",
			RuleType:   "coverage",
			Parameters: map[string]any{"min_agents": 2},
			Priority:   1,
		}},
		Agents: team,
		Roster: roster(date, "AM", team),
	}
}

func ladderCycleSeed(date string) *config.Seed {
	team := agents("agent", "Support",
		"Alice Johnson", "Bob Martinez", "Chloe Nguyen", "David Okafor",
		"Elena Petrova", "Farid Haddad", "Grace Kim", "Hugo Silva")
	return &config.Seed{
		ShiftHours: standardShiftHours(),
		Settings:   standardSettings(4),
		Rules:      []factory.RuleJSON{breakOrderRule()},
		Agents:     team,
		Roster:     roster(date, "AM", team),
	}
}
