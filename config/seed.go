package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/factory"
)

// =============================================================================
// SEED FILE
// =============================================================================
//
//   shift_hours:
//     - {shift_type: AM, start: "09:00", end: "17:00"}
//     - {shift_type: OFF}
//   settings:
//     - {shift_type: AM, hb1_start_column: 4, b_offset_minutes: 150,
//        hb2_offset_minutes: 150, ladder_increment: 1, max_agents_per_cycle: 4}
//   rules:
//     - name: Minimum coverage
//       rule_type: coverage
//       parameters: {min_agents: 2, alert_threshold: 3}
//   agents:
//     - {id: u1, name: Alice, department: Support}
//   roster:
//     - {date: "2026-03-02", user_id: u1, shift_type: AM}

// Seed is the decoded seed file.
type Seed struct {
	ShiftHours []factory.ShiftHoursJSON `yaml:"shift_hours"`
	Settings   []factory.SettingsJSON   `yaml:"settings"`
	Rules      []factory.RuleJSON       `yaml:"rules"`
	Agents     []SeedAgent              `yaml:"agents"`
	Roster     []SeedShift              `yaml:"roster"`
}

type SeedAgent struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Department string `yaml:"department"`
}

type SeedShift struct {
	Date      string `yaml:"date"`
	UserID    string `yaml:"user_id"`
	ShiftType string `yaml:"shift_type"`
}

// SeedTarget is where a seed is written.
type SeedTarget interface {
	SaveShiftHours(ctx context.Context, shift breaks.ShiftType, window *breaks.ShiftWindow) error
	SaveSettings(ctx context.Context, settings breaks.DistributionSettings) error
	SaveRule(ctx context.Context, rule breaks.Rule) error
	UpsertAgent(ctx context.Context, id, name, email, department string) error
	SaveShiftAssignment(ctx context.Context, userID, date string, shift breaks.ShiftType) error
}

// LoadSeed decodes a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return &seed, nil
}

// Apply validates every entry, then writes them. Nothing is written if any
// entry is invalid. Rules without an ID get one derived from their name so
// re-seeding updates instead of duplicating.
func (s *Seed) Apply(ctx context.Context, target SeedTarget) error {
	type hours struct {
		shift  breaks.ShiftType
		window *breaks.ShiftWindow
	}
	var parsedHours []hours
	for _, hj := range s.ShiftHours {
		shift, window, err := factory.ParseShiftHours(hj)
		if err != nil {
			return fmt.Errorf("shift_hours: %w", err)
		}
		parsedHours = append(parsedHours, hours{shift, window})
	}

	var settings []breaks.DistributionSettings
	for _, sj := range s.Settings {
		parsed, err := factory.ParseSettings(sj)
		if err != nil {
			return fmt.Errorf("settings: %w", err)
		}
		settings = append(settings, parsed)
	}

	rf := factory.NewRuleFactory()
	var rules []breaks.Rule
	for _, rj := range s.Rules {
		if rj.ID == "" {
			rj.ID = slug(rj.Name)
		}
		rule, err := rf.FromJSON(rj)
		if err != nil {
			return fmt.Errorf("rule %q: %w", rj.Name, err)
		}
		rules = append(rules, *rule)
	}

	var roster []SeedShift
	for _, r := range s.Roster {
		if _, err := breaks.ParseDate(r.Date); err != nil {
			return fmt.Errorf("roster %s: %w", r.UserID, err)
		}
		r.ShiftType = strings.ToUpper(strings.TrimSpace(r.ShiftType))
		roster = append(roster, r)
	}

	for _, h := range parsedHours {
		if err := target.SaveShiftHours(ctx, h.shift, h.window); err != nil {
			return err
		}
	}
	for _, st := range settings {
		if err := target.SaveSettings(ctx, st); err != nil {
			return err
		}
	}
	for _, r := range rules {
		if err := target.SaveRule(ctx, r); err != nil {
			return fmt.Errorf("save rule %q: %w", r.Name, err)
		}
	}
	for _, a := range s.Agents {
		if err := target.UpsertAgent(ctx, a.ID, a.Name, a.Email, a.Department); err != nil {
			return fmt.Errorf("save agent %s: %w", a.ID, err)
		}
	}
	for _, r := range roster {
		if err := target.SaveShiftAssignment(ctx, r.UserID, r.Date, breaks.ShiftType(r.ShiftType)); err != nil {
			return fmt.Errorf("save shift %s %s: %w", r.UserID, r.Date, err)
		}
	}
	return nil
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
