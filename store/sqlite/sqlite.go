/*
Package sqlite provides a SQLite-backed implementation of the break engine's
collaborators.

PURPOSE:
  Implements breaks.Store (roster loader, rule loader, shift-hours loader,
  ladder settings loader, schedule writer) plus the CRUD the portal needs
  around it: agents, per-date shift assignments, rules, settings and the
  history of distribution runs.

INTERFACES IMPLEMENTED:
  breaks.RosterLoader:     GetScheduleForDate
  breaks.RuleLoader:       GetActiveRules
  breaks.ShiftHoursLoader: GetShiftHoursMap
  breaks.SettingsLoader:   GetSettings
  breaks.ScheduleWriter:   UpdateBreakSchedule

KEY TABLES:
  agents:                Agent records
  shift_assignments:     Which shift an agent works on a date
  break_intervals:       Non-IN slots per agent per date (IN is implied)
  shift_hours:           In-seat window per shift type
  break_rules:           Rule definitions, parameters as JSON
  distribution_settings: Ladder configuration per shift type
  distribution_runs:     One row per applied distribution

BREAK INTERVALS:
  Only break slots are stored. The roster loader rebuilds the full slot map
  from the shift window, so a changed window never leaves stale IN rows.
  UpdateBreakSchedule replaces an agent's rows for the date in one
  transaction.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, the same as the in-memory store.

USAGE:
  store, err := sqlite.New("./data/breaks.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  distributor := breaks.NewDistributor(store)

SEE ALSO:
  - breaks/store.go: Interface definitions
  - breaks/store/memory.go: In-memory implementation for testing
  - factory/rules.go: Rule parameter decoding
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/factory"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ breaks.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each :memory: connection is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		department TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_department ON agents(department);

	-- One shift per agent per date
	CREATE TABLE IF NOT EXISTS shift_assignments (
		user_id TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		schedule_date TEXT NOT NULL,
		shift_type TEXT NOT NULL,
		PRIMARY KEY (user_id, schedule_date)
	);

	CREATE INDEX IF NOT EXISTS idx_shift_assignments_date ON shift_assignments(schedule_date);

	-- Non-IN slots only
	CREATE TABLE IF NOT EXISTS break_intervals (
		user_id TEXT NOT NULL,
		schedule_date TEXT NOT NULL,
		interval_time TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('HB1', 'B', 'HB2')),
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, schedule_date, interval_time),
		FOREIGN KEY (user_id, schedule_date)
			REFERENCES shift_assignments(user_id, schedule_date) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_break_intervals_date ON break_intervals(schedule_date);

	CREATE TABLE IF NOT EXISTS shift_hours (
		shift_type TEXT PRIMARY KEY,
		start_time TEXT,
		end_time TEXT
	);

	CREATE TABLE IF NOT EXISTS break_rules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		rule_type TEXT NOT NULL,
		parameters_json TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS distribution_settings (
		shift_type TEXT PRIMARY KEY,
		hb1_start_column INTEGER NOT NULL,
		b_offset_minutes INTEGER NOT NULL,
		hb2_offset_minutes INTEGER NOT NULL,
		ladder_increment INTEGER NOT NULL,
		max_agents_per_cycle INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS distribution_runs (
		id TEXT PRIMARY KEY,
		preview_id TEXT NOT NULL,
		schedule_date TEXT NOT NULL,
		department TEXT,
		strategy TEXT NOT NULL,
		apply_mode TEXT NOT NULL,
		run_trigger TEXT NOT NULL,
		status TEXT NOT NULL,
		proposed INTEGER NOT NULL DEFAULT 0,
		applied INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		rejected INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		coverage_min INTEGER NOT NULL DEFAULT 0,
		coverage_max INTEGER NOT NULL DEFAULT 0,
		coverage_avg REAL NOT NULL DEFAULT 0,
		coverage_variance REAL NOT NULL DEFAULT 0,
		error TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_distribution_runs_date ON distribution_runs(schedule_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROSTER (breaks.RosterLoader, breaks.ScheduleWriter)
// =============================================================================

// GetScheduleForDate loads every agent with a shift on the date, rebuilds
// their slot maps from shift hours and stored breaks, and aggregates coverage.
// An empty department loads all departments. Agents come back ordered by
// name, then ID.
func (s *Store) GetScheduleForDate(ctx context.Context, date, department string) (*breaks.DaySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hours, err := s.shiftHours(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT a.id, a.name, a.department, sa.shift_type
		FROM shift_assignments sa
		JOIN agents a ON a.id = sa.user_id
		WHERE sa.schedule_date = ? AND (? = '' OR a.department = ?)
		ORDER BY a.name, a.id
	`
	rows, err := s.db.QueryContext(ctx, query, date, department, department)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	type rosterRow struct {
		id, name, department string
		shift                breaks.ShiftType
	}
	var roster []rosterRow
	for rows.Next() {
		var r rosterRow
		if err := rows.Scan(&r.id, &r.name, &r.department, &r.shift); err != nil {
			return nil, err
		}
		roster = append(roster, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	intervals, err := s.breakIntervals(ctx, date)
	if err != nil {
		return nil, err
	}

	day := &breaks.DaySchedule{Date: date}
	for _, r := range roster {
		b := breaks.BreaksFromIntervals(intervals[r.id])
		day.Agents = append(day.Agents,
			breaks.NewAgentSchedule(r.id, r.name, r.department, r.shift, hours.Window(r.shift), b))
	}
	day.Coverage = breaks.BuildCoverageSummary(day.Agents)
	return day, nil
}

func (s *Store) breakIntervals(ctx context.Context, date string) (map[string]map[breaks.TimeOfDay]breaks.BreakStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, interval_time, status FROM break_intervals WHERE schedule_date = ?",
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query break intervals: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[breaks.TimeOfDay]breaks.BreakStatus)
	for rows.Next() {
		var userID string
		var at breaks.TimeOfDay
		var status breaks.BreakStatus
		if err := rows.Scan(&userID, &at, &status); err != nil {
			return nil, err
		}
		if out[userID] == nil {
			out[userID] = make(map[breaks.TimeOfDay]breaks.BreakStatus)
		}
		out[userID][at] = status
	}
	return out, rows.Err()
}

// UpdateBreakSchedule replaces an agent's break slots for a date. Agents
// with no shift on the date are rejected with Success=false.
func (s *Store) UpdateBreakSchedule(ctx context.Context, update breaks.BreakScheduleUpdate) (*breaks.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shift_assignments WHERE user_id = ? AND schedule_date = ?",
		update.UserID, update.ScheduleDate,
	).Scan(&count); err != nil {
		return nil, err
	}
	if count == 0 {
		return &breaks.UpdateResult{Success: false}, nil
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM break_intervals WHERE user_id = ? AND schedule_date = ?",
		update.UserID, update.ScheduleDate,
	); err != nil {
		return nil, fmt.Errorf("failed to clear break intervals: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, slot := range update.Intervals {
		if slot.Status == breaks.StatusIn {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO break_intervals (user_id, schedule_date, interval_time, status, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, update.UserID, update.ScheduleDate, slot.At, slot.Status, now); err != nil {
			return nil, fmt.Errorf("failed to write break interval %s: %w", slot.At, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &breaks.UpdateResult{Success: true}, nil
}

// ClearBreaks removes every break on a date, leaving shifts in place.
func (s *Store) ClearBreaks(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM break_intervals WHERE schedule_date = ?", date)
	return err
}

// =============================================================================
// AGENT STORE
// =============================================================================

// Agent represents an agent record.
type Agent struct {
	ID         string
	Name       string
	Email      string
	Department string
	CreatedAt  time.Time
}

// SaveAgent saves an agent.
func (s *Store) SaveAgent(ctx context.Context, a Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO agents (id, name, email, department, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			department = excluded.department
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.Name, nullString(a.Email), a.Department,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// UpsertAgent saves an agent from loose fields (seed files).
func (s *Store) UpsertAgent(ctx context.Context, id, name, email, department string) error {
	return s.SaveAgent(ctx, Agent{ID: id, Name: name, Email: email, Department: department})
}

// GetAgent retrieves an agent by ID.
func (s *Store) GetAgent(ctx context.Context, id string) (*Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a Agent
	var email sql.NullString
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, department, created_at FROM agents WHERE id = ?",
		id,
	).Scan(&a.ID, &a.Name, &email, &a.Department, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.Email = email.String
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// ListAgents returns all agents, optionally filtered by department.
func (s *Store) ListAgents(ctx context.Context, department string) ([]Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, department, created_at FROM agents
		WHERE ? = '' OR department = ?
		ORDER BY name
	`, department, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var a Agent
		var email sql.NullString
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Name, &email, &a.Department, &createdAt); err != nil {
			return nil, err
		}
		a.Email = email.String
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// DeleteAgent removes an agent with their shifts and breaks.
func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM agents WHERE id = ?", id)
	return err
}

// =============================================================================
// SHIFT ASSIGNMENTS & SHIFT HOURS (breaks.ShiftHoursLoader)
// =============================================================================

// SaveShiftAssignment sets an agent's shift for a date. Changing the shift
// clears the agent's breaks for that date.
func (s *Store) SaveShiftAssignment(ctx context.Context, userID, date string, shift breaks.ShiftType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT shift_type FROM shift_assignments WHERE user_id = ? AND schedule_date = ?",
		userID, date,
	).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO shift_assignments (user_id, schedule_date, shift_type)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, schedule_date) DO UPDATE SET shift_type = excluded.shift_type
	`, userID, date, shift); err != nil {
		return fmt.Errorf("failed to save shift assignment: %w", err)
	}

	if current.Valid && breaks.ShiftType(current.String) != shift {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM break_intervals WHERE user_id = ? AND schedule_date = ?",
			userID, date,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveShiftHours sets the window of a shift type. A nil window stores a shift
// with no in-seat time (OFF).
func (s *Store) SaveShiftHours(ctx context.Context, shift breaks.ShiftType, window *breaks.ShiftWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var start, end sql.NullString
	if window != nil {
		start = nullString(string(window.Start))
		end = nullString(string(window.End))
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shift_hours (shift_type, start_time, end_time)
		VALUES (?, ?, ?)
		ON CONFLICT(shift_type) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time
	`, shift, start, end)
	return err
}

// GetShiftHoursMap returns every configured shift window.
func (s *Store) GetShiftHoursMap(ctx context.Context) (breaks.ShiftHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shiftHours(ctx)
}

func (s *Store) shiftHours(ctx context.Context) (breaks.ShiftHours, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT shift_type, start_time, end_time FROM shift_hours")
	if err != nil {
		return nil, fmt.Errorf("failed to query shift hours: %w", err)
	}
	defer rows.Close()

	hours := make(breaks.ShiftHours)
	for rows.Next() {
		var shift breaks.ShiftType
		var start, end sql.NullString
		if err := rows.Scan(&shift, &start, &end); err != nil {
			return nil, err
		}
		if start.Valid && end.Valid {
			hours[shift] = &breaks.ShiftWindow{Start: breaks.TimeOfDay(start.String), End: breaks.TimeOfDay(end.String)}
		} else {
			hours[shift] = nil
		}
	}
	return hours, rows.Err()
}

// =============================================================================
// RULE STORE (breaks.RuleLoader)
// =============================================================================

// RuleRecord is a stored rule with its audit timestamps.
type RuleRecord struct {
	breaks.Rule
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveRule saves a rule. Parameters must already be validated.
func (s *Store) SaveRule(ctx context.Context, rule breaks.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := json.Marshal(factory.ParametersToMap(rule.Params))
	if err != nil {
		return fmt.Errorf("failed to encode rule parameters: %w", err)
	}

	query := `
		INSERT INTO break_rules (id, name, rule_type, parameters_json, priority, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			rule_type = excluded.rule_type,
			parameters_json = excluded.parameters_json,
			priority = excluded.priority,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query,
		rule.ID, rule.Name, string(rule.Type()), string(params),
		rule.Priority, rule.IsActive, now, now,
	)
	return err
}

// GetRule retrieves a rule by ID.
func (s *Store) GetRule(ctx context.Context, id string) (*RuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.queryRules(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return &rules[0], nil
}

// ListRules returns every rule, active or not, in priority order.
func (s *Store) ListRules(ctx context.Context) ([]RuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRules(ctx, "")
}

// GetActiveRules returns active rules in priority order.
func (s *Store) GetActiveRules(ctx context.Context) ([]breaks.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.queryRules(ctx, "WHERE is_active = 1")
	if err != nil {
		return nil, err
	}
	rules := make([]breaks.Rule, 0, len(records))
	for _, r := range records {
		rules = append(rules, r.Rule)
	}
	return rules, nil
}

// DeleteRule removes a rule.
func (s *Store) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM break_rules WHERE id = ?", id)
	return err
}

func (s *Store) queryRules(ctx context.Context, where string, args ...any) ([]RuleRecord, error) {
	query := `
		SELECT id, name, rule_type, parameters_json, priority, is_active, created_at, updated_at
		FROM break_rules ` + where + `
		ORDER BY priority, name
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rf := factory.NewRuleFactory()
	var rules []RuleRecord
	for rows.Next() {
		var r RuleRecord
		var ruleType, paramsJSON, createdAt, updatedAt string
		if err := rows.Scan(&r.ID, &r.Name, &ruleType, &paramsJSON, &r.Priority, &r.IsActive, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(paramsJSON), &raw); err != nil {
			return nil, fmt.Errorf("rule %s: failed to decode parameters: %w", r.ID, err)
		}
		r.Params, err = rf.ParseParameters(ruleType, raw)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ID, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// =============================================================================
// DISTRIBUTION SETTINGS (breaks.SettingsLoader)
// =============================================================================

// SaveSettings saves the ladder configuration of one shift type.
func (s *Store) SaveSettings(ctx context.Context, settings breaks.DistributionSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO distribution_settings (shift_type, hb1_start_column, b_offset_minutes,
			hb2_offset_minutes, ladder_increment, max_agents_per_cycle, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(shift_type) DO UPDATE SET
			hb1_start_column = excluded.hb1_start_column,
			b_offset_minutes = excluded.b_offset_minutes,
			hb2_offset_minutes = excluded.hb2_offset_minutes,
			ladder_increment = excluded.ladder_increment,
			max_agents_per_cycle = excluded.max_agents_per_cycle,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		settings.ShiftType, settings.HB1StartColumn, settings.BOffsetMinutes,
		settings.HB2OffsetMinutes, settings.LadderIncrement, settings.MaxAgentsPerCycle,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetSettings returns ladder settings keyed by shift type.
func (s *Store) GetSettings(ctx context.Context) (map[breaks.ShiftType]breaks.DistributionSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT shift_type, hb1_start_column, b_offset_minutes, hb2_offset_minutes,
			ladder_increment, max_agents_per_cycle
		FROM distribution_settings
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[breaks.ShiftType]breaks.DistributionSettings)
	for rows.Next() {
		var d breaks.DistributionSettings
		if err := rows.Scan(&d.ShiftType, &d.HB1StartColumn, &d.BOffsetMinutes,
			&d.HB2OffsetMinutes, &d.LadderIncrement, &d.MaxAgentsPerCycle); err != nil {
			return nil, err
		}
		out[d.ShiftType] = d
	}
	return out, rows.Err()
}

// =============================================================================
// DISTRIBUTION RUNS
// =============================================================================

// DistributionRun records one applied (or failed) distribution.
type DistributionRun struct {
	ID               string
	PreviewID        string
	ScheduleDate     string
	Department       string
	Strategy         string
	ApplyMode        string
	Trigger          string // manual, scheduled
	Status           string // completed, failed
	Proposed         int
	Applied          int
	Skipped          int
	Rejected         int
	Failed           int
	CoverageMin      int
	CoverageMax      int
	CoverageAvg      float64
	CoverageVariance float64
	Error            string
	CreatedAt        time.Time
}

// SaveDistributionRun saves a distribution run.
func (s *Store) SaveDistributionRun(ctx context.Context, r DistributionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO distribution_runs (id, preview_id, schedule_date, department, strategy,
			apply_mode, run_trigger, status, proposed, applied, skipped, rejected, failed,
			coverage_min, coverage_max, coverage_avg, coverage_variance, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.PreviewID, r.ScheduleDate, nullString(r.Department), r.Strategy,
		r.ApplyMode, r.Trigger, r.Status, r.Proposed, r.Applied, r.Skipped, r.Rejected, r.Failed,
		r.CoverageMin, r.CoverageMax, r.CoverageAvg, r.CoverageVariance,
		nullString(r.Error), r.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetDistributionRuns returns runs newest first, optionally for one date.
func (s *Store) GetDistributionRuns(ctx context.Context, date string) ([]DistributionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, preview_id, schedule_date, department, strategy, apply_mode, run_trigger, status,
			proposed, applied, skipped, rejected, failed,
			coverage_min, coverage_max, coverage_avg, coverage_variance, error, created_at
		FROM distribution_runs
		WHERE ? = '' OR schedule_date = ?
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, date, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []DistributionRun
	for rows.Next() {
		var r DistributionRun
		var department, errText sql.NullString
		var createdAt string
		if err := rows.Scan(
			&r.ID, &r.PreviewID, &r.ScheduleDate, &department, &r.Strategy, &r.ApplyMode,
			&r.Trigger, &r.Status, &r.Proposed, &r.Applied, &r.Skipped, &r.Rejected, &r.Failed,
			&r.CoverageMin, &r.CoverageMax, &r.CoverageAvg, &r.CoverageVariance, &errText, &createdAt,
		); err != nil {
			return nil, err
		}
		r.Department = department.String
		r.Error = errText.String
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// HasCompletedRun reports whether a scheduled run already completed for a date.
func (s *Store) HasCompletedRun(ctx context.Context, date, trigger string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM distribution_runs
		WHERE schedule_date = ? AND run_trigger = ? AND status = 'completed'
	`, date, trigger).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Reset clears all data (for demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"break_intervals", "shift_assignments", "agents", "break_rules",
		"distribution_settings", "shift_hours", "distribution_runs",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// IsUniqueConstraintError reports a UNIQUE violation, e.g. a duplicate rule name.
func IsUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
