// Package store provides in-memory implementations of the break engine's
// collaborators.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/workforce-portal/breaks"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	days     map[string]*day
	rules    []breaks.Rule
	hours    breaks.ShiftHours
	settings map[breaks.ShiftType]breaks.DistributionSettings
	writes   []breaks.BreakScheduleUpdate
}

// day keeps insertion order so rosters come back in the order they were added.
type day struct {
	order  []string
	agents map[string]breaks.AgentSchedule
}

func NewMemory() *Memory {
	return &Memory{
		days:     make(map[string]*day),
		hours:    make(breaks.ShiftHours),
		settings: make(map[breaks.ShiftType]breaks.DistributionSettings),
	}
}

var _ breaks.Store = (*Memory)(nil)

// =============================================================================
// SEEDING
// =============================================================================

// PutAgent adds or replaces an agent on the roster for a date. A schedule
// without intervals gets its window filled with IN from the configured shift
// hours, with any breaks laid over it.
func (m *Memory) PutAgent(date string, agent breaks.AgentSchedule) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(agent.Intervals) == 0 {
		agent = breaks.NewAgentSchedule(agent.UserID, agent.Name, agent.Department,
			agent.ShiftType, m.hours.Window(agent.ShiftType), agent.Breaks)
	}
	d := m.days[date]
	if d == nil {
		d = &day{agents: make(map[string]breaks.AgentSchedule)}
		m.days[date] = d
	}
	if _, ok := d.agents[agent.UserID]; !ok {
		d.order = append(d.order, agent.UserID)
	}
	d.agents[agent.UserID] = agent
}

func (m *Memory) SetRules(rules []breaks.Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append([]breaks.Rule(nil), rules...)
}

func (m *Memory) SetShiftHours(hours breaks.ShiftHours) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hours = make(breaks.ShiftHours, len(hours))
	for k, v := range hours {
		m.hours[k] = v
	}
}

func (m *Memory) SetSettings(settings ...breaks.DistributionSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range settings {
		m.settings[s.ShiftType] = s
	}
}

// Writes returns every update received, sorted by user.
func (m *Memory) Writes() []breaks.BreakScheduleUpdate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]breaks.BreakScheduleUpdate(nil), m.writes...)
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// =============================================================================
// COLLABORATORS
// =============================================================================

func (m *Memory) GetScheduleForDate(_ context.Context, date, department string) (*breaks.DaySchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := &breaks.DaySchedule{Date: date}
	if d := m.days[date]; d != nil {
		for _, id := range d.order {
			a := d.agents[id]
			if department != "" && a.Department != department {
				continue
			}
			out.Agents = append(out.Agents, copySchedule(a))
		}
	}
	out.Coverage = breaks.BuildCoverageSummary(out.Agents)
	return out, nil
}

func (m *Memory) GetActiveRules(_ context.Context) ([]breaks.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return breaks.ActiveRules(m.rules), nil
}

func (m *Memory) GetShiftHoursMap(_ context.Context) (breaks.ShiftHours, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(breaks.ShiftHours, len(m.hours))
	for k, v := range m.hours {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) GetSettings(_ context.Context) (map[breaks.ShiftType]breaks.DistributionSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[breaks.ShiftType]breaks.DistributionSettings, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

// UpdateBreakSchedule replaces the agent's breaks for the date. Agents not on
// the roster are rejected with Success=false.
func (m *Memory) UpdateBreakSchedule(_ context.Context, update breaks.BreakScheduleUpdate) (*breaks.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes = append(m.writes, update)

	d := m.days[update.ScheduleDate]
	if d == nil {
		return &breaks.UpdateResult{Success: false}, nil
	}
	agent, ok := d.agents[update.UserID]
	if !ok {
		return &breaks.UpdateResult{Success: false}, nil
	}

	intervals := make(map[breaks.TimeOfDay]breaks.BreakStatus)
	for _, slot := range update.Intervals {
		intervals[slot.At] = slot.Status
	}
	updated := breaks.NewAgentSchedule(agent.UserID, agent.Name, agent.Department,
		agent.ShiftType, m.hours.Window(agent.ShiftType), breaks.BreaksFromIntervals(intervals))
	d.agents[update.UserID] = updated
	return &breaks.UpdateResult{Success: true}, nil
}

func copySchedule(s breaks.AgentSchedule) breaks.AgentSchedule {
	intervals := make(map[breaks.TimeOfDay]breaks.BreakStatus, len(s.Intervals))
	for k, v := range s.Intervals {
		intervals[k] = v
	}
	s.Intervals = intervals
	return s
}
