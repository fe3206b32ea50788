package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const day = "2026-03-02"

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// seedRoster puts Alice (Support) and Bob (Sales) on the AM shift.
func seedRoster(t *testing.T, store *sqlite.Store) {
	ctx := context.Background()
	require.NoError(t, store.SaveShiftHours(ctx, breaks.ShiftAM, &breaks.ShiftWindow{Start: "09:00:00", End: "17:00:00"}))
	require.NoError(t, store.SaveShiftHours(ctx, breaks.ShiftOFF, nil))
	require.NoError(t, store.SaveAgent(ctx, sqlite.Agent{ID: "u1", Name: "Alice", Email: "alice@example.com", Department: "Support"}))
	require.NoError(t, store.SaveAgent(ctx, sqlite.Agent{ID: "u2", Name: "Bob", Department: "Sales"}))
	require.NoError(t, store.SaveShiftAssignment(ctx, "u1", day, breaks.ShiftAM))
	require.NoError(t, store.SaveShiftAssignment(ctx, "u2", day, breaks.ShiftAM))
}

func aliceBreaks() breaks.BreakScheduleUpdate {
	s := breaks.NewAgentSchedule("u1", "Alice", "", breaks.ShiftAM, nil,
		breaks.BreakTimes{HB1: "10:00:00", B: "12:30:00", HB2: "15:30:00"})
	return breaks.BreakScheduleUpdate{UserID: "u1", ScheduleDate: day, Intervals: s.BreakIntervals()}
}

// =============================================================================
// ROSTER TESTS
// =============================================================================

func TestGetScheduleForDate_RebuildsFromShiftHours(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store)

	sched, err := store.GetScheduleForDate(context.Background(), day, "")
	require.NoError(t, err)

	require.Len(t, sched.Agents, 2)
	assert.Equal(t, "Alice", sched.Agents[0].Name)
	assert.Len(t, sched.Agents[0].Intervals, 32)
	assert.False(t, sched.Agents[0].HasBreaks())
	assert.Equal(t, 2, sched.Coverage.InAt("09:00:00"))
}

func TestGetScheduleForDate_DepartmentFilter(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store)

	sched, err := store.GetScheduleForDate(context.Background(), day, "Sales")
	require.NoError(t, err)
	require.Len(t, sched.Agents, 1)
	assert.Equal(t, "u2", sched.Agents[0].UserID)

	empty, err := store.GetScheduleForDate(context.Background(), "2026-03-03", "")
	require.NoError(t, err)
	assert.Empty(t, empty.Agents)
}

func TestUpdateBreakSchedule_ReplacesBreaks(t *testing.T) {
	// GIVEN: Alice has breaks
	store := newTestStore(t)
	seedRoster(t, store)
	ctx := context.Background()

	res, err := store.UpdateBreakSchedule(ctx, aliceBreaks())
	require.NoError(t, err)
	assert.True(t, res.Success)

	// WHEN: Writing only an HB1
	res, err = store.UpdateBreakSchedule(ctx, breaks.BreakScheduleUpdate{
		UserID: "u1", ScheduleDate: day,
		Intervals: []breaks.SlotAssignment{{At: "09:30:00", Status: breaks.StatusHB1}},
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	// THEN: The old breaks are gone
	sched, err := store.GetScheduleForDate(ctx, day, "Support")
	require.NoError(t, err)
	require.Len(t, sched.Agents, 1)
	assert.Equal(t, breaks.BreakTimes{HB1: "09:30:00"}, sched.Agents[0].Breaks)
	assert.Len(t, sched.Agents[0].BreakIntervals(), 1)
}

func TestUpdateBreakSchedule_NoShiftRejected(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store)

	update := aliceBreaks()
	update.ScheduleDate = "2026-03-03"
	res, err := store.UpdateBreakSchedule(context.Background(), update)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestSaveShiftAssignment_ShiftChangeClearsBreaks(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store)
	ctx := context.Background()
	_, err := store.UpdateBreakSchedule(ctx, aliceBreaks())
	require.NoError(t, err)

	// Same shift: breaks stay
	require.NoError(t, store.SaveShiftAssignment(ctx, "u1", day, breaks.ShiftAM))
	sched, err := store.GetScheduleForDate(ctx, day, "Support")
	require.NoError(t, err)
	assert.True(t, sched.Agents[0].HasBreaks())

	// New shift: breaks cleared
	require.NoError(t, store.SaveShiftAssignment(ctx, "u1", day, breaks.ShiftOFF))
	sched, err = store.GetScheduleForDate(ctx, day, "Support")
	require.NoError(t, err)
	assert.Equal(t, breaks.ShiftOFF, sched.Agents[0].ShiftType)
	assert.False(t, sched.Agents[0].HasBreaks())
	assert.Empty(t, sched.Agents[0].Intervals)
}

func TestClearBreaks(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store)
	ctx := context.Background()
	_, err := store.UpdateBreakSchedule(ctx, aliceBreaks())
	require.NoError(t, err)

	require.NoError(t, store.ClearBreaks(ctx, day))

	sched, err := store.GetScheduleForDate(ctx, day, "")
	require.NoError(t, err)
	for _, a := range sched.Agents {
		assert.False(t, a.HasBreaks())
	}
}

// =============================================================================
// AGENT TESTS
// =============================================================================

func TestAgents_CRUD(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store)
	ctx := context.Background()

	a, err := store.GetAgent(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "alice@example.com", a.Email)
	assert.False(t, a.CreatedAt.IsZero())

	missing, err := store.GetAgent(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := store.ListAgents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sales, err := store.ListAgents(ctx, "Sales")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Bob", sales[0].Name)

	// Deleting cascades to shifts
	require.NoError(t, store.DeleteAgent(ctx, "u2"))
	sched, err := store.GetScheduleForDate(ctx, day, "")
	require.NoError(t, err)
	assert.Len(t, sched.Agents, 1)
}

// =============================================================================
// CONFIGURATION TESTS
// =============================================================================

func TestShiftHours_OffHasNoWindow(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store)

	hours, err := store.GetShiftHoursMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &breaks.ShiftWindow{Start: "09:00:00", End: "17:00:00"}, hours.Window(breaks.ShiftAM))
	_, ok := hours[breaks.ShiftOFF]
	assert.True(t, ok)
	assert.Nil(t, hours.Window(breaks.ShiftOFF))
}

func TestSettings_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	settings := breaks.DistributionSettings{
		ShiftType: breaks.ShiftAM, HB1StartColumn: 4, BOffsetMinutes: 150,
		HB2OffsetMinutes: 150, LadderIncrement: 1, MaxAgentsPerCycle: 5,
	}
	require.NoError(t, store.SaveSettings(ctx, settings))

	settings.MaxAgentsPerCycle = 6
	require.NoError(t, store.SaveSettings(ctx, settings))

	got, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[breaks.ShiftType]breaks.DistributionSettings{breaks.ShiftAM: settings}, got)
}

func TestRules_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alert := 3

	require.NoError(t, store.SaveRule(ctx, breaks.Rule{
		ID: "cov", Name: "Minimum coverage", Priority: 2, IsActive: true,
		Params: breaks.CoverageParams{MinAgents: 2, AlertThreshold: &alert},
	}))
	require.NoError(t, store.SaveRule(ctx, breaks.Rule{
		ID: "ord", Name: "Order", Priority: 1, IsActive: true,
		Params: breaks.OrderingParams{},
	}))
	require.NoError(t, store.SaveRule(ctx, breaks.Rule{
		ID: "gap", Name: "Gap", Priority: 0, IsActive: false,
		Params: breaks.TimingParams{},
	}))

	all, err := store.ListRules(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := store.GetActiveRules(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Order", active[0].Name)
	assert.Equal(t, breaks.CoverageParams{MinAgents: 2, AlertThreshold: &alert}, active[1].Params)

	rec, err := store.GetRule(ctx, "cov")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.CreatedAt.IsZero())

	require.NoError(t, store.DeleteRule(ctx, "cov"))
	rec, err = store.GetRule(ctx, "cov")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRules_DuplicateName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRule(ctx, breaks.Rule{ID: "a", Name: "Order", Params: breaks.OrderingParams{}}))
	err := store.SaveRule(ctx, breaks.Rule{ID: "b", Name: "Order", Params: breaks.OrderingParams{}})

	require.Error(t, err)
	assert.True(t, sqlite.IsUniqueConstraintError(err))
}

// =============================================================================
// DISTRIBUTION RUN TESTS
// =============================================================================

func TestDistributionRuns_SaveAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := sqlite.DistributionRun{
		ID: "run-1", PreviewID: "p1", ScheduleDate: day, Strategy: "ladder", ApplyMode: "all",
		Trigger: "manual", Status: "completed", Proposed: 2, Applied: 2,
		CoverageMin: 1, CoverageMax: 2, CoverageAvg: 1.875, CoverageVariance: 0.1094,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := sqlite.DistributionRun{
		ID: "run-2", PreviewID: "p2", ScheduleDate: day, Department: "Sales", Strategy: "ladder",
		ApplyMode: "only_unscheduled", Trigger: "scheduled", Status: "failed", Error: "disk full",
		CreatedAt: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
	other := sqlite.DistributionRun{
		ID: "run-3", PreviewID: "p3", ScheduleDate: "2026-03-03", Strategy: "staggered_timing",
		ApplyMode: "all", Trigger: "manual", Status: "completed",
	}
	for _, r := range []sqlite.DistributionRun{older, newer, other} {
		require.NoError(t, store.SaveDistributionRun(ctx, r))
	}

	runs, err := store.GetDistributionRuns(ctx, day)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID, "newest first")
	assert.Equal(t, "disk full", runs[0].Error)
	assert.Equal(t, "Sales", runs[0].Department)
	assert.Equal(t, 1.875, runs[1].CoverageAvg)

	all, err := store.GetDistributionRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHasCompletedRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDistributionRun(ctx, sqlite.DistributionRun{
		ID: "r1", PreviewID: "p1", ScheduleDate: day, Strategy: "ladder", ApplyMode: "all",
		Trigger: "scheduled", Status: "failed",
	}))
	done, err := store.HasCompletedRun(ctx, day, "scheduled")
	require.NoError(t, err)
	assert.False(t, done, "failed runs do not count")

	require.NoError(t, store.SaveDistributionRun(ctx, sqlite.DistributionRun{
		ID: "r2", PreviewID: "p2", ScheduleDate: day, Strategy: "ladder", ApplyMode: "all",
		Trigger: "manual", Status: "completed",
	}))
	done, err = store.HasCompletedRun(ctx, day, "scheduled")
	require.NoError(t, err)
	assert.False(t, done, "manual runs do not count")

	require.NoError(t, store.SaveDistributionRun(ctx, sqlite.DistributionRun{
		ID: "r3", PreviewID: "p3", ScheduleDate: day, Strategy: "ladder", ApplyMode: "all",
		Trigger: "scheduled", Status: "completed",
	}))
	done, err = store.HasCompletedRun(ctx, day, "scheduled")
	require.NoError(t, err)
	assert.True(t, done)
}

// =============================================================================
// ENGINE INTEGRATION
// =============================================================================

func TestDistributor_PreviewAndApplyAgainstSQLite(t *testing.T) {
	// GIVEN: Two AM agents and ladder settings
	store := newTestStore(t)
	seedRoster(t, store)
	ctx := context.Background()
	require.NoError(t, store.SaveSettings(ctx, breaks.DistributionSettings{
		ShiftType: breaks.ShiftAM, HB1StartColumn: 4, BOffsetMinutes: 150,
		HB2OffsetMinutes: 150, LadderIncrement: 1,
	}))
	d := breaks.NewDistributor(store)

	// WHEN: Previewing and applying
	preview, err := d.GenerateDistributionPreview(ctx, breaks.PreviewRequest{ScheduleDate: day})
	require.NoError(t, err)
	summary, err := d.ApplyDistribution(ctx, preview, day)
	require.NoError(t, err)

	// THEN: Both agents persisted, name-ordered along the ladder
	assert.Equal(t, 2, summary.Applied)
	sched, err := store.GetScheduleForDate(ctx, day, "")
	require.NoError(t, err)
	assert.Equal(t, breaks.BreakTimes{HB1: "10:00:00", B: "12:30:00", HB2: "15:30:00"}, sched.Agents[0].Breaks)
	assert.Equal(t, breaks.BreakTimes{HB1: "10:15:00", B: "12:45:00", HB2: "15:45:00"}, sched.Agents[1].Breaks)
}
