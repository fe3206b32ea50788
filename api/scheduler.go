/*
scheduler.go - Automated break distribution scheduler

PURPOSE:
  Distributes breaks for the next day on a cron schedule, so agents who
  have a shift but no breaks yet get them without a supervisor clicking
  through preview and apply.

DESIGN:
  - robfig/cron drives the ticks (5-field spec, e.g. "0 18 * * *")
  - Each tick previews tomorrow with apply_mode=only_unscheduled
  - Skips dates that already have a completed scheduled run
  - Records every run for audit and UI display, like manual applies

CONFIGURATION:
  - Spec: cron expression; empty disables the scheduler
  - Department: optional department filter
  - Strategy: strategy to run (default: ladder)

USAGE:
  scheduler := NewAutoDistributionScheduler(store, handler, "0 18 * * *")
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: PreviewDistribution/ApplyDistribution (manual flow)
  - breaks/preview.go: Distributor
*/
package api

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/metrics"
	"github.com/warp/workforce-portal/store/sqlite"
)

// AutoDistributionScheduler handles automated next-day distribution.
type AutoDistributionScheduler struct {
	Store      *sqlite.Store
	Handler    *Handler
	Spec       string
	Department string
	Strategy   breaks.StrategyName

	now  func() time.Time
	cron *cron.Cron
	mu   sync.Mutex
}

// NewAutoDistributionScheduler creates a new scheduler.
func NewAutoDistributionScheduler(store *sqlite.Store, handler *Handler, spec string) *AutoDistributionScheduler {
	return &AutoDistributionScheduler{
		Store:    store,
		Handler:  handler,
		Spec:     spec,
		Strategy: handler.DefaultStrategy,
		now:      time.Now,
	}
}

// Start begins the scheduler. An invalid spec is returned as an error.
func (s *AutoDistributionScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Spec == "" {
		log.Println("[Scheduler] Disabled, not starting")
		return nil
	}
	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.Spec, s.tick); err != nil {
		return fmt.Errorf("invalid auto schedule %q: %w", s.Spec, err)
	}
	c.Start()
	s.cron = c

	log.Printf("[Scheduler] Started with schedule: %s", s.Spec)
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (s *AutoDistributionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (s *AutoDistributionScheduler) tick() {
	date := s.now().AddDate(0, 0, 1).Format(breaks.DateLayout)
	status, err := s.RunForDate(context.Background(), date)
	if err != nil {
		log.Printf("[Scheduler] Error distributing %s: %v", date, err)
	}
	metrics.ScheduledRunsTotal.WithLabelValues(status).Inc()
}

// RunForDate distributes breaks for agents on date who have none yet.
// Returns "skipped", "completed" or "failed".
func (s *AutoDistributionScheduler) RunForDate(ctx context.Context, date string) (string, error) {
	log.Printf("[Scheduler] Checking distribution for %s", date)

	done, err := s.Store.HasCompletedRun(ctx, date, TriggerScheduled)
	if err != nil {
		return "failed", err
	}
	if done {
		log.Printf("[Scheduler] %s already distributed, skipping", date)
		return "skipped", nil
	}

	preview, _, err := s.Handler.GeneratePreview(ctx, breaks.PreviewRequest{
		ScheduleDate: date,
		Department:   s.Department,
		Strategy:     s.Strategy,
		ApplyMode:    breaks.ApplyModeOnlyUnscheduled,
	})
	if err != nil {
		return "failed", err
	}
	// Nobody else may apply this preview.
	s.Handler.previews.take(preview.ID)

	run, summary, err := s.Handler.ApplyPreview(ctx, preview, TriggerScheduled)
	if err != nil {
		return "failed", err
	}

	log.Printf("[Scheduler] Run %s completed: %d applied, %d skipped, %d rejected, %d failed",
		run.ID, summary.Applied, summary.Skipped, len(summary.Rejected), len(preview.FailedAgents))
	return "completed", nil
}
