// Package metrics provides Prometheus metrics for break distribution.
// Collectors live on a private registry served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every break collector; /metrics serves only this registry.
var Registry = prometheus.NewRegistry()

// factory registers each collector on Registry as it is created.
var factory = promauto.With(Registry)

// =============================================================================
// DISTRIBUTION - Business Impact Visibility
// =============================================================================

// PreviewsTotal counts generated previews by strategy.
var PreviewsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "breaks",
	Name:      "previews_total",
	Help:      "Distribution previews generated, by strategy",
}, []string{"strategy"})

// AgentsAssignedTotal counts agents a strategy placed.
var AgentsAssignedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "breaks",
	Name:      "agents_assigned_total",
	Help:      "Agents given a break proposal, by strategy",
}, []string{"strategy"})

// AgentsFailedTotal counts agents a strategy could not place.
// High values usually mean rules are too tight for the roster.
var AgentsFailedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "breaks",
	Name:      "agents_failed_total",
	Help:      "Agents that could not be placed, by strategy",
}, []string{"strategy"})

// CoverageMinAgents is the lowest in-seat count of the last preview.
var CoverageMinAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "breaks",
	Name:      "coverage_min_agents",
	Help:      "Lowest in-seat count across slots in the last preview",
})

// CoverageVariance is the in-seat variance of the last preview.
var CoverageVariance = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "breaks",
	Name:      "coverage_variance",
	Help:      "Population variance of in-seat counts in the last preview",
})

// RuleViolationsTotal counts violations found while re-validating previews.
var RuleViolationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "breaks",
	Name:      "rule_violations_total",
	Help:      "Rule violations in proposed schedules, by severity",
}, []string{"severity"})

// =============================================================================
// OPERATIONAL HEALTH
// =============================================================================

// DistributionDurationSeconds tracks time to generate a preview.
var DistributionDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "breaks",
	Name:      "distribution_duration_seconds",
	Help:      "Time taken to generate a distribution preview",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// ApplyWritesTotal counts per-agent writes during apply by outcome.
var ApplyWritesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "breaks",
	Name:      "apply_writes_total",
	Help:      "Per-agent break writes during apply, by outcome",
}, []string{"outcome"})

// ScheduledRunsTotal counts cron-triggered distributions by status.
var ScheduledRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "breaks",
	Name:      "scheduled_runs_total",
	Help:      "Cron-triggered auto distributions, by status",
}, []string{"status"})

// =============================================================================
// Helper Functions
// =============================================================================

// ObservePreview records one preview.
func ObservePreview(strategy string, elapsed time.Duration, assigned, failed, coverageMin int, variance float64, blocking, warning int) {
	PreviewsTotal.WithLabelValues(strategy).Inc()
	AgentsAssignedTotal.WithLabelValues(strategy).Add(float64(assigned))
	AgentsFailedTotal.WithLabelValues(strategy).Add(float64(failed))
	CoverageMinAgents.Set(float64(coverageMin))
	CoverageVariance.Set(variance)
	RuleViolationsTotal.WithLabelValues("error").Add(float64(blocking))
	RuleViolationsTotal.WithLabelValues("warning").Add(float64(warning))
	DistributionDurationSeconds.Observe(elapsed.Seconds())
}

// ObserveApply records the outcome counts of one apply.
func ObserveApply(applied, skipped, rejected int) {
	ApplyWritesTotal.WithLabelValues("applied").Add(float64(applied))
	ApplyWritesTotal.WithLabelValues("skipped").Add(float64(skipped))
	ApplyWritesTotal.WithLabelValues("rejected").Add(float64(rejected))
}
