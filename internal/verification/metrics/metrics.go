package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification pipeline.
// All methods are safe on a nil receiver.
type Metrics struct {
	// Completed runs by final status
	RunOutcome *prometheus.CounterVec

	// End-to-end run latency by final status
	RunLatency *prometheus.HistogramVec

	// Step failures handed to recovery, by step name
	StepFailures *prometheus.CounterVec

	// Whole-pipeline retries
	Retries prometheus.Counter

	// Captcha solve latency by solver, challenge kind and outcome
	SolveLatency *prometheus.HistogramVec

	// Primary to fallback solver switches
	SolverFailovers *prometheus.CounterVec

	// Verdict cache lookups by result
	CacheLookups *prometheus.CounterVec

	// Verdict store writes by outcome
	StoreWrites *prometheus.CounterVec
}

// New registers the pipeline metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the pipeline metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ptacheck_verification_runs_total",
			Help: "Completed verification runs by final status",
		}, []string{"status"}),

		RunLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ptacheck_verification_run_duration_seconds",
			Help:    "Duration of a verification run including retries",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"status"}),

		StepFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ptacheck_verification_step_failures_total",
			Help: "Pipeline step failures by step",
		}, []string{"step"}),

		Retries: f.NewCounter(prometheus.CounterOpts{
			Name: "ptacheck_verification_retries_total",
			Help: "Whole-pipeline retries",
		}),

		SolveLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ptacheck_captcha_solve_duration_seconds",
			Help:    "Duration of captcha solving by solver, kind and outcome",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
		}, []string{"solver", "kind", "outcome"}),

		SolverFailovers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ptacheck_captcha_solver_failovers_total",
			Help: "Calls routed to the fallback captcha solver",
		}, []string{"primary", "fallback"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ptacheck_verdict_cache_lookups_total",
			Help: "Verdict cache lookups by result",
		}, []string{"result"}),

		StoreWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ptacheck_verdict_store_writes_total",
			Help: "Verdict store writes by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveRun(status string, d time.Duration) {
	if m != nil {
		m.RunOutcome.WithLabelValues(status).Inc()
		m.RunLatency.WithLabelValues(status).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementStepFailure(step string) {
	if m != nil {
		m.StepFailures.WithLabelValues(step).Inc()
	}
}

func (m *Metrics) IncrementRetry() {
	if m != nil {
		m.Retries.Inc()
	}
}

func (m *Metrics) ObserveSolve(solver, kind, outcome string, d time.Duration) {
	if m != nil {
		m.SolveLatency.WithLabelValues(solver, kind, outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementFailover(primary, fallback string) {
	if m != nil {
		m.SolverFailovers.WithLabelValues(primary, fallback).Inc()
	}
}

func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) RecordStoreWrite(outcome string) {
	if m != nil {
		m.StoreWrites.WithLabelValues(outcome).Inc()
	}
}
