// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "conferencecentral"

// Registration outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeNoop      = "noop"
	OutcomeConflict  = "conflict"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

// Task outcomes.
const (
	TaskSucceeded = "succeeded"
	TaskRetried   = "retried"
	TaskFailed    = "failed"
)

// Metrics groups the application collectors. A nil *Metrics records nothing.
type Metrics struct {
	registrations *prometheus.CounterVec
	txRetries     *prometheus.CounterVec
	tasks         *prometheus.CounterVec
	queries       *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Conference registration changes by action and outcome.",
		}, []string{"action", "outcome"}),
		txRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Transactions retried after a commit conflict.",
		}, []string{"operation"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Background task executions by task name and outcome.",
		}, []string{"task", "outcome"}),
		queries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Latency of filtered conference and session queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection"}),
	}
	reg.MustRegister(m.registrations, m.txRetries, m.tasks, m.queries)
	return m
}

// RecordRegistration counts a register or unregister call.
func (m *Metrics) RecordRegistration(action, outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(action, outcome).Inc()
}

// RecordTxRetry counts a transaction that lost a commit race.
func (m *Metrics) RecordTxRetry(operation string) {
	if m == nil {
		return
	}
	m.txRetries.WithLabelValues(operation).Inc()
}

// RecordTask counts one task attempt outcome.
func (m *Metrics) RecordTask(task, outcome string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(task, outcome).Inc()
}

// ObserveQuery records how long a filtered query took.
func (m *Metrics) ObserveQuery(collection string, d time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(collection).Observe(d.Seconds())
}
