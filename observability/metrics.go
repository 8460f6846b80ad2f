package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ActionMetrics aggregates execution counters across every registered action.
type ActionMetrics struct {
	executed *prometheus.CounterVec
	failed   *prometheus.CounterVec
	feeRuns  *prometheus.CounterVec
}

var (
	actionsOnce     sync.Once
	actionsRegistry *ActionMetrics
)

// Actions returns the process-wide action metrics set, registering it on
// first use.
func Actions() *ActionMetrics {
	actionsOnce.Do(func() {
		actionsRegistry = &ActionMetrics{
			executed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "actions_executed_total",
				Help: "Count of successful action executions by protocol and action type.",
			}, []string{"protocol", "action"}),
			failed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "actions_failed_total",
				Help: "Count of reverted action executions by protocol, action type, and reason.",
			}, []string{"protocol", "action", "reason"}),
			feeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "actions_fee_collections_total",
				Help: "Count of executions that settled a non-zero fee, by protocol.",
			}, []string{"protocol"}),
		}
		prometheus.MustRegister(
			actionsRegistry.executed,
			actionsRegistry.failed,
			actionsRegistry.feeRuns,
		)
	})
	return actionsRegistry
}

// Executed records a successful execution.
func (m *ActionMetrics) Executed(protocol, action string) {
	if m == nil {
		return
	}
	m.executed.WithLabelValues(protocol, action).Inc()
}

// Failed records a reverted execution.
func (m *ActionMetrics) Failed(protocol, action, reason string) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(protocol, action, reason).Inc()
}

// FeeCollected records an execution that settled a non-zero fee.
func (m *ActionMetrics) FeeCollected(protocol string) {
	if m == nil {
		return
	}
	m.feeRuns.WithLabelValues(protocol).Inc()
}
