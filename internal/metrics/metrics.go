// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "homeledger"

// Metrics groups the ledger collectors. A nil *Metrics is valid and records
// nothing, so services can run without a registry in tests.
type Metrics struct {
	expensesRecorded    *prometheus.CounterVec
	settlementsRecorded prometheus.Counter
	validationFailures  *prometheus.CounterVec
	computeDuration     *prometheus.HistogramVec
	suggestedPayments   prometheus.Histogram
}

// New registers the ledger collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		expensesRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Expenses created, by category.",
		}, []string{"category"}),
		settlementsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_recorded_total",
			Help:      "Settlement payments recorded between members.",
		}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Expense writes rejected by validation, by operation.",
		}, []string{"operation"}),
		computeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent loading and computing a ledger query.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"query"}),
		suggestedPayments: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_plan_payments",
			Help:      "Number of payments in each computed settlement plan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}
}

// ExpenseRecorded counts a newly created expense.
func (m *Metrics) ExpenseRecorded(category string) {
	if m == nil {
		return
	}
	m.expensesRecorded.WithLabelValues(category).Inc()
}

// SettlementRecorded counts a recorded payoff.
func (m *Metrics) SettlementRecorded() {
	if m == nil {
		return
	}
	m.settlementsRecorded.Inc()
}

// ValidationFailed counts a rejected write.
func (m *Metrics) ValidationFailed(operation string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(operation).Inc()
}

// ObserveQuery records how long query took since start.
func (m *Metrics) ObserveQuery(query string, start time.Time) {
	if m == nil {
		return
	}
	m.computeDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// PlanSize records the number of payments in a settlement plan.
func (m *Metrics) PlanSize(n int) {
	if m == nil {
		return
	}
	m.suggestedPayments.Observe(float64(n))
}
