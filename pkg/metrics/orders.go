package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bouquet"

// OrderMetrics records order composition outcomes.
type OrderMetrics struct {
	composed *prometheus.CounterVec
	issues   *prometheus.CounterVec
	total    prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	composed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_composed_total",
		Help:      "Order composition attempts by result.",
	}, []string{"result"})
	issues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_validation_issues_total",
		Help:      "Cart validation issues by kind.",
	}, []string{"kind"})
	total := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total_cents",
		Help:      "Distribution of committed order totals in cents.",
		Buckets:   prometheus.ExponentialBuckets(500, 2, 10),
	})
	reg.MustRegister(composed, issues, total)
	return &OrderMetrics{composed: composed, issues: issues, total: total}
}

// ObserveCommitted records a committed order and its total.
func (m *OrderMetrics) ObserveCommitted(totalCents int64) {
	if m == nil || m.composed == nil {
		return
	}
	m.composed.WithLabelValues("committed").Inc()
	m.total.Observe(float64(totalCents))
}

// ObserveRejected records a rejected cart and counts each issue kind.
func (m *OrderMetrics) ObserveRejected(kinds []string) {
	if m == nil || m.composed == nil {
		return
	}
	m.composed.WithLabelValues("rejected").Inc()
	for _, kind := range kinds {
		m.issues.WithLabelValues(normalizeLabel(kind)).Inc()
	}
}

// ObserveFailed records a storage-side failure.
func (m *OrderMetrics) ObserveFailed() {
	if m == nil || m.composed == nil {
		return
	}
	m.composed.WithLabelValues("failed").Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
