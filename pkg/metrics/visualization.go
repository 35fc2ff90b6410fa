package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VisualizationMetrics records render outcomes of the visualization gateway.
type VisualizationMetrics struct {
	renders  *prometheus.CounterVec
	duration prometheus.Histogram
	attached *prometheus.CounterVec
}

func NewVisualizationMetrics(reg prometheus.Registerer) *VisualizationMetrics {
	if reg == nil {
		return &VisualizationMetrics{}
	}
	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visualization_renders_total",
		Help:      "Visualization renders by outcome (generated or placeholder).",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "visualization_render_seconds",
		Help:      "Wall time of visualization renders, including fallbacks.",
		Buckets:   []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120},
	})
	attached := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visualization_attach_total",
		Help:      "Attempts to attach a visualization to an order by result.",
	}, []string{"result"})
	reg.MustRegister(renders, duration, attached)
	return &VisualizationMetrics{renders: renders, duration: duration, attached: attached}
}

func (m *VisualizationMetrics) ObserveRender(outcome string, elapsed time.Duration) {
	if m == nil || m.renders == nil {
		return
	}
	m.renders.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *VisualizationMetrics) ObserveAttach(result string) {
	if m == nil || m.attached == nil {
		return
	}
	m.attached.WithLabelValues(normalizeLabel(result)).Inc()
}
