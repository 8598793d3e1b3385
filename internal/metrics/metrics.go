// Package metrics instruments forward passes with Prometheus collectors.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ForwardPasses prometheus.Counter
	StateRows     prometheus.Counter
	ShapeErrors   *prometheus.CounterVec
	Latency       prometheus.Histogram
}

// New creates the collectors under namespace and registers them with reg.
// Either all collectors end up registered or none do.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		ForwardPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forward_passes_total",
			Help:      "Number of batched forward passes computed.",
		}),
		StateRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_rows_total",
			Help:      "Number of state vectors evaluated.",
		}),
		ShapeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shape_mismatch_total",
			Help:      "Calls rejected because of incompatible input dimensions.",
		}, []string{"operation"}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forward_duration_seconds",
			Help:      "Wall time of a batched forward pass.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}

	if reg == nil {
		return m, nil
	}
	collectors := []prometheus.Collector{m.ForwardPasses, m.StateRows, m.ShapeErrors, m.Latency}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, errors.Wrap(err, "register qnetwork metrics")
		}
	}
	return m, nil
}

// ObserveForward records one successful forward pass over rows states.
func (m *Metrics) ObserveForward(rows int, took time.Duration) {
	if m == nil {
		return
	}
	m.ForwardPasses.Inc()
	m.StateRows.Add(float64(rows))
	m.Latency.Observe(took.Seconds())
}

// ShapeMismatch counts a rejected call to operation.
func (m *Metrics) ShapeMismatch(operation string) {
	if m == nil {
		return
	}
	m.ShapeErrors.WithLabelValues(operation).Inc()
}
