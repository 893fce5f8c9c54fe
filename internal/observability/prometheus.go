package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exports registry operations as a counter and a
// histogram.
type PrometheusRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the registry metrics with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "protoreg",
			Subsystem: "registry",
			Name:      "operations_total",
			Help:      "Prototype registry operations by outcome.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "protoreg",
			Subsystem: "registry",
			Name:      "operation_duration_seconds",
			Help:      "Prototype registry operation latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{r.operations, r.durations} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register registry metrics: %w", err)
		}
	}
	return r, nil
}

// Observe records one operation outcome.
func (r *PrometheusRecorder) Observe(operation string, success bool, d time.Duration) {
	if operation == "" {
		return
	}
	r.operations.WithLabelValues(operation, statusLabel(success)).Inc()
	r.durations.WithLabelValues(operation).Observe(d.Seconds())
}
