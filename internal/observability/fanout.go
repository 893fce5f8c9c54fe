package observability

import (
	"time"

	"protoreg/pkg/prototype"
)

// Fanout forwards every observation to each recorder in order.
type Fanout []prototype.MetricsRecorder

// NewFanout drops nil recorders.
func NewFanout(recorders ...prototype.MetricsRecorder) Fanout {
	out := make(Fanout, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Observe implements prototype.MetricsRecorder.
func (f Fanout) Observe(operation string, success bool, d time.Duration) {
	for _, r := range f {
		r.Observe(operation, success, d)
	}
}
