// Package observability provides prototype.MetricsRecorder implementations
// backed by Prometheus and expvar.
package observability

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq atomic.Uint64

// ExpvarRecorder aggregates registry timings and outcomes and publishes them
// through expvar under a single name.
type ExpvarRecorder struct {
	name      string
	now       func() time.Time
	mu        sync.Mutex
	durations map[string]float64
	results   map[string]map[string]int64
}

// ExpvarSnapshot is a copy of the aggregated values.
type ExpvarSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarRecorder publishes a recorder under name. An empty name gets a
// generated unique one; expvar panics on duplicate names.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		name = fmt.Sprintf("protoreg_registry_%d", expvarSeq.Add(1))
	}
	rec := &ExpvarRecorder{
		name:      name,
		now:       func() time.Time { return time.Now().UTC() },
		durations: make(map[string]float64),
		results:   make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any { return rec.Snapshot() }))
	return rec
}

// Name returns the expvar key.
func (r *ExpvarRecorder) Name() string { return r.name }

// Observe adds one outcome for operation.
func (r *ExpvarRecorder) Observe(operation string, success bool, d time.Duration) {
	if operation == "" {
		return
	}
	status := statusLabel(success)
	r.mu.Lock()
	r.durations[operation] += float64(d) / float64(time.Millisecond)
	counts, ok := r.results[operation]
	if !ok {
		counts = make(map[string]int64, 2)
		r.results[operation] = counts
	}
	counts[status]++
	r.mu.Unlock()
}

// Snapshot copies the current totals.
func (r *ExpvarRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}
	results := make(map[string]map[string]int64, len(r.results))
	for op, counts := range r.results {
		cp := make(map[string]int64, len(counts))
		for status, n := range counts {
			cp[status] = n
		}
		results[op] = cp
	}
	return ExpvarSnapshot{DurationsMS: durations, Results: results, RecordedAt: r.now()}
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
