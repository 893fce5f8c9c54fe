package observability

import (
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"protoreg/pkg/prototype"
)

func TestExpvarRecorderAggregates(t *testing.T) {
	rec := NewExpvarRecorder("")
	rec.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	rec.Observe(prototype.OpCreate, true, 2*time.Millisecond)
	rec.Observe(prototype.OpCreate, false, 3*time.Millisecond)
	rec.Observe(prototype.OpCreate, true, time.Millisecond)
	rec.Observe("", true, time.Second)

	snap := rec.Snapshot()
	if snap.DurationsMS[prototype.OpCreate] != 6 {
		t.Fatalf("expected 6ms total, got %v", snap.DurationsMS)
	}
	if snap.Results[prototype.OpCreate]["success"] != 2 || snap.Results[prototype.OpCreate]["error"] != 1 {
		t.Fatalf("unexpected results %v", snap.Results)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("expected empty operation ignored, got %v", snap.Results)
	}
	snap.Results[prototype.OpCreate]["success"] = 99
	if rec.Snapshot().Results[prototype.OpCreate]["success"] != 2 {
		t.Fatalf("expected snapshot to be a copy")
	}

	v := expvar.Get(rec.Name())
	if v == nil {
		t.Fatalf("expected expvar export to be registered")
	}
	if !strings.Contains(v.String(), prototype.OpCreate) {
		t.Fatalf("expected expvar output to contain operation: %s", v.String())
	}
	if other := NewExpvarRecorder(""); other.Name() == rec.Name() {
		t.Fatalf("expected unique generated names")
	}
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	rec.Observe(prototype.OpRegister, true, time.Millisecond)
	rec.Observe(prototype.OpCreate, true, time.Millisecond)
	rec.Observe(prototype.OpCreate, false, time.Millisecond)
	rec.Observe("", true, time.Millisecond)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues(prototype.OpCreate, "success")); got != 1 {
		t.Fatalf("expected 1 successful create, got %v", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues(prototype.OpCreate, "error")); got != 1 {
		t.Fatalf("expected 1 failed create, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.durations); n != 2 {
		t.Fatalf("expected 2 histogram series, got %d", n)
	}
	expected := `
# HELP protoreg_registry_operations_total Prototype registry operations by outcome.
# TYPE protoreg_registry_operations_total counter
protoreg_registry_operations_total{operation="create",status="error"} 1
protoreg_registry_operations_total{operation="create",status="success"} 1
protoreg_registry_operations_total{operation="register",status="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "protoreg_registry_operations_total"); err != nil {
		t.Fatalf("unexpected exposition: %v", err)
	}

	if _, err := NewPrometheusRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

type countingRecorder struct{ n int }

func (c *countingRecorder) Observe(string, bool, time.Duration) { c.n++ }

func TestFanoutWithRegistry(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	fan := NewFanout(a, nil, b)
	if len(fan) != 2 {
		t.Fatalf("expected nil recorder dropped, got %d", len(fan))
	}
	reg := prototype.NewRegistry[*note](prototype.WithMetrics(fan))
	reg.Register("n", &note{})
	if _, err := reg.Create("n"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = reg.Create("missing")
	if a.n != 3 || b.n != 3 {
		t.Fatalf("expected 3 observations each, got %d and %d", a.n, b.n)
	}
}

type note struct{}

func (n *note) Clone() *note { return &note{} }
