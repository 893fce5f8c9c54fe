package prototype

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type note struct {
	title string
	tags  []string
}

func (n *note) Clone() *note {
	return &note{title: n.title, tags: CloneSlice(n.tags)}
}

type captureLogger struct {
	mu    sync.Mutex
	calls []string
}

func (c *captureLogger) record(level, msg string) {
	c.mu.Lock()
	c.calls = append(c.calls, level+":"+msg)
	c.mu.Unlock()
}

func (c *captureLogger) Debug(msg string, _ ...any) { c.record("d", msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.record("i", msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.record("w", msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.record("e", msg) }

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetrics struct {
	calls []metricsCall
}

func (c *captureMetrics) Observe(op string, success bool, d time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: d})
}

func (c *captureMetrics) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

func TestRegistryCreateReturnsIndependentClones(t *testing.T) {
	registry := NewRegistry[*note]()
	original := &note{title: "Draft", tags: []string{}}
	registry.Register("tpl", original)

	a, err := registry.Create("tpl")
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := registry.Create("tpl")
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a == b || a == original || b == original {
		t.Fatalf("expected distinct instances")
	}
	if a.title != "Draft" || b.title != "Draft" {
		t.Fatalf("expected clones to carry the title, got %q and %q", a.title, b.title)
	}

	a.tags = append(a.tags, "urgent")
	if len(b.tags) != 0 {
		t.Fatalf("expected b tags to stay empty, got %v", b.tags)
	}
	if len(original.tags) != 0 {
		t.Fatalf("expected prototype tags to stay empty, got %v", original.tags)
	}
	c, _ := registry.Create("tpl")
	if len(c.tags) != 0 {
		t.Fatalf("expected later clones to be unaffected, got %v", c.tags)
	}
}

func TestRegistryCreateMissingReturnsNotFound(t *testing.T) {
	registry := NewRegistry[*note]()
	registry.Register("known", &note{title: "k"})

	got, err := registry.Create("missing")
	if err == nil {
		t.Fatalf("expected error for missing prototype")
	}
	if got != nil {
		t.Fatalf("expected zero value on failure, got %v", got)
	}
	var nf ErrNotFound
	if !errors.As(err, &nf) || nf.Name != "missing" {
		t.Fatalf("expected ErrNotFound carrying name, got %#v", err)
	}
	if !IsNotFound(fmt.Errorf("wrapped: %w", err)) {
		t.Fatalf("expected wrapped error to match IsNotFound")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected error message to mention name, got %q", err.Error())
	}
	if registry.Len() != 1 || registry.Has("missing") {
		t.Fatalf("expected registry state untouched by failed lookup")
	}
	if IsNotFound(errors.New("other")) || IsNotFound(nil) {
		t.Fatalf("expected unrelated errors not to match")
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry[*note]()
	registry.Register("tpl", &note{title: "x"})
	registry.Unregister("tpl")
	if _, err := registry.Create("tpl"); !IsNotFound(err) {
		t.Fatalf("expected not found after unregister, got %v", err)
	}

	registry.Unregister("never-registered")
	if registry.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestRegistryOverwriteReturnsNewPrototype(t *testing.T) {
	registry := NewRegistry[*note]()
	registry.Register("tpl", &note{title: "old"})
	registry.Register("tpl", &note{title: "new"})

	got, err := registry.Create("tpl")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.title != "new" {
		t.Fatalf("expected clone of replacement prototype, got %q", got.title)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected overwrite to keep a single entry, got %d", registry.Len())
	}
}

func TestRegistryIgnoresEmptyNameAndNilPrototype(t *testing.T) {
	log := &captureLogger{}
	metrics := &captureMetrics{}
	registry := NewRegistry[*note](WithLogger(log), WithMetrics(metrics))

	registry.Register("", &note{title: "x"})
	registry.Register("nil", nil)
	registry.Register("typed-nil", (*note)(nil))
	if registry.Len() != 0 {
		t.Fatalf("expected guarded registrations to be ignored")
	}
	if _, err := registry.Create("typed-nil"); !IsNotFound(err) {
		t.Fatalf("expected typed nil prototype to stay unregistered, got %v", err)
	}
	if !metrics.has(OpRegister, false) {
		t.Fatalf("expected failed register to be observed")
	}
	if len(log.calls) != 4 || !strings.HasPrefix(log.calls[0], "w:") || log.calls[2] != "w:prototype registration ignored" {
		t.Fatalf("expected warnings for ignored registrations, got %v", log.calls)
	}
}

func TestRegistryNamesIsSortedSnapshot(t *testing.T) {
	registry := NewRegistry[*note]()
	for _, name := range []string{"gamma", "alpha", "beta"} {
		registry.Register(name, &note{title: name})
	}
	names := registry.Names()
	want := []string{"alpha", "beta", "gamma"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, names)
	}

	registry.Register("delta", &note{})
	registry.Unregister("alpha")
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected earlier snapshot to be unaffected, got %v", names)
	}
	names[0] = "mutated"
	if registry.Names()[0] != "beta" {
		t.Fatalf("expected registry names to be independent of returned slice")
	}
}

func TestRegistryObservesOperations(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var ticks int
	clock := func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Millisecond)
	}
	log := &captureLogger{}
	metrics := &captureMetrics{}
	registry := NewRegistry[*note](WithLogger(log), WithMetrics(metrics), WithClock(clock), nil)

	registry.Register("tpl", &note{})
	if _, err := registry.Create("tpl"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = registry.Create("missing")
	registry.Unregister("tpl")

	for _, want := range []struct {
		op      string
		success bool
	}{
		{OpRegister, true},
		{OpCreate, true},
		{OpCreate, false},
		{OpUnregister, true},
	} {
		if !metrics.has(want.op, want.success) {
			t.Fatalf("expected %s success=%v to be observed; calls=%v", want.op, want.success, metrics.calls)
		}
	}
	for _, call := range metrics.calls {
		if call.duration != time.Millisecond {
			t.Fatalf("expected 1ms duration from stepping clock, got %s", call.duration)
		}
	}
	if len(log.calls) == 0 {
		t.Fatalf("expected logger to be used")
	}
}

func TestRegistryNilOptionsKeepDefaults(t *testing.T) {
	registry := NewRegistry[*note](WithLogger(nil), WithMetrics(nil), WithClock(nil))
	registry.Register("tpl", &note{title: "x"})
	if _, err := registry.Create("tpl"); err != nil {
		t.Fatalf("expected defaults to work, got %v", err)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry[*note]()
	registry.Register("shared", &note{title: "shared", tags: []string{"a"}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("n%d", i)
			registry.Register(name, &note{title: name})
			clone, err := registry.Create("shared")
			if err != nil {
				t.Errorf("create shared: %v", err)
				return
			}
			clone.tags = append(clone.tags, name)
			_ = registry.Names()
			registry.Unregister(name)
		}(i)
	}
	wg.Wait()

	final, err := registry.Create("shared")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(final.tags) != 1 {
		t.Fatalf("expected prototype tags untouched by clones, got %v", final.tags)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected only shared prototype to remain, got %v", registry.Names())
	}
}
