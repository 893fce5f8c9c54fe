package document

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type warnLogger struct {
	mu    sync.Mutex
	warns []string
}

func (w *warnLogger) Debug(string, ...any) {}
func (w *warnLogger) Info(string, ...any)  {}
func (w *warnLogger) Error(string, ...any) {}
func (w *warnLogger) Warn(msg string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warns = append(w.warns, fmt.Sprintf("%s %v", msg, args))
}

func databaseConfig(clock Clock) *Configuration {
	c := NewConfiguration("Database", "database", WithClock(clock))
	c.SetSetting("host", "localhost")
	c.SetSetting("port", 5432)
	c.SetSetting("connection_pool", map[string]any{
		"min_connections": 5,
		"max_connections": 20,
		"timeout":         30,
	})
	c.SetSetting("ssl", map[string]any{"enabled": false, "cert_path": nil})
	c.AddDependency("postgres")
	return c
}

func TestConfigurationRendersSettingsAndTags(t *testing.T) {
	c := databaseConfig(newStepClock())
	for _, want := range []string{
		"CONFIGURATION: Database\n",
		"Type: Database\n",
		"Environment: development\n",
		`- connection_pool: {"max_connections":20,"min_connections":5,"timeout":30}`,
		`- host: "localhost"`,
		"DEPENDENCIES:\n- postgres\n",
	} {
		if !strings.Contains(c.Content, want) {
			t.Fatalf("expected %q in content:\n%s", want, c.Content)
		}
	}
	if !c.HasTag("configuration") || !c.HasTag("database") {
		t.Fatalf("expected configuration tags, got %v", c.Tags)
	}
	if got := c.Summary(); got != "Configuration: 'Database' (database, development, 4 settings, 1 dependencies)" {
		t.Fatalf("unexpected summary %q", got)
	}
	if c.AddDependency("postgres") || c.AddDependency("") {
		t.Fatalf("expected duplicate and empty dependencies to be rejected")
	}
	if c.Kind() != KindConfiguration || c.Base() != &c.Document {
		t.Fatalf("unexpected kind/base")
	}
	empty := NewConfiguration("x", "")
	if empty.ConfigType != "application" || !strings.Contains(empty.Content, "No settings defined") {
		t.Fatalf("expected defaults, got %q / %q", empty.ConfigType, empty.Content)
	}
}

func TestConfigurationNestedSettingsStayIndependent(t *testing.T) {
	master := databaseConfig(newStepClock())
	a := master.Clone().(*Configuration)
	b := master.Clone().(*Configuration)

	a.Settings["connection_pool"].(map[string]any)["max_connections"] = 50
	a.Settings["ssl"].(map[string]any)["enabled"] = true
	a.AddDependency("redis")
	a.SetEnvironment("production")

	for name, c := range map[string]*Configuration{"master": master, "sibling": b} {
		pool := c.Settings["connection_pool"].(map[string]any)
		if pool["max_connections"] != 20 {
			t.Fatalf("%s: expected pool untouched, got %v", name, pool["max_connections"])
		}
		if c.Settings["ssl"].(map[string]any)["enabled"] != false {
			t.Fatalf("%s: expected ssl untouched", name)
		}
		if diff := cmp.Diff([]string{"postgres"}, c.Dependencies); diff != "" {
			t.Fatalf("%s: dependencies differ (-want +got):\n%s", name, diff)
		}
		if c.Environment != "development" {
			t.Fatalf("%s: expected development environment, got %s", name, c.Environment)
		}
	}

	got, _ := master.Setting("connection_pool")
	got.(map[string]any)["timeout"] = 1
	if master.Settings["connection_pool"].(map[string]any)["timeout"] != 30 {
		t.Fatalf("expected Setting to return a copy")
	}
	if _, ok := master.Setting("missing"); ok {
		t.Fatalf("expected missing setting")
	}

	input := map[string]any{"primary": "db1"}
	master.SetSetting("replicas", input)
	input["primary"] = "db9"
	if v, _ := master.Setting("replicas"); v.(map[string]any)["primary"] != "db1" {
		t.Fatalf("expected SetSetting to copy the value")
	}
	master.SetSetting("", 1)
	if _, ok := master.Settings[""]; ok {
		t.Fatalf("expected empty key ignored")
	}
}

func TestConfigurationUpdateIgnoresUnknownKeys(t *testing.T) {
	c := databaseConfig(newStepClock())
	before := c.Version()

	ignored := c.Update(map[string]any{"port": 6543, "replica": "db2", "cache": true})
	if diff := cmp.Diff([]string{"cache", "replica"}, ignored); diff != "" {
		t.Fatalf("ignored keys differ (-want +got):\n%s", diff)
	}
	if c.Settings["port"] != 6543 || !strings.Contains(c.Content, "- port: 6543") {
		t.Fatalf("expected port updated and rendered, got %v", c.Settings["port"])
	}
	if _, ok := c.Settings["replica"]; ok {
		t.Fatalf("expected unknown key not to be added")
	}
	if c.Version() != before+1 {
		t.Fatalf("expected one version bump, got %d -> %d", before, c.Version())
	}
	if c.Update(map[string]any{"nope": 1}); c.Version() != before+1 {
		t.Fatalf("expected no bump when nothing applied")
	}
}

func TestLibraryCreateWithCustomizations(t *testing.T) {
	log := &warnLogger{}
	lib := NewLibrary(WithLibraryLogger(log))
	lib.RegisterTemplate("database", databaseConfig(newStepClock()))
	lib.RegisterTemplate("basic", New("Basic"))

	doc, err := lib.CreateWith("database", "Analytics DB", map[string]any{
		"host":            "analytics.internal",
		"connection_pool": map[string]any{"max_connections": 100},
		"region":          "eu",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	config := doc.(*Configuration)
	if config.Title != "Analytics DB" || config.Settings["host"] != "analytics.internal" {
		t.Fatalf("expected title and host customised, got %q %v", config.Title, config.Settings["host"])
	}
	if !strings.Contains(config.Content, "CONFIGURATION: Analytics DB") {
		t.Fatalf("expected re-rendered content:\n%s", config.Content)
	}
	tpl, _ := lib.Template("database")
	pool := tpl.(*Configuration).Settings["connection_pool"].(map[string]any)
	if pool["max_connections"] != 20 || tpl.(*Configuration).Settings["host"] != "localhost" {
		t.Fatalf("expected registered template untouched, got %v", pool)
	}
	if len(log.warns) != 1 || log.warns[0] != "unknown template setting ignored [template database key region]" {
		t.Fatalf("expected one warning for the unknown key, got %v", log.warns)
	}

	if _, err := lib.CreateWith("basic", "", map[string]any{"b": 1, "a": 2}); err != nil {
		t.Fatalf("create basic: %v", err)
	}
	if len(log.warns) != 3 || !strings.HasSuffix(log.warns[1], "key a]") || !strings.HasSuffix(log.warns[2], "key b]") {
		t.Fatalf("expected every key ignored for plain documents, got %v", log.warns)
	}
	if len(lib.Documents()) != 2 {
		t.Fatalf("expected both creations recorded, got %d", len(lib.Documents()))
	}
}
