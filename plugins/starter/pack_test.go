package starter

import (
	"strings"
	"testing"
	"time"

	"protoreg/pkg/document"
)

func fixedClock() document.Clock {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return document.ClockFunc(func() time.Time { return at })
}

func TestPackMetadata(t *testing.T) {
	p := New()
	if p.Name() != "starter" {
		t.Fatalf("expected name starter, got %s", p.Name())
	}
	if p.Version() != "0.1.0" {
		t.Fatalf("expected version 0.1.0, got %s", p.Version())
	}
}

func TestPackInstallsTemplates(t *testing.T) {
	lib := document.NewLibrary()
	info, err := lib.Install(New(document.WithClock(fixedClock())))
	if err != nil {
		t.Fatalf("install starter pack: %v", err)
	}
	want := []string{Basic, MonthlyReport, NDA, ServiceAgreement, DatabaseConfig, APIConfig}
	if len(info.Templates) != len(want) {
		t.Fatalf("expected %d templates, got %v", len(want), info.Templates)
	}
	for i, name := range want {
		if info.Templates[i] != name {
			t.Fatalf("expected template %d to be %s, got %s", i, name, info.Templates[i])
		}
		if !lib.HasTemplate(name) {
			t.Fatalf("expected library to hold %s", name)
		}
	}
	if _, err := lib.Install(New()); err == nil {
		t.Fatalf("expected reinstall to fail")
	}
}

func TestPackTemplateKinds(t *testing.T) {
	lib := document.NewLibrary()
	if _, err := lib.Install(New()); err != nil {
		t.Fatalf("install: %v", err)
	}
	cases := []struct {
		name    string
		kind    document.Kind
		content string
	}{
		{Basic, document.KindDocument, "Start writing here..."},
		{MonthlyReport, document.KindReport, "## Executive Summary\nHighlights of the month."},
		{NDA, document.KindContract, "Party B: Receiving Party"},
		{ServiceAgreement, document.KindContract, "2. Either party may terminate"},
		{DatabaseConfig, document.KindConfiguration, `- connection_pool: {"max_connections":20,"min_connections":5,"timeout":30}`},
		{APIConfig, document.KindConfiguration, `- base_url: "https://api.example.com"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tpl, err := lib.Template(tc.name)
			if err != nil {
				t.Fatalf("template %s: %v", tc.name, err)
			}
			if tpl.Kind() != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, tpl.Kind())
			}
			if !strings.Contains(tpl.Base().Content, tc.content) {
				t.Fatalf("expected content to contain %q, got %q", tc.content, tpl.Base().Content)
			}
		})
	}
}

func TestPackCreatesIndependentDocuments(t *testing.T) {
	lib := document.NewLibrary()
	if _, err := lib.Install(New()); err != nil {
		t.Fatalf("install: %v", err)
	}
	first, err := lib.CreateFromTemplate(NDA, "Acme NDA")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := lib.CreateFromTemplate(NDA, "Globex NDA")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	c1, ok := first.(*document.Contract)
	if !ok {
		t.Fatalf("expected *document.Contract, got %T", first)
	}
	c1.AddTerm("Duration", "5 years")
	c2 := second.(*document.Contract)
	if v, _ := c2.Term("Duration"); v != "2 years" {
		t.Fatalf("expected second contract to keep its term, got %q", v)
	}
	if !strings.HasPrefix(c2.Content, "CONTRACT: Globex NDA") {
		t.Fatalf("expected re-rendered title, got %q", c2.Content)
	}
	tpl, _ := lib.Template(NDA)
	if v, _ := tpl.(*document.Contract).Term("Duration"); v != "2 years" {
		t.Fatalf("expected canonical template untouched, got %q", v)
	}
}

func TestPackRegisterRejectsCollisions(t *testing.T) {
	reg := document.NewPackRegistry()
	if err := reg.RegisterTemplate(Basic, document.New("taken")); err != nil {
		t.Fatalf("pre-register: %v", err)
	}
	if err := New().Register(reg); err == nil {
		t.Fatalf("expected collision to fail registration")
	}
}

func TestPackConfigurationsCustomizeIndependently(t *testing.T) {
	lib := document.NewLibrary()
	if _, err := lib.Install(New()); err != nil {
		t.Fatalf("install: %v", err)
	}
	prod, err := lib.CreateWith(DatabaseConfig, "Production DB", map[string]any{
		"host":     "prod-db.example.com",
		"database": "production_db",
		"replica":  "ignored",
	})
	if err != nil {
		t.Fatalf("create prod: %v", err)
	}
	dev, err := lib.CreateWith(DatabaseConfig, "", nil)
	if err != nil {
		t.Fatalf("create dev: %v", err)
	}
	p := prod.(*document.Configuration)
	p.Settings["connection_pool"].(map[string]any)["max_connections"] = 50
	p.SetEnvironment("production")

	d := dev.(*document.Configuration)
	if d.Settings["host"] != "localhost" || d.Environment != "development" {
		t.Fatalf("expected dev config untouched, got %v %s", d.Settings["host"], d.Environment)
	}
	if d.Settings["connection_pool"].(map[string]any)["max_connections"] != 20 {
		t.Fatalf("expected nested pool settings to stay independent")
	}
	if _, ok := p.Settings["replica"]; ok {
		t.Fatalf("expected unknown key to be ignored")
	}
	if p.Settings["database"] != "production_db" || !strings.Contains(p.Content, "CONFIGURATION: Production DB") {
		t.Fatalf("unexpected prod config %q", p.Content)
	}
}
