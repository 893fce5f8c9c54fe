// Package starter provides the default template pack shipped with protoreg:
// a basic document, a monthly report, two contracts and two service
// configurations.
package starter

import (
	"protoreg/pkg/document"
)

// Template names contributed by the pack.
const (
	Basic            = "basic"
	MonthlyReport    = "monthly_report"
	NDA              = "nda"
	ServiceAgreement = "service_agreement"
	DatabaseConfig   = "database_config"
	APIConfig        = "api_config"
)

// Pack implements document.Pack for the starter templates.
type Pack struct {
	opts []document.Option
}

// New constructs a starter pack. Options are applied to every template the
// pack builds, which lets callers inject a clock or an author.
func New(opts ...document.Option) Pack {
	return Pack{opts: append([]document.Option(nil), opts...)}
}

// Name returns the pack identifier.
func (Pack) Name() string { return "starter" }

// Version returns the pack semantic version.
func (Pack) Version() string { return "0.1.0" }

// Register stages the starter templates.
func (p Pack) Register(registry *document.PackRegistry) error {
	builders := []struct {
		name  string
		build func() document.Template
	}{
		{Basic, p.basic},
		{MonthlyReport, p.monthlyReport},
		{NDA, p.nda},
		{ServiceAgreement, p.serviceAgreement},
		{DatabaseConfig, p.databaseConfig},
		{APIConfig, p.apiConfig},
	}
	for _, b := range builders {
		if err := registry.RegisterTemplate(b.name, b.build()); err != nil {
			return err
		}
	}
	return nil
}

func (p Pack) basic() document.Template {
	d := document.New("Untitled Document", append(p.options(), document.WithContent("Start writing here..."))...)
	d.AddTag("general")
	return d
}

func (p Pack) monthlyReport() document.Template {
	r := document.NewReport("Monthly Status Report", "monthly", p.options()...)
	r.SetSection("executive_summary", "Highlights of the month.")
	r.SetSection("results", "Key metrics and outcomes.")
	r.AddChart("Monthly Trend", "line")
	r.SetAttribute("cadence", "monthly")
	return r
}

func (p Pack) nda() document.Template {
	c := document.NewContract("Non-Disclosure Agreement", "nda", p.options()...)
	c.SetParties("Disclosing Party", "Receiving Party")
	c.AddTerm("Duration", "2 years")
	c.AddTerm("Jurisdiction", "Delaware")
	c.AddClause("Confidential information must not be shared with third parties.")
	return c
}

func (p Pack) serviceAgreement() document.Template {
	c := document.NewContract("Service Agreement", "service", p.options()...)
	c.SetParties("Provider", "Client")
	c.AddTerm("Payment", "Net 30")
	c.AddTerm("Duration", "12 months")
	c.AddClause("Services are delivered as described in the statement of work.")
	c.AddClause("Either party may terminate with 30 days written notice.")
	return c
}

func (p Pack) databaseConfig() document.Template {
	c := document.NewConfiguration("Database Connection", "database", p.options()...)
	c.SetSetting("host", "localhost")
	c.SetSetting("port", 5432)
	c.SetSetting("database", "default_db")
	c.SetSetting("username", "user")
	c.SetSetting("connection_pool", map[string]any{
		"min_connections": 5,
		"max_connections": 20,
		"timeout":         30,
	})
	c.SetSetting("ssl", map[string]any{
		"enabled":   false,
		"cert_path": nil,
	})
	c.AddDependency("postgres")
	return c
}

func (p Pack) apiConfig() document.Template {
	c := document.NewConfiguration("API Client", "api", p.options()...)
	c.SetSetting("base_url", "https://api.example.com")
	c.SetSetting("version", "v1")
	c.SetSetting("timeout", 30)
	c.SetSetting("retry_attempts", 3)
	c.SetSetting("rate_limit", map[string]any{
		"requests_per_minute": 100,
		"burst_limit":         10,
	})
	c.SetSetting("headers", map[string]any{
		"User-Agent": "protoreg/0.1",
		"Accept":     "application/json",
	})
	return c
}

func (p Pack) options() []document.Option {
	return append([]document.Option(nil), p.opts...)
}
