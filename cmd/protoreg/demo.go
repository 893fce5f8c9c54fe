package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"protoreg/pkg/document"
	"protoreg/pkg/prototype"
	"protoreg/pkg/shape"
)

func newDemoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Narrated walkthroughs of prototype cloning",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "documents",
			Short: "Clone documents, reports and contracts and manage them through a library",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.demoDocuments(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "shapes",
			Short: "Clone shapes that share a theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.demoShapes(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "registry",
			Short: "Register, create and unregister prototypes by name",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.demoRegistry(cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

func (a *app) demoDocuments(w io.Writer) error {
	banner(w, "BASIC DOCUMENT CLONING")
	original := document.New("Project Proposal Template", document.WithContent("This is a template for project proposals..."))
	original.AddTag("template")
	original.AddTag("proposal")
	original.AddAttachment("budget.xlsx", 15000)
	fmt.Fprintf(w, "Original: %s\n", original.Summary())
	fmt.Fprintf(w, "Tags: %v\n", original.Tags)

	clone := original.Clone().(*document.Document)
	clone.Title = "AI Project Proposal"
	clone.SetContent("This proposal outlines an AI implementation project...")
	clone.AddTag("AI")
	fmt.Fprintf(w, "Cloned: %s\n", clone.Summary())
	fmt.Fprintf(w, "Tags: %v\n", clone.Tags)

	original.AddAttachment("timeline.pdf", 8000)
	fmt.Fprintf(w, "After adding an attachment to the original: original=%d clone=%d\n",
		len(original.Attachments), len(clone.Attachments))

	fmt.Fprintln(w)
	banner(w, "REPORT TEMPLATES")
	master := document.NewReport("Quarterly Business Report", "quarterly")
	master.SetSection("executive_summary", "This report provides an overview of quarterly performance...")
	master.SetSection("methodology", "Data was collected from various business units...")
	master.AddChart("Revenue Growth", "line_chart")
	master.AddChart("Market Share", "pie_chart")
	fmt.Fprintf(w, "Master: %s\n", master.Summary())

	q1 := master.Clone().(*document.Report)
	q1.Title = "Q1 Business Report"
	q1.SetSection("results", "Q1 showed strong growth in all sectors...")
	q1.AddChart("Q1 Sales by Region", "bar_chart")
	q2 := master.Clone().(*document.Report)
	q2.Title = "Q2 Business Report"
	q2.SetSection("results", "Q2 maintained steady performance...")
	fmt.Fprintf(w, "Q1: %s\n", q1.Summary())
	fmt.Fprintf(w, "Q2: %s\n", q2.Summary())
	fmt.Fprintf(w, "Charts: master=%d q1=%d q2=%d\n", len(master.Charts), len(q1.Charts), len(q2.Charts))

	fmt.Fprintln(w)
	banner(w, "CONTRACT TEMPLATES")
	service := document.NewContract("Service Agreement Template", "service")
	service.AddTerm("Duration", "12 months")
	service.AddTerm("Payment Terms", "Net 30 days")
	service.AddClause("The service provider shall deliver services as outlined in Appendix A")
	fmt.Fprintf(w, "Template: %s\n", service.Summary())

	consulting := service.Clone().(*document.Contract)
	consulting.Title = "IT Consulting Agreement"
	consulting.SetParties("TechCorp Inc.", "BusinessClient LLC")
	consulting.AddTerm("Hourly Rate", "$150/hour")
	fmt.Fprintf(w, "Consulting: %s\n", consulting.Summary())
	fmt.Fprintf(w, "Terms: template=%d consulting=%d\n", len(service.Terms), len(consulting.Terms))

	fmt.Fprintln(w)
	banner(w, "DOCUMENT LIBRARY")
	lib, err := a.newLibrary()
	if err != nil {
		return err
	}
	printTemplates(w, lib.Templates())
	for _, req := range []struct{ template, title string }{
		{"basic", "User Manual v2.0"},
		{"monthly_report", "January Sales Report"},
		{"nda", "Partnership NDA - TechCorp"},
	} {
		if _, err := lib.CreateFromTemplate(req.template, req.title); err != nil {
			return err
		}
	}
	prod, err := lib.CreateWith("database_config", "Production Database", map[string]any{
		"host":     "prod-db.example.com",
		"database": "production_db",
	})
	if err != nil {
		return err
	}
	prod.(*document.Configuration).SetEnvironment("production")
	staged, _ := lib.Template("database_config")
	fmt.Fprintf(w, "\nConfigurations: template host=%v production host=%v\n",
		staged.(*document.Configuration).Settings["host"], prod.(*document.Configuration).Settings["host"])
	fmt.Fprintln(w, "\nCreated documents:")
	for i, e := range lib.Documents() {
		fmt.Fprintf(w, "%d. %s\n", i+1, e.Document.Summary())
		fmt.Fprintf(w, "   Template: %s  Tags: %s\n", e.Template, strings.Join(e.Document.Base().Tags, ", "))
	}

	fmt.Fprintln(w)
	banner(w, "CLONING THROUGHPUT")
	annual := document.NewReport("Complex Annual Report", "annual")
	for i := 0; i < 10; i++ {
		annual.AddChart(fmt.Sprintf("Chart %d", i+1), "complex_visualization")
	}
	annual.SetSection("results", strings.Repeat("C", 1000))
	start := time.Now()
	clones := make([]*document.Report, 0, 100)
	for i := 0; i < 100; i++ {
		c := annual.Clone().(*document.Report)
		c.Title = fmt.Sprintf("Report Copy %d", i+1)
		clones = append(clones, c)
	}
	elapsed := time.Since(start)
	clones[0].AddChart("Additional Chart", "special")
	fmt.Fprintf(w, "Created %d clones in %s\n", len(clones), elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "Charts: original=%d modified clone=%d\n", len(annual.Charts), len(clones[0].Charts))
	return nil
}

func (a *app) demoShapes(w io.Writer) error {
	banner(w, "SHAPES WITH A SHARED THEME")
	theme := &shape.Theme{Name: "blueprint", Stroke: 1, Opacity: 1}
	reg := prototype.NewRegistry[shape.Shape](
		prototype.WithLogger(a.log.Named("shapes")),
		prototype.WithMetrics(a.record),
	)
	reg.Register("circle", shape.NewCircle("red", 0, 0, 5, theme))
	reg.Register("rectangle", shape.NewRectangle("blue", 1, 2, 3, 4, theme))
	fmt.Fprintf(w, "Registered: %s\n", strings.Join(reg.Names(), ", "))

	first, err := reg.Create("circle")
	if err != nil {
		return err
	}
	second, err := reg.Create("circle")
	if err != nil {
		return err
	}
	second.MoveTo(10, 10)
	fmt.Fprintln(w, first.Draw())
	fmt.Fprintln(w, second.Draw())
	fmt.Fprintf(w, "Moving one clone leaves the other at %v\n", first.Position())

	rect, err := reg.Create("rectangle")
	if err != nil {
		return err
	}
	rect.Theme().Stroke = 3
	fmt.Fprintf(w, "Stroke changed through a rectangle clone; circle clone now draws with stroke %d\n", first.Theme().Stroke)
	fmt.Fprintln(w, first.Draw())
	fmt.Fprintf(w, "Areas: circle=%.2f rectangle=%.2f\n", first.Area(), rect.Area())
	return nil
}

func (a *app) demoRegistry(w io.Writer) error {
	banner(w, "PROTOTYPE REGISTRY")
	reg := prototype.NewRegistry[document.Template](
		prototype.WithLogger(a.log.Named("registry")),
		prototype.WithMetrics(a.record),
	)
	tpl := document.New("Template", document.WithContent("base content"))
	tpl.AddTag("draft")
	reg.Register("tpl", tpl)
	fmt.Fprintf(w, "Registered: %s\n", strings.Join(reg.Names(), ", "))

	a1, err := reg.Create("tpl")
	if err != nil {
		return err
	}
	a2, err := reg.Create("tpl")
	if err != nil {
		return err
	}
	a1.Base().AddTag("urgent")
	fmt.Fprintf(w, "Clone 1 tags: %v\n", a1.Base().Tags)
	fmt.Fprintf(w, "Clone 2 tags: %v\n", a2.Base().Tags)
	fmt.Fprintf(w, "Prototype tags: %v\n", tpl.Tags)

	reg.Register("tpl", document.New("Replacement"))
	replaced, err := reg.Create("tpl")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "After overwrite: %s\n", replaced.Summary())

	reg.Unregister("tpl")
	if _, err := reg.Create("tpl"); prototype.IsNotFound(err) {
		fmt.Fprintf(w, "After unregister: %v\n", err)
	}
	return nil
}

func printTemplates(w io.Writer, infos []document.TemplateInfo) {
	fmt.Fprintln(w, "Available templates:")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, info := range infos {
		fmt.Fprintf(w, "- %s: %s\n", info.Name, info.Summary)
	}
}
