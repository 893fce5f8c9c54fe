package document

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"protoreg/pkg/prototype"
)

// Section is a named block of report content.
type Section struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// Chart describes a visualisation attached to a report.
type Chart struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// DefaultSections lists the sections every new report starts with, in order.
var DefaultSections = []string{
	"executive_summary",
	"introduction",
	"methodology",
	"results",
	"conclusion",
	"recommendations",
}

// Report is a document whose content is generated from ordered sections.
type Report struct {
	Document
	ReportType string    `json:"report_type"`
	Sections   []Section `json:"sections"`
	Charts     []Chart   `json:"charts,omitempty"`
}

// NewReport constructs a report with empty default sections and renders its
// initial content.
func NewReport(title, reportType string, opts ...Option) *Report {
	if reportType == "" {
		reportType = "monthly"
	}
	r := &Report{
		Document:   Document{Title: title, Tags: []string{}},
		ReportType: reportType,
		Sections:   make([]Section, 0, len(DefaultSections)),
	}
	r.init(opts)
	for _, name := range DefaultSections {
		r.Sections = append(r.Sections, Section{Name: name})
	}
	r.Render()
	return r
}

// Kind reports KindReport.
func (r *Report) Kind() Kind { return KindReport }

// Base returns the embedded document.
func (r *Report) Base() *Document { return &r.Document }

// Clone returns an independent *Report.
func (r *Report) Clone() Template {
	return &Report{
		Document:   *r.Document.cloneDocument(),
		ReportType: r.ReportType,
		Sections:   prototype.CloneSlice(r.Sections),
		Charts:     prototype.CloneSlice(r.Charts),
	}
}

// Section returns the body of the named section.
func (r *Report) Section(name string) (string, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s.Body, true
		}
	}
	return "", false
}

// SetSection replaces the body of an existing section and regenerates the
// content. Unknown section names are rejected.
func (r *Report) SetSection(name, body string) bool {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			r.Sections[i].Body = body
			r.Render()
			r.touch()
			return true
		}
	}
	return false
}

// AddChart attaches a chart.
func (r *Report) AddChart(title, chartType string) {
	r.Charts = append(r.Charts, Chart{Title: title, Type: chartType})
	r.touch()
}

// Render regenerates Content from the title, type and sections and makes
// sure the report tags are present. It does not bump the version.
func (r *Report) Render() {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", r.Title)
	fmt.Fprintf(&b, "Report Type: %s\n", titleCase(r.ReportType))
	if r.Metadata != nil {
		fmt.Fprintf(&b, "Generated: %s\n", r.Metadata.CreatedAt.Format("2006-01-02 15:04"))
	}
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n## %s\n%s\n", sectionHeading(s.Name), s.Body)
	}
	r.Content = b.String()
	r.ensureTags("report", r.ReportType)
}

// Summary renders a one-line description.
func (r *Report) Summary() string {
	return fmt.Sprintf("Report: '%s' (%s, %d sections, %d charts)", r.Title, r.ReportType, len(r.Sections), len(r.Charts))
}

func (d *Document) ensureTags(tags ...string) {
	for _, tag := range tags {
		if tag != "" && !d.HasTag(tag) {
			d.Tags = append(d.Tags, tag)
		}
	}
}

func sectionHeading(name string) string {
	return titleCase(strings.ReplaceAll(name, "_", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
