package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"protoreg/pkg/document"
)

// FixtureFile is the YAML layout accepted by LoadFixtures.
//
//	templates:
//	  - name: nda
//	    kind: contract
//	    title: Non-Disclosure Agreement
//	    contract_type: nda
//	    terms:
//	      - {key: Duration, value: 2 years}
//	  - name: cache
//	    kind: configuration
//	    config_type: cache
//	    settings:
//	      ttl: 60
type FixtureFile struct {
	Templates []Fixture `yaml:"templates"`
}

// Fixture describes one template in human-editable form.
type Fixture struct {
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind"`
	Title      string            `yaml:"title"`
	Content    string            `yaml:"content,omitempty"`
	Author     string            `yaml:"author,omitempty"`
	Tags       []string          `yaml:"tags,omitempty"`
	Status     string            `yaml:"status,omitempty"`
	Attributes map[string]any    `yaml:"attributes,omitempty"`
	ReportType string            `yaml:"report_type,omitempty"`
	Sections   map[string]string `yaml:"sections,omitempty"`
	Charts     []document.Chart  `yaml:"charts,omitempty"`
	Contract   string            `yaml:"contract_type,omitempty"`
	Parties    *document.Parties `yaml:"parties,omitempty"`
	Terms      []document.Term   `yaml:"terms,omitempty"`
	Clauses    []string          `yaml:"clauses,omitempty"`

	ConfigType   string         `yaml:"config_type,omitempty"`
	Environment  string         `yaml:"environment,omitempty"`
	Settings     map[string]any `yaml:"settings,omitempty"`
	Dependencies []string       `yaml:"dependencies,omitempty"`
}

// LoadFixtures parses a fixture file. Names must be present and unique.
func LoadFixtures(r io.Reader) ([]Fixture, error) {
	var file FixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Templates))
	for i, f := range file.Templates {
		if f.Name == "" {
			return nil, fmt.Errorf("fixture %d: name required", i)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("fixture %s: duplicate name", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return file.Templates, nil
}

// Build constructs the template described by f.
func (f Fixture) Build(opts ...document.Option) (document.Template, error) {
	kind := f.Kind
	if kind == "" {
		kind = string(document.KindDocument)
	}
	k, err := document.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}
	var t document.Template
	switch k {
	case document.KindReport:
		r := document.NewReport(f.Title, f.ReportType, opts...)
		for name, body := range f.Sections {
			if !r.SetSection(name, body) {
				return nil, fmt.Errorf("fixture %s: unknown section %q", f.Name, name)
			}
		}
		for _, c := range f.Charts {
			r.AddChart(c.Title, c.Type)
		}
		t = r
	case document.KindContract:
		c := document.NewContract(f.Title, f.Contract, opts...)
		if f.Parties != nil {
			c.SetParties(f.Parties.A, f.Parties.B)
		}
		for _, term := range f.Terms {
			c.AddTerm(term.Key, term.Value)
		}
		for _, clause := range f.Clauses {
			c.AddClause(clause)
		}
		t = c
	case document.KindConfiguration:
		c := document.NewConfiguration(f.Title, f.ConfigType, opts...)
		c.SetEnvironment(f.Environment)
		for key, value := range f.Settings {
			c.SetSetting(key, value)
		}
		for _, dep := range f.Dependencies {
			c.AddDependency(dep)
		}
		t = c
	default:
		docOpts := append(append([]document.Option(nil), opts...), document.WithContent(f.Content))
		t = document.New(f.Title, docOpts...)
	}

	base := t.Base()
	if f.Author != "" {
		base.Author = f.Author
	}
	for _, tag := range f.Tags {
		base.AddTag(tag)
	}
	for key, value := range f.Attributes {
		base.SetAttribute(key, value)
	}
	if f.Status != "" {
		if err := base.SetStatus(document.Status(f.Status)); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
		}
	}
	return t, nil
}

// Seed builds every fixture read from r and registers them into lib. No
// template is registered when any fixture fails to build.
func Seed(lib *document.Library, r io.Reader, opts ...document.Option) (int, error) {
	fixtures, err := LoadFixtures(r)
	if err != nil {
		return 0, err
	}
	built := make([]document.Template, len(fixtures))
	for i, f := range fixtures {
		if built[i], err = f.Build(opts...); err != nil {
			return 0, err
		}
	}
	for i, f := range fixtures {
		lib.RegisterTemplate(f.Name, built[i])
	}
	return len(fixtures), nil
}

// SeedFromYAML seeds lib from the fixture file at path.
func SeedFromYAML(lib *document.Library, path string, opts ...document.Option) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Seed(lib, f, opts...)
}
