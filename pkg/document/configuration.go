package document

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"protoreg/pkg/prototype"
)

// Configuration is a document whose content is generated from a settings
// bag scoped to an environment. Settings are deep copied on every clone so
// nested maps such as connection pools never leak between instances.
type Configuration struct {
	Document
	ConfigType   string         `json:"config_type"`
	Environment  string         `json:"environment"`
	Settings     map[string]any `json:"settings"`
	Dependencies []string       `json:"dependencies,omitempty"`
}

// Customizable is implemented by templates that accept setting overrides
// when a document is created from them.
type Customizable interface {
	// Update applies the updates whose keys are already known and returns
	// the ignored keys in sorted order.
	Update(updates map[string]any) []string
}

// NewConfiguration constructs a configuration with no settings and renders
// its initial content.
func NewConfiguration(title, configType string, opts ...Option) *Configuration {
	if configType == "" {
		configType = "application"
	}
	c := &Configuration{
		Document:    Document{Title: title, Tags: []string{}},
		ConfigType:  configType,
		Environment: "development",
		Settings:    make(map[string]any),
	}
	c.init(opts)
	c.Render()
	return c
}

// Kind reports KindConfiguration.
func (c *Configuration) Kind() Kind { return KindConfiguration }

// Base returns the embedded document.
func (c *Configuration) Base() *Document { return &c.Document }

// Clone returns an independent *Configuration.
func (c *Configuration) Clone() Template {
	return &Configuration{
		Document:     *c.Document.cloneDocument(),
		ConfigType:   c.ConfigType,
		Environment:  c.Environment,
		Settings:     prototype.CloneAttributes(c.Settings),
		Dependencies: prototype.CloneSlice(c.Dependencies),
	}
}

// SetEnvironment moves the configuration to env and regenerates the content.
func (c *Configuration) SetEnvironment(env string) {
	if env == "" || env == c.Environment {
		return
	}
	c.Environment = env
	c.Render()
	c.touch()
}

// SetSetting stores a deep copy of value under key. Empty keys are ignored.
func (c *Configuration) SetSetting(key string, value any) {
	if key == "" {
		return
	}
	if c.Settings == nil {
		c.Settings = make(map[string]any)
	}
	c.Settings[key] = prototype.CloneValue(value)
	c.Render()
	c.touch()
}

// Setting returns a deep copy of the value stored under key.
func (c *Configuration) Setting(key string) (any, bool) {
	v, ok := c.Settings[key]
	if !ok {
		return nil, false
	}
	return prototype.CloneValue(v), true
}

// SettingKeys returns the setting names in sorted order.
func (c *Configuration) SettingKeys() []string {
	keys := make([]string, 0, len(c.Settings))
	for k := range c.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddDependency records a named dependency. It reports false when the
// dependency is empty or already present.
func (c *Configuration) AddDependency(name string) bool {
	if name == "" || slices.Contains(c.Dependencies, name) {
		return false
	}
	c.Dependencies = append(c.Dependencies, name)
	c.Render()
	c.touch()
	return true
}

// Update replaces the values of existing settings. Keys the configuration
// does not already define are left out and returned sorted. The version is
// bumped once when at least one key was applied.
func (c *Configuration) Update(updates map[string]any) []string {
	var ignored []string
	applied := 0
	for key, value := range updates {
		if _, known := c.Settings[key]; !known {
			ignored = append(ignored, key)
			continue
		}
		c.Settings[key] = prototype.CloneValue(value)
		applied++
	}
	sort.Strings(ignored)
	if applied > 0 {
		c.Render()
		c.touch()
	}
	return ignored
}

// Render regenerates Content from the settings and dependencies and makes
// sure the configuration tags are present. It does not bump the version.
func (c *Configuration) Render() {
	var b strings.Builder
	fmt.Fprintf(&b, "CONFIGURATION: %s\n", c.Title)
	fmt.Fprintf(&b, "Type: %s\n", titleCase(c.ConfigType))
	fmt.Fprintf(&b, "Environment: %s\n\n", c.Environment)
	b.WriteString("SETTINGS:\n")
	if len(c.Settings) == 0 {
		b.WriteString("No settings defined...\n")
	}
	for _, key := range c.SettingKeys() {
		fmt.Fprintf(&b, "- %s: %s\n", key, settingText(c.Settings[key]))
	}
	if len(c.Dependencies) > 0 {
		b.WriteString("\nDEPENDENCIES:\n")
		for _, dep := range c.Dependencies {
			fmt.Fprintf(&b, "- %s\n", dep)
		}
	}
	c.Content = b.String()
	c.ensureTags("configuration", c.ConfigType)
}

// Summary renders a one-line description.
func (c *Configuration) Summary() string {
	return fmt.Sprintf("Configuration: '%s' (%s, %s, %d settings, %d dependencies)",
		c.Title, c.ConfigType, c.Environment, len(c.Settings), len(c.Dependencies))
}

func settingText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
