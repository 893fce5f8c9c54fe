package document

import (
	"fmt"

	"protoreg/pkg/prototype"
)

// Pack contributes a set of named templates to a Library.
type Pack interface {
	Name() string
	Version() string
	Register(registry *PackRegistry) error
}

// PackInfo describes an installed pack.
type PackInfo struct {
	Name      string
	Version   string
	Templates []string
}

// PackRegistry accumulates the templates contributed by a pack during
// installation.
type PackRegistry struct {
	templates map[string]Template
	order     []string
}

// NewPackRegistry constructs an empty pack registry.
func NewPackRegistry() *PackRegistry {
	return &PackRegistry{templates: make(map[string]Template)}
}

// RegisterTemplate stages t under name. Names must be unique within a pack.
func (r *PackRegistry) RegisterTemplate(name string, t Template) error {
	if name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if prototype.IsNil(t) {
		return fmt.Errorf("template %s cannot be nil", name)
	}
	if _, exists := r.templates[name]; exists {
		return fmt.Errorf("template %s already registered", name)
	}
	r.templates[name] = t
	r.order = append(r.order, name)
	return nil
}

// Names returns the staged template names in registration order.
func (r *PackRegistry) Names() []string {
	return append([]string(nil), r.order...)
}
