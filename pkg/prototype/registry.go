package prototype

import (
	"sort"
	"sync"
)

// Registry maps names to canonical prototype instances and hands out clones.
// The zero value is not usable; construct one with NewRegistry.
//
// Registry guards its map with a read/write mutex so it can be shared between
// goroutines. The canonical prototypes themselves are never exposed, but a
// caller that keeps its own reference to a prototype after registering it can
// still mutate it; later clones observe those mutations.
type Registry[T any] struct {
	mu         sync.RWMutex
	prototypes map[string]Prototype[T]
	opts       options
}

// NewRegistry constructs an empty registry.
func NewRegistry[T any](opts ...Option) *Registry[T] {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Registry[T]{
		prototypes: make(map[string]Prototype[T]),
		opts:       o,
	}
}

// Register stores p under name, replacing any previous entry for that name.
// Empty names and nil prototypes, including typed nil pointers, are ignored.
func (r *Registry[T]) Register(name string, p Prototype[T]) {
	start := r.opts.now()
	if name == "" || IsNil(p) {
		r.opts.logger.Warn("prototype registration ignored", "name", name)
		r.opts.metrics.Observe(OpRegister, false, r.opts.now().Sub(start))
		return
	}
	r.mu.Lock()
	_, replaced := r.prototypes[name]
	r.prototypes[name] = p
	r.mu.Unlock()

	r.opts.logger.Debug("prototype registered", "name", name, "replaced", replaced)
	r.opts.metrics.Observe(OpRegister, true, r.opts.now().Sub(start))
}

// Unregister removes the prototype stored under name. Removing an unknown
// name is a no-op.
func (r *Registry[T]) Unregister(name string) {
	start := r.opts.now()
	r.mu.Lock()
	_, existed := r.prototypes[name]
	delete(r.prototypes, name)
	r.mu.Unlock()

	r.opts.logger.Debug("prototype unregistered", "name", name, "existed", existed)
	r.opts.metrics.Observe(OpUnregister, true, r.opts.now().Sub(start))
}

// Create returns a fresh clone of the prototype registered under name.
// It fails with ErrNotFound when nothing is registered under that name.
func (r *Registry[T]) Create(name string) (T, error) {
	start := r.opts.now()
	r.mu.RLock()
	p, ok := r.prototypes[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		err := ErrNotFound{Name: name}
		r.opts.logger.Warn("prototype lookup failed", "name", name)
		r.opts.metrics.Observe(OpCreate, false, r.opts.now().Sub(start))
		return zero, err
	}
	clone := p.Clone()
	r.opts.metrics.Observe(OpCreate, true, r.opts.now().Sub(start))
	return clone, nil
}

// Has reports whether a prototype is registered under name.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.prototypes[name]
	return ok
}

// Len returns the number of registered prototypes.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prototypes)
}

// Names returns a sorted snapshot of the registered names. Later
// registrations do not affect a previously returned slice.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.prototypes))
	for name := range r.prototypes {
		out = append(out, name)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
