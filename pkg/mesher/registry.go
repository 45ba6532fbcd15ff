package mesher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownGenerator is returned for generators that were never registered.
	ErrUnknownGenerator = errors.New("unknown mesh generator")
	// ErrUnavailable is returned when a registered generator cannot run on this host.
	ErrUnavailable = errors.New("mesh generator unavailable")
)

// Mesher is a mesh generator plugin.
type Mesher interface {
	Name() Generator
	// Available reports whether the generator can run on this host.
	Available() bool
	Generate(ctx context.Context, c Control) (*Mesh, error)
}

// preference is the order Default walks through.
var preference = []Generator{GeneratorTetlib, GeneratorNglib}

// Registry holds the known meshers.
type Registry struct {
	mu      sync.RWMutex
	meshers map[Generator]Mesher
}

// NewRegistry creates a registry holding meshers.
func NewRegistry(meshers ...Mesher) *Registry {
	r := &Registry{meshers: make(map[Generator]Mesher)}
	for _, m := range meshers {
		r.meshers[m.Name()] = m
	}
	return r
}

// Register adds m, replacing any mesher with the same name.
func (r *Registry) Register(m Mesher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meshers[m.Name()] = m
}

// Get returns the mesher registered under name.
func (r *Registry) Get(name Generator) (Mesher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meshers[name]
	return m, ok
}

// Names returns every registered generator, sorted.
func (r *Registry) Names() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]Generator, 0, len(r.meshers))
	for name := range r.meshers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Available returns the registered generators that can run, sorted.
func (r *Registry) Available() []Generator {
	var out []Generator
	for _, name := range r.Names() {
		if m, ok := r.Get(name); ok && m.Available() {
			out = append(out, name)
		}
	}
	return out
}

func (r *Registry) available(name Generator) bool {
	m, ok := r.Get(name)
	return ok && m.Available()
}

// Default picks tetlib when it can run, then nglib, and falls back to elmergrid.
func (r *Registry) Default() Generator {
	for _, name := range preference {
		if r.available(name) {
			return name
		}
	}
	return GeneratorElmerGrid
}

// DefaultControl returns the stock parameters with the generator chosen by Default.
func (r *Registry) DefaultControl() Control {
	c := DefaultControl()
	c.Generator = r.Default()
	return c
}

// Generate runs the generator selected by c.
func (r *Registry) Generate(ctx context.Context, c Control) (*Mesh, error) {
	m, ok := r.Get(c.Generator)
	if !ok {
		return nil, fmt.Errorf("%s: %w", c.Generator, ErrUnknownGenerator)
	}
	if !m.Available() {
		return nil, fmt.Errorf("%s: %w", c.Generator, ErrUnavailable)
	}
	mesh, err := m.Generate(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("generate with %s: %w", c.Generator, err)
	}
	return mesh, nil
}
