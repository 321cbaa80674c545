package render

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"propwire/domain/page"
)

// Builder produces the full prop set for a page component. Lazy props are
// returned unevaluated; the dispatcher decides which thunks run.
type Builder func(ctx context.Context) (page.Props, error)

// Registry maps page component names to their prop builders
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates an empty component registry
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// Register registers a builder for a component name
func (r *Registry) Register(component string, builder Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[component]; exists {
		return fmt.Errorf("builder already registered for component %s", component)
	}

	r.builders[component] = builder
	return nil
}

// Builder returns the builder registered for a component
func (r *Registry) Builder(component string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	builder, ok := r.builders[component]
	return builder, ok
}

// Components returns the registered component names in sorted order
func (r *Registry) Components() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
