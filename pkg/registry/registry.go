package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/contrib/pkg/domain"
)

// Handler is the implementation of a command.
// It receives a context and the positional arguments of the call.
type Handler func(ctx context.Context, args ...any) (any, error)

// Registry manages the command handlers available in-process.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler to the registry.
// If a handler with the same id exists, it is overwritten.
func (r *Registry) Register(id string, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = fn
}

// Unregister removes a handler. Removing an unknown id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, id)
}

// Has reports whether a handler is registered for id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// IDs returns the registered command ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Execute looks up a handler by id and executes it.
// Returns an error wrapping domain.ErrCommandNotFound if the id is unknown.
func (r *Registry) Execute(ctx context.Context, id string, args ...any) (any, error) {
	r.mu.RLock()
	fn, ok := r.handlers[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCommandNotFound, id)
	}

	return fn(ctx, args...)
}
