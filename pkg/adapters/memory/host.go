package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/registry"
)

// Host implements ports.Host in-process. Commands run through a registry and
// setContext calls are written to a context store.
// It backs the command line bridges and tests.
type Host struct {
	registry *registry.Registry
	store    ports.ContextStore

	mu       sync.Mutex
	messages []string
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithContextStore sets where setContext values are written (default: a new in-memory Store).
func WithContextStore(store ports.ContextStore) HostOption {
	return func(h *Host) {
		h.store = store
	}
}

// WithRegistry shares an existing command registry.
func WithRegistry(r *registry.Registry) HostOption {
	return func(h *Host) {
		h.registry = r
	}
}

// NewHost creates an in-process host.
func NewHost(opts ...HostOption) *Host {
	h := &Host{}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = registry.NewRegistry()
	}
	if h.store == nil {
		h.store = NewStore()
	}
	return h
}

// ExecuteCommand runs a registered handler, or stores a context value for setContext.
func (h *Host) ExecuteCommand(ctx context.Context, id string, args ...any) (any, error) {
	if id == ports.SetContextCommand {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects a key and a value, got %d arguments", id, len(args))
		}
		key, ok := args[0].(string)
		if !ok || key == "" {
			return nil, fmt.Errorf("%s key must be a non-empty string, got %T", id, args[0])
		}
		return nil, h.store.Set(ctx, key, args[1])
	}
	return h.registry.Execute(ctx, id, args...)
}

// RegisterCommand binds the handler until the returned Disposable is disposed.
func (h *Host) RegisterCommand(ctx context.Context, id string, handler registry.Handler) (ports.Disposable, error) {
	if id == ports.SetContextCommand {
		return nil, fmt.Errorf("command id %q is reserved by the host", id)
	}
	h.registry.Register(id, handler)
	return ports.DisposeFunc(func() error {
		h.registry.Unregister(id)
		return nil
	}), nil
}

// ShowErrorMessage records the message.
func (h *Host) ShowErrorMessage(ctx context.Context, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, message)
	return nil
}

// Messages returns the error messages shown so far.
func (h *Host) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.messages...)
}

// Registry exposes the command registry.
func (h *Host) Registry() *registry.Registry {
	return h.registry
}

// ContextStore exposes the store that receives setContext values.
func (h *Host) ContextStore() ports.ContextStore {
	return h.store
}
