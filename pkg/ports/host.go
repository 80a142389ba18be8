package ports

import (
	"context"

	"github.com/aretw0/contrib/pkg/registry"
)

// SetContextCommand is the host command that updates a context key.
const SetContextCommand = "setContext"

// Disposable releases something registered with the host.
type Disposable interface {
	Dispose() error
}

// DisposeFunc adapts a function to Disposable.
type DisposeFunc func() error

// Dispose calls f.
func (f DisposeFunc) Dispose() error {
	return f()
}

// Host is the part of the extension host API that contributions proxy to.
type Host interface {
	// ExecuteCommand runs a command by id, either registered by this extension or built into the host.
	ExecuteCommand(ctx context.Context, id string, args ...any) (any, error)

	// RegisterCommand binds a handler to a command id until the returned Disposable is disposed.
	RegisterCommand(ctx context.Context, id string, handler registry.Handler) (Disposable, error)

	// ShowErrorMessage surfaces a message to the user.
	ShowErrorMessage(ctx context.Context, message string) error
}
