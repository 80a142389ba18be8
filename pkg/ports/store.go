package ports

import "context"

// ContextStore persists the values of context keys as last pushed to the host.
// This lets out-of-process bridges evaluate when-clauses against live values.
type ContextStore interface {
	// Set stores the value for a key. A nil value is stored as nil, not deleted.
	Set(ctx context.Context, key string, value any) error

	// Get retrieves the value for a key.
	// Returns domain.ErrContextKeyNotFound if the key was never set.
	Get(ctx context.Context, key string) (any, error)

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// All returns a snapshot of every stored key.
	All(ctx context.Context) (map[string]any, error)
}
