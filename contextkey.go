package contrib

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sync"
	"time"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/when"
)

// ContextKey is a typed handle to a host context key. Its value is pushed to
// the host with setContext whenever it changes, and its comparisons can be
// used inside when-clause functions.
type ContextKey[T comparable] struct {
	c   *Contributions
	key string

	mu    sync.Mutex
	value T
	set   bool
}

// NewContextKey declares a context key of type T.
func NewContextKey[T comparable](c *Contributions, key string) *ContextKey[T] {
	return &ContextKey[T]{c: c, key: key}
}

// Key returns the context key name.
func (k *ContextKey[T]) Key() string {
	return k.key
}

// Value returns the last value pushed to the host and whether one was pushed.
func (k *ContextKey[T]) Value() (T, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.value, k.set
}

// Set pushes value to the host unless it equals the last pushed value.
func (k *ContextKey[T]) Set(ctx context.Context, value T) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.set && sameValue(k.value, value) {
		return nil
	}
	if err := k.push(ctx, value); err != nil {
		return err
	}
	k.value = value
	k.set = true
	return nil
}

// Reset clears the key on the host.
func (k *ContextKey[T]) Reset(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.push(ctx, nil); err != nil {
		return err
	}
	var zero T
	k.value = zero
	k.set = false
	if k.c.store != nil {
		return k.c.store.Delete(ctx, k.key)
	}
	return nil
}

func (k *ContextKey[T]) push(ctx context.Context, value any) error {
	host, err := k.c.getHost()
	if err != nil {
		return err
	}
	if _, err := host.ExecuteCommand(ctx, ports.SetContextCommand, k.key, value); err != nil {
		return fmt.Errorf("set context %s: %w", k.key, err)
	}
	if k.c.store != nil && value != nil {
		if err := k.c.store.Set(ctx, k.key, value); err != nil {
			return fmt.Errorf("mirror context %s: %w", k.key, err)
		}
	}

	k.c.logger.Debug("context key set", "key", k.key, "value", value)
	if k.c.hooks.OnContextSet != nil {
		k.c.hooks.OnContextSet(ctx, &domain.ContextEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventContextSet},
			Key:       k.key,
			Value:     value,
		})
	}
	return nil
}

// Equals records a "key == value" atom on wc.
func (k *ContextKey[T]) Equals(wc when.Context, value T) bool {
	return wc.Get(k.key).Equals(value)
}

// Matches records a "key ~= pattern" atom on wc.
func (k *ContextKey[T]) Matches(wc when.Context, pattern string) bool {
	return wc.Get(k.key).Matches(pattern)
}

// MatchesRegexp records a "key ~= pattern" atom using the source of re.
func (k *ContextKey[T]) MatchesRegexp(wc when.Context, re *regexp.Regexp) bool {
	return wc.Get(k.key).MatchesRegexp(re)
}

// Truthy records a bare "key" atom on wc.
func (k *ContextKey[T]) Truthy(wc when.Context) bool {
	return wc.Get(k.key).Truthy()
}

// sameValue reports whether a and b are equal. Interface type arguments may
// hold slices or maps, which == cannot compare, so those use reflect.DeepEqual.
func sameValue[T comparable](a, b T) bool {
	if reflect.TypeFor[T]().Kind() == reflect.Interface {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
