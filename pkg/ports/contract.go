package ports

import (
	"context"
	"testing"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContextStoreContract runs a suite of tests to verify that a ContextStore implementation
// adheres to the defined interface contract.
func RunContextStoreContract(t *testing.T, store ContextStore) {
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract.view", "explorer"))
		require.NoError(t, store.Set(ctx, "contract.focus", true))
		require.NoError(t, store.Set(ctx, "contract.count", 42))

		v, err := store.Get(ctx, "contract.view")
		require.NoError(t, err)
		assert.Equal(t, "explorer", v)

		v, err = store.Get(ctx, "contract.focus")
		require.NoError(t, err)
		assert.Equal(t, true, v)

		// JSON backed stores turn integers into float64; only presence is part of the contract.
		v, err = store.Get(ctx, "contract.count")
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract.view", "search"))
		v, err := store.Get(ctx, "contract.view")
		require.NoError(t, err)
		assert.Equal(t, "search", v)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "contract.missing")
		assert.ErrorIs(t, err, domain.ErrContextKeyNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract.tmp", "x"))
		require.NoError(t, store.Delete(ctx, "contract.tmp"))

		_, err := store.Get(ctx, "contract.tmp")
		assert.ErrorIs(t, err, domain.ErrContextKeyNotFound, "Get after Delete should return ErrContextKeyNotFound")
	})

	t.Run("All", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract.a", "1"))
		require.NoError(t, store.Set(ctx, "contract.b", false))

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1", all["contract.a"])
		assert.Equal(t, false, all["contract.b"])
		assert.NotContains(t, all, "contract.tmp")
	})
}
