package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/contrib/pkg/adapters/memory"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunContextStoreContract(t, memory.NewStore())
}

func TestMemoryStore_AllIsACopy(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", 1))

	all, err := s.All(ctx)
	require.NoError(t, err)
	all["a"] = 2
	all["b"] = 3

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, err = s.Get(ctx, "b")
	assert.Error(t, err)
}
