package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := New[string, uint8](4, 0)

	_, ok := c.Get(ctx, "usdc")
	assert.False(t, ok)

	c.Set(ctx, "usdc", 6)
	got, ok := c.Get(ctx, "usdc")
	require.True(t, ok)
	assert.EqualValues(t, 6, got)

	c.Delete(ctx, "usdc")
	_, ok = c.Get(ctx, "usdc")
	assert.False(t, ok)
}

func TestCache_EvictsBySize(t *testing.T) {
	ctx := context.Background()
	c := New[int, int](2, 0)

	c.Set(ctx, 1, 1)
	c.Set(ctx, 2, 2)
	c.Set(ctx, 3, 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](4, 20*time.Millisecond)

	c.Set(ctx, "gas", 30)
	time.Sleep(60 * time.Millisecond)

	_, ok := c.Get(ctx, "gas")
	assert.False(t, ok)
}

func TestCache_GetOrLoad(t *testing.T) {
	ctx := context.Background()
	c := New[string, uint8](4, 0)

	calls := 0
	load := func(context.Context) (uint8, error) {
		calls++
		return 18, nil
	}

	v, hit, err := c.GetOrLoad(ctx, "weth", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.EqualValues(t, 18, v)

	v, hit, err = c.GetOrLoad(ctx, "weth", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.EqualValues(t, 18, v)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrLoadDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := New[string, uint8](4, 0)
	boom := errors.New("call reverted")

	_, _, err := c.GetOrLoad(ctx, "bad", func(context.Context) (uint8, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}
