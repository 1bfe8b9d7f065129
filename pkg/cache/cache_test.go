package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-console/pkg/logger"
)

func TestMemory_BasicOps(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)

	require.NoError(t, c.Set(ctx, "k1", "v1", 0))
	b, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))

	require.NoError(t, c.Set(ctx, "k2", map[string]int{"a": 1}, 0))
	var got map[string]int
	require.NoError(t, GetJSON(ctx, c, "k2", &got))
	assert.Equal(t, map[string]int{"a": 1}, got)

	require.NoError(t, c.Delete(ctx, "k1"))
	_, err = c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, c.HealthCheck(ctx))
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	c := NewMemory(time.Minute).(*memoryCache)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "default", "x", 0))
	require.NoError(t, c.Set(ctx, "short", "y", time.Second))
	require.NoError(t, c.Set(ctx, "forever", "z", NoExpiry))

	now = now.Add(2 * time.Second)
	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "default")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "default")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemory_UnmarshalableValue(t *testing.T) {
	err := NewMemory(0).Set(context.Background(), "k", make(chan int), 0)
	assert.Error(t, err)
}

func TestNoopValkey_Unhealthy(t *testing.T) {
	c := NewNoopValkeyCache(logger.NewNop(), 0)
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestAutoSwap(t *testing.T) {
	ctx := context.Background()
	fallback := NewMemory(0)
	backend := NewMemory(0)
	require.NoError(t, backend.Set(ctx, "k", "from-real", 0))
	require.NoError(t, fallback.Set(ctx, "k", "from-fallback", 0))

	var attempts atomic.Int32
	a := newAutoSwapCache(fallback, logger.NewNop(), 5*time.Millisecond, func() (Cache, error) {
		if attempts.Add(1) < 2 {
			return nil, errors.New("connection refused")
		}
		return backend, nil
	})
	defer a.Stop()

	require.Eventually(t, func() bool {
		b, err := a.Get(ctx, "k")
		return err == nil && string(b) == "from-real"
	}, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
}
