package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkplace/placeflow/internal/cache"
)

func newTestClient(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return cache.NewClientFromRedis(rdb), mr
}

func TestClient_GetSet(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "placements:user:1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "placements:user:1", `[{"id":1}]`, time.Minute))

	val, found, err := c.Get(ctx, "placements:user:1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"id":1}]`, val)
}

func TestClient_Invalidate(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, cache.UserPlacementsKey(1), "a", 0))
	require.NoError(t, c.Set(ctx, cache.SiteContentKey(7), "b", 0))
	require.NoError(t, c.Set(ctx, cache.UserPlacementsKey(2), "c", 0))

	require.NoError(t, c.Invalidate(ctx, cache.UserPlacementsPattern(1)))

	assert.False(t, mr.Exists(cache.UserPlacementsKey(1)))
	assert.True(t, mr.Exists(cache.SiteContentKey(7)))
	assert.True(t, mr.Exists(cache.UserPlacementsKey(2)))

	// Site patterns cover every key under the site prefix.
	require.NoError(t, c.Invalidate(ctx, cache.SiteContentPattern(7)))
	assert.False(t, mr.Exists(cache.SiteContentKey(7)))
}

func TestClient_InvalidateNoMatches(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.Invalidate(context.Background(), cache.UserPlacementsPattern(99)))
}
