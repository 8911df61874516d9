package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestAside_FetchesOnceThenServesFromCache(t *testing.T) {
	mr := useMiniRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			fetches++
			*dest = cachedThing{Name: "Hiossen", Count: 3}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, "thing:1", &first, time.Minute, fetch(&first)))
	var second cachedThing
	require.NoError(t, Aside(ctx, "thing:1", &second, time.Minute, fetch(&second)))

	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("thing:1"))
	assert.Equal(t, time.Minute, mr.TTL("thing:1"))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := useMiniRedis(t)

	var dest cachedThing
	err := Aside(context.Background(), "thing:2", &dest, time.Minute, func() error {
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.False(t, mr.Exists("thing:2"))
}

func TestAside_WithoutRedisAlwaysFetches(t *testing.T) {
	SetClient(nil)
	fetches := 0
	var dest cachedThing
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "thing:3", &dest, time.Minute, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches)
}

func TestAside_CorruptEntryFallsBackToFetch(t *testing.T) {
	mr := useMiniRedis(t)
	require.NoError(t, mr.Set("thing:4", "not json"))

	var dest cachedThing
	require.NoError(t, Aside(context.Background(), "thing:4", &dest, time.Minute, func() error {
		dest = cachedThing{Name: "Astra"}
		return nil
	}))
	assert.Equal(t, "Astra", dest.Name)
}

func TestInvalidateUser(t *testing.T) {
	mr := useMiniRedis(t)
	require.NoError(t, mr.Set(UserKey(7), "{}"))
	require.NoError(t, mr.Set(InventoryChoicesKey(7), "{}"))
	require.NoError(t, mr.Set(InventoryChoicesKey(8), "{}"))

	InvalidateUser(context.Background(), 7)

	assert.False(t, mr.Exists("user:7"))
	assert.False(t, mr.Exists("inventory:7:choices"))
	assert.True(t, mr.Exists("inventory:8:choices"))
}

func TestSessionRevocation(t *testing.T) {
	mr := useMiniRedis(t)
	ctx := context.Background()

	revoked, err := IsSessionRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeSession(ctx, "abc", time.Hour))
	revoked, err = IsSessionRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Hour, mr.TTL("blacklist:abc"))

	mr.FastForward(2 * time.Hour)
	revoked, err = IsSessionRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Already expired tokens need no entry.
	require.NoError(t, RevokeSession(ctx, "old", -time.Minute))
	assert.False(t, mr.Exists("blacklist:old"))
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = ParseOptions("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)
}

func TestInitRedis_UnreachableLeavesClientNil(t *testing.T) {
	t.Cleanup(func() { SetClient(nil) })
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	InitRedis(addr)
	assert.Nil(t, GetClient())
}
