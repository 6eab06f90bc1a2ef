package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantStore_Consume_FirstUse(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewGrantStore(client)
	ctx := context.Background()

	ok, err := store.Consume(ctx, 1700000000123, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "first consume should return true")
}

func TestGrantStore_Consume_Repeat(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewGrantStore(client)
	ctx := context.Background()

	ok, err := store.Consume(ctx, 1700000000123, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, 1700000000123, 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second consume of same transaction should return false")
}

func TestGrantStore_Consume_DistinctTransactions(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewGrantStore(client)
	ctx := context.Background()

	ok1, err := store.Consume(ctx, 100, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok1)

	ok2, err := store.Consume(ctx, 101, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok2, "different transaction ids are independent grants")
}

func TestGrantStore_Consume_ExpiredGrant(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewGrantStore(client)
	ctx := context.Background()

	ok, err := store.Consume(ctx, 42, 1*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = store.Consume(ctx, 42, 1*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "an expired grant key no longer blocks consumption")
}
