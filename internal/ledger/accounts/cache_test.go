package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *BalanceCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBalanceCache(client, time.Minute)
}

func TestBalanceCacheFetchStoresAndReuses(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (decimal.Decimal, error) {
		calls++
		return decimal.NewFromInt(150), nil
	}

	val, err := cache.Fetch(ctx, "ledger:balances:book:1", loader)
	require.NoError(t, err)
	require.True(t, val.Equal(decimal.NewFromInt(150)))
	require.Equal(t, 1, calls)

	val, err = cache.Fetch(ctx, "ledger:balances:book:1", loader)
	require.NoError(t, err)
	require.True(t, val.Equal(decimal.NewFromInt(150)))
	require.Equal(t, 1, calls, "second fetch should hit the cache")
}

func TestBalanceCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (decimal.Decimal, error) {
		calls++
		return decimal.NewFromInt(int64(calls * 100)), nil
	}

	_, err := cache.Fetch(ctx, "ledger:balances:book:1", loader)
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))

	val, err := cache.Fetch(ctx, "ledger:balances:book:1", loader)
	require.NoError(t, err)
	require.Equal(t, 2, calls, "bump must address a fresh key")
	require.True(t, val.Equal(decimal.NewFromInt(200)))
}

func TestBalanceCacheNilIsPassthrough(t *testing.T) {
	var cache *BalanceCache
	val, err := cache.Fetch(context.Background(), "any", func(context.Context) (decimal.Decimal, error) {
		return decimal.NewFromInt(7), nil
	})
	require.NoError(t, err)
	require.True(t, val.Equal(decimal.NewFromInt(7)))
	require.NoError(t, cache.Bump(context.Background()))
}
