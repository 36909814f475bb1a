package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const cacheVersionKey = "ledger:balances:version"

// BalanceCache keeps computed balances in Redis behind a version key. Entry
// mutations bump the version instead of deleting keys, so stale values simply
// stop being addressed. A nil cache (or nil client) is a no-op passthrough.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBalanceCache instantiates the cache helper.
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising it when missing.
func (c *BalanceCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates every cached balance by advancing the version.
func (c *BalanceCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

// Fetch loads a cached balance or computes and stores it via the loader.
func (c *BalanceCache) Fetch(ctx context.Context, key string, loader func(context.Context) (decimal.Decimal, error)) (decimal.Decimal, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	versioned, err := c.buildKey(ctx, key)
	if err != nil {
		return loader(ctx)
	}
	raw, err := c.client.Get(ctx, versioned).Result()
	if err == nil {
		if val, perr := decimal.NewFromString(raw); perr == nil {
			return val, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return loader(ctx)
	}
	val, err := loader(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	_ = c.client.Set(ctx, versioned, val.String(), c.ttl).Err()
	return val, nil
}

func (c *BalanceCache) buildKey(ctx context.Context, parts ...string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", strings.Join(parts, ":"), ver), nil
}
