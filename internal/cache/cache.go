// Package cache stores comparison results in Redis keyed by the input
// fingerprint. It sits in front of the engine; the engine itself never caches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tribgo/tribgo/internal/domain"
)

const keyPrefix = "tribgo"

// Connect creates a Redis client and verifies it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return client, nil
}

// ResultCache wraps Redis JSON caching of comparison results.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New instantiates the cache helper. A nil client disables caching.
func New(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// ComparisonKey composes the key of a comparison. Every option that changes
// the result is part of the key.
func ComparisonKey(year int, fingerprint string, opts ...string) string {
	parts := []string{keyPrefix, "compare", fmt.Sprintf("%d", year), fingerprint}
	parts = append(parts, opts...)
	return strings.Join(parts, ":")
}

// FetchJSON loads a cached value into dest or populates it using the loader.
// It reports whether the value came from the cache.
func (c *ResultCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) (bool, error) {
	if loader == nil {
		return false, errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return false, load(ctx, dest, loader, nil)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return true, json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return false, err
	}
	return false, load(ctx, dest, loader, func(raw []byte) error {
		return c.client.Set(ctx, key, raw, c.ttl).Err()
	})
}

// FetchComparison is FetchJSON specialised to comparison results.
func (c *ResultCache) FetchComparison(ctx context.Context, key string, loader func(context.Context) (*domain.ComparisonResult, error)) (*domain.ComparisonResult, bool, error) {
	var result domain.ComparisonResult
	hit, err := c.FetchJSON(ctx, key, &result, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return nil, hit, err
	}
	return &result, hit, nil
}

// Invalidate removes every cached comparison, e.g. after a fiscal table change.
func (c *ResultCache) Invalidate(ctx context.Context) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	removed := 0
	iter := c.client.Scan(ctx, 0, keyPrefix+":compare:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, iter.Err()
}

func load(ctx context.Context, dest any, loader func(context.Context) (any, error), store func([]byte) error) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if store != nil {
		if err := store(raw); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}
