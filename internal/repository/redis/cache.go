// Package redis holds the Redis-backed repositories: the read-through
// cache for journey projections, the order rate limiter and the
// idempotency store for order submissions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	redisx "github.com/dkovalenko/railgo/internal/redis"
)

// Cache is a thin JSON cache over Redis. Concurrent misses on the same
// key collapse into a single loader call via singleflight.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

// InvalidateJourney drops the cached projections for a journey; called
// after every committed write that touches its inventory.
func (c *Cache) InvalidateJourney(ctx context.Context, journeyID int64) error {
	return c.Del(
		ctx,
		redisx.KeyJourneySummary(journeyID),
		redisx.KeyJourneyAvailability(journeyID),
	)
}

// GetJSON reads and decodes a cached value. The second return value
// reports whether the key was present.
func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var out T

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		// Treat undecodable entries as a miss so the loader can repair
		// them.
		return out, false, nil
	}

	return out, true, nil
}

func SetJSON(ctx context.Context, c *Cache, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// GetOrSetJSON reads through the cache. On a miss the loader runs at
// most once per key across concurrent callers and its result is stored
// with the given TTL. Failures to store are ignored; the value is
// still returned.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if v, hit, err := GetJSON[T](ctx, c, key); err != nil || hit {
		return v, err
	}

	got, err, _ := c.sf.Do(key, func() (any, error) {
		// Another flight member may have populated the key already.
		if v, hit, err := GetJSON[T](ctx, c, key); err != nil || hit {
			return v, err
		}

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		_ = SetJSON(ctx, c, key, v, ttl)

		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	v, ok := got.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: unexpected value type for %s", key)
	}

	return v, nil
}
