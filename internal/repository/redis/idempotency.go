package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemNS = "railgo:v1:idem"

	// A key holds either the pending marker while the first request is
	// in flight, or the serialized response once it committed.
	idemPending      = "PENDING"
	idemResultPrefix = "RES:"
)

func KeyIdemOrder(userID int64, idemKey string) string {
	return fmt.Sprintf("%s:orders:%d:%s", idemNS, userID, idemKey)
}

// IdempotencyStore lets POST /orders be retried safely: the first call
// claims the key, the committed response is replayed for duplicates.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// AcquireLock claims the key for the current request. False means
// another request with the same key is in flight or already finished.
func (s *IdempotencyStore) AcquireLock(
	ctx context.Context,
	key string,
	lockTTL time.Duration,
) (bool, error) {
	return s.rdb.SetNX(ctx, key, idemPending, lockTTL).Result()
}

// SaveResult replaces the pending marker with the response payload.
func (s *IdempotencyStore) SaveResult(ctx context.Context, key, jsonPayload string) error {
	return s.rdb.Set(ctx, key, idemResultPrefix+jsonPayload, s.ttl).Err()
}

// GetResult returns the stored response, if the original request has
// finished. A pending marker reads as not-found.
func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	payload, ok := strings.CutPrefix(v, idemResultPrefix)
	if !ok {
		return "", false, nil
	}

	return payload, true, nil
}

// Release frees the key after a failed attempt so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
