package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set, scored by hit time in ms.
// KEYS[1] window key, ARGV: now_ms, window_ms, limit, unique member.
// Returns {allowed, current count, retry_ms}.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
redis.call('ZADD', key, 'NX', now, ARGV[4])
redis.call('PEXPIRE', key, window)

local count = redis.call('ZCARD', key)
if count <= limit then
  return {1, count, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldestScore = tonumber(oldest[2]) or (now - window)
local retry = window - (now - oldestScore)
if retry < 0 then retry = 0 end
return {0, count, retry}
`

// SlidingWindowLimiter throttles order submissions per caller key.
// State lives entirely in Redis so every instance shares one budget.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	script *redis.Script
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	prefix string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		script: redis.NewScript(slidingWindowScript),
	}
}

// Allow records one hit for the caller and reports whether it fits the
// window. When it does not, retryAfter says how long until the oldest
// hit ages out.
func (l *SlidingWindowLimiter) Allow(
	ctx context.Context,
	callerKey string,
) (allowed bool, current int64, retryAfter time.Duration, err error) {
	member := make([]byte, 12)
	_, _ = rand.Read(member)

	res, err := l.script.Run(
		ctx,
		l.rdb,
		[]string{l.prefix + ":" + callerKey},
		time.Now().UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
		hex.EncodeToString(member),
	).Int64Slice()
	if err != nil {
		return false, 0, 0, err
	}
	if len(res) != 3 {
		return false, 0, 0, fmt.Errorf("rate limit script returned %d values", len(res))
	}

	return res[0] == 1, res[1], time.Duration(res[2]) * time.Millisecond, nil
}
