package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// recordIfAllowedScript atomically prunes expired entries, checks the limit
// and records new entries in a single round trip. Timestamps are stored as
// sorted-set members scored by unix milliseconds; member names carry a unique
// suffix so concurrent requests in the same millisecond are all counted.
var recordIfAllowedScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local n = tonumber(ARGV[4])
local member = ARGV[5]

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
local count = redis.call("ZCARD", key)
if count + n > limit then
	return {0, count}
end
for i = 1, n do
	redis.call("ZADD", key, now, member .. ":" .. i)
end
redis.call("PEXPIRE", key, window)
return {1, count + n}
`)

// RedisStore implements a sliding window store backed by Redis sorted sets,
// giving every service replica a shared view of each client's window.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the prefix prepended to every storage key.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed sliding window store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: "ratelimit:",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RecordTimestampIfAllowed atomically checks and records via a Lua script so
// the check-then-record pair cannot race across replicas.
func (s *RedisStore) RecordTimestampIfAllowed(ctx context.Context, key string, timestamp time.Time, window time.Duration, limit int, n int) (bool, int64, error) {
	res, err := recordIfAllowedScript.Run(ctx, s.client,
		[]string{s.keyPrefix + key},
		timestamp.UnixMilli(),
		window.Milliseconds(),
		limit,
		n,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) != 2 {
		return false, 0, errors.New("ratelimit: unexpected script reply")
	}

	return res[0] == 1, res[1], nil
}

// CountInWindow returns the number of recorded timestamps within the window.
func (s *RedisStore) CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	storageKey := s.keyPrefix + key
	cutoff := time.Now().Add(-window).UnixMilli()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, storageKey, "-inf", strconv.FormatInt(cutoff, 10))
	card := pipe.ZCard(ctx, storageKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return card.Val(), nil
}

// Delete removes the given key from the store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.keyPrefix+key).Err()
}
