package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "npcache:"
	opTimeout        = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores each entry as its own string key with a sliding PX expiry
// and tracks recency in one sorted set:
//
//   - {prefix}e:{key} holds the value; every hit re-arms the TTL.
//   - {prefix}lru scores members by last access in microseconds.
//
// Members whose score is older than the TTL have expired server-side and are
// trimmed from the sorted set before counting. Works on any Redis or Valkey
// that supports EVALSHA; cluster deployments are not supported because the
// scripts derive entry keys from the prefix.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	prefix  string
	lruKey  string
}

// touchScript returns the entry value and refreshes its recency and TTL, or
// drops a stale recency member when the value has already expired.
//
// KEYS[1] = entry key, KEYS[2] = LRU set
// ARGV[1] = now (µs), ARGV[2] = member, ARGV[3] = TTL (ms)
var touchScript = redis.NewScript(`
local val = redis.call('GET', KEYS[1])
if val then
    redis.call('PEXPIRE', KEYS[1], ARGV[3])
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
else
    redis.call('ZREM', KEYS[2], ARGV[2])
end
return val
`)

// storeScript writes the entry, records its recency and pops the oldest members
// while the set is over capacity. Returns the evicted members.
//
// KEYS[1] = entry key, KEYS[2] = LRU set
// ARGV[1] = value, ARGV[2] = now (µs), ARGV[3] = member, ARGV[4] = max size,
// ARGV[5] = TTL (ms), ARGV[6] = entry key prefix
var storeScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[5])
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])

local maxSize = tonumber(ARGV[4])
local evicted = {}
while redis.call('ZCARD', KEYS[2]) > maxSize do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    redis.call('DEL', ARGV[6] .. oldest[1])
    table.insert(evicted, oldest[1])
end
return evicted
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("redis cache size must be positive, got %d", cfg.Size)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		prefix:  prefix,
		lruKey:  prefix + "lru",
	}, nil
}

func (r *redisCache) entryPrefix() string {
	return r.prefix + "e:"
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func (r *redisCache) ttlMillis() string {
	return strconv.FormatInt(r.ttl.Milliseconds(), 10)
}

func now() string {
	return strconv.FormatInt(time.Now().UnixMicro(), 10)
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	keys := []string{r.entryPrefix() + key, r.lruKey}
	val, err := touchScript.Run(ctx, r.client, keys, now(), key, r.ttlMillis()).Text()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logError("redis cache get failed", err)
		}
		return nil, false
	}
	return []byte(val), true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	keys := []string{r.entryPrefix() + key, r.lruKey}
	evicted, err := storeScript.Run(ctx, r.client, keys,
		value, now(), key, strconv.Itoa(r.maxSize), r.ttlMillis(), r.entryPrefix(),
	).StringSlice()
	if err != nil {
		r.logError("redis cache set failed", err)
		return
	}

	if r.onEvict == nil {
		return
	}
	for _, member := range evicted {
		r.onEvict(member, nil)
	}
}

func (r *redisCache) Contains(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := r.client.Exists(ctx, r.entryPrefix()+key).Result()
	if err != nil {
		r.logError("redis cache contains failed", err)
		return false
	}
	return n == 1
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	cutoff := time.Now().Add(-r.ttl).UnixMicro()
	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, r.lruKey, "-inf", "("+strconv.FormatInt(cutoff, 10))
	card := pipe.ZCard(ctx, r.lruKey)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logError("redis cache len failed", err)
		return 0
	}
	return int(card.Val())
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
