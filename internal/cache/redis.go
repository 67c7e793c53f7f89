package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "addic7ed:"

func init() {
	Register("redis", newRedisCache)
}

// redisCache keeps the entries of every instance in two Redis keys:
//
//   - {prefix}data, a hash of key to value. Entry expiry uses per-field TTL
//     (HPEXPIRE, Redis 7.4+ or Valkey 8+).
//   - {prefix}lru, a sorted set of key to last access time in µs, used to evict the
//     least recently used keys once the cache holds more than maxSize entries.
//
// Get and Set each run as one Lua script so concurrent instances never observe a
// half-applied update.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	dataKey string
	lruKey  string
}

// KEYS[1] = data hash, KEYS[2] = LRU sorted set
// ARGV[1] = now (µs), ARGV[2] = key
var getAndTouch = redis.NewScript(`
local val = redis.call('HGET', KEYS[1], ARGV[2])
if val then
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
else
    redis.call('ZREM', KEYS[2], ARGV[2])
end
return val
`)

// KEYS[1] = data hash, KEYS[2] = LRU sorted set
// ARGV[1] = value, ARGV[2] = now (µs), ARGV[3] = key, ARGV[4] = max size (0 = unbounded),
// ARGV[5] = TTL in ms (0 = no expiry)
//
// Returns the evicted keys.
var setAndEvict = redis.NewScript(`
local key     = ARGV[3]
local maxSize = tonumber(ARGV[4])
local ttlMs   = tonumber(ARGV[5])

redis.call('HSET', KEYS[1], key, ARGV[1])
if ttlMs > 0 then
    redis.call('HPEXPIRE', KEYS[1], ttlMs, 'FIELDS', 1, key)
end
redis.call('ZADD', KEYS[2], ARGV[2], key)

local evicted = {}
if maxSize > 0 then
    local size = redis.call('ZCARD', KEYS[2])
    while size > maxSize do
        local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
        if #oldest == 0 then break end
        redis.call('HDEL', KEYS[1], oldest[1])
        table.insert(evicted, oldest[1])
        size = size - 1
    end
end
return evicted
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
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
		dataKey: prefix + "data",
		lruKey:  prefix + "lru",
	}, nil
}

func (r *redisCache) keys() []string {
	return []string{r.dataKey, r.lruKey}
}

func nowMicro() string {
	return strconv.FormatInt(time.Now().UnixMicro(), 10)
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	result, err := getAndTouch.Run(ctx, r.client, r.keys(), nowMicro(), key).Text()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger := config.GetLogger()
			logger.Error().Err(err).Str("key", key).Msg("Redis cache get failed")
		}
		return nil, false
	}
	return []byte(result), true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	ttlMs := int64(0)
	if r.ttl > 0 {
		ttlMs = max(r.ttl.Milliseconds(), 1)
	}

	evicted, err := setAndEvict.Run(ctx, r.client, r.keys(),
		value, nowMicro(), key, strconv.Itoa(r.maxSize), strconv.FormatInt(ttlMs, 10),
	).StringSlice()
	if err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Str("key", key).Msg("Redis cache set failed")
		return
	}

	if r.onEvict != nil {
		for _, evictedKey := range evicted {
			r.onEvict(evictedKey, nil)
		}
	}
}

func (r *redisCache) Delete(ctx context.Context, key string) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.dataKey, key)
		pipe.ZRem(ctx, r.lruKey, key)
		return nil
	})
	if err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Str("key", key).Msg("Redis cache delete failed")
	}
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := r.client.HLen(ctx, r.dataKey).Result()
	if err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Redis cache len failed")
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
