package matching

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/Gobusters/ectologger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/redis"
)

const redisKeyPrefix = "aster:match:"

// RedisStore keeps match results in Redis so cache contents survive restarts
// and are shared across replicas. Expiry is delegated to Redis TTLs; capacity
// eviction is the server's maxmemory policy, so the eviction counter stays 0.
type RedisStore struct {
	client     *redis.Client
	logger     ectologger.Logger
	defaultTTL time.Duration
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisStore(client *redis.Client, logger ectologger.Logger, maxEntries int, defaultTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		logger:     logger,
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
	}
}

// Get treats every Redis failure as a miss: the cache must never take
// matching down with it.
func (s *RedisStore) Get(ctx context.Context, key string) ([]models.MatchResult, bool) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key)
	if err != nil {
		if err != goredis.Nil {
			s.logger.WithContext(ctx).WithError(err).Warn("redis cache read failed")
		}
		s.misses.Add(1)
		return nil, false
	}

	var results []models.MatchResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("redis cache entry is not decodable, treating as miss")
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return results, true
}

func (s *RedisStore) Put(ctx context.Context, key string, results []models.MatchResult, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	raw, err := json.Marshal(results)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to encode match results for cache")
		return
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, ttl); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("redis cache write failed")
	}
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.client.Keys(ctx, redisKeyPrefix+"*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...)
}

func (s *RedisStore) Stats(ctx context.Context) models.CacheStats {
	entries := 0
	if keys, err := s.client.Keys(ctx, redisKeyPrefix+"*"); err == nil {
		entries = len(keys)
	} else {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to count redis cache entries")
	}

	hits := s.hits.Load()
	misses := s.misses.Load()
	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return models.CacheStats{
		Entries:    entries,
		MaxEntries: s.maxEntries,
		TTLSeconds: int(s.defaultTTL.Seconds()),
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}
