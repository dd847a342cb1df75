package matching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Ramsey-B/aster/pkg/metrics"
	"github.com/Ramsey-B/aster/pkg/models"
)

// Store caches ranked match lists. Implementations must be safe for
// concurrent use; lookup failures in remote backends degrade to misses.
type Store interface {
	Get(ctx context.Context, key string) ([]models.MatchResult, bool)
	Put(ctx context.Context, key string, results []models.MatchResult, ttl time.Duration)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) models.CacheStats
}

// CacheKey derives the cache key from the normalized query parts and the
// active config version, so one policy never serves another's results.
func CacheKey(entity, queryContext, location, configVersion string) string {
	h := sha256.New()
	h.Write([]byte(entity))
	h.Write([]byte{0})
	h.Write([]byte(queryContext))
	h.Write([]byte{0})
	h.Write([]byte(location))
	h.Write([]byte{0})
	h.Write([]byte(configVersion))
	return hex.EncodeToString(h.Sum(nil))
}

type memoryEntry struct {
	results   []models.MatchResult
	createdAt time.Time
	expiresAt time.Time
}

// MemoryStore is the in-process cache: TTL expiry with lazy purge and
// oldest-first eviction at capacity.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	maxEntries int
	defaultTTL time.Duration

	hits        int64
	misses      int64
	evictions   int64
	expirations int64
}

func NewMemoryStore(maxEntries int, defaultTTL time.Duration) *MemoryStore {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryStore{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]models.MatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		s.expirations++
		s.misses++
		return nil, false
	}

	s.hits++
	return entry.results, true
}

func (s *MemoryStore) Put(_ context.Context, key string, results []models.MatchResult, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Overwrites refresh the entry's timestamps without consuming capacity.
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldest()
	}

	s.entries[key] = &memoryEntry{
		results:   results,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// evictOldest removes the entry with the earliest creation time. Must be
// called with the lock held.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestAt time.Time

	for key, entry := range s.entries {
		if oldestKey == "" || entry.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.createdAt
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
		s.evictions++
		metrics.RecordCacheOperation("eviction")
	}
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*memoryEntry)
	return nil
}

func (s *MemoryStore) Stats(_ context.Context) models.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := s.hits + s.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(s.hits) / float64(total)
	}

	return models.CacheStats{
		Entries:     len(s.entries),
		MaxEntries:  s.maxEntries,
		TTLSeconds:  int(s.defaultTTL.Seconds()),
		Hits:        s.hits,
		Misses:      s.misses,
		HitRate:     hitRate,
		Evictions:   s.evictions,
		Expirations: s.expirations,
	}
}
