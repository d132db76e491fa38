// internal/puzzles/cache.go
//
// Puzzle data caching. Puzzles never change once published, so the cache is
// write-once per key and never expires.
//
// Backends: MemoryCache (tests, ephemeral), SQLiteCache, RedisCache.
// Cached wraps any of them around an Upstream as a read-through Source.

package puzzles

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
	"github.com/robalobadob/puzzles/apps/go-server/internal/daily"
)

const (
	keyPrefix = "/connections/"
	keySuffix = ".json"
)

// Key returns the cache key for a puzzle date.
func Key(date string) string { return keyPrefix + date + keySuffix }

// dateOf is the inverse of Key. ok is false for foreign keys.
func dateOf(key string) (string, bool) {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, keySuffix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(key, keyPrefix), keySuffix), true
}

// Cache stores raw puzzle JSON by key. Put never overwrites an existing
// entry; Delete is the only way to replace one.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Fetcher is the upstream side of Cached.
type Fetcher interface {
	Fetch(ctx context.Context, date string) ([]byte, error)
}

// Cached is a read-through Source over a Cache and an upstream Fetcher.
type Cached struct {
	cache    Cache
	upstream Fetcher
}

// NewCached returns a Source that consults cache before upstream.
func NewCached(cache Cache, upstream Fetcher) *Cached {
	return &Cached{cache: cache, upstream: upstream}
}

// Get implements Source.
func (c *Cached) Get(ctx context.Context, date string) (connections.PuzzleData, error) {
	body, err := c.Raw(ctx, date)
	if err != nil {
		return connections.PuzzleData{}, err
	}
	return Decode(date, body)
}

// Raw returns the puzzle JSON for date, fetching and caching it on a miss.
func (c *Cached) Raw(ctx context.Context, date string) ([]byte, error) {
	if err := daily.Validate(date); err != nil {
		log.Debug().Err(err).Str("date", date).Msg("rejecting puzzle date")
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	key := Key(date)
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("puzzle cache read")
	}
	if ok {
		if _, derr := Decode(date, body); derr == nil {
			log.Debug().Str("date", date).Msg("found puzzle in cache")
			return body, nil
		}
		log.Warn().Str("date", date).Msg("discarding unreadable cached puzzle")
		if err := c.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("puzzle cache delete")
		}
	}
	log.Debug().Str("date", date).Msg("puzzle not cached, pulling")

	body, err = c.upstream.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, key, body); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("puzzle cache write")
	}
	return body, nil
}

// Dates lists cached puzzle dates, newest first.
func (c *Cached) Dates(ctx context.Context) ([]string, error) {
	keys, err := c.cache.Keys(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		if d, ok := dateOf(k); ok {
			dates = append(dates, d)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// MemoryCache is a map-backed Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.entries[key]
	return append([]byte(nil), b...), ok, nil
}

func (m *MemoryCache) Put(ctx context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = append([]byte(nil), body...)
	}
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryCache) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }
