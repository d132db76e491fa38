// internal/puzzles/redis_cache.go
//
// Redis puzzle cache.
// Responsibilities:
//   - Pooled connections via redigo, pinging idle ones before reuse.
//   - Write-once entries (SET NX) under the "puzzles:" namespace.
//   - Listing keys with an incremental SCAN so Redis is never blocked.

package puzzles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RedisCache keeps puzzle JSON in Redis under "puzzles:" + key.
type RedisCache struct {
	pool *redis.Pool
}

const (
	redisPrefix = "puzzles:"
	scanCount   = 100
)

// NewRedisCache returns a Cache backed by a connection pool for url.
func NewRedisCache(url string) *RedisCache {
	return &RedisCache{pool: &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 5 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialURLContext(ctx, url)
		},
		// Connections can go away without warning; ping idle ones before reuse.
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}}
}

// Ping checks that Redis is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("connect to cache: %w", err)
	}
	defer conn.Close()
	_, err = conn.Do("PING")
	return err
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, false, err
	}
	defer conn.Close()
	b, err := redis.Bytes(conn.Do("GET", redisPrefix+key))
	if err == redis.ErrNil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Put is write-once (SET NX).
func (r *RedisCache) Put(ctx context.Context, key string, body []byte) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Do("SET", redisPrefix+key, body, "NX")
	return err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Do("DEL", redisPrefix+key)
	return err
}

// Keys walks the keyspace with SCAN until the cursor returns to 0.
func (r *RedisCache) Keys(ctx context.Context) ([]string, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var out []string
	cursor := 0
	for {
		vals, err := redis.Values(conn.Do("SCAN", cursor, "MATCH", redisPrefix+keyPrefix+"*", "COUNT", scanCount))
		if err != nil {
			return nil, err
		}
		if len(vals) != 2 {
			return nil, fmt.Errorf("redis: unexpected SCAN reply of %d elements", len(vals))
		}
		if cursor, err = redis.Int(vals[0], nil); err != nil {
			return nil, err
		}
		keys, err := redis.Strings(vals[1], nil)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			out = append(out, strings.TrimPrefix(k, redisPrefix))
		}
		if cursor == 0 {
			return out, nil
		}
	}
}

// Close releases pooled connections.
func (r *RedisCache) Close() error { return r.pool.Close() }
