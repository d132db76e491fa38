// internal/puzzles/backend.go
//
// Picks the puzzle cache backend from config (memory, sqlite or redis) and
// wraps it around the upstream provider. Shared by the server and the CLI.

package puzzles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/puzzles/apps/go-server/internal/config"
)

// OpenCache builds the Cache named by cfg.CacheBackend. The returned close
// func releases backend resources and is never nil.
func OpenCache(ctx context.Context, cfg config.Config, db *sql.DB) (Cache, func(), error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		return NewMemoryCache(), func() {}, nil
	case config.CacheSQLite:
		return NewSQLiteCache(db), func() {}, nil
	case config.CacheRedis:
		rc := NewRedisCache(cfg.RedisURL)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, func() {}, err
		}
		log.Info().Str("url", cfg.RedisURL).Msg("using redis puzzle cache")
		return rc, func() { _ = rc.Close() }, nil
	}
	return nil, func() {}, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

// Open wires the configured cache in front of the upstream provider.
func Open(ctx context.Context, cfg config.Config, db *sql.DB) (*Cached, func(), error) {
	cache, closeFn, err := OpenCache(ctx, cfg, db)
	if err != nil {
		return nil, closeFn, err
	}
	return NewCached(cache, NewUpstream(cfg.UpstreamURL, cfg.UpstreamTimeout)), closeFn, nil
}
