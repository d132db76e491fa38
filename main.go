// main.go
//
// Entry point for the puzzles API server.
// Responsibilities:
//   - Load config (.env, optional YAML file, environment) and set the log level.
//   - Open the SQLite database and apply migrations.
//   - Open the puzzle cache, build the HTTP server and listen on PORT.

package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/puzzles/apps/go-server/internal/config"
	"github.com/robalobadob/puzzles/apps/go-server/internal/database"
	"github.com/robalobadob/puzzles/apps/go-server/internal/httpserver"
	"github.com/robalobadob/puzzles/apps/go-server/internal/puzzles"
	"github.com/robalobadob/puzzles/apps/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	src, closeCache, err := puzzles.Open(context.Background(), cfg, db)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("open puzzle cache")
	}
	defer closeCache()

	srv := httpserver.New(cfg, store.NewSQLiteStore(db), src, db)
	log.Info().Str("port", cfg.Port).Str("cache", cfg.CacheBackend).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
