// internal/config/config.go
//
// Server and CLI configuration.
//
// Load order (later wins):
//   1. Built-in defaults.
//   2. `.env` in the working directory (via godotenv, development only).
//   3. Optional YAML file named by CONFIG_FILE.
//   4. Environment variables.
//
// Environment variables:
//   PORT, LOG_LEVEL, DB_PATH, JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME,
//   CLIENT_ORIGIN, NODE_ENV, UPSTREAM_URL, UPSTREAM_TIMEOUT, CACHE_BACKEND,
//   REDIS_URL, PAGE_SIZE

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Cache backends for puzzle data.
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// Config holds every tunable of the service.
type Config struct {
	Port            string        `yaml:"port"`
	LogLevel        string        `yaml:"log_level"`
	DBPath          string        `yaml:"db_path"`
	JWTSecret       string        `yaml:"jwt_secret"`
	JWTExpiresDays  int           `yaml:"jwt_expires_days"`
	CookieName      string        `yaml:"cookie_name"`
	ClientOrigin    string        `yaml:"client_origin"`
	Production      bool          `yaml:"production"`
	UpstreamURL     string        `yaml:"upstream_url"` // fmt template, %s = YYYY-MM-DD
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	CacheBackend    string        `yaml:"cache_backend"`
	RedisURL        string        `yaml:"redis_url"`
	PageSize        int           `yaml:"page_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            "5175",
		LogLevel:        "info",
		DBPath:          "./data/app.db",
		JWTSecret:       "dev_secret_change_me",
		JWTExpiresDays:  14,
		CookieName:      "puzzles_token",
		ClientOrigin:    "http://localhost:5173",
		UpstreamURL:     "https://www.nytimes.com/svc/connections/v2/%s.json",
		UpstreamTimeout: 10 * time.Second,
		CacheBackend:    CacheSQLite,
		RedisURL:        "redis://localhost:6379/0",
		PageSize:        20,
	}
}

// Load builds the configuration from defaults, .env, CONFIG_FILE and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("DB_PATH", &c.DBPath)
	str("JWT_SECRET", &c.JWTSecret)
	str("COOKIE_NAME", &c.CookieName)
	str("CLIENT_ORIGIN", &c.ClientOrigin)
	str("UPSTREAM_URL", &c.UpstreamURL)
	str("CACHE_BACKEND", &c.CacheBackend)
	str("REDIS_URL", &c.RedisURL)

	if v := os.Getenv("NODE_ENV"); v != "" {
		c.Production = v == "production"
	}
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES_DAYS: %w", err)
		}
		c.JWTExpiresDays = n
	}
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
		}
		c.UpstreamTimeout = d
	}
	return nil
}

func (c *Config) validate() error {
	switch c.CacheBackend {
	case CacheMemory, CacheSQLite, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}
