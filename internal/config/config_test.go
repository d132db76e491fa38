package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into the test.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "LOG_LEVEL", "DB_PATH", "JWT_SECRET", "JWT_EXPIRES_DAYS",
		"COOKIE_NAME", "CLIENT_ORIGIN", "NODE_ENV", "UPSTREAM_URL", "UPSTREAM_TIMEOUT",
		"CACHE_BACKEND", "REDIS_URL", "PAGE_SIZE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "port: \"9000\"\ncache_backend: memory\nupstream_timeout: 3s\npage_size: 10\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("NODE_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9100" {
		t.Errorf("port = %s, env should win over file", cfg.Port)
	}
	if cfg.CacheBackend != CacheMemory || cfg.PageSize != 10 || cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.Production {
		t.Error("NODE_ENV=production not applied")
	}
	if cfg.DBPath != Default().DBPath {
		t.Errorf("untouched field changed: %s", cfg.DBPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, key, val string
	}{
		{"bad backend", "CACHE_BACKEND", "memcached"},
		{"bad page size", "PAGE_SIZE", "many"},
		{"zero page size", "PAGE_SIZE", "0"},
		{"bad timeout", "UPSTREAM_TIMEOUT", "soon"},
		{"bad jwt days", "JWT_EXPIRES_DAYS", "x"},
		{"missing file", "CONFIG_FILE", "/does/not/exist.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s succeeded", tt.key, tt.val)
			}
		})
	}
}
