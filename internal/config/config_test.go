package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "FILMORATE_") {
			t.Setenv(key, "")
		}
	}
	t.Setenv("FILMORATE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppPort != 8080 || cfg.Storage != StorageMemory || cfg.PopularDefault != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != time.Second || cfg.RateLimit.Burst != 50 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("FILMORATE_PORT", "9090")
	t.Setenv("FILMORATE_STORAGE", "postgres")
	t.Setenv("FILMORATE_RATE_LIMIT_WINDOW", "2m")
	t.Setenv("FILMORATE_POPULAR_DEFAULT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppPort != 9090 || cfg.Storage != StoragePostgres || cfg.RateLimit.Window != 2*time.Minute {
		t.Fatalf("expected overrides to apply, got %+v", cfg)
	}
	if cfg.PopularDefault != 10 {
		t.Fatalf("expected malformed int to fall back, got %d", cfg.PopularDefault)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("FILMORATE_SEEDS=/srv/seeds\nFILMORATE_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("FILMORATE_ENV_FILE", path)
	t.Cleanup(func() {
		os.Unsetenv("FILMORATE_SEEDS")
		os.Unsetenv("FILMORATE_LOG_LEVEL")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SeedDir != "/srv/seeds" || cfg.LogLevel != "debug" {
		t.Fatalf("expected env file values, got %+v", cfg)
	}
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	isolateEnv(t)
	t.Setenv("FILMORATE_STORAGE", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown storage engine")
	}
}
