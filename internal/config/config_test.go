package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Addr())
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache ttl, got %s", cfg.CacheTTL)
	}
	if cfg.NotifyChannelPrefix != "charts" {
		t.Errorf("expected charts prefix, got %s", cfg.NotifyChannelPrefix)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DB_POOL_SIZE", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.CacheTTL)
	}
	// invalid values fall back to defaults
	if cfg.DBPoolSize != 20 {
		t.Errorf("expected fallback pool size 20, got %d", cfg.DBPoolSize)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LOG_FORMAT=console\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_FORMAT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("expected console from env file, got %s", cfg.LogFormat)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	if _, err := Load(""); err == nil {
		t.Error("expected error for out of range port")
	}
}
