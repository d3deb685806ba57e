package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address != ":8080" {
		t.Errorf("Address = %q", cfg.Address)
	}
	if cfg.EnrichDelay != 500*time.Millisecond {
		t.Errorf("EnrichDelay = %v", cfg.EnrichDelay)
	}
	if cfg.MediaBucket != "portfolio-originals" {
		t.Errorf("MediaBucket = %q", cfg.MediaBucket)
	}
	if cfg.WorkerCount <= 0 {
		t.Errorf("WorkerCount = %d", cfg.WorkerCount)
	}
	if len(cfg.SessionSecret) == 0 {
		t.Error("SessionSecret must never be empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_ADDRESS", ":9090")
	t.Setenv("PORTFOLIO_ENRICH_DELAY", "2s")
	t.Setenv("PORTFOLIO_WORKERS", "5")
	t.Setenv("PORTFOLIO_S3_USE_SSL", "false")
	t.Setenv("PORTFOLIO_SESSION_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address != ":9090" {
		t.Errorf("Address = %q", cfg.Address)
	}
	if cfg.EnrichDelay != 2*time.Second {
		t.Errorf("EnrichDelay = %v", cfg.EnrichDelay)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("WorkerCount = %d", cfg.WorkerCount)
	}
	if cfg.S3UseSSL {
		t.Error("S3UseSSL should be false")
	}
	if string(cfg.SessionSecret) != "test-secret" {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("PORTFOLIO_ENRICH_DELAY", "soon")
	t.Setenv("PORTFOLIO_WORKERS", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EnrichDelay != 500*time.Millisecond {
		t.Errorf("EnrichDelay = %v, want default", cfg.EnrichDelay)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want default", cfg.WorkerCount)
	}
}

func TestValidators(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireDatabase(); err == nil {
		t.Error("RequireDatabase should fail without a DSN")
	}
	if err := cfg.RequireMediaHost(); err == nil {
		t.Error("RequireMediaHost should fail without a namespace")
	}
	if err := cfg.RequireS3(); err == nil {
		t.Error("RequireS3 should fail without credentials")
	}

	cfg.DatabaseURL = "postgres://localhost/portfolio"
	cfg.MediaNamespace = "portfolio"
	cfg.S3Endpoint = "localhost:9000"
	cfg.S3AccessKey = "key"
	cfg.S3SecretKey = "secret"
	if err := cfg.RequireDatabase(); err != nil {
		t.Errorf("RequireDatabase: %v", err)
	}
	if err := cfg.RequireMediaHost(); err != nil {
		t.Errorf("RequireMediaHost: %v", err)
	}
	if err := cfg.RequireS3(); err != nil {
		t.Errorf("RequireS3: %v", err)
	}
}
