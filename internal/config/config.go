// Package config centralizes how the portfolio backend reads environment
// variables and exposes them as typed values.
package config

import (
	"crypto/rand"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration shared by the server, the worker
// and the maintenance CLI. Each binary validates only the subset it needs.
type Config struct {
	Address     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	WorkerCount   int

	MediaBaseURL   string
	MediaNamespace string
	EnrichDelay    time.Duration

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3UseSSL    bool
	MediaBucket string

	AdminPassword string
	SessionSecret []byte
	SessionTTL    time.Duration
}

const (
	defaultAddress     = ":8080"
	defaultRedisAddr   = "127.0.0.1:6379"
	defaultWorkerCount = 2
	defaultMediaBase   = "https://media.rithychanvirak.com"
	defaultEnrichDelay = 500 * time.Millisecond
	defaultBucket      = "portfolio-originals"
	defaultSessionTTL  = 12 * time.Hour
)

// Load reads configuration from the environment, falling back to defaults.
// A local .env file is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{
		Address:        readEnv("PORTFOLIO_ADDRESS", defaultAddress),
		DatabaseURL:    readEnv("PORTFOLIO_DATABASE_URL", ""),
		RedisAddr:      readEnv("PORTFOLIO_REDIS_ADDR", defaultRedisAddr),
		RedisPassword:  readEnv("PORTFOLIO_REDIS_PASSWORD", ""),
		RedisDB:        parseInt("PORTFOLIO_REDIS_DB", 0),
		WorkerCount:    parseInt("PORTFOLIO_WORKERS", defaultWorkerCount),
		MediaBaseURL:   readEnv("PORTFOLIO_MEDIA_BASE_URL", defaultMediaBase),
		MediaNamespace: readEnv("PORTFOLIO_MEDIA_NAMESPACE", ""),
		EnrichDelay:    parseDuration("PORTFOLIO_ENRICH_DELAY", defaultEnrichDelay),
		S3Endpoint:     readEnv("PORTFOLIO_S3_ENDPOINT", ""),
		S3AccessKey:    readEnv("PORTFOLIO_S3_ACCESS_KEY", ""),
		S3SecretKey:    readEnv("PORTFOLIO_S3_SECRET_KEY", ""),
		S3Region:       readEnv("PORTFOLIO_S3_REGION", "us-east-1"),
		S3UseSSL:       parseBool("PORTFOLIO_S3_USE_SSL", true),
		MediaBucket:    readEnv("PORTFOLIO_MEDIA_BUCKET", defaultBucket),
		AdminPassword:  readEnv("PORTFOLIO_ADMIN_PASSWORD", ""),
		SessionSecret:  parseSecret("PORTFOLIO_SESSION_SECRET"),
		SessionTTL:     parseDuration("PORTFOLIO_SESSION_TTL", defaultSessionTTL),
	}
	if cfg.SessionSecret == nil {
		// Tokens from a previous process stop validating after a restart, which
		// is acceptable for a single-admin site.
		cfg.SessionSecret = randomSecret()
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.EnrichDelay <= 0 {
		cfg.EnrichDelay = defaultEnrichDelay
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	return cfg, nil
}

// RequireDatabase fails when the content store DSN is missing.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("PORTFOLIO_DATABASE_URL is required")
	}
	return nil
}

// RequireMediaHost fails when the media host namespace is missing. Every
// command that issues metadata fetches checks this before touching a record.
func (c *Config) RequireMediaHost() error {
	if c.MediaNamespace == "" {
		return errors.New("PORTFOLIO_MEDIA_NAMESPACE is required")
	}
	return nil
}

// RequireS3 fails when the object storage credentials are incomplete.
func (c *Config) RequireS3() error {
	if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
		return errors.New("PORTFOLIO_S3_ENDPOINT, PORTFOLIO_S3_ACCESS_KEY and PORTFOLIO_S3_SECRET_KEY are required")
	}
	return nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseSecret(key string) []byte {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return []byte(v)
	}
	return nil
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte("portfolio-fallback-secret")
	}
	return buf
}
