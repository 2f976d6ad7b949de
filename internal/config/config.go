// Package config loads and validates environment variables at startup.
// Fail-fast: a malformed value or a missing production secret stops the process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevSessionSecret signs session cookies when SESSION_SECRET is unset outside
// release mode.
const DevSessionSecret = "dev-session-secret-change-me"

// Config holds all runtime configuration for the form server.
type Config struct {
	Port string

	GeneratorURL     string
	GeneratorTimeout time.Duration
	MaxDocumentBytes int64
	MaxUploadBytes   int64

	SessionSecret string
	SessionIdle   time.Duration
	SweepSpec     string
	DownloadTTL   time.Duration

	RedisURL    string // optional: enables Redis staging and events
	DatabaseURL string // optional: enables the submission log

	CORSOrigins []string
	Release     bool
}

// GeneratorConfig is the subset needed to talk to the document service.
type GeneratorConfig struct {
	URL              string
	Timeout          time.Duration
	MaxDocumentBytes int64
}

// LoadGenerator reads only the document service settings. The CLI uses it so
// that server-only keys never block a one-off submission.
func LoadGenerator() (*GeneratorConfig, error) {
	gen := &GeneratorConfig{
		URL: strings.TrimRight(getenv("GENERATOR_URL", "http://localhost:5000"), "/"),
	}
	var err error
	if gen.Timeout, err = duration("GENERATOR_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if gen.MaxDocumentBytes, err = size("MAX_DOCUMENT_BYTES", 20<<20); err != nil {
		return nil, err
	}
	return gen, nil
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	gen, err := LoadGenerator()
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		GeneratorURL:     gen.URL,
		GeneratorTimeout: gen.Timeout,
		MaxDocumentBytes: gen.MaxDocumentBytes,
		SweepSpec:        getenv("SWEEP_SPEC", "@every 5m"),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Release:          os.Getenv("GIN_MODE") == "release",
	}

	if cfg.SessionIdle, err = duration("SESSION_IDLE", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DownloadTTL, err = duration("DOWNLOAD_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = size("MAX_UPLOAD_BYTES", 10<<20); err != nil {
		return nil, err
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		if cfg.Release {
			return nil, fmt.Errorf("SESSION_SECRET is required when GIN_MODE=release")
		}
		cfg.SessionSecret = DevSessionSecret
	}

	for _, o := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// AllowAllOrigins reports whether CORS_ORIGINS is the wildcard.
func (c *Config) AllowAllOrigins() bool {
	return len(c.CORSOrigins) == 0 || (len(c.CORSOrigins) == 1 && c.CORSOrigins[0] == "*")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func size(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive byte count, got %q", key, v)
	}
	return n, nil
}
