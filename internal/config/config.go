// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// Required
	HeliusAPIURL string
	HeliusAPIKey string

	// Optional (with defaults)
	HeliusWSURL   string // empty disables the wallet watcher
	PostgresDSN   string // empty selects in-memory stores
	RedisAddr     string // empty selects the in-memory cache
	ClickhouseDSN string // empty disables the swap archive
	ListenAddr    string // default: ":8080"
	BaseURL       string // default: "http://localhost:8080"
	CacheTTL      time.Duration
	LogLevel      string
}

// DefaultCacheTTL is how long cached analytics stay fresh.
const DefaultCacheTTL = time.Hour

// Load reads environment variables, applies defaults, validates, and returns
// a Config instance. It attempts to load .env if present.
func Load() (Config, error) {
	// Load .env if it exists; ignore if missing.
	_ = godotenv.Load()

	var cfg Config
	var errs []string

	// --- Required Fields ---

	cfg.HeliusAPIURL = strings.TrimSpace(os.Getenv("HELIUS_API_URL"))
	if cfg.HeliusAPIURL == "" {
		errs = append(errs, "HELIUS_API_URL is required (Helius enhanced transactions API base URL)")
	} else if !strings.HasPrefix(strings.ToLower(cfg.HeliusAPIURL), "https://") {
		errs = append(errs, fmt.Sprintf("HELIUS_API_URL must start with https://, got %q", cfg.HeliusAPIURL))
	}

	cfg.HeliusAPIKey = strings.TrimSpace(os.Getenv("HELIUS_API_KEY"))
	if cfg.HeliusAPIKey == "" {
		errs = append(errs, "HELIUS_API_KEY is required")
	}

	// --- Optional Fields ---

	cfg.HeliusWSURL = strings.TrimSpace(os.Getenv("HELIUS_WS_URL"))
	if cfg.HeliusWSURL != "" && !strings.HasPrefix(strings.ToLower(cfg.HeliusWSURL), "wss://") {
		errs = append(errs, fmt.Sprintf("HELIUS_WS_URL must start with wss://, got %q", cfg.HeliusWSURL))
	}

	cfg.PostgresDSN = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.ClickhouseDSN = strings.TrimSpace(os.Getenv("CLICKHOUSE_DSN"))

	cfg.ListenAddr = strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_URL")), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}

	cfg.CacheTTL = DefaultCacheTTL
	if ttlStr := strings.TrimSpace(os.Getenv("CACHE_TTL")); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil || ttl <= 0 {
			errs = append(errs, fmt.Sprintf("CACHE_TTL must be a positive duration (e.g. 30m), got %q", ttlStr))
		} else {
			cfg.CacheTTL = ttl
		}
	}

	logLevel := strings.TrimSpace(strings.ToLower(os.Getenv("LOG_LEVEL")))
	switch logLevel {
	case "", "info", "debug", "warn", "error":
		// OK (empty becomes "info")
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of debug|info|warn|error, got %q", logLevel))
	}
	if logLevel == "" {
		logLevel = "info"
	}
	cfg.LogLevel = logLevel

	if len(errs) > 0 {
		return Config{}, errors.New("config validation error:\n  - " + strings.Join(errs, "\n  - "))
	}

	return cfg, nil
}

// MustLoad is a convenience for main(): exit fast with a readable error.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nFATAL: %v\n\n", err)
		os.Exit(1)
	}
	return cfg
}

// RedactedSummary returns a safe human-readable snapshot of the config,
// logged at startup without leaking secrets.
func (c Config) RedactedSummary() string {
	return fmt.Sprintf(
		"config{ helius_api=%s, helius_key=%s, helius_ws=%s, postgres=%s, redis=%s, clickhouse=%s, listen=%s, base_url=%s, cache_ttl=%s, log_level=%s }",
		c.HeliusAPIURL,
		redactToken(c.HeliusAPIKey),
		c.HeliusWSURL,
		redactDSN(c.PostgresDSN),
		c.RedisAddr,
		redactDSN(c.ClickhouseDSN),
		c.ListenAddr,
		c.BaseURL,
		c.CacheTTL,
		c.LogLevel,
	)
}

func redactToken(tok string) string {
	if len(tok) > 6 {
		return tok[:6] + "...(redacted)"
	}
	if tok == "" {
		return "(empty)"
	}
	return "***"
}

// redactDSN hides credentials in user:password@host DSNs.
func redactDSN(dsn string) string {
	if dsn == "" {
		return "(none)"
	}
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
