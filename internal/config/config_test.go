package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HELIUS_API_URL", "https://api.helius.xyz")
	t.Setenv("HELIUS_API_KEY", "secret-key-123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %s, want :8080", cfg.ListenAddr)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", cfg.CacheTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("HELIUS_API_URL", "")
	t.Setenv("HELIUS_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded without required vars")
	}
	if !strings.Contains(err.Error(), "HELIUS_API_URL") || !strings.Contains(err.Error(), "HELIUS_API_KEY") {
		t.Errorf("error does not name both missing vars: %v", err)
	}
}

func TestLoad_SchemeValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("HELIUS_API_URL", "http://insecure.example.com")

	if _, err := Load(); err == nil {
		t.Error("Load accepted non-https API URL")
	}

	setRequired(t)
	t.Setenv("HELIUS_WS_URL", "https://not-a-ws-url")
	if _, err := Load(); err == nil {
		t.Error("Load accepted non-wss WS URL")
	}
}

func TestLoad_CacheTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %s, want 30m", cfg.CacheTTL)
	}

	t.Setenv("CACHE_TTL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Error("Load accepted malformed CACHE_TTL")
	}
}

func TestLoad_BaseURLTrailingSlash(t *testing.T) {
	setRequired(t)
	t.Setenv("BASE_URL", "https://shadowstats.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://shadowstats.example.com" {
		t.Errorf("BaseURL = %s, want trailing slash trimmed", cfg.BaseURL)
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Error("Load accepted unknown log level")
	}
}

func TestRedactedSummary(t *testing.T) {
	cfg := Config{
		HeliusAPIKey: "super-secret-api-key",
		PostgresDSN:  "postgres://user:password@db:5432/reports",
	}

	summary := cfg.RedactedSummary()
	if strings.Contains(summary, "super-secret-api-key") {
		t.Error("summary leaks API key")
	}
	if strings.Contains(summary, "password") {
		t.Error("summary leaks DSN password")
	}
}
