package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.Profile != ProfileAdmin {
		t.Fatalf("expected admin profile, got %s", cfg.Profile)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("expected admin timeout, got %s", cfg.APITimeout)
	}
	if cfg.APIRetryCount != 3 {
		t.Fatalf("expected 3 retries, got %d", cfg.APIRetryCount)
	}
}

func TestLoadWithoutRedis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	if cfg := Load(); cfg.RedisAddr != "" {
		t.Fatalf("expected no redis address, got %q", cfg.RedisAddr)
	}
}

func TestLoadAppProfileTimeout(t *testing.T) {
	t.Setenv("ROUTEPICK_PROFILE", "app")
	cfg := Load()
	if cfg.Profile != ProfileApp {
		t.Fatalf("expected app profile")
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("expected app timeout, got %s", cfg.APITimeout)
	}
}

func TestUnknownProfileFallsBackToAdmin(t *testing.T) {
	t.Setenv("ROUTEPICK_PROFILE", "kiosk")
	if cfg := Load(); cfg.Profile != ProfileAdmin {
		t.Fatalf("expected admin fallback, got %s", cfg.Profile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_BASE_URL", "https://api.routepick.com/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("API_RETRY_COUNT", "1")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.APIBaseURL != "https://api.routepick.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.APITimeout)
	}
	if cfg.APIRetryCount != 1 {
		t.Fatalf("expected 1 retry, got %d", cfg.APIRetryCount)
	}
}
