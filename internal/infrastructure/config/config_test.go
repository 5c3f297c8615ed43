package config_test

import (
	"testing"
	"time"

	"github.com/okri/splitbook/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.JWTExpiration != 24*time.Hour {
		t.Fatalf("expected default JWT expiration 24h, got %s", cfg.JWTExpiration)
	}

	if cfg.MigrationsPath != "migrations" {
		t.Fatalf("expected default migrations path, got %s", cfg.MigrationsPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CONNECT_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.ConnectTimeout != 45*time.Second {
		t.Fatalf("expected connect timeout override, got %s", cfg.ConnectTimeout)
	}

	if cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected JWT secret override, got %s", cfg.JWTSecret)
	}

	if cfg.RateLimitPerSecond != 5 {
		t.Fatalf("expected rate limit override, got %f", cfg.RateLimitPerSecond)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is empty")
	}
}
