package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("ALLOW_ORIGINS", "https://a.id, https://b.id ,")
	t.Setenv("JWT_DURATION", "2h")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("BROADCAST_DELAY", "")

	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Server.Port)
	}
	if len(cfg.Server.AllowOrigins) != 2 || cfg.Server.AllowOrigins[1] != "https://b.id" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowOrigins)
	}
	if cfg.JWT.Duration != 2*time.Hour {
		t.Fatalf("expected 2h, got %s", cfg.JWT.Duration)
	}
	if cfg.Outbox.MaxAttempts != 5 {
		t.Fatalf("bad ints fall back to the default, got %d", cfg.Outbox.MaxAttempts)
	}
	if cfg.BroadcastDelay != 100*time.Millisecond {
		t.Fatalf("unexpected broadcast delay %s", cfg.BroadcastDelay)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Outbox: OutboxConfig{MaxAttempts: 5}}
	cfg.JWT.Secret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected a short secret to be rejected")
	}
	cfg.JWT.Secret = strings.Repeat("s", 32)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "sekarnet", SSLMode: "disable"}
	if got := d.DSN(); got != "postgres://u:p@db:5432/sekarnet?sslmode=disable" {
		t.Fatalf("unexpected dsn %s", got)
	}
}
