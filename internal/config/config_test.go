package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.EmailProvider != "smtp" {
		t.Errorf("expected default email provider smtp, got %s", cfg.EmailProvider)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("expected default SMTP port 587, got %d", cfg.SMTPPort)
	}
	if cfg.NotifyTimeout != 10*time.Second {
		t.Errorf("expected default notify timeout 10s, got %s", cfg.NotifyTimeout)
	}
	if cfg.HistoryTTL != 24*time.Hour {
		t.Errorf("expected default history TTL 24h, got %s", cfg.HistoryTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("expected provider normalized to sendgrid, got %s", cfg.EmailProvider)
	}
	if cfg.SMTPPort != 2525 {
		t.Errorf("expected SMTP port 2525, got %d", cfg.SMTPPort)
	}
	if cfg.NotifyTimeout != 3*time.Second {
		t.Errorf("expected notify timeout 3s, got %s", cfg.NotifyTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://a.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("NOTIFY_TIMEOUT", "soon")
	t.Setenv("REDIS_TLS", "maybe")

	cfg := Load()

	if cfg.SMTPPort != 587 {
		t.Errorf("expected fallback SMTP port 587, got %d", cfg.SMTPPort)
	}
	if cfg.NotifyTimeout != 10*time.Second {
		t.Errorf("expected fallback notify timeout, got %s", cfg.NotifyTimeout)
	}
	if cfg.RedisTLS {
		t.Error("expected fallback RedisTLS=false")
	}
}
