package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want :3000", cfg.ServerAddr)
	}
	if cfg.TrustedCountryHeader != "CF-IPCountry" {
		t.Errorf("TrustedCountryHeader = %q, want CF-IPCountry", cfg.TrustedCountryHeader)
	}
	if cfg.RedirectDelaySeconds != 5 {
		t.Errorf("RedirectDelaySeconds = %d, want 5", cfg.RedirectDelaySeconds)
	}
	if cfg.GeoCacheTTLSeconds != 3600 {
		t.Errorf("GeoCacheTTLSeconds = %d, want 3600", cfg.GeoCacheTTLSeconds)
	}
	if cfg.SiteTitle != "FunnelGate" {
		t.Errorf("SiteTitle = %q, want FunnelGate", cfg.SiteTitle)
	}
	if !cfg.IsDev() {
		t.Error("default environment should be development")
	}
	if cfg.IsEmailEnabled() {
		t.Error("email should be disabled by default")
	}
	if cfg.TLSEnabled {
		t.Error("TLS should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("REDIRECT_DELAY_SECONDS", "10")
	t.Setenv("SMTP_ENABLED", "true")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg := Load()

	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %q, want :8080", cfg.ServerAddr)
	}
	if cfg.RedirectDelaySeconds != 10 {
		t.Errorf("RedirectDelaySeconds = %d, want 10", cfg.RedirectDelaySeconds)
	}
	if cfg.IsDev() {
		t.Error("production environment should not be dev")
	}
	if !cfg.IsEmailEnabled() {
		t.Error("email should be enabled when SMTP is fully configured")
	}
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("GEO_CACHE_TTL_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.GeoCacheTTLSeconds != 3600 {
		t.Errorf("GeoCacheTTLSeconds = %d, want fallback 3600", cfg.GeoCacheTTLSeconds)
	}
}
