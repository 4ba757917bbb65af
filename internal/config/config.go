package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (optional, used as the geo lookup cache)
	RedisURL string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// Geolocation
	TrustedCountryHeader string // Header carrying an edge-resolved country, e.g. "CF-IPCountry"
	GeoMMDBPath          string // Optional MaxMind database path
	GeoCacheTTLSeconds   int    // TTL for cached per-IP lookups
	GeoProvidersFile     string // Optional YAML file overriding the HTTP provider chain

	// Redirect behavior
	RedirectDelaySeconds int // Visible countdown before the fallback page navigates

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// SMTP / email notifications
	SMTPEnabled   bool
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
	SMTPFromName  string
	SMTPTLSMode   string // "starttls", "tls", or "none"
	AdminEmails   string // Comma-separated recipients for capture notifications
	NotifyCapture bool   // Send an email when a prelanding capture arrives

	// Background health checks
	HealthCheckEnabled  bool
	HealthCheckInterval int // Minutes between sweeps
	HealthCheckMaxAge   int // Minutes before a check is considered stale

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "FunnelGate"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/funnelgate?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		TrustedCountryHeader: getEnv("TRUSTED_COUNTRY_HEADER", "CF-IPCountry"),
		GeoMMDBPath:          getEnv("GEO_MMDB_PATH", ""),
		GeoCacheTTLSeconds:   getEnvInt("GEO_CACHE_TTL_SECONDS", 3600),
		GeoProvidersFile:     getEnv("GEO_PROVIDERS_FILE", "geo_providers.yaml"),

		RedirectDelaySeconds: getEnvInt("REDIRECT_DELAY_SECONDS", 5),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		SMTPEnabled:   getEnv("SMTP_ENABLED", "") != "",
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", ""),
		SMTPTLSMode:   getEnv("SMTP_TLS_MODE", "starttls"),
		AdminEmails:   getEnv("ADMIN_EMAILS", ""),
		NotifyCapture: getEnv("NOTIFY_ON_CAPTURE", "") != "",

		HealthCheckEnabled:  getEnv("HEALTH_CHECK_ENABLED", "") != "",
		HealthCheckInterval: getEnvInt("HEALTH_CHECK_INTERVAL_MINUTES", 60),
		HealthCheckMaxAge:   getEnvInt("HEALTH_CHECK_MAX_AGE_MINUTES", 360),

		SiteTitle:   getEnv("SITE_TITLE", "FunnelGate"),
		SiteTagline: getEnv("SITE_TAGLINE", "You are being redirected to your offer"),
		SiteFooter:  getEnv("SITE_FOOTER", "FunnelGate"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP is fully configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}
