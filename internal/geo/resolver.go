// Package geo resolves a visitor's two-letter country code from the request
// context: a trusted edge header first, then an optional local MaxMind
// database, then a chain of HTTP IP-geolocation providers. Resolution never
// fails loudly: on exhaustion the sentinel UnknownCountry is returned and
// the country gate treats it as "unknown".
package geo

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"funnelgate/internal/redirect"
)

// UnknownCountry is re-exported so callers don't need both packages.
const UnknownCountry = redirect.UnknownCountry

// Provider performs a single IP-to-country lookup.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, ip string) (string, error)
}

// Cache stores per-IP resolution results. Satisfied by the Fiber storage
// backends (e.g. gofiber/storage/redis).
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// Resolver runs the provider chain with an optional cache in front.
type Resolver struct {
	providers []Provider
	cache     Cache
	cacheTTL  time.Duration
}

// NewResolver creates a resolver over an ordered provider chain.
// Cache may be nil.
func NewResolver(providers []Provider, cache Cache, cacheTTL time.Duration) *Resolver {
	return &Resolver{providers: providers, cache: cache, cacheTTL: cacheTTL}
}

// Resolve returns the country code for an IP, or UnknownCountry when every
// provider fails. Provider errors are logged and swallowed.
func (r *Resolver) Resolve(ctx context.Context, ip string) string {
	if ip == "" {
		return UnknownCountry
	}

	if r.cache != nil {
		if cached, err := r.cache.Get("geo:" + ip); err == nil && len(cached) == 2 {
			return string(cached)
		}
	}

	for _, p := range r.providers {
		code, err := p.Lookup(ctx, ip)
		if err != nil {
			slog.Debug("geo lookup failed", "provider", p.Name(), "ip", ip, "error", err)
			continue
		}
		code = NormalizeCode(code)
		if code == "" {
			continue
		}
		if r.cache != nil {
			if err := r.cache.Set("geo:"+ip, []byte(code), r.cacheTTL); err != nil {
				slog.Debug("geo cache write failed", "ip", ip, "error", err)
			}
		}
		return code
	}

	return UnknownCountry
}

// FromHeader validates a trusted edge-provided country header value.
// Returns "" when the value is not a usable 2-letter code.
func FromHeader(value string) string {
	return NormalizeCode(value)
}

// NormalizeCode uppercases and validates a candidate country code.
// Returns "" for anything that is not exactly two ASCII letters or that is
// the unknown sentinel itself.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 || code == UnknownCountry {
		return ""
	}
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			return ""
		}
	}
	return code
}
