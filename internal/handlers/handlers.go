package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"funnelgate/internal/config"
	"funnelgate/internal/db"
	"funnelgate/internal/email"
	"funnelgate/internal/geo"
	"funnelgate/internal/models"
)

// Notifier is the global email notifier instance.
// Set during application initialization.
var Notifier *email.Notifier

// SetNotifier sets the global email notifier.
func SetNotifier(n *email.Notifier) {
	Notifier = n
}

// ResolveCountry determines the visitor's country code for a request:
// trusted edge header first, then the resolver chain, then the sentinel.
func ResolveCountry(c fiber.Ctx, cfg *config.Config, resolver *geo.Resolver) string {
	if cfg.TrustedCountryHeader != "" {
		if code := geo.FromHeader(c.Get(cfg.TrustedCountryHeader)); code != "" {
			return code
		}
	}
	if resolver != nil {
		return resolver.Resolve(c.Context(), c.IP())
	}
	return geo.UnknownCountry
}

// recordSession records a visitor session asynchronously. Analytics failures
// never surface to the visitor.
func recordSession(c fiber.Ctx, database *db.DB, country, surface string) {
	s := &models.Session{
		CountryCode: country,
		IP:          c.IP(),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
		Referer:     c.Get(fiber.HeaderReferer),
		Surface:     surface,
	}
	go database.RecordSession(context.Background(), s)
}
