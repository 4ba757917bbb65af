package server

import (
	"funnelgate/internal/db"
	"funnelgate/internal/geo"
	"funnelgate/internal/handlers"
	"funnelgate/internal/handlers/api"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, resolver *geo.Resolver) {
	// Initialize handlers
	redirectHandler := handlers.NewRedirectHandler(database, s.Cfg, resolver)
	fallbackHandler := handlers.NewFallbackHandler(database, s.Cfg, resolver)
	prelandingHandler := handlers.NewPrelandingHandler(database, s.Cfg)
	blogHandler := handlers.NewBlogHandler(database, s.Cfg)
	probeHandler := handlers.NewProbeHandler(database)

	// Initialize API handlers
	decisionHandler := api.NewDecisionHandler(database, s.Cfg, resolver)
	ruleHandler := api.NewRuleHandler(database)
	fallbackURLHandler := api.NewFallbackURLHandler(database)
	apiPrelandingHandler := api.NewPrelandingHandler(database)
	apiBlogHandler := api.NewBlogHandler(database)
	analyticsHandler := api.NewAnalyticsHandler(database)

	// Visitor-facing routes
	s.App.Get("/r/:id", redirectHandler.Destination)
	s.App.Get("/gated/:id", redirectHandler.Gated)
	s.App.Get("/gated", redirectHandler.Gated)
	s.App.Get("/fallback", fallbackHandler.Show)
	s.App.Get("/", fallbackHandler.Show)
	s.App.Get("/pre/:id", prelandingHandler.Show)
	s.App.Post("/pre/:id", prelandingHandler.Submit)
	s.App.Get("/blog/:slug", blogHandler.Show)

	// Decision API (machine clients, no redirect side effects beyond the cursor)
	s.App.Get("/api/decision", decisionHandler.Decide)

	// Admin API routes
	admin := s.App.Group("/api/admin")

	admin.Get("/rules", ruleHandler.List)
	admin.Get("/rules/:id", ruleHandler.Get)
	admin.Post("/rules", ruleHandler.Create)
	admin.Put("/rules/:id", ruleHandler.Update)
	admin.Delete("/rules/:id", ruleHandler.Delete)

	admin.Get("/fallback-urls", fallbackURLHandler.List)
	admin.Get("/fallback-urls/:id", fallbackURLHandler.Get)
	admin.Post("/fallback-urls", fallbackURLHandler.Create)
	admin.Put("/fallback-urls/:id", fallbackURLHandler.Update)
	admin.Delete("/fallback-urls/:id", fallbackURLHandler.Delete)
	admin.Get("/cursor", fallbackURLHandler.GetCursor)
	admin.Post("/cursor/reset", fallbackURLHandler.ResetCursor)

	admin.Get("/prelandings", apiPrelandingHandler.List)
	admin.Post("/prelandings", apiPrelandingHandler.Create)
	admin.Put("/prelandings/:id", apiPrelandingHandler.Update)
	admin.Delete("/prelandings/:id", apiPrelandingHandler.Delete)

	admin.Get("/blogs", apiBlogHandler.List)
	admin.Post("/blogs", apiBlogHandler.Create)
	admin.Put("/blogs/:id", apiBlogHandler.Update)
	admin.Delete("/blogs/:id", apiBlogHandler.Delete)

	admin.Get("/sessions", analyticsHandler.Sessions)
	admin.Get("/clicks", analyticsHandler.Clicks)
	admin.Get("/captures", analyticsHandler.EmailCaptures)
	admin.Get("/outcomes", analyticsHandler.Outcomes)

	// Operational endpoints
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
