package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/storage/redis/v3"
	"github.com/joho/godotenv"

	"funnelgate/internal/config"
	"funnelgate/internal/db"
	"funnelgate/internal/email"
	"funnelgate/internal/geo"
	"funnelgate/internal/handlers"
	"funnelgate/internal/jobs"
	"funnelgate/internal/metrics"
	"funnelgate/internal/server"
)

func main() {
	// Load .env if present (ignored in production deployments)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx := context.Background()
	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Seed sample data in development
	if cfg.IsDev() {
		if err := database.SeedDevData(ctx); err != nil {
			log.Printf("Warning: failed to seed dev data: %v", err)
		}
	}

	// Country resolver: optional MaxMind database first, then the HTTP
	// provider chain, with an optional Redis cache in front.
	var geoCache geo.Cache
	if cfg.RedisURL != "" {
		geoCache = redis.New(redis.Config{URL: cfg.RedisURL})
		log.Println("Geo lookups cached in Redis")
	}

	var providers []geo.Provider
	if cfg.GeoMMDBPath != "" {
		mmdb, err := geo.NewMMDBProvider(cfg.GeoMMDBPath)
		if err != nil {
			log.Printf("Warning: failed to open MMDB %s: %v", cfg.GeoMMDBPath, err)
		} else {
			defer mmdb.Close()
			providers = append(providers, mmdb)
		}
	}
	providerCfgs, err := config.LoadGeoProviders(cfg.GeoProvidersFile)
	if err != nil {
		log.Fatalf("Failed to load geo providers: %v", err)
	}
	providers = append(providers, geo.NewHTTPChain(providerCfgs)...)
	resolver := geo.NewResolver(providers, geoCache, time.Duration(cfg.GeoCacheTTLSeconds)*time.Second)

	// Prometheus decision counters
	metrics.Init(database)

	// Email notifications for prelanding captures
	notifier := email.NewNotifier(cfg)
	handlers.SetNotifier(notifier)
	if cfg.IsEmailEnabled() {
		log.Printf("Email notifications enabled via %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	} else {
		log.Println("Email notifications disabled")
	}

	// Background fallback URL health checks
	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	if cfg.HealthCheckEnabled {
		checker := jobs.NewHealthChecker(
			database,
			time.Duration(cfg.HealthCheckInterval)*time.Minute,
			time.Duration(cfg.HealthCheckMaxAge)*time.Minute,
		)
		go checker.Start(jobCtx)
		log.Printf("Fallback URL health checker started (every %d minutes)", cfg.HealthCheckInterval)
	}

	// Initialize server and routes
	srv := server.New(cfg)
	srv.RegisterRoutes(database, resolver)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancelJobs()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
