package jobs

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"funnelgate/internal/db"
	"funnelgate/internal/models"
	"funnelgate/internal/validation"
)

// HealthChecker performs background health checks on fallback pool URLs.
type HealthChecker struct {
	db       *db.DB
	interval time.Duration
	maxAge   time.Duration
	client   *http.Client
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(database *db.DB, interval, maxAge time.Duration) *HealthChecker {
	return &HealthChecker{
		db:       database,
		interval: interval,
		maxAge:   maxAge,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background health check loop.
func (h *HealthChecker) Start(ctx context.Context) {
	log.Printf("Fallback URL health checker started (interval: %v, maxAge: %v)", h.interval, h.maxAge)

	// Run immediately on start
	h.checkAll(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Fallback URL health checker stopped")
			return
		case <-ticker.C:
			h.checkAll(ctx)
		}
	}
}

// checkAll checks all fallback URLs whose last check is stale.
func (h *HealthChecker) checkAll(ctx context.Context) {
	urls, err := h.db.GetFallbackURLsNeedingHealthCheck(ctx, h.maxAge, 50)
	if err != nil {
		log.Printf("Health checker: failed to get fallback urls: %v", err)
		return
	}

	if len(urls) == 0 {
		return
	}

	log.Printf("Health checker: checking %d fallback urls", len(urls))

	for _, candidate := range urls {
		select {
		case <-ctx.Done():
			return
		default:
		}

		status, errorMsg := h.checkURL(ctx, candidate.URL)
		if err := h.db.UpdateFallbackURLHealth(ctx, candidate.ID, status, errorMsg); err != nil {
			log.Printf("Health checker: failed to update %s: %v", candidate.URL, err)
			continue
		}

		// Delay between checks to avoid overwhelming external servers
		time.Sleep(1 * time.Second)
	}
}

// checkURL performs a HEAD request to check if a URL is reachable.
// Validates URLs before making requests to prevent SSRF attacks.
func (h *HealthChecker) checkURL(ctx context.Context, url string) (string, *string) {
	if valid, msg := validation.ValidateURLForHealthCheck(url); !valid {
		return models.HealthUnhealthy, &msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		errMsg := "invalid URL: " + err.Error()
		return models.HealthUnhealthy, &errMsg
	}

	req.Header.Set("User-Agent", "FunnelGate-HealthChecker/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		errMsg := "connection failed: " + err.Error()
		return models.HealthUnknown, &errMsg
	}
	defer resp.Body.Close()

	// Any HTTP response means the site is reachable
	return models.HealthHealthy, nil
}
