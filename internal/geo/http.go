package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"funnelgate/internal/config"
)

// HTTPProvider queries a third-party IP-geolocation service expected to
// return a 2-letter country code in a known JSON field.
type HTTPProvider struct {
	name    string
	urlTmpl string // contains the {ip} placeholder
	field   string
	client  *http.Client
}

// NewHTTPProvider creates a provider from its YAML config entry.
func NewHTTPProvider(cfg config.GeoProvider) *HTTPProvider {
	return &HTTPProvider{
		name:    cfg.Name,
		urlTmpl: cfg.URL,
		field:   cfg.Field,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// NewHTTPChain builds the ordered provider chain from config.
func NewHTTPChain(cfgs []config.GeoProvider) []Provider {
	providers := make([]Provider, 0, len(cfgs))
	for _, c := range cfgs {
		providers = append(providers, NewHTTPProvider(c))
	}
	return providers
}

// Name implements Provider.
func (p *HTTPProvider) Name() string { return p.name }

// Lookup implements Provider.
func (p *HTTPProvider) Lookup(ctx context.Context, ip string) (string, error) {
	url := strings.ReplaceAll(p.urlTmpl, "{ip}", ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned HTTP %d", p.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%s returned invalid JSON: %w", p.name, err)
	}

	code, ok := payload[p.field].(string)
	if !ok || code == "" {
		return "", errors.New(p.name + " response missing country field")
	}
	return code, nil
}
