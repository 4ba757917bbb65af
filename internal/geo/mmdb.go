package geo

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/oschwald/maxminddb-golang/v2"
)

// MMDBProvider looks up countries in a local MaxMind GeoIP2/GeoLite2 database.
type MMDBProvider struct {
	db *maxminddb.Reader
}

// mmdbRecord maps the nested MaxMind country structure.
type mmdbRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewMMDBProvider opens the database at path.
func NewMMDBProvider(path string) (*MMDBProvider, error) {
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mmdb: %w", err)
	}
	return &MMDBProvider{db: db}, nil
}

// Name implements Provider.
func (p *MMDBProvider) Name() string { return "mmdb" }

// Lookup implements Provider.
func (p *MMDBProvider) Lookup(_ context.Context, ip string) (string, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("invalid IP address: %w", err)
	}

	var record mmdbRecord
	if err := p.db.Lookup(addr).Decode(&record); err != nil {
		return "", fmt.Errorf("mmdb lookup failed: %w", err)
	}
	if record.Country.ISOCode == "" {
		return "", fmt.Errorf("no country for IP %s", ip)
	}
	return record.Country.ISOCode, nil
}

// Close closes the underlying database.
func (p *MMDBProvider) Close() error {
	return p.db.Close()
}
