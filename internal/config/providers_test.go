package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadGeoProvidersMissingFile(t *testing.T) {
	providers, err := LoadGeoProviders(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadGeoProviders() error = %v", err)
	}
	if len(providers) != len(DefaultGeoProviders()) {
		t.Errorf("missing file should yield default chain, got %d providers", len(providers))
	}
}

func TestLoadGeoProvidersFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo_providers.yaml")
	content := `providers:
  - name: custom
    url: https://geo.internal/{ip}
    field: cc
    timeout_seconds: 5
  - name: no-timeout
    url: https://geo2.internal/{ip}
    field: country
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	providers, err := LoadGeoProviders(path)
	if err != nil {
		t.Fatalf("LoadGeoProviders() error = %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("got %d providers, want 2", len(providers))
	}
	if providers[0].Name != "custom" || providers[0].TimeoutSeconds != 5 {
		t.Errorf("providers[0] = %+v, want custom/5s", providers[0])
	}
	if providers[1].TimeoutSeconds != 3 {
		t.Errorf("missing timeout should default to 3, got %d", providers[1].TimeoutSeconds)
	}
}

func TestLoadGeoProvidersInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("providers: [unclosed"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadGeoProviders(path); err == nil {
		t.Error("LoadGeoProviders() should fail on invalid YAML")
	}
}

func TestDefaultGeoProvidersShape(t *testing.T) {
	for _, p := range DefaultGeoProviders() {
		if !strings.Contains(p.URL, "{ip}") {
			t.Errorf("provider %q URL missing {ip} placeholder: %s", p.Name, p.URL)
		}
		if p.Field == "" {
			t.Errorf("provider %q has no response field", p.Name)
		}
		if p.TimeoutSeconds <= 0 {
			t.Errorf("provider %q has no timeout", p.Name)
		}
	}
}
