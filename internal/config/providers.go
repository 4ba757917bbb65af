package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// GeoProvider describes one HTTP IP-geolocation service in the lookup chain.
// URL must contain the placeholder {ip}; Field names the JSON key holding the
// 2-letter country code.
type GeoProvider struct {
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	Field          string `yaml:"field"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GeoProvidersConfig is the structure of the optional geo_providers.yaml file.
type GeoProvidersConfig struct {
	Providers []GeoProvider `yaml:"providers"`
}

// DefaultGeoProviders is the built-in lookup chain, used when no YAML file
// overrides it. Any provider may be swapped without affecting gate semantics.
func DefaultGeoProviders() []GeoProvider {
	return []GeoProvider{
		{Name: "ipapi", URL: "https://ipapi.co/{ip}/json/", Field: "country_code", TimeoutSeconds: 3},
		{Name: "ipwho", URL: "https://ipwho.is/{ip}", Field: "country_code", TimeoutSeconds: 3},
		{Name: "country-is", URL: "https://api.country.is/{ip}", Field: "country", TimeoutSeconds: 3},
	}
}

// LoadGeoProviders loads the provider chain from the configured YAML file.
// Returns the default chain if the file doesn't exist.
func LoadGeoProviders(path string) ([]GeoProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGeoProviders(), nil
		}
		return nil, err
	}

	var cfg GeoProvidersConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Providers) == 0 {
		return DefaultGeoProviders(), nil
	}

	for i := range cfg.Providers {
		if cfg.Providers[i].TimeoutSeconds <= 0 {
			cfg.Providers[i].TimeoutSeconds = 3
		}
	}
	return cfg.Providers, nil
}
