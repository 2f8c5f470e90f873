package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.URL != "http://localhost:8000" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.API.Username != "admin" || cfg.API.Password != "admin" {
		t.Errorf("credentials = %q/%q", cfg.API.Username, cfg.API.Password)
	}
	if cfg.Scan.MaxWorkers != 10 {
		t.Errorf("MaxWorkers = %d", cfg.Scan.MaxWorkers)
	}
	if cfg.Scan.OutlierDeviation != 0.20 {
		t.Errorf("OutlierDeviation = %v", cfg.Scan.OutlierDeviation)
	}
	if got := cfg.API.PairsTimeout().Seconds(); got != 15 {
		t.Errorf("PairsTimeout = %vs", got)
	}
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error: %v", err)
	}
	if cfg.API.URL == "" || cfg.Scan.MaxWorkers == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	data := `
api:
  url: http://bots.internal:9000
scan:
  min_spread: 1.5
direct:
  binance:
    enabled: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.URL != "http://bots.internal:9000" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.Scan.MinSpread != 1.5 {
		t.Errorf("MinSpread = %v", cfg.Scan.MinSpread)
	}
	if !cfg.Direct.Binance.Enabled {
		t.Error("Direct.Binance.Enabled = false")
	}
	// Fields the file omits keep their defaults.
	if cfg.API.Username != "admin" {
		t.Errorf("Username = %q", cfg.API.Username)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("API_URL", "http://override:8000")
	t.Setenv("API_USER", "scanner")
	t.Setenv("API_PASS", "secret")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.URL != "http://override:8000" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.API.Username != "scanner" || cfg.API.Password != "secret" {
		t.Errorf("credentials = %q/%q", cfg.API.Username, cfg.API.Password)
	}
}

func TestHummingbotAPIURLFallback(t *testing.T) {
	t.Setenv("HUMMINGBOT_API_URL", "http://hb:8000")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.URL != "http://hb:8000" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api url", func(c *Config) { c.API.URL = "" }},
		{"zero workers", func(c *Config) { c.Scan.MaxWorkers = 0 }},
		{"negative min spread", func(c *Config) { c.Scan.MinSpread = -1 }},
		{"outlier deviation too large", func(c *Config) { c.Scan.OutlierDeviation = 1.5 }},
		{"zero timeout", func(c *Config) { c.API.TimeoutMs = 0 }},
		{"s3 enabled without bucket", func(c *Config) { c.Export.S3.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := validateConfig(cfg); err == nil {
				t.Error("validateConfig() = nil, want error")
			}
		})
	}
}
