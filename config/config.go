package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Arbscan ArbscanConfig `yaml:"arbscan"`
	API     APIConfig     `yaml:"api"`
	Scan    ScanConfig    `yaml:"scan"`
	Direct  DirectConfig  `yaml:"direct"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

type ArbscanConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// APIConfig describes the trading-bot control API the skills talk to.
// Credentials follow the layered resolution in env.go; values here are
// the final fallbacks.
type APIConfig struct {
	URL               string `yaml:"url"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	TimeoutMs         int    `yaml:"timeout_ms"`
	PairsTimeoutMs    int    `yaml:"pairs_timeout_ms"`
	PricesTimeoutMs   int    `yaml:"prices_timeout_ms"`
	RequestsPerSecond int    `yaml:"requests_per_second"`
	BurstSize         int    `yaml:"burst_size"`
}

func (c APIConfig) Timeout() time.Duration       { return time.Duration(c.TimeoutMs) * time.Millisecond }
func (c APIConfig) PairsTimeout() time.Duration  { return time.Duration(c.PairsTimeoutMs) * time.Millisecond }
func (c APIConfig) PricesTimeout() time.Duration { return time.Duration(c.PricesTimeoutMs) * time.Millisecond }

type ScanConfig struct {
	MaxWorkers       int     `yaml:"max_workers"`
	MinSpread        float64 `yaml:"min_spread"`
	OutlierDeviation float64 `yaml:"outlier_deviation"`
}

// DirectConfig enables venues that bypass the bot API and talk to a
// centralized exchange's public market data directly.
type DirectConfig struct {
	Binance DirectVenueConfig `yaml:"binance"`
	Bybit   DirectVenueConfig `yaml:"bybit"`
}

type DirectVenueConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type ExportConfig struct {
	Directory string   `yaml:"directory"`
	S3        S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the configuration used when no YAML file is given.
// The defaults mirror the original skill scripts: localhost API with
// admin/admin Basic auth, ten concurrent fetches, 20% outlier band.
func Default() *Config {
	return &Config{
		Arbscan: ArbscanConfig{
			Name:    "arbscan",
			Version: "1.0.0",
		},
		API: APIConfig{
			URL:               "http://localhost:8000",
			Username:          "admin",
			Password:          "admin",
			TimeoutMs:         30000,
			PairsTimeoutMs:    15000,
			PricesTimeoutMs:   15000,
			RequestsPerSecond: 20,
			BurstSize:         10,
		},
		Scan: ScanConfig{
			MaxWorkers:       10,
			MinSpread:        0,
			OutlierDeviation: 0.20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Export: ExportConfig{
			Directory: "data/scans",
		},
	}
}

// LoadConfig reads the YAML configuration at path. An empty path yields
// the defaults. Environment variables override credentials and S3
// settings in both cases.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := firstEnv("API_URL", "HUMMINGBOT_API_URL"); v != "" {
		cfg.API.URL = strings.TrimSpace(v)
	}
	if v := os.Getenv("API_USER"); v != "" {
		cfg.API.Username = strings.TrimSpace(v)
	}
	if v := os.Getenv("API_PASS"); v != "" {
		cfg.API.Password = strings.TrimSpace(v)
	}

	if cfg.Export.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			cfg.Export.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			cfg.Export.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			cfg.Export.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			cfg.Export.S3.Bucket = strings.TrimSpace(v)
		}
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func validateConfig(cfg *Config) error {
	if cfg.Arbscan.Name == "" {
		return fmt.Errorf("arbscan.name is required")
	}

	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if cfg.API.TimeoutMs <= 0 || cfg.API.PairsTimeoutMs <= 0 || cfg.API.PricesTimeoutMs <= 0 {
		return fmt.Errorf("api timeouts must be greater than 0")
	}

	if cfg.Scan.MaxWorkers <= 0 {
		return fmt.Errorf("scan.max_workers must be greater than 0")
	}
	if cfg.Scan.MinSpread < 0 {
		return fmt.Errorf("scan.min_spread must not be negative")
	}
	if cfg.Scan.OutlierDeviation <= 0 || cfg.Scan.OutlierDeviation > 1 {
		return fmt.Errorf("scan.outlier_deviation must be within (0, 1]")
	}

	if cfg.Export.S3.Enabled {
		if cfg.Export.S3.Bucket == "" {
			return fmt.Errorf("export.s3.bucket is required when S3 is enabled")
		}
		if cfg.Export.S3.Region == "" {
			return fmt.Errorf("export.s3.region is required when S3 is enabled")
		}
	}

	return nil
}
