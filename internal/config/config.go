// Package config loads the YAML process configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address           string `yaml:"address"`
		Password          string `yaml:"password"`
		DB                int    `yaml:"db"`
		CatalogTTLSeconds int    `yaml:"catalog_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Lifecycle struct {
		TickIntervalSeconds int `yaml:"tick_interval_seconds"`
	} `yaml:"lifecycle"`

	Notifications struct {
		RatePerSecond float64 `yaml:"rate_per_second"`
		Burst         int     `yaml:"burst"`
	} `yaml:"notifications"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/mecarent.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TickInterval returns the lifecycle re-evaluation interval. The original
// deployment re-evaluated every 30 seconds.
func (c *Config) TickInterval() time.Duration {
	if c.Lifecycle.TickIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Lifecycle.TickIntervalSeconds) * time.Second
}

// CatalogTTL returns the catalogue cache TTL; zero disables caching.
func (c *Config) CatalogTTL() time.Duration {
	if c.Redis.CatalogTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CatalogTTLSeconds) * time.Second
}
