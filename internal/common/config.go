// Package common provides shared utilities for the risk API service
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the risk API service
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Cache       CacheConfig     `toml:"cache"`
	Clients     ClientsConfig   `toml:"clients"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CacheConfig holds cache backend configuration.
// Backend selects the implementation once at startup: "memory" or "surreal".
// When empty, the environment decides: development gets memory, everything
// else gets surreal.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo  YahooConfig  `toml:"yahoo"`
	Worker WorkerConfig `toml:"worker"`
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// WorkerConfig holds the peer risk-worker service configuration.
// An empty BaseURL disables the worker stage of the price fallback chain.
type WorkerConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *WorkerConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// SchedulerConfig holds the background refresh schedule.
type SchedulerConfig struct {
	Spec    string   `toml:"spec"`    // cron spec, e.g. "*/15 * * * *"
	Tickers []string `toml:"tickers"` // tickers kept warm by the scheduler
	Period  string   `toml:"period"`  // history period refreshed, e.g. "1y"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Cache: CacheConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "riskapi",
			Database:  "cache",
			Username:  "root",
			Password:  "root",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Worker: WorkerConfig{
				Timeout: "10s",
			},
		},
		Scheduler: SchedulerConfig{
			Spec:   "*/15 * * * *",
			Period: "1y",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RISKAPI_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("RISKAPI_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("RISKAPI_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("RISKAPI_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("RISKAPI_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}

	if addr := os.Getenv("RISKAPI_CACHE_ADDRESS"); addr != "" {
		config.Cache.Address = addr
	}

	if user := os.Getenv("RISKAPI_CACHE_USERNAME"); user != "" {
		config.Cache.Username = user
	}

	if pass := os.Getenv("RISKAPI_CACHE_PASSWORD"); pass != "" {
		config.Cache.Password = pass
	}

	if url := os.Getenv("RISKAPI_WORKER_URL"); url != "" {
		config.Clients.Worker.BaseURL = url
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "development" || env == "dev" || env == ""
}
