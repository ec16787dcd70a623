// Package common provides shared utilities for Prism
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Prism
type Config struct {
	Environment string        `toml:"environment"`
	Watchlist   []string      `toml:"watchlist"` // Tickers refreshed by the background scheduler
	Benchmark   string        `toml:"benchmark"` // Benchmark ticker for beta (e.g. "GSPC.INDX")
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Scoring     ScoringConfig `toml:"scoring"`
	Cache       CacheConfig   `toml:"cache"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage paths.
type StorageConfig struct {
	Path string `toml:"path"` // BadgerHold directory for market cache + reports
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD  EODHDConfig  `toml:"eodhd"`
	Gemini GeminiConfig `toml:"gemini"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// ScoringConfig holds the threshold constants the summary engine scores
// against. These are policy, not mechanism: operators tune them per market.
type ScoringConfig struct {
	NetMarginStrong     float64 `toml:"net_margin_strong"`     // net margin above this adds a point
	RevenueGrowthStrong float64 `toml:"revenue_growth_strong"` // percent points, +2
	RevenueGrowthGood   float64 `toml:"revenue_growth_good"`   // percent points, +1
	VolatilityHigh      float64 `toml:"volatility_high"`       // annual vol above this costs 2 points
	VolatilityElevated  float64 `toml:"volatility_elevated"`   // annual vol above this costs 1 point
	VolatilityWarn      float64 `toml:"volatility_warn"`       // position-sizing recommendation threshold
	VaRDeep             float64 `toml:"var_deep"`              // historical VaR below this costs a point
	BetaHigh            float64 `toml:"beta_high"`
	BetaLow             float64 `toml:"beta_low"`
	SentimentVeryHigh   float64 `toml:"sentiment_very_high"`
	SentimentHigh       float64 `toml:"sentiment_high"`
	SentimentLow        float64 `toml:"sentiment_low"`
	SentimentVeryLow    float64 `toml:"sentiment_very_low"`
}

// CacheConfig holds per-component freshness TTLs for cached market data.
type CacheConfig struct {
	Prices       string `toml:"prices"`
	Fundamentals string `toml:"fundamentals"`
	News         string `toml:"news"`
	Refresh      string `toml:"refresh"` // scheduler interval
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// PricesTTL returns the EOD price freshness window.
func (c *CacheConfig) PricesTTL() time.Duration { return parseDurationOr(c.Prices, 30*time.Minute) }

// FundamentalsTTL returns the fundamentals freshness window.
func (c *CacheConfig) FundamentalsTTL() time.Duration {
	return parseDurationOr(c.Fundamentals, 24*time.Hour)
}

// NewsTTL returns the news freshness window.
func (c *CacheConfig) NewsTTL() time.Duration { return parseDurationOr(c.News, time.Hour) }

// RefreshInterval returns the background scheduler interval.
func (c *CacheConfig) RefreshInterval() time.Duration {
	return parseDurationOr(c.Refresh, 30*time.Minute)
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
		Benchmark:   "GSPC.INDX",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/prism",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Scoring: DefaultScoringConfig(),
		Cache: CacheConfig{
			Prices:       "30m",
			Fundamentals: "24h",
			News:         "1h",
			Refresh:      "30m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultScoringConfig returns the stock scoring thresholds.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		NetMarginStrong:     0.15,
		RevenueGrowthStrong: 20,
		RevenueGrowthGood:   10,
		VolatilityHigh:      0.40,
		VolatilityElevated:  0.25,
		VolatilityWarn:      0.30,
		VaRDeep:             -0.10,
		BetaHigh:            1.5,
		BetaLow:             0.8,
		SentimentVeryHigh:   0.5,
		SentimentHigh:       0.2,
		SentimentLow:        -0.2,
		SentimentVeryLow:    -0.5,
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
	if env := os.Getenv("PRISM_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PRISM_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PRISM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PRISM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PRISM_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "prism")
	}

	if bench := os.Getenv("PRISM_BENCHMARK"); bench != "" {
		config.Benchmark = bench
	}

	if wl := os.Getenv("PRISM_WATCHLIST"); wl != "" {
		tickers := strings.Split(wl, ",")
		config.Watchlist = config.Watchlist[:0]
		for _, t := range tickers {
			if t = strings.TrimSpace(t); t != "" {
				config.Watchlist = append(config.Watchlist, t)
			}
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment or config fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"eodhd_api_key":  {"EODHD_API_KEY", "PRISM_EODHD_API_KEY"},
		"gemini_api_key": {"GEMINI_API_KEY", "PRISM_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
