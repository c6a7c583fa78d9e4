// Package config provides configuration management for the Encore Edge application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Model     ModelConfig     `mapstructure:"model"`
	Markets   MarketsConfig   `mapstructure:"markets" validate:"required"`
	Portfolio PortfolioConfig `mapstructure:"portfolio"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// ModelConfig represents the probability model configuration
type ModelConfig struct {
	// SeedPath points at a JSON model snapshot. Empty means the
	// built-in default model.
	SeedPath string `mapstructure:"seed_path"`
}

// MarketsConfig represents prediction-market venue configuration
type MarketsConfig struct {
	Kalshi              KalshiConfig     `mapstructure:"kalshi" validate:"required"`
	Polymarket          PolymarketConfig `mapstructure:"polymarket" validate:"required"`
	CacheTTLSeconds     int              `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	FetchTimeoutSeconds int              `mapstructure:"fetch_timeout_seconds" validate:"required,gt=0"`
	RateLimit           float64          `mapstructure:"rate_limit" validate:"required,gt=0"`
	MaxRetries          int              `mapstructure:"max_retries" validate:"gte=0"`
}

// KalshiConfig represents the Kalshi market API configuration
type KalshiConfig struct {
	APIURL            string `mapstructure:"api_url" validate:"required,url"`
	FirstSongSeries   string `mapstructure:"first_song_series"`
	SongsPlayedSeries string `mapstructure:"songs_played_series"`
	GuestSeries       string `mapstructure:"guest_series"`
	MarketLimit       int    `mapstructure:"market_limit" validate:"gte=0"`
}

// PolymarketConfig represents the Polymarket Gamma API configuration
type PolymarketConfig struct {
	GammaURL    string   `mapstructure:"gamma_url" validate:"required,url"`
	SearchTerms []string `mapstructure:"search_terms"`
	MarketLimit int      `mapstructure:"market_limit" validate:"gte=0"`
}

// PortfolioConfig represents the authenticated exchange account configuration
type PortfolioConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	APIURL         string   `mapstructure:"api_url" validate:"omitempty,url"`
	APIKeyID       string   `mapstructure:"api_key_id"`
	PrivateKeyPath string   `mapstructure:"private_key_path"`
	PrivateKeyPEM  string   `mapstructure:"private_key_pem"`
	TickerFilters  []string `mapstructure:"ticker_filters"`
}

// DatabaseConfig represents the optional update-log persistence database
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents the periodic market-scan configuration
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ScanSchedule string `mapstructure:"scan_schedule"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ServerAddress returns the host:port the API server binds to
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MarketsCacheTTL returns the comparison cache lifetime
func (c *Config) MarketsCacheTTL() time.Duration {
	return time.Duration(c.Markets.CacheTTLSeconds) * time.Second
}

// MarketsFetchTimeout returns the per-venue fetch deadline
func (c *Config) MarketsFetchTimeout() time.Duration {
	return time.Duration(c.Markets.FetchTimeoutSeconds) * time.Second
}
