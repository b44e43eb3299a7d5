// Package config provides configuration management for the Steady Better application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Strategy   StrategyConfig   `mapstructure:"strategy" validate:"required"`
	Dataset    DatasetConfig    `mapstructure:"dataset" validate:"required"`
	Export     ExportConfig     `mapstructure:"export" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SimulationConfig represents staking simulation configuration
type SimulationConfig struct {
	InitialBankroll      float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	BaseStake            float64 `mapstructure:"base_stake" validate:"required,gt=0"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"required,gt=0"`
	Seed                 int64   `mapstructure:"seed" validate:"gte=0"`
	StakeWarnMultiple    float64 `mapstructure:"stake_warn_multiple" validate:"gte=0"`
}

// StrategyConfig represents bet selection and row filtering configuration
type StrategyConfig struct {
	Selection string       `mapstructure:"selection" validate:"required,selectionpolicy"`
	Filter    FilterConfig `mapstructure:"filter" validate:"required"`
}

// FilterConfig represents a row filter over bookmaker odds
type FilterConfig struct {
	Policy string   `mapstructure:"policy" validate:"required,filterpolicy"`
	Low    float64  `mapstructure:"low" validate:"required,gt=0"`
	High   *float64 `mapstructure:"high" validate:"omitempty,gt=0"`
}

// DatasetConfig represents season file fetching and caching configuration
type DatasetConfig struct {
	CacheDir          string  `mapstructure:"cache_dir" validate:"required"`
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// ExportConfig represents results export configuration
type ExportConfig struct {
	Dir        string `mapstructure:"dir" validate:"required"`
	HTMLReport bool   `mapstructure:"html_report"`
}

// DatabaseConfig represents the optional Postgres results sink
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
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

// GetMetricsAddr returns the listen address for the metrics endpoint
func (c *Config) GetMetricsAddr() string {
	return fmt.Sprintf(":%d", c.Metrics.Port)
}
