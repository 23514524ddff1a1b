// Package config provides configuration management for the Value Sniper application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	SportsAPI SportsAPIConfig `mapstructure:"sports_api" validate:"required"`
	MLService MLServiceConfig `mapstructure:"ml_service" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// SportsAPIConfig represents the fixtures/odds provider configuration
type SportsAPIConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	StreamURL          string  `mapstructure:"stream_url"`
	APIKey             string  `mapstructure:"api_key" validate:"required"`
	LeagueIDs          []int   `mapstructure:"league_ids" validate:"required,min=1"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int     `mapstructure:"retry_attempts" validate:"required,gte=0"`
}

// MLServiceConfig represents the external classifier service configuration
type MLServiceConfig struct {
	HTTPAddress           string `mapstructure:"http_address" validate:"required"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize          int    `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// EngineConfig selects the active sport and carries per-sport parameters.
// One generic engine is parameterized by these blocks; there is no per-sport
// code duplication.
type EngineConfig struct {
	ActiveSport    string                 `mapstructure:"active_sport" validate:"required,sport"`
	Sports         map[string]SportParams `mapstructure:"sports" validate:"required,min=1"`
	BankrollAmount float64                `mapstructure:"bankroll_amount" validate:"gte=0"`
}

// SportParams holds the full tunable surface for one sport. Every threshold
// the engines consume lives here rather than in code.
type SportParams struct {
	RollingWindow       int     `mapstructure:"rolling_window" validate:"required,gt=0"`
	EloKFactor          float64 `mapstructure:"elo_k_factor" validate:"required,gt=0"`
	EloHomeAdvantage    float64 `mapstructure:"elo_home_advantage" validate:"gte=0"`
	RestDayCap          float64 `mapstructure:"rest_day_cap" validate:"required,gt=0"`
	RestDayFallback     float64 `mapstructure:"rest_day_fallback" validate:"required,gt=0"`
	FallbackGoalRate    float64 `mapstructure:"fallback_goal_rate" validate:"required,gt=0"`
	SimulationDepth     int     `mapstructure:"simulation_depth" validate:"required,gt=0"`
	DrawRiskThreshold   float64 `mapstructure:"draw_risk_threshold" validate:"required,gt=0,lte=1"`
	MinDoubleChanceEdge float64 `mapstructure:"min_double_chance_edge" validate:"gte=0"`
	MinSingleEdge       float64 `mapstructure:"min_single_edge" validate:"gte=0"`
	KellyFraction       float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MaxMarketMargin     float64 `mapstructure:"max_market_margin" validate:"gte=0"`
	EvenMatchThreshold  float64 `mapstructure:"even_match_threshold" validate:"gte=0"`
	MinConfidence       float64 `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	MaxDrawImplied      float64 `mapstructure:"max_draw_implied" validate:"gte=0,lte=1"`
	InjuryPenalty       float64 `mapstructure:"injury_penalty" validate:"gte=0,lte=1"`
}

// SchedulerConfig represents the daily job schedule
type SchedulerConfig struct {
	ReplayCron      string `mapstructure:"replay_cron" validate:"required"`
	PredictionCron  string `mapstructure:"prediction_cron" validate:"required"`
	OddsSyncCron    string `mapstructure:"odds_sync_cron" validate:"required"`
	JobTimeoutHours int    `mapstructure:"job_timeout_hours" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig represents X-Ray tracing configuration. Optional; tracing
// stays off unless explicitly enabled.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ActiveSportParams returns the parameter block for the configured sport.
func (c *Config) ActiveSportParams() (SportParams, error) {
	params, ok := c.Engine.Sports[c.Engine.ActiveSport]
	if !ok {
		return SportParams{}, fmt.Errorf("no parameters configured for sport %q", c.Engine.ActiveSport)
	}
	return params, nil
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
