// Package config loads the server's configuration from environment
// variables. Secret-bearing values support ${VAR} indirection so keys can
// be injected from a secret manager's exported environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/merakiops/cache"
	"github.com/jonwraymond/merakiops/dashboard"
	"github.com/jonwraymond/merakiops/dispatch"
	"github.com/jonwraymond/merakiops/observe"
	"github.com/jonwraymond/merakiops/overflow"
	"github.com/jonwraymond/merakiops/secret"
)

var (
	ErrMissingAPIKey    = errors.New("config: MERAKI_API_KEY is required")
	ErrInvalidTransport = errors.New("config: MCP_TRANSPORT must be stdio or sse")
)

// Config is the full configuration surface.
type Config struct {
	// Upstream dashboard API.
	APIKey            string  `env:"MERAKI_API_KEY"`
	OrgID             string  `env:"MERAKI_ORG_ID"`
	BaseURL           string  `env:"MERAKI_BASE_URL" envDefault:"https://api.meraki.com/api/v1"`
	MaxRetries        int     `env:"MERAKI_MAX_RETRIES" envDefault:"3"`
	RequestsPerSecond float64 `env:"MERAKI_RATE_LIMIT_RPS" envDefault:"10"`

	// Result cache.
	CacheEnabled    bool `env:"ENABLE_CACHING" envDefault:"true"`
	CacheTTLSeconds int  `env:"CACHE_TTL_SECONDS" envDefault:"300"`

	// Policy.
	ReadOnly      bool `env:"READ_ONLY_MODE" envDefault:"false"`
	MaxConcurrent int  `env:"MAX_CONCURRENT_CALLS" envDefault:"10"`

	// Overflow store.
	OverflowEnabled         bool   `env:"ENABLE_OVERFLOW" envDefault:"true"`
	OverflowRoot            string `env:"OVERFLOW_DIR" envDefault:"cache_files"`
	OverflowThresholdTokens int    `env:"OVERFLOW_THRESHOLD_TOKENS" envDefault:"5000"`
	OverflowTokenDivisor    int    `env:"OVERFLOW_TOKEN_DIVISOR" envDefault:"4"`
	OverflowMaxPageSize     int    `env:"OVERFLOW_MAX_PAGE_SIZE" envDefault:"100"`
	RetentionHours          int    `env:"OVERFLOW_RETENTION_HOURS" envDefault:"24"`

	// Transport.
	Transport string `env:"MCP_TRANSPORT" envDefault:"stdio"`
	Host      string `env:"MCP_HOST" envDefault:"0.0.0.0"`
	Port      int    `env:"MCP_PORT" envDefault:"8000"`

	// SSE authentication. Both optional; when neither is set, the SSE
	// endpoint is open (matching a trusted-network deployment).
	AuthAPIKeys []string `env:"MCP_AUTH_API_KEYS" envSeparator:","`
	JWTSecret   string   `env:"MCP_JWT_SECRET"`
	JWTIssuer   string   `env:"MCP_JWT_ISSUER" envDefault:"merakiops"`

	// Telemetry.
	LogLevel         string  `env:"LOG_LEVEL" envDefault:"info"`
	TracingEnabled   bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingExporter  string  `env:"TRACING_EXPORTER" envDefault:"none"`
	TracingSamplePct float64 `env:"TRACING_SAMPLE_PCT" envDefault:"1.0"`
	MetricsEnabled   bool    `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsExporter  string  `env:"METRICS_EXPORTER" envDefault:"none"`
}

// Load parses the environment, expands secret indirections, and
// validates.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	var err error
	if cfg.APIKey, err = secret.ExpandEnvStrict(cfg.APIKey); err != nil {
		return nil, fmt.Errorf("config: MERAKI_API_KEY: %w", err)
	}
	if cfg.JWTSecret, err = secret.ExpandEnvStrict(cfg.JWTSecret); err != nil {
		return nil, fmt.Errorf("config: MCP_JWT_SECRET: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Transport != "stdio" && c.Transport != "sse" {
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Transport)
	}
	return nil
}

// CachePolicy maps the cache settings.
func (c *Config) CachePolicy() cache.Policy {
	return cache.Policy{
		Enabled: c.CacheEnabled,
		TTL:     time.Duration(c.CacheTTLSeconds) * time.Second,
	}
}

// OverflowConfig maps the overflow store settings.
func (c *Config) OverflowConfig() overflow.Config {
	return overflow.Config{
		Enabled:         c.OverflowEnabled,
		Root:            c.OverflowRoot,
		ThresholdTokens: c.OverflowThresholdTokens,
		TokenDivisor:    c.OverflowTokenDivisor,
		MaxPageSize:     c.OverflowMaxPageSize,
	}
}

// DashboardConfig maps the upstream client settings.
func (c *Config) DashboardConfig() dashboard.Config {
	return dashboard.Config{
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		MaxRetries:        c.MaxRetries,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// DispatchConfig maps the dispatcher settings.
func (c *Config) DispatchConfig() dispatch.Config {
	return dispatch.Config{
		ReadOnly:      c.ReadOnly,
		DefaultOrgID:  c.OrgID,
		MaxPageSize:   c.OverflowMaxPageSize,
		MaxConcurrent: c.MaxConcurrent,
	}
}

// ObserveConfig maps the telemetry settings.
func (c *Config) ObserveConfig(version string) observe.Config {
	return observe.Config{
		ServiceName: "merakiops",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingEnabled,
			Exporter:  c.TracingExporter,
			SamplePct: c.TracingSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsEnabled,
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

// RetentionAge converts the sweep threshold to a duration.
func (c *Config) RetentionAge() time.Duration {
	if c.RetentionHours <= 0 {
		return overflow.DefaultSweepAge
	}
	return time.Duration(c.RetentionHours) * time.Hour
}
