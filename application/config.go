package application

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-httplog/config"
	"github.com/KOMKZ/go-yogan-httplog/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AppConfig framework-level configuration.
// The logger, telemetry and http.logging sections are read by their own providers in di.
type AppConfig struct {
	// Required
	ApiServer ApiServerConfig `mapstructure:"api_server"`

	// Optional
	Middleware *MiddlewareConfig `mapstructure:"middleware,omitempty"`
}

// ApiServerConfig HTTP API server configuration
type ApiServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"` // 0 picks a free port
	Mode         string `mapstructure:"mode"` // debug, release, test
	ReadTimeout  int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // seconds
}

// Validate checks port range and gin mode
func (c ApiServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&c.Mode, validation.In("debug", "release", "test")),
		validation.Field(&c.ReadTimeout, validation.Min(0)),
		validation.Field(&c.WriteTimeout, validation.Min(0)),
	)
}

// Addr host:port listen address
func (c ApiServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MiddlewareConfig middleware configuration
type MiddlewareConfig struct {
	TraceID *middleware.TraceConfig `mapstructure:"trace_id,omitempty"`
	Health  *HealthConfig           `mapstructure:"health,omitempty"`
}

// HealthConfig liveness route
type HealthConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"` // default /health
}

// ApplyDefaults fills unset values of the configured sections
func (c *MiddlewareConfig) ApplyDefaults() {
	if c == nil {
		return
	}

	if c.TraceID != nil {
		defaults := middleware.DefaultTraceConfig()
		if c.TraceID.TraceIDKey == "" {
			c.TraceID.TraceIDKey = defaults.TraceIDKey
		}
		if c.TraceID.TraceIDHeader == "" {
			c.TraceID.TraceIDHeader = defaults.TraceIDHeader
		}
	}

	if c.Health != nil && c.Health.Path == "" {
		c.Health.Path = middleware.HealthPath
	}
}

// LoadAppConfig reads and validates the framework configuration
func LoadAppConfig(loader *config.Loader) (*AppConfig, error) {
	var cfg AppConfig
	if err := loader.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode app config: %w", err)
	}

	cfg.Middleware.ApplyDefaults()

	if err := config.ValidateAll(cfg.ApiServer); err != nil {
		return nil, fmt.Errorf("invalid api_server config: %w", err)
	}
	return &cfg, nil
}
