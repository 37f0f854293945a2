package telemetry

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Exporter types
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none" // spans get ids but are not exported
)

// Config OpenTelemetry tracing configuration, read from the "telemetry" key
type Config struct {
	Enabled        bool                   `mapstructure:"enabled"`
	ServiceName    string                 `mapstructure:"service_name"`
	ServiceVersion string                 `mapstructure:"service_version"`
	Exporter       string                 `mapstructure:"exporter"` // stdout, none
	Sampler        SamplerConfig          `mapstructure:"sampler"`
	ResourceAttrs  map[string]interface{} `mapstructure:"resource_attributes"` // nested maps are flattened with dots
}

// SamplerConfig sampling strategy
type SamplerConfig struct {
	Type  string  `mapstructure:"type"`  // always_on, always_off, trace_id_ratio, parent_based_always_on
	Ratio float64 `mapstructure:"ratio"` // trace_id_ratio only
}

// DefaultConfig disabled, parent based sampling, no export
func DefaultConfig() Config {
	return Config{
		ServiceName: "http-service",
		Exporter:    ExporterNone,
		Sampler:     SamplerConfig{Type: "parent_based_always_on"},
	}
}

// ApplyDefaults fills empty fields
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.ServiceName == "" {
		c.ServiceName = defaults.ServiceName
	}
	if c.Exporter == "" {
		c.Exporter = defaults.Exporter
	}
	if c.Sampler.Type == "" {
		c.Sampler.Type = defaults.Sampler.Type
	}
}

// Validate checks exporter and sampler
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ServiceName, validation.Required),
		validation.Field(&c.Exporter, validation.In(ExporterStdout, ExporterNone)),
		validation.Field(&c.Sampler),
	)
}

// Validate checks the sampler type and ratio range
func (s SamplerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Type, validation.In("always_on", "always_off", "trace_id_ratio", "parent_based_always_on")),
		validation.Field(&s.Ratio, validation.Min(0.0), validation.Max(1.0)),
	)
}
