package httplog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/KOMKZ/go-yogan-httplog/config"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultPrefix starts every message unless WithPrefix overrides it
	DefaultPrefix = "T1 Java School:"

	// SettingsKey configuration subtree read by LoadSettings
	SettingsKey = "http.logging"
)

// Config is read-only after construction and safe to share between goroutines.
type Config struct {
	enabled   bool
	level     Severity
	prefix    string
	skipPaths []string
}

// Option customizes a Config
type Option func(*Config)

// WithPrefix replaces DefaultPrefix; an empty prefix keeps the default
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithSkipPaths excludes request paths (exact match) from logging
func WithSkipPaths(paths ...string) Option {
	return func(c *Config) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// NewConfig creates a Config
func NewConfig(enabled bool, level Severity, opts ...Option) *Config {
	c := &Config{
		enabled: enabled,
		level:   level,
		prefix:  DefaultPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.skipPaths = slices.Clone(c.skipPaths)
	return c
}

// DefaultConfig enabled at SeverityInfo
func DefaultConfig() *Config {
	return NewConfig(true, SeverityInfo)
}

// IsEnabled reports whether invocations are logged
func (c *Config) IsEnabled() bool {
	return c.enabled
}

// Level severity used for request, response and error entries alike
func (c *Config) Level() Severity {
	return c.level
}

// Prefix message prefix
func (c *Config) Prefix() string {
	return c.prefix
}

// Skips reports whether path is excluded from logging
func (c *Config) Skips(path string) bool {
	return slices.Contains(c.skipPaths, path)
}

// Settings raw values under the http.logging key
type Settings struct {
	Enabled   *bool    `mapstructure:"enabled"`
	Level     string   `mapstructure:"level"`
	Prefix    string   `mapstructure:"prefix"`
	SkipPaths []string `mapstructure:"skip_paths"`
}

// Config resolves the settings: a missing enabled means true, a missing or unknown level means INFO.
func (s Settings) Config() *Config {
	enabled := true
	if s.Enabled != nil {
		enabled = *s.Enabled
	}
	return NewConfig(enabled, ParseSeverity(s.Level),
		WithPrefix(s.Prefix),
		WithSkipPaths(s.SkipPaths...),
	)
}

// Validate implements config.Validator. enabled and level are never rejected.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Prefix, validation.Length(0, 64)),
		validation.Field(&s.SkipPaths, validation.Each(validation.By(absolutePath))),
	)
}

func absolutePath(value interface{}) error {
	path, _ := value.(string)
	if !strings.HasPrefix(path, "/") {
		return errors.New("must start with /")
	}
	return nil
}

// LoadSettings reads and validates the http.logging subtree; an absent subtree yields zero Settings.
func LoadSettings(loader *config.Loader) (Settings, error) {
	var s Settings
	if loader == nil || !loader.IsSet(SettingsKey) {
		return s, nil
	}
	if err := loader.UnmarshalKey(SettingsKey, &s); err != nil {
		return Settings{}, fmt.Errorf("decode %s: %w", SettingsKey, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", SettingsKey, err)
	}
	return s, nil
}

// LoadConfig is LoadSettings followed by Settings.Config
func LoadConfig(loader *config.Loader) (*Config, error) {
	s, err := LoadSettings(loader)
	if err != nil {
		return nil, err
	}
	return s.Config(), nil
}
