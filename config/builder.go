package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// LoaderBuilder assembles the standard source stack
type LoaderBuilder struct {
	configPath   string
	envPrefix    string
	envBindings  map[string]string
	flags        *pflag.FlagSet
	flagBindings map[string][]string
}

// NewLoaderBuilder creates a builder
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{
		envBindings:  make(map[string]string),
		flagBindings: make(map[string][]string),
	}
}

// WithConfigPath directory holding config.yaml and <env>.yaml
func (b *LoaderBuilder) WithConfigPath(path string) *LoaderBuilder {
	b.configPath = path
	return b
}

// WithEnvPrefix enables environment variables with prefix
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithEnvBinding maps key to an explicit environment variable
func (b *LoaderBuilder) WithEnvBinding(key, envKey string) *LoaderBuilder {
	b.envBindings[key] = envKey
	return b
}

// WithFlags enables command-line flags
func (b *LoaderBuilder) WithFlags(flags *pflag.FlagSet) *LoaderBuilder {
	b.flags = flags
	return b
}

// WithFlagBinding maps flagName to configuration keys
func (b *LoaderBuilder) WithFlagBinding(flagName string, keys ...string) *LoaderBuilder {
	b.flagBindings[flagName] = append(b.flagBindings[flagName], keys...)
	return b
}

// Build creates the loader and loads it once
func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	if b.configPath != "" {
		loader.AddSource(NewFileSource(filepath.Join(b.configPath, "config.yaml"), 10))
		if env := GetEnv(); env != "" {
			loader.AddSource(NewFileSource(filepath.Join(b.configPath, env+".yaml"), 20))
		}
	}

	if b.envPrefix != "" {
		envSource := NewEnvSource(b.envPrefix, 50)
		for key, envKey := range b.envBindings {
			envSource.AddBinding(key, envKey)
		}
		loader.AddSource(envSource)
	}

	if b.flags != nil {
		flagSource := NewFlagSource(b.flags, 100)
		for name, keys := range b.flagBindings {
			flagSource.Bind(name, keys...)
		}
		loader.AddSource(flagSource)
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}

// GetEnv returns APP_ENV, then ENV, defaulting to dev
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}
