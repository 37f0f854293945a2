package config

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/pflag"
)

// ProvideLoaderOptions options for ProvideLoader
type ProvideLoaderOptions struct {
	ConfigPath   string
	EnvPrefix    string
	EnvBindings  map[string]string
	Flags        *pflag.FlagSet
	FlagBindings map[string][]string
}

// ProvideLoader returns a do provider building the Loader.
//
//	do.Provide(injector, config.ProvideLoader(config.ProvideLoaderOptions{
//	    ConfigPath: "./configs",
//	    EnvPrefix:  "HTTPLOG",
//	    Flags:      cmd.Flags(),
//	}))
func ProvideLoader(opts ProvideLoaderOptions) func(do.Injector) (*Loader, error) {
	return func(do.Injector) (*Loader, error) {
		builder := NewLoaderBuilder().
			WithConfigPath(opts.ConfigPath).
			WithEnvPrefix(opts.EnvPrefix).
			WithFlags(opts.Flags)
		for key, envKey := range opts.EnvBindings {
			builder.WithEnvBinding(key, envKey)
		}
		for name, keys := range opts.FlagBindings {
			builder.WithFlagBinding(name, keys...)
		}

		loader, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("config loader build failed: %w", err)
		}
		return loader, nil
	}
}
