package di

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-httplog/config"
	"github.com/KOMKZ/go-yogan-httplog/httplog"
	"github.com/KOMKZ/go-yogan-httplog/logger"
	"github.com/KOMKZ/go-yogan-httplog/telemetry"
	"github.com/samber/do/v2"
	"github.com/spf13/pflag"
)

// ConfigOptions where the configuration comes from
type ConfigOptions struct {
	ConfigPath   string
	EnvPrefix    string
	EnvBindings  map[string]string
	Flags        *pflag.FlagSet
	FlagBindings map[string][]string // flag name -> config keys
}

// RegisterCoreProviders registers the providers by dependency layer; all are lazy.
func RegisterCoreProviders(injector do.Injector, opts ConfigOptions) {
	// Layer 0: config
	do.Provide(injector, ProvideConfigLoader(opts))

	// Layer 1: logger
	do.Provide(injector, ProvideLoggerManager)
	do.Provide(injector, ProvideCtxLogger("yogan"))

	// Layer 2: tracing, http logging
	do.Provide(injector, ProvideTelemetryManager)
	do.Provide(injector, ProvideHTTPLoggingConfig)
	do.Provide(injector, ProvideInterceptor)
}

// ProvideConfigLoader builds the loader from opts
func ProvideConfigLoader(opts ConfigOptions) func(do.Injector) (*config.Loader, error) {
	return config.ProvideLoader(config.ProvideLoaderOptions{
		ConfigPath:   opts.ConfigPath,
		EnvPrefix:    opts.EnvPrefix,
		EnvBindings:  opts.EnvBindings,
		Flags:        opts.Flags,
		FlagBindings: opts.FlagBindings,
	})
}

// ProvideLoggerManager builds the manager from the "logger" section and installs it as the global one.
// A missing section means logger.DefaultManagerConfig.
func ProvideLoggerManager(i do.Injector) (*logger.Manager, error) {
	cfg := logger.DefaultManagerConfig()

	if loader, err := do.Invoke[*config.Loader](i); err == nil && loader.IsSet("logger") {
		if err := loader.UnmarshalKey("logger", &cfg); err != nil {
			return nil, fmt.Errorf("decode logger config: %w", err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	mgr := logger.NewManager(cfg)
	logger.SetGlobal(mgr)
	return mgr, nil
}

// ProvideCtxLogger returns a provider for the module logger
func ProvideCtxLogger(moduleName string) func(do.Injector) (*logger.CtxZapLogger, error) {
	return func(i do.Injector) (*logger.CtxZapLogger, error) {
		mgr, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			return nil, err
		}
		return mgr.GetLogger(moduleName), nil
	}
}

// ProvideTelemetryManager builds the tracer provider from the "telemetry" section.
// A missing section means tracing disabled.
func ProvideTelemetryManager(i do.Injector) (*telemetry.Manager, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return nil, err
	}
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}

	cfg := telemetry.DefaultConfig()
	if loader.IsSet("telemetry") {
		if err := loader.UnmarshalKey("telemetry", &cfg); err != nil {
			return nil, fmt.Errorf("decode telemetry config: %w", err)
		}
	}
	return telemetry.NewManager(cfg, mgr.GetLogger("telemetry"))
}

// ProvideHTTPLoggingConfig reads the http.logging section
func ProvideHTTPLoggingConfig(i do.Injector) (*httplog.Config, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return nil, err
	}
	return httplog.LoadConfig(loader)
}

// ProvideInterceptor builds the interceptor writing to the http-logging module logger
func ProvideInterceptor(i do.Injector) (*httplog.Interceptor, error) {
	cfg, err := do.Invoke[*httplog.Config](i)
	if err != nil {
		return nil, err
	}
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}
	return httplog.New(cfg, mgr.GetLogger(httplog.LoggerModule)), nil
}
