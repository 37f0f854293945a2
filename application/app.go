// Package application runs a gin HTTP service with the http logging interceptor
// available to its routers. Components live in a samber/do container.
//
//	app, err := application.New(application.Options{ConfigPath: "./configs", EnvPrefix: "HTTPLOG"})
//	app.AddRouteFunc(func(engine *gin.Engine, app *application.Application) {
//	    api := engine.Group("/api", app.Interceptor().Middleware())
//	    api.GET("/users/:id", users.Get)
//	})
//	err = app.Run()
package application

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/KOMKZ/go-yogan-httplog/config"
	"github.com/KOMKZ/go-yogan-httplog/di"
	"github.com/KOMKZ/go-yogan-httplog/httplog"
	"github.com/KOMKZ/go-yogan-httplog/logger"
	"github.com/KOMKZ/go-yogan-httplog/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/samber/do/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// DefaultShutdownTimeout used by Run
const DefaultShutdownTimeout = 10 * time.Second

// AppState application lifecycle state
type AppState int

const (
	StateInit AppState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

// String state name
func (s AppState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Options where the application reads its configuration
type Options struct {
	ConfigPath   string // directory with config.yaml and <env>.yaml
	EnvPrefix    string
	Flags        *pflag.FlagSet
	FlagBindings map[string][]string // flag name -> config keys
}

// Application HTTP application
type Application struct {
	injector *do.RootScope

	configLoader *config.Loader
	appConfig    *AppConfig
	logger       *logger.CtxZapLogger
	interceptor  *httplog.Interceptor
	telemetry    *telemetry.Manager

	httpServer *HTTPServer
	routers    *Manager

	ctx       context.Context
	cancel    context.CancelFunc
	state     AppState
	mu        sync.RWMutex
	version   string
	startedAt time.Time

	onSetup    func(*Application) error
	onReady    func(*Application) error
	onShutdown func(context.Context) error
}

// New creates the container and loads the configuration, logger and app config.
// Nothing listens until Run or RunNonBlocking.
func New(opts Options) (*Application, error) {
	injector := do.New()
	di.RegisterCoreProviders(injector, di.ConfigOptions{
		ConfigPath:   opts.ConfigPath,
		EnvPrefix:    opts.EnvPrefix,
		Flags:        opts.Flags,
		FlagBindings: opts.FlagBindings,
	})

	configLoader, err := do.Invoke[*config.Loader](injector)
	if err != nil {
		return nil, err
	}

	// the manager becomes the global one, so middleware logs land in the same files
	if _, err := do.Invoke[*logger.Manager](injector); err != nil {
		return nil, err
	}
	coreLogger := do.MustInvoke[*logger.CtxZapLogger](injector)

	appCfg, err := LoadAppConfig(configLoader)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	coreLogger.DebugCtx(ctx, "Application initialized",
		zap.String("config_path", opts.ConfigPath),
		zap.Strings("config_files", configLoader.GetLoadedFiles()))

	return &Application{
		injector:     injector,
		configLoader: configLoader,
		appConfig:    appCfg,
		logger:       coreLogger,
		routers:      NewManager(),
		ctx:          ctx,
		cancel:       cancel,
		state:        StateInit,
		startedAt:    time.Now(),
	}, nil
}

// WithVersion sets the version logged at startup
func (a *Application) WithVersion(version string) *Application {
	a.version = version
	return a
}

// GetVersion application version
func (a *Application) GetVersion() string {
	return a.version
}

// RegisterRoutes adds routers, registered on the engine in order when the server starts
func (a *Application) RegisterRoutes(routers ...Router) *Application {
	a.routers.Add(routers...)
	return a
}

// AddRouteFunc adds a functional router
func (a *Application) AddRouteFunc(fn func(engine *gin.Engine, app *Application)) *Application {
	a.routers.AddFunc(fn)
	return a
}

// OnSetup registers a callback run at the end of Setup
func (a *Application) OnSetup(fn func(*Application) error) *Application {
	a.onSetup = fn
	return a
}

// OnReady registers a callback run once the server listens
func (a *Application) OnReady(fn func(*Application) error) *Application {
	a.onReady = fn
	return a
}

// OnShutdown registers a callback run before the container shuts down
func (a *Application) OnShutdown(fn func(context.Context) error) *Application {
	a.onShutdown = fn
	return a
}

// Setup resolves the tracer provider and the http logging interceptor
func (a *Application) Setup() error {
	a.setState(StateSetup)

	telemetryMgr, err := do.Invoke[*telemetry.Manager](a.injector)
	if err != nil {
		return fmt.Errorf("resolve telemetry: %w", err)
	}
	a.telemetry = telemetryMgr

	interceptor, err := do.Invoke[*httplog.Interceptor](a.injector)
	if err != nil {
		return fmt.Errorf("resolve http logging interceptor: %w", err)
	}
	a.interceptor = interceptor

	a.logger.DebugCtx(a.ctx, "HTTP logging configured",
		zap.Bool("enabled", interceptor.Config().IsEnabled()),
		zap.String("level", interceptor.Config().Level().String()))

	if a.onSetup != nil {
		if err := a.onSetup(a); err != nil {
			return fmt.Errorf("onSetup failed: %w", err)
		}
	}
	return nil
}

// Run starts the application and blocks until a shutdown signal or Cancel
func (a *Application) Run() error {
	if err := a.RunNonBlocking(); err != nil {
		return err
	}

	a.WaitShutdown()

	return a.Stop(DefaultShutdownTimeout)
}

// RunNonBlocking performs Setup, registers routes and starts the server
func (a *Application) RunNonBlocking() error {
	if err := a.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	a.httpServer = NewHTTPServer(a.appConfig.ApiServer, a.appConfig.Middleware, a.telemetry)
	a.routers.Register(a.httpServer.GetEngine(), a)
	a.logger.DebugCtx(a.ctx, "Routes registered", zap.Int("routers", a.routers.Len()))

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	a.setState(StateRunning)
	if a.onReady != nil {
		if err := a.onReady(a); err != nil {
			return fmt.Errorf("onReady failed: %w", err)
		}
	}

	fields := []zap.Field{
		zap.String("addr", a.httpServer.Addr()),
		zap.Int64("startup_time_ms", time.Since(a.startedAt).Milliseconds()),
	}
	if a.version != "" {
		fields = append(fields, zap.String("version", a.version))
	}
	a.logger.InfoCtx(a.ctx, "HTTP application started", fields...)
	return nil
}

// signal hooks, swapped in tests
var (
	notifySignals = signal.Notify
	stopSignals   = signal.Stop
)

// WaitShutdown blocks until SIGINT/SIGTERM or Cancel.
// A second signal exits the process immediately.
func (a *Application) WaitShutdown() {
	quit := make(chan os.Signal, 1)
	notifySignals(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		a.logger.InfoCtx(a.ctx, "Shutdown signal received", zap.String("signal", sig.String()))
		a.cancel()

		go func() {
			sig := <-quit
			a.logger.WarnCtx(context.Background(), "Second signal received, forcing exit", zap.String("signal", sig.String()))
			os.Exit(1)
		}()

	case <-a.ctx.Done():
		stopSignals(quit)
		a.logger.DebugCtx(context.Background(), "Context cancelled, starting graceful shutdown")
	}
}

// Cancel triggers shutdown of a running Run
func (a *Application) Cancel() {
	a.cancel()
}

// Stop shuts the server down, runs OnShutdown and closes the container (log files included)
func (a *Application) Stop(timeout time.Duration) error {
	a.setState(StateStopping)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.ErrorCtx(ctx, "HTTP server close failed", zap.Error(err))
		}
	}

	if a.onShutdown != nil {
		if err := a.onShutdown(ctx); err != nil {
			a.logger.ErrorCtx(ctx, "OnShutdown callback failed", zap.Error(err))
		}
	}

	a.setState(StateStopped)
	a.cancel()

	// the report is never nil, only Succeed tells a failed shutdown apart
	if report := a.injector.Shutdown(); report != nil && !report.Succeed {
		return fmt.Errorf("container shutdown: %w", report)
	}
	return nil
}

// Interceptor the http logging interceptor, available from Setup on
func (a *Application) Interceptor() *httplog.Interceptor {
	if a.interceptor == nil {
		panic("interceptor not initialized, call Setup() first")
	}
	return a.interceptor
}

// Telemetry the tracer provider manager, available from Setup on
func (a *Application) Telemetry() *telemetry.Manager {
	return a.telemetry
}

// GetInjector the samber/do container
func (a *Application) GetInjector() *do.RootScope {
	return a.injector
}

// GetConfigLoader the configuration loader
func (a *Application) GetConfigLoader() *config.Loader {
	return a.configLoader
}

// GetLogger the application logger
func (a *Application) GetLogger() *logger.CtxZapLogger {
	return a.logger
}

// AppConfig the loaded framework configuration
func (a *Application) AppConfig() *AppConfig {
	return a.appConfig
}

// GetHTTPServer the server, nil before RunNonBlocking
func (a *Application) GetHTTPServer() *HTTPServer {
	return a.httpServer
}

// GetState current state
func (a *Application) GetState() AppState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Context root context, cancelled on shutdown
func (a *Application) Context() context.Context {
	return a.ctx
}

func (a *Application) setState(state AppState) {
	a.mu.Lock()
	oldState := a.state
	a.state = state
	a.mu.Unlock()

	a.logger.DebugCtx(a.ctx, "State changed",
		zap.String("from", oldState.String()),
		zap.String("to", state.String()))
}
