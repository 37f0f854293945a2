// Package telemetry owns the OpenTelemetry tracer provider used by the HTTP server.
// Spans created by otelgin carry the trace id that the logger writes next to every
// http logging entry.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/KOMKZ/go-yogan-httplog/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Option customizes the Manager
type Option func(*Manager)

// WithWriter sends stdout exporter output to w
func WithWriter(w io.Writer) Option {
	return func(m *Manager) {
		m.writer = w
	}
}

// WithoutGlobal keeps the provider out of otel.SetTracerProvider
func WithoutGlobal() Option {
	return func(m *Manager) {
		m.skipGlobal = true
	}
}

// Manager tracer provider lifecycle
type Manager struct {
	config     Config
	tp         *sdktrace.TracerProvider
	logger     *logger.CtxZapLogger
	writer     io.Writer
	skipGlobal bool
}

// NewManager builds the provider when enabled and installs it as the global one
// together with the W3C trace context propagator.
func NewManager(cfg Config, log *logger.CtxZapLogger, opts ...Option) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	m := &Manager{config: cfg, logger: log, writer: os.Stdout}
	for _, opt := range opts {
		opt(m)
	}

	if !cfg.Enabled {
		return m, nil
	}

	tp, err := m.createTracerProvider(context.Background())
	if err != nil {
		return nil, err
	}
	m.tp = tp

	if !m.skipGlobal {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))
	}

	if m.logger != nil {
		m.logger.Debug("tracer provider created",
			zap.String("service_name", cfg.ServiceName),
			zap.String("exporter", cfg.Exporter),
			zap.String("sampler", cfg.Sampler.Type))
	}
	return m, nil
}

func (m *Manager) createTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	res, err := m.createResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("create resource failed: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(m.createSampler()),
	}

	if m.config.Exporter == ExporterStdout {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(m.writer))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter failed: %w", err)
		}
		// synchronous export keeps span output ordered with the log lines
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

func (m *Manager) createSampler() sdktrace.Sampler {
	switch m.config.Sampler.Type {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "trace_id_ratio":
		return sdktrace.TraceIDRatioBased(m.config.Sampler.Ratio)
	default:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
}

// IsEnabled reports whether spans are recorded
func (m *Manager) IsEnabled() bool {
	return m.tp != nil
}

// Config the applied configuration
func (m *Manager) Config() Config {
	return m.config
}

// TracerProvider the sdk provider, or a noop one when disabled
func (m *Manager) TracerProvider() trace.TracerProvider {
	if m.tp == nil {
		return noop.NewTracerProvider()
	}
	return m.tp
}

// Tracer shortcut for TracerProvider().Tracer(name)
func (m *Manager) Tracer(name string) trace.Tracer {
	return m.TracerProvider().Tracer(name)
}

// Shutdown flushes and stops the provider; called by the DI container
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.tp == nil {
		return nil
	}
	if err := m.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider failed: %w", err)
	}
	return nil
}
