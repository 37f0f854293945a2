package httplog

import (
	"context"
	"fmt"

	"github.com/KOMKZ/go-yogan-httplog/logger"
	"go.uber.org/zap"
)

// LoggerModule module name of the default sink
const LoggerModule = "http-logging"

// Sink receives the formatted entries. *logger.CtxZapLogger and *logger.TestCtxLogger implement it.
type Sink interface {
	DebugCtx(ctx context.Context, msg string, fields ...zap.Field)
	InfoCtx(ctx context.Context, msg string, fields ...zap.Field)
	WarnCtx(ctx context.Context, msg string, fields ...zap.Field)
	ErrorCtx(ctx context.Context, msg string, fields ...zap.Field)
}

// Event kind of entry
type Event int

const (
	EventRequest Event = iota
	EventResponse
	EventError
)

func (e Event) String() string {
	switch e {
	case EventRequest:
		return "REQUEST"
	case EventResponse:
		return "RESPONSE"
	default:
		return "ERROR"
	}
}

// Interceptor wraps handler invocations. It holds no mutable state.
type Interceptor struct {
	cfg  *Config
	sink Sink
}

// New creates an Interceptor; nil cfg means DefaultConfig, nil sink means the http-logging module logger.
func New(cfg *Config, sink Sink) *Interceptor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if sink == nil {
		sink = logger.GetLogger(LoggerModule)
	}
	return &Interceptor{cfg: cfg, sink: sink}
}

// Config returns the configuration the interceptor was built with
func (i *Interceptor) Config() *Config {
	return i.cfg
}

// Intercept runs proceed and logs around it.
// The result and error of proceed are returned as they are; a panic is logged and re-raised.
// A nil inv has nothing to describe, so proceed runs unlogged.
func (i *Interceptor) Intercept(ctx context.Context, inv *Invocation, proceed func() (any, error)) (any, error) {
	if !i.cfg.IsEnabled() || inv == nil || i.cfg.Skips(inv.RequestURI) {
		return proceed()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	i.log(ctx, i.format(EventRequest, inv, ""))

	defer func() {
		if r := recover(); r != nil {
			i.log(ctx, i.format(EventError, inv, panicMessage(r)), zap.Any("panic", r))
			panic(r)
		}
	}()

	result, err := proceed()
	if err != nil {
		i.log(ctx, i.format(EventError, inv, err.Error()), zap.Error(err))
		return result, err
	}

	i.log(ctx, i.format(EventResponse, inv, ""))
	return result, nil
}

func (i *Interceptor) format(ev Event, inv *Invocation, errMsg string) string {
	prefix := i.cfg.Prefix()
	switch ev {
	case EventRequest:
		return fmt.Sprintf("%s HTTP %s Request to %s %s with arguments: %s",
			prefix, inv.HTTPMethod, inv.RequestURI, inv.Handler, inv.FormatArgs())
	case EventResponse:
		return fmt.Sprintf("%s HTTP %s Response from %s %s",
			prefix, inv.HTTPMethod, inv.RequestURI, inv.Handler)
	default:
		return fmt.Sprintf("%s Exception in %s %s: %s",
			prefix, inv.HTTPMethod, inv.Handler, errMsg)
	}
}

func (i *Interceptor) log(ctx context.Context, msg string, fields ...zap.Field) {
	switch i.cfg.Level() {
	case SeverityDebug:
		i.sink.DebugCtx(ctx, msg, fields...)
	case SeverityWarn:
		i.sink.WarnCtx(ctx, msg, fields...)
	case SeverityError:
		i.sink.ErrorCtx(ctx, msg, fields...)
	default:
		i.sink.InfoCtx(ctx, msg, fields...)
	}
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}
