package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/KOMKZ/go-yogan-httplog/httpx"
	"github.com/KOMKZ/go-yogan-httplog/logger"
	"github.com/KOMKZ/go-yogan-httplog/middleware"
	"github.com/KOMKZ/go-yogan-httplog/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// ServerModule logger module of the application and server
const ServerModule = "yogan"

// HTTPServer wraps a gin engine and its http.Server
type HTTPServer struct {
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	cfg        ApiServerConfig
	startedAt  time.Time
	mu         sync.Mutex
}

// NewHTTPServer creates the engine with the framework middleware installed, in order:
// otelgin (when telemetryMgr is enabled), trace id (optional), recovery. Route handlers
// and the http logging interceptor are added by the routers.
func NewHTTPServer(cfg ApiServerConfig, middlewareCfg *MiddlewareConfig, telemetryMgr *telemetry.Manager) *HTTPServer {
	// gin's own output goes through zap
	gin.DefaultWriter = logger.NewGinLogWriter(ServerModule)
	gin.DefaultErrorWriter = logger.NewGinLogWriter(ServerModule)

	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	// 405 instead of 404 for a known path with the wrong method
	engine.HandleMethodNotAllowed = true

	if telemetryMgr != nil && telemetryMgr.IsEnabled() {
		serviceName := telemetryMgr.Config().ServiceName
		engine.Use(otelgin.Middleware(serviceName,
			otelgin.WithTracerProvider(telemetryMgr.TracerProvider())))
		logger.Debug(ServerModule, "OpenTelemetry trace middleware registered",
			zap.String("service_name", serviceName))
	}

	// must run after otelgin so the span id wins over the header
	if middlewareCfg != nil && middlewareCfg.TraceID != nil && middlewareCfg.TraceID.Enable {
		engine.Use(middleware.TraceID(*middlewareCfg.TraceID))
	}

	engine.Use(middleware.Recovery())

	s := &HTTPServer{
		engine:    engine,
		cfg:       cfg,
		startedAt: time.Now(),
	}

	if middlewareCfg != nil && middlewareCfg.Health != nil && middlewareCfg.Health.Enable {
		engine.GET(middlewareCfg.Health.Path, middleware.HealthHandler(s.startedAt))
	}

	engine.NoRoute(httpx.NoRouteHandler())
	engine.NoMethod(httpx.NoMethodHandler())

	return s
}

// GetEngine returns the gin engine for route registration
func (s *HTTPServer) GetEngine() *gin.Engine {
	return s.engine
}

// Start binds the listener and serves in the background.
// A bind failure is returned synchronously.
func (s *HTTPServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return errors.New("http server already started")
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
	}

	srv := s.httpServer
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ServerModule, "HTTP server stopped unexpectedly", zap.Error(err))
		}
	}()

	logger.Debug(ServerModule, "HTTP server started",
		zap.String("addr", ln.Addr().String()),
		zap.String("mode", gin.Mode()))
	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr()
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	logger.Debug(ServerModule, "Shutting down HTTP server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Debug(ServerModule, "HTTP server closed")
	return nil
}

// ShutdownWithTimeout Shutdown bounded by timeout
func (s *HTTPServer) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}
