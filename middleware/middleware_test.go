package middleware

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KOMKZ/go-yogan-httplog/httplog"
	"github.com/KOMKZ/go-yogan-httplog/logger"
	"github.com/KOMKZ/go-yogan-httplog/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceID_GeneratesAndEchoes(t *testing.T) {
	cfg := DefaultTraceConfig()
	cfg.Generator = func() string { return "generated-id" }

	var fromCtx, fromGin string
	engine := gin.New()
	engine.Use(TraceID(cfg))
	engine.GET("/ping", func(c *gin.Context) {
		fromCtx, _ = c.Request.Context().Value(TraceIDKeyDefault).(string)
		fromGin = GetTraceID(c)
	})

	resp := testutil.GET("/ping").Do(engine)

	assert.Equal(t, "generated-id", resp.Header(TraceIDHeaderDefault))
	assert.Equal(t, "generated-id", fromCtx)
	assert.Equal(t, "generated-id", fromGin)
}

func TestTraceID_ReusesHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(TraceID(TraceConfig{EnableResponseHeader: true}))
	engine.GET("/ping", func(c *gin.Context) {})

	resp := testutil.GET("/ping").WithTraceID("incoming-123").Do(engine)

	assert.Equal(t, "incoming-123", resp.Header(TraceIDHeaderDefault))
}

func TestTraceID_PrefersOtelSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var spanTraceID, got string
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "request")
		defer span.End()
		spanTraceID = span.SpanContext().TraceID().String()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	engine.Use(TraceID(DefaultTraceConfig()))
	engine.GET("/ping", func(c *gin.Context) { got = GetTraceID(c) })

	testutil.GET("/ping").WithTraceID("ignored").Do(engine)

	assert.Equal(t, spanTraceID, got)
}

func TestTraceID_ReachesInterceptorEntries(t *testing.T) {
	rec := logger.NewTestCtxLogger()
	icpt := httplog.New(httplog.DefaultConfig(), rec)

	engine := gin.New()
	engine.Use(TraceID(DefaultTraceConfig()))
	engine.GET("/users/:id", icpt.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	testutil.GET("/users/1").WithTraceID("trace-xyz").Do(engine)

	logs := rec.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "trace-xyz", logs[0].TraceID)
	assert.Equal(t, "trace-xyz", logs[1].TraceID)
}

func TestRecovery(t *testing.T) {
	dir := t.TempDir()
	logger.ResetManager(logger.ManagerConfig{
		BaseLogDir:            dir,
		Level:                 "debug",
		Encoding:              "json",
		EnableFile:            true,
		EnableLevelInFilename: true,
		MaxSize:               10,
	})
	defer logger.CloseAll()

	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/normal", func(c *gin.Context) { c.String(http.StatusOK, "success") })
	engine.GET("/panic", func(c *gin.Context) { panic("test panic") })

	ok := testutil.GET("/normal").Do(engine)
	assert.Equal(t, http.StatusOK, ok.Status())

	resp := testutil.GET("/panic").Do(engine)
	assert.Equal(t, http.StatusInternalServerError, resp.Status())
	assert.Contains(t, resp.Body(), "internal server error")
	assert.NotContains(t, resp.Body(), "test panic")

	logger.CloseAll()
	content, err := os.ReadFile(filepath.Join(dir, RecoveryModule, RecoveryModule+"-error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "test panic")
	assert.Contains(t, string(content), "panic recovered")
}

func TestRecovery_AfterInterceptor(t *testing.T) {
	logger.ResetManager(logger.ManagerConfig{})
	defer logger.CloseAll()

	rec := logger.NewTestCtxLogger()
	icpt := httplog.New(httplog.DefaultConfig(), rec)

	engine := gin.New()
	engine.Use(Recovery(), icpt.Middleware())
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	resp := testutil.GET("/panic").Do(engine)

	assert.Equal(t, http.StatusInternalServerError, resp.Status())
	logs := rec.Logs()
	require.Len(t, logs, 2)
	assert.Contains(t, logs[1].Message, "Exception in GET")
	assert.Contains(t, logs[1].Message, ": boom")
}

func TestHealthHandler(t *testing.T) {
	engine := gin.New()
	engine.GET(HealthPath, HealthHandler(time.Now()))

	resp := testutil.GET(HealthPath).Do(engine)

	assert.Equal(t, http.StatusOK, resp.Status())
	assert.Contains(t, resp.Body(), `"status":"alive"`)
}
