package logger

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func fileConfig(dir, level string) ManagerConfig {
	return ManagerConfig{
		BaseLogDir:            dir,
		Level:                 level,
		Encoding:              "json",
		EnableConsole:         false,
		EnableFile:            true,
		EnableLevelInFilename: true,
		EnableDateInFilename:  false,
		EnableTraceID:         true,
		EnableStacktrace:      true,
		StacktraceLevel:       "error",
		StacktraceDepth:       5,
		MaxSize:               10,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestManager_LevelSeparation(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(fileConfig(dir, "debug"))

	log := m.GetLogger("http-logging")
	log.Debug("debug line")
	log.Info("info line")
	log.Warn("warn line")
	log.Error("error line")
	m.CloseAll()

	info := readFile(t, filepath.Join(dir, "http-logging", "http-logging-info.log"))
	errs := readFile(t, filepath.Join(dir, "http-logging", "http-logging-error.log"))

	assert.Contains(t, info, "debug line")
	assert.Contains(t, info, "info line")
	assert.Contains(t, info, "warn line")
	assert.NotContains(t, info, "error line")
	assert.Contains(t, errs, "error line")
	assert.Contains(t, errs, "stack")
	assert.Contains(t, info, `"module":"http-logging"`)
}

func TestManager_LevelFilter(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(fileConfig(dir, "warn"))

	log := m.GetLogger("orders")
	log.Debug("hidden debug")
	log.Info("hidden info")
	log.Warn("visible warn")
	m.CloseAll()

	info := readFile(t, filepath.Join(dir, "orders", "orders-info.log"))
	assert.NotContains(t, info, "hidden")
	assert.Contains(t, info, "visible warn")
}

func TestManager_GetLoggerCached(t *testing.T) {
	m := NewManager(ManagerConfig{EnableConsole: false})
	assert.Same(t, m.GetLogger("a"), m.GetLogger("a"))
	assert.NotSame(t, m.GetLogger("a"), m.GetLogger("b"))
	assert.Equal(t, "b", m.GetLogger("b").Module())
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(ManagerConfig{EnableConsole: false})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.GetLogger("shared").Info("concurrent")
		}()
	}
	wg.Wait()
	assert.Len(t, m.loggers, 1)
}

func TestManager_TraceIDFromContextKey(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(fileConfig(dir, "info"))

	ctx := context.WithValue(context.Background(), "trace_id", "trace-abc")
	m.GetLogger("trace").InfoCtx(ctx, "with trace", zap.String("k", "v"))
	m.CloseAll()

	info := readFile(t, filepath.Join(dir, "trace", "trace-info.log"))
	assert.Contains(t, info, `"trace_id":"trace-abc"`)
	assert.Contains(t, info, `"k":"v"`)
}

func TestManager_TraceIDFromSpan(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(fileConfig(dir, "info"))

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	m.GetLogger("span").InfoCtx(ctx, "inside span")
	m.CloseAll()

	info := readFile(t, filepath.Join(dir, "span", "span-info.log"))
	assert.Contains(t, info, span.SpanContext().TraceID().String())
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(fileConfig(dir, "info"))
	m.GetLogger("reload").Info("before")

	cfg := fileConfig(dir, "debug")
	require.NoError(t, m.ReloadConfig(cfg))
	assert.Equal(t, "debug", m.Config().Level)

	bad := fileConfig(dir, "loud")
	assert.Error(t, m.ReloadConfig(bad))
	m.CloseAll()
}

func TestResetManager_ReplacesGlobal(t *testing.T) {
	dir := t.TempDir()
	ResetManager(fileConfig(dir, "info"))
	defer CloseAll()

	Info("global", "through global manager")
	CloseAll()

	info := readFile(t, filepath.Join(dir, "global", "global-info.log"))
	assert.Contains(t, info, "through global manager")
}
