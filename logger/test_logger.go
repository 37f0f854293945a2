package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestCtxLogger records entries in memory so tests can assert on them.
// It has the same leveled Ctx methods as CtxZapLogger.
//
//	rec := logger.NewTestCtxLogger()
//	icpt := httplog.New(cfg, rec)
//	...
//	assert.Equal(t, 2, rec.CountLogs("INFO"))
type TestCtxLogger struct {
	store  *logStore
	preset []zap.Field
}

type logStore struct {
	mu   sync.RWMutex
	logs []LogEntry
}

// LogEntry one recorded entry
type LogEntry struct {
	Level   string
	Message string
	TraceID string
	Fields  map[string]interface{}
}

// NewTestCtxLogger creates an empty in-memory logger
func NewTestCtxLogger() *TestCtxLogger {
	return &TestCtxLogger{store: &logStore{}}
}

// InfoCtx records an INFO entry
func (t *TestCtxLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "INFO", msg, fields)
}

// ErrorCtx records an ERROR entry
func (t *TestCtxLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "ERROR", msg, fields)
}

// DebugCtx records a DEBUG entry
func (t *TestCtxLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "DEBUG", msg, fields)
}

// WarnCtx records a WARN entry
func (t *TestCtxLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	t.record(ctx, "WARN", msg, fields)
}

// With returns a logger sharing the same store with preset fields added
func (t *TestCtxLogger) With(fields ...zap.Field) *TestCtxLogger {
	preset := make([]zap.Field, 0, len(t.preset)+len(fields))
	preset = append(preset, t.preset...)
	preset = append(preset, fields...)
	return &TestCtxLogger{store: t.store, preset: preset}
}

func (t *TestCtxLogger) record(ctx context.Context, level, msg string, fields []zap.Field) {
	all := make([]zap.Field, 0, len(t.preset)+len(fields))
	all = append(all, t.preset...)
	all = append(all, fields...)

	entry := LogEntry{
		Level:   level,
		Message: msg,
		TraceID: extractTraceIDFromContext(ctx, nil),
		Fields:  extractFieldsMap(all),
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.logs = append(t.store.logs, entry)
}

// ============================================
// assertion helpers
// ============================================

// HasLog reports whether an entry with level and exact message exists
func (t *TestCtxLogger) HasLog(level, message string) bool {
	return t.find(func(e LogEntry) bool {
		return e.Level == level && e.Message == message
	})
}

// HasLogContaining reports whether an entry at level contains substr
func (t *TestCtxLogger) HasLogContaining(level, substr string) bool {
	return t.find(func(e LogEntry) bool {
		return e.Level == level && strings.Contains(e.Message, substr)
	})
}

// HasLogWithTraceID reports whether an entry with level, message and trace id exists
func (t *TestCtxLogger) HasLogWithTraceID(level, message, traceID string) bool {
	return t.find(func(e LogEntry) bool {
		return e.Level == level && e.Message == message && e.TraceID == traceID
	})
}

// HasLogWithField reports whether an entry with level, message and field value exists
func (t *TestCtxLogger) HasLogWithField(level, message, fieldKey string, fieldValue interface{}) bool {
	return t.find(func(e LogEntry) bool {
		if e.Level != level || e.Message != message {
			return false
		}
		val, ok := e.Fields[fieldKey]
		return ok && val == fieldValue
	})
}

// CountLogs counts entries at level; an empty level counts everything
func (t *TestCtxLogger) CountLogs(level string) int {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	count := 0
	for _, e := range t.store.logs {
		if level == "" || e.Level == level {
			count++
		}
	}
	return count
}

// Logs returns a copy of all entries in order
func (t *TestCtxLogger) Logs() []LogEntry {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	logs := make([]LogEntry, len(t.store.logs))
	copy(logs, t.store.logs)
	return logs
}

// Clear drops all entries
func (t *TestCtxLogger) Clear() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.logs = nil
}

func (t *TestCtxLogger) find(match func(LogEntry) bool) bool {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	for _, e := range t.store.logs {
		if match(e) {
			return true
		}
	}
	return false
}

// extractFieldsMap encodes zap fields into a plain map for assertions
func extractFieldsMap(fields []zap.Field) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}
	return enc.Fields
}
