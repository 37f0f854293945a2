package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestManagerConfig_ApplyDefaults(t *testing.T) {
	cfg := ManagerConfig{Level: "debug", MaxSize: 200}
	cfg.ApplyDefaults()

	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, "logger", cfg.LoggerName)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, 200, cfg.MaxSize)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, 28, cfg.MaxAge)
	assert.Equal(t, "error", cfg.StacktraceLevel)
	assert.Equal(t, "trace_id", cfg.TraceIDKey)
	assert.False(t, cfg.EnableConsole, "booleans keep their value")
}

func TestManagerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ManagerConfig)
		wantErr bool
	}{
		{"defaults", func(c *ManagerConfig) {}, false},
		{"upper case level", func(c *ManagerConfig) { c.Level = "WARN" }, false},
		{"bad level", func(c *ManagerConfig) { c.Level = "verbose" }, true},
		{"bad encoding", func(c *ManagerConfig) { c.Encoding = "xml" }, true},
		{"bad console encoding", func(c *ManagerConfig) { c.ConsoleEncoding = "xml" }, true},
		{"max size", func(c *ManagerConfig) { c.MaxSize = 0 }, true},
		{"max backups", func(c *ManagerConfig) { c.MaxBackups = -1 }, true},
		{"max age", func(c *ManagerConfig) { c.MaxAge = 9999 }, true},
		{"date format", func(c *ManagerConfig) { c.DateFormat = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultManagerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestShouldCaptureStacktrace(t *testing.T) {
	cfg := DefaultManagerConfig()
	assert.True(t, shouldCaptureStacktrace("error", cfg))
	assert.False(t, shouldCaptureStacktrace("warn", cfg))

	cfg.EnableStacktrace = false
	assert.False(t, shouldCaptureStacktrace("error", cfg))
}

func TestCaptureStacktrace_Depth(t *testing.T) {
	stack := CaptureStacktrace(1, 2)
	assert.NotEmpty(t, stack)
	assert.LessOrEqual(t, len(splitFrames(stack)), 2)
}

func splitFrames(stack string) []string {
	var frames []string
	start := 0
	for i := 0; i < len(stack); i++ {
		if stack[i] == '\n' && i+1 < len(stack) && stack[i+1] != '\t' {
			frames = append(frames, stack[start:i])
			start = i + 1
		}
	}
	return append(frames, stack[start:])
}
