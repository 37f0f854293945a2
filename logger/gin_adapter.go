package logger

import (
	"strings"
)

// GinLogWriter adapts gin's text output (gin.DefaultWriter / DefaultErrorWriter)
// to a module logger. It implements io.Writer.
type GinLogWriter struct {
	module string
}

// NewGinLogWriter creates a writer logging to module
func NewGinLogWriter(module string) *GinLogWriter {
	return &GinLogWriter{module: module}
}

// Write classifies the line by gin's own tags and logs it
func (w *GinLogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}

	switch {
	case strings.Contains(msg, "[GIN-debug]"):
		Debug(w.module, msg)
	case strings.Contains(msg, "[Recovery]"), strings.Contains(msg, "panic recovered"):
		Error(w.module, msg)
	case strings.Contains(msg, "[WARNING]"):
		Warn(w.module, msg)
	default:
		Info(w.module, msg)
	}

	return len(p), nil
}
