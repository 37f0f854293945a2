package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager owns one logger per module and the file writers behind them
type Manager struct {
	baseConfig ManagerConfig
	loggers    map[string]*CtxZapLogger
	zapLoggers map[string]*zap.Logger
	writers    map[string][]*lumberjack.Logger
	mu         sync.RWMutex
}

var (
	globalManager *Manager
	managerOnce   sync.Once
	globalMu      sync.Mutex
)

// NewManager creates an independent Manager; zero-valued fields get defaults
func NewManager(cfg ManagerConfig) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		baseConfig: cfg,
		loggers:    make(map[string]*CtxZapLogger),
		zapLoggers: make(map[string]*zap.Logger),
		writers:    make(map[string][]*lumberjack.Logger),
	}
}

// InitManager initializes the global manager once
func InitManager(cfg ManagerConfig) {
	managerOnce.Do(func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		globalManager = NewManager(cfg)
	})
}

// ResetManager closes the current global manager and replaces it.
// Used by the application at startup and by tests.
func ResetManager(cfg ManagerConfig) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalManager != nil {
		globalManager.CloseAll()
	}
	globalManager = NewManager(cfg)
	managerOnce = sync.Once{}
	managerOnce.Do(func() {})
}

// SetGlobal installs an existing manager as the global one
func SetGlobal(m *Manager) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = m
	managerOnce.Do(func() {})
}

func global() *Manager {
	InitManager(DefaultManagerConfig())
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager
}

// Config returns the manager configuration
func (m *Manager) Config() ManagerConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseConfig
}

// GetLogger returns the module logger, creating it on first use.
// The returned logger already carries the module field.
func (m *Manager) GetLogger(moduleName string) *CtxZapLogger {
	m.mu.RLock()
	if l, ok := m.loggers[moduleName]; ok {
		m.mu.RUnlock()
		return l
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.loggers[moduleName]; ok {
		return l
	}

	cfg := m.buildModuleConfig(moduleName)
	zapLogger := m.createLogger(cfg).With(zap.String("module", moduleName))

	baseCfg := m.baseConfig
	ctxLogger := &CtxZapLogger{
		base:   zapLogger.WithOptions(zap.AddCallerSkip(1)),
		module: moduleName,
		config: &baseCfg,
	}

	m.loggers[moduleName] = ctxLogger
	m.zapLoggers[moduleName] = zapLogger
	return ctxLogger
}

func (m *Manager) buildModuleConfig(moduleName string) moduleConfig {
	return moduleConfig{
		Level:                 m.baseConfig.Level,
		Encoding:              m.baseConfig.Encoding,
		ConsoleEncoding:       m.baseConfig.ConsoleEncoding,
		moduleName:            moduleName,
		logDir:                m.baseConfig.BaseLogDir,
		EnableFile:            m.baseConfig.EnableFile,
		EnableConsole:         m.baseConfig.EnableConsole,
		EnableLevelInFilename: m.baseConfig.EnableLevelInFilename,
		EnableDateInFilename:  m.baseConfig.EnableDateInFilename,
		DateFormat:            m.baseConfig.DateFormat,
		MaxSize:               m.baseConfig.MaxSize,
		MaxBackups:            m.baseConfig.MaxBackups,
		MaxAge:                m.baseConfig.MaxAge,
		Compress:              m.baseConfig.Compress,
		EnableCaller:          m.baseConfig.EnableCaller,
	}
}

func (m *Manager) createLogger(cfg moduleConfig) *zap.Logger {
	encoder := createEncoder(cfg.Encoding)
	configuredLevel := ParseLevel(cfg.Level)

	var cores []zapcore.Core
	var writers []*lumberjack.Logger

	if cfg.EnableConsole {
		consoleEncoder := encoder
		if cfg.ConsoleEncoding != "" && cfg.ConsoleEncoding != cfg.Encoding {
			consoleEncoder = createEncoder(cfg.ConsoleEncoding)
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), configuredLevel))
	}

	if cfg.EnableFile {
		// info file: configured level up to (excluding) error
		infoWriter, infoLumber := createFileWriter(cfg.infoFilePath(), cfg)
		writers = append(writers, infoLumber)
		cores = append(cores, zapcore.NewCore(encoder, infoWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= configuredLevel && lvl < zapcore.ErrorLevel
			}),
		))

		errorWriter, errorLumber := createFileWriter(cfg.errorFilePath(), cfg)
		writers = append(writers, errorLumber)
		cores = append(cores, zapcore.NewCore(encoder, errorWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel && lvl >= configuredLevel
			}),
		))
	}

	if len(writers) > 0 {
		m.writers[cfg.moduleName] = writers
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	// Stack traces are attached by CtxZapLogger.ErrorCtx with a bounded depth
	// instead of zap.AddStacktrace.

	return zap.New(zapcore.NewTee(cores...), opts...)
}

// CloseAll flushes every logger and closes file handles
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	for _, l := range m.zapLoggers {
		_ = l.Sync()
	}
	for _, writers := range m.writers {
		for _, w := range writers {
			_ = w.Close()
		}
	}
	m.loggers = make(map[string]*CtxZapLogger)
	m.zapLoggers = make(map[string]*zap.Logger)
	m.writers = make(map[string][]*lumberjack.Logger)
}

// Shutdown implements do.ShutdownerWithError so the DI container closes the files
func (m *Manager) Shutdown() error {
	m.CloseAll()
	return nil
}

// ReloadConfig validates newCfg and rebuilds all module loggers lazily
func (m *Manager) ReloadConfig(newCfg ManagerConfig) error {
	newCfg.ApplyDefaults()
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("invalid logger config: %w", err)
	}

	m.mu.Lock()
	oldLevel := m.baseConfig.Level
	m.closeLocked()
	m.baseConfig = newCfg
	m.mu.Unlock()

	if oldLevel != newCfg.Level {
		m.Debug(newCfg.LoggerName, "log level updated",
			zap.String("old_level", oldLevel),
			zap.String("new_level", newCfg.Level))
	}
	return nil
}

// Info logs at info level for module
func (m *Manager) Info(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).InfoCtx(context.Background(), msg, fields...)
}

// Debug logs at debug level for module
func (m *Manager) Debug(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).DebugCtx(context.Background(), msg, fields...)
}

// Warn logs at warn level for module
func (m *Manager) Warn(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).WarnCtx(context.Background(), msg, fields...)
}

// Error logs at error level for module
func (m *Manager) Error(module string, msg string, fields ...zap.Field) {
	m.GetLogger(module).ErrorCtx(context.Background(), msg, fields...)
}

func createEncoder(encoding string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if encoding == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// createFileWriter returns a rotating writer and the lumberjack handle to close it later
func createFileWriter(filename string, cfg moduleConfig) (zapcore.WriteSyncer, *lumberjack.Logger) {
	_ = os.MkdirAll(filepath.Dir(filename), 0o755)

	lumberLogger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	return zapcore.AddSync(lumberLogger), lumberLogger
}

// ============================================
// package-level helpers over the global manager
// ============================================

// GetLogger returns the module logger from the global manager
func GetLogger(moduleName string) *CtxZapLogger {
	return global().GetLogger(moduleName)
}

// CloseAll closes the global manager's loggers
func CloseAll() {
	globalMu.Lock()
	m := globalManager
	globalMu.Unlock()
	if m != nil {
		m.CloseAll()
	}
}

// Info usage: logger.Info("yogan", "server started", zap.Int("port", 8080))
func Info(module string, msg string, fields ...zap.Field) {
	global().Info(module, msg, fields...)
}

// Debug logs at debug level for module
func Debug(module string, msg string, fields ...zap.Field) {
	global().Debug(module, msg, fields...)
}

// Warn logs at warn level for module
func Warn(module string, msg string, fields ...zap.Field) {
	global().Warn(module, msg, fields...)
}

// Error logs at error level for module
func Error(module string, msg string, fields ...zap.Field) {
	global().Error(module, msg, fields...)
}

// InfoCtx logs at info level, extracting the trace id from ctx
func InfoCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).InfoCtx(ctx, msg, fields...)
}

// DebugCtx logs at debug level, extracting the trace id from ctx
func DebugCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).DebugCtx(ctx, msg, fields...)
}

// WarnCtx logs at warn level, extracting the trace id from ctx
func WarnCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).WarnCtx(ctx, msg, fields...)
}

// ErrorCtx logs at error level, extracting the trace id from ctx
func ErrorCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).ErrorCtx(ctx, msg, fields...)
}
