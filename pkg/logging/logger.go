package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Global logger instance and synchronization
var (
	Logger   *zap.Logger
	loggerMu sync.RWMutex
	rotator  *lumberjack.Logger // Track file sink for cleanup
	isInited bool
	initOnce sync.Once // For lazy initialization in GetLogger
)

// LogLevel represents logging verbosity
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Config holds logger configuration
type Config struct {
	Level      LogLevel `toml:"level"`
	OutputPath string   `toml:"path"`   // Empty for stdout, or file path
	Format     string   `toml:"format"` // "json" or "console"
	MaxSizeMB  int      `toml:"max-size"`
	MaxBackups int      `toml:"max-backups"`
	MaxAgeDays int      `toml:"max-age"`
	Compress   bool     `toml:"compress"`
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderFor(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Init initializes the global logger with the given configuration.
// This should be called once at application startup.
// Subsequent calls to Init will return an error to prevent multiple initialization.
//
// Example:
//
//	logging.Init(logging.Config{
//	    Level: logging.LevelInfo,
//	    OutputPath: "logs/shardexec.log",
//	    Format: "json",
//	})
func Init(config Config) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return fmt.Errorf("logger already initialized; call Close() first to reinitialize")
	}

	var syncer zapcore.WriteSyncer
	if config.OutputPath == "" {
		syncer = zapcore.Lock(zapcore.AddSync(os.Stdout))
	} else {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o750); err != nil {
			return err
		}
		rotator = &lumberjack.Logger{
			Filename:   config.OutputPath,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   config.Compress,
		}
		syncer = zapcore.AddSync(rotator)
	}

	core := zapcore.NewCore(encoderFor(config.Format), syncer, zap.NewAtomicLevelAt(config.Level.zapLevel()))
	Logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel))
	isInited = true
	return nil
}

// InitDefault initializes the logger with sensible defaults:
// - Level: INFO
// - Output: stderr
// - Format: console
// This is safe to call multiple times and will only initialize once.
func InitDefault() {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return
	}

	core := zapcore.NewCore(encoderFor("console"), zapcore.Lock(zapcore.AddSync(os.Stderr)), zap.NewAtomicLevelAt(zapcore.InfoLevel))
	Logger = zap.New(core, zap.AddCaller())
	isInited = true
}

// InitNop installs a logger that discards everything. Tests use it to keep output quiet.
func InitNop() {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	Logger = zap.NewNop()
	isInited = true
}

// Close flushes the logger and closes any open file handles.
// After calling Close, you can call Init again to reinitialize.
// It's safe to call Close multiple times.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if !isInited {
		return nil
	}

	_ = Logger.Sync()

	var err error
	if rotator != nil {
		err = rotator.Close()
		rotator = nil
	}

	Logger = nil
	isInited = false

	initOnce = sync.Once{}
	return err
}

// GetLogger returns the current logger instance in a thread-safe manner.
// If the logger is not initialized, it initializes with defaults using sync.Once
// for efficient lazy initialization.
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	if isInited {
		logger := Logger
		loggerMu.RUnlock()
		return logger
	}
	loggerMu.RUnlock()

	initOnce.Do(func() {
		InitDefault()
	})

	loggerMu.RLock()
	logger := Logger
	loggerMu.RUnlock()
	return logger
}

// Debug logs a debug message in a thread-safe manner
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Info logs an info message in a thread-safe manner
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Warn logs a warning message in a thread-safe manner
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message in a thread-safe manner
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}
