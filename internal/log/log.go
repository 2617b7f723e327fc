package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
)

// Init configures the process-wide logger. pretty selects the development
// encoder (colored, human-oriented) instead of JSON output.
func Init(l Level, pretty bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = build(l, pretty)
}

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = build(LevelInfo, false)
	}
	return logger
}

func build(l Level, pretty bool) *zap.SugaredLogger {
	var cfg zap.Config
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(l))

	base, err := cfg.Build(
		zap.AddStacktrace(zapcore.FatalLevel),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		panic(err)
	}
	return base.Sugar()
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, kv ...any) {
	get().Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	get().Infow(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	get().Errorw(msg, extended...)
}

// Sync flushes any buffered log entries. Call before exit.
func Sync() {
	_ = get().Sync()
}
