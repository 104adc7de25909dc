// Package logging holds the process-wide zap logger used by the engine and
// the simulator.
//
// Nothing is logged until Initialize or Set is called; the default logger is
// a no-op so embedding the engine in a host application stays silent.
package logging

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	// Level is a zap level name ("debug", "info", "warn", "error").
	Level string `yaml:"level,omitempty"`
	// Format is "console" or "json". Defaults to json.
	Format string `yaml:"format,omitempty"`
	// Name is the root logger name.
	Name string `yaml:"name,omitempty"`
	// File enables an additional rotating JSON log file.
	File       string `yaml:"file,omitempty"`
	MaxSize    int    `yaml:"max_size,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAge     int    `yaml:"max_age,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

var (
	global atomic.Pointer[zap.Logger]
	once   sync.Once
)

func init() {
	global.Store(zap.NewNop())
}

// Initialize builds the global logger from cfg, writing console output to
// console. Only the first call has an effect; later calls return the
// logger built by the first.
func Initialize(cfg Config, console zapcore.WriteSyncer) *zap.Logger {
	once.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		cores := []zapcore.Core{zapcore.NewCore(encoder(cfg.Format), console, level)}
		if cfg.File != "" {
			file := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			})
			cores = append(cores, zapcore.NewCore(encoder("json"), file, level))
		}

		logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
		if cfg.Name != "" {
			logger = logger.Named(cfg.Name)
		}
		global.Store(logger)
	})
	return L()
}

// InitializeStderr is Initialize with a locked stderr console.
func InitializeStderr(cfg Config) *zap.Logger {
	return Initialize(cfg, zapcore.Lock(os.Stderr))
}

// L returns the global logger. It is never nil.
func L() *zap.Logger {
	return global.Load()
}

// Set replaces the global logger. Pass nil to restore the silent default.
func Set(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	global.Store(logger)
}

// ResetForTest clears the global logger and allows Initialize to run again.
// Only tests should call it.
func ResetForTest() {
	global.Store(zap.NewNop())
	once = sync.Once{}
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	if format == "console" {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(name + ".")
		}
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}
