// Package logger builds the zap logger used across textengine.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is a zap level name such as "debug" or "info".
	Level string
	// File is the log file path; empty logs to stderr.
	File string
	// Development adds stack traces at warn level and above.
	Development bool
}

// New builds a console logger. The returned close function flushes the
// logger and closes the log file, if any.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(opts.Level); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}

	sink := zapcore.Lock(os.Stderr)
	var logFile *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		logFile = f
		sink = zapcore.AddSync(f)
	}

	stackLevel := zapcore.ErrorLevel
	if opts.Development {
		stackLevel = zapcore.WarnLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(EncoderConfig()), sink, level)
	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(stackLevel))

	closeFn := func() {
		_ = log.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return log, closeFn, nil
}

// EncoderConfig returns the console encoder settings.
func EncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
