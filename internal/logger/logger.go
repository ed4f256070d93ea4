package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ConsoleFormat string = "console"
	JSONFormat    string = "json"
)

// New builds a logger writing to stderr at the given level and format.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case JSONFormat:
		cfg = zap.NewProductionConfig()
	case ConsoleFormat:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Setup replaces the global loggers. The returned func restores the previous
// ones and flushes the new logger.
func Setup(level, format string) (func(), error) {
	l, err := New(level, format)
	if err != nil {
		return nil, err
	}

	undo := zap.ReplaceGlobals(l)
	return func() {
		_ = l.Sync()
		undo()
	}, nil
}
