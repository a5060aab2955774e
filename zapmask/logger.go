package zapmask

import (
	"fmt"
	"os"

	"github.com/zoobzio/shroud"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures NewLogger.
type Config struct {
	Level  string              // debug, info, warn, error
	Format string              // json or console
	Output zapcore.WriteSyncer // defaults to stderr
}

// NewLogger builds a zap logger whose core redacts sensitive fields.
func NewLogger(cfg Config, r *shroud.LogRedactor) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	switch cfg.Format {
	case "", "json", "console":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be json or console", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), out, level)
	return zap.New(NewCore(core, r)), nil
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}
