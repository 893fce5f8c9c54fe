// Package logging builds the zap logger used by the CLI and adapts it to the
// prototype.Logger interface consumed by the library packages.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"protoreg/pkg/prototype"
)

// Options controls logger construction.
type Options struct {
	// Level is a zap level name; empty means info.
	Level string
	// Verbose forces debug level regardless of Level.
	Verbose bool
	// Encoding is "json" (default) or "console".
	Encoding string
	// OutputPaths defaults to stderr.
	OutputPaths []string
}

// New builds a production zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	if opts.Encoding != "" {
		cfg.Encoding = opts.Encoding
	}
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Logger adapts a zap SugaredLogger to prototype.Logger. Arguments are
// alternating key/value pairs.
type Logger struct {
	s *zap.SugaredLogger
}

var _ prototype.Logger = Logger{}

// Adapt wraps l; a nil logger yields a no-op adapter.
func Adapt(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{s: l.Sugar()}
}

// Named returns an adapter scoped under name.
func (l Logger) Named(name string) Logger { return Logger{s: l.s.Named(name)} }

func (l Logger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l Logger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l Logger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
func (l Logger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }
