// Package logger defines the structured, leveled logging contract the
// container uses for failure diagnostics, together with a zap-backed
// implementation and a no-op fallback.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the logging interface consumed by the container. The engine
// only emits on failure paths and never changes behavior based on what a
// logger does with an entry.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that attaches the given fields to every entry.
	With(fields ...Field) Logger

	// Named returns a logger with the given name segment appended.
	Named(name string) Logger

	// Sync flushes buffered entries, if any.
	Sync() error
}

// Field is a single structured log attribute.
type Field interface {
	Key() string
	Value() any

	// ZapField returns the underlying zap.Field for efficient conversion.
	ZapField() zap.Field
}

type field struct {
	key string
	val any
	zf  zap.Field
}

func (f field) Key() string { return f.key }

func (f field) Value() any { return f.val }

func (f field) ZapField() zap.Field { return f.zf }

// String constructs a string field.
func String(key, value string) Field {
	return field{key: key, val: value, zf: zap.String(key, value)}
}

// Int constructs an integer field.
func Int(key string, value int) Field {
	return field{key: key, val: value, zf: zap.Int(key, value)}
}

// Bool constructs a boolean field.
func Bool(key string, value bool) Field {
	return field{key: key, val: value, zf: zap.Bool(key, value)}
}

// Any constructs a field from an arbitrary value.
func Any(key string, value any) Field {
	return field{key: key, val: value, zf: zap.Any(key, value)}
}

// Err constructs a field for an error under the "error" key.
func Err(err error) Field {
	return field{key: "error", val: err, zf: zap.Error(err)}
}

// Stringer constructs a field whose value is rendered with String.
func Stringer(key string, value fmt.Stringer) Field {
	return field{key: key, val: value, zf: zap.Stringer(key, value)}
}

type zapLogger struct {
	l *zap.Logger
}

// New wraps an existing zap.Logger.
func New(l *zap.Logger) Logger {
	return &zapLogger{l: l}
}

// NewDevelopment returns a Logger backed by zap's development
// configuration: human-readable, debug-level output on stderr.
func NewDevelopment() (Logger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

// NewProduction returns a Logger backed by zap's production
// configuration: sampled JSON at info level.
func NewProduction() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

// NewNop returns a Logger that discards every entry. Containers built
// without an explicit logger use it.
func NewNop() Logger {
	return &zapLogger{l: zap.NewNop()}
}

func (z *zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, toZap(fields)...) }
func (z *zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, toZap(fields)...) }
func (z *zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, toZap(fields)...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, toZap(fields)...) }

func (z *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{l: z.l.With(toZap(fields)...)}
}

func (z *zapLogger) Named(name string) Logger {
	return &zapLogger{l: z.l.Named(name)}
}

func (z *zapLogger) Sync() error {
	return z.l.Sync()
}

func toZap(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = f.ZapField()
	}
	return out
}
