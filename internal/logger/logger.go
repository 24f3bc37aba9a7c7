// Package logger provides the structured, context-aware logger used across
// the service. It is backed by zap and writes JSON lines.
package logger

import (
	"context"
	"io"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a logger emits.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zap() zapcore.Level {
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

// TraceIDFn extracts a trace id from a context. Empty means none.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is what modules depend on.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// The c variants skip extra caller frames so helpers report their caller.
	Debugc(ctx context.Context, caller int, msg string, args ...any)
	Infoc(ctx context.Context, caller int, msg string, args ...any)
	Warnc(ctx context.Context, caller int, msg string, args ...any)
	Errorc(ctx context.Context, caller int, msg string, args ...any)
}

// Logger implements LoggerInterface on top of zap.
type Logger struct {
	base      *zap.Logger
	traceIDFn TraceIDFn
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a JSON logger writing to w. A nil traceIDFn uses the OTEL span
// in the context.
func New(w io.Writer, level Level, service string, traceIDFn TraceIDFn) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level.zap()),
	)

	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
	if service != "" {
		base = base.With(zap.String("service", service))
	}

	if traceIDFn == nil {
		traceIDFn = spanTraceID
	}

	return &Logger{base: base, traceIDFn: traceIDFn}
}

// NewNop returns a logger that drops everything.
func NewNop() *Logger {
	return &Logger{base: zap.NewNop(), traceIDFn: spanTraceID}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, 0, zapcore.DebugLevel, msg, args)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, 0, zapcore.InfoLevel, msg, args)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, 0, zapcore.WarnLevel, msg, args)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, 0, zapcore.ErrorLevel, msg, args)
}

func (l *Logger) Debugc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, caller, zapcore.DebugLevel, msg, args)
}

func (l *Logger) Infoc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, caller, zapcore.InfoLevel, msg, args)
}

func (l *Logger) Warnc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, caller, zapcore.WarnLevel, msg, args)
}

func (l *Logger) Errorc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, caller, zapcore.ErrorLevel, msg, args)
}

func (l *Logger) write(ctx context.Context, caller int, lvl zapcore.Level, msg string, args []any) {
	if !l.base.Core().Enabled(lvl) {
		return
	}

	base := l.base
	if caller > 0 {
		base = base.WithOptions(zap.AddCallerSkip(caller))
	}

	if ctx != nil {
		if id := l.traceIDFn(ctx); id != "" {
			args = append(args, "trace_id", id)
		}
	}

	sugar := base.Sugar()
	switch lvl {
	case zapcore.DebugLevel:
		sugar.Debugw(msg, args...)
	case zapcore.WarnLevel:
		sugar.Warnw(msg, args...)
	case zapcore.ErrorLevel:
		sugar.Errorw(msg, args...)
	default:
		sugar.Infow(msg, args...)
	}
}

func spanTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
