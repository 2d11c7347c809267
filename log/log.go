package log

import (
	"context"
	stdlog "log"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Logger is the interface used to log panics that occur during query execution. It is settable via graphql.Logger.
type Logger interface {
	LogPanic(ctx context.Context, value interface{})
}

// LoggerFunc is a function type that implements the Logger interface.
type LoggerFunc func(ctx context.Context, value interface{})

// LogPanic calls the LoggerFunc with the given context and panic value.
func (f LoggerFunc) LogPanic(ctx context.Context, value interface{}) {
	f(ctx, value)
}

// DefaultLogger logs recovered panics through a logr.Logger. The logger found in the context
// takes precedence over Sink.
type DefaultLogger struct {
	Sink logr.Logger
}

// NewDefaultLogger returns a DefaultLogger writing to the standard library logger.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{Sink: stdr.New(stdlog.Default())}
}

// LogPanic is used to log recovered panic values that occur during query execution.
func (l *DefaultLogger) LogPanic(ctx context.Context, value interface{}) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]

	logger := l.Sink
	if ctxLogger, err := logr.FromContext(ctx); err == nil {
		logger = ctxLogger
	}
	if logger.GetSink() == nil {
		logger = stdr.New(stdlog.Default())
	}
	logger.Error(nil, "graphql: panic occurred", "panic", value, "stack", string(buf))
}

// FromContext returns the logr.Logger attached to ctx, or a logger that discards everything.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}
