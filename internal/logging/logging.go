package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger defines minimal logging interface used across layers.
type Logger interface {
	Debug(ctx context.Context, msg string, kv ...any)
	Debugf(ctx context.Context, format string, args ...any)
	Info(ctx context.Context, msg string, kv ...any)
	Infof(ctx context.Context, format string, args ...any)
	Warn(ctx context.Context, msg string, kv ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Error(ctx context.Context, msg string, kv ...any)
	Errorf(ctx context.Context, format string, args ...any)
	With(kv ...any) Logger
}

type contextKey struct{}

var loggerKey contextKey

// WithLogger stores a logger in context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves a logger from context, returns default logger if absent.
func FromContext(ctx context.Context) Logger {
	if v, ok := ctx.Value(loggerKey).(Logger); ok && v != nil {
		return v
	}
	return defaultLogger()
}

// ParseLevel converts a level name (DEBUG, INFO, WARN, ERROR) to a zerolog level.
// An empty name means INFO.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unsupported log level: %s", name)
	}
	return lvl, nil
}

// New constructs a new Logger of given format (text|json|human) and level.
func New(format string, level zerolog.Level) (Logger, error) {
	return NewWithWriter(format, level, os.Stderr)
}

// NewWithWriter constructs a new Logger of given format, level, and output writer.
func NewWithWriter(format string, level zerolog.Level, w io.Writer) (Logger, error) {
	switch format {
	case "", "human":
		return &zerologWrapper{logger: zerolog.New(humanWriter(w)).Level(level)}, nil
	case "text":
		cw := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "2006-01-02T15:04:05.000Z07:00"}
		return &zerologWrapper{logger: zerolog.New(cw).Level(level).With().Timestamp().Logger()}, nil
	case "json":
		return &zerologWrapper{logger: zerolog.New(w).Level(level).With().Timestamp().Logger()}, nil
	default:
		return nil, errors.New("unsupported log format: " + format)
	}
}

// humanWriter renders records as short coloured lines without timestamps.
func humanWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "",
		NoColor:    w != os.Stderr,
		PartsExclude: []string{
			zerolog.TimestampFieldName,
		},
		FormatFieldName: func(i any) string {
			return fmt.Sprintf("%s=", i)
		},
	}
}

// zerologWrapper adapts zerolog.Logger to Logger.
type zerologWrapper struct{ logger zerolog.Logger }

func (l *zerologWrapper) Debug(ctx context.Context, msg string, kv ...any) {
	l.logger.Debug().Fields(kv).Msg(msg)
}
func (l *zerologWrapper) Debugf(ctx context.Context, format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}
func (l *zerologWrapper) Info(ctx context.Context, msg string, kv ...any) {
	l.logger.Info().Fields(kv).Msg(msg)
}
func (l *zerologWrapper) Infof(ctx context.Context, format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}
func (l *zerologWrapper) Warn(ctx context.Context, msg string, kv ...any) {
	l.logger.Warn().Fields(kv).Msg(msg)
}
func (l *zerologWrapper) Warnf(ctx context.Context, format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}
func (l *zerologWrapper) Error(ctx context.Context, msg string, kv ...any) {
	l.logger.Error().Fields(kv).Msg(msg)
}
func (l *zerologWrapper) Errorf(ctx context.Context, format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

func (l *zerologWrapper) With(kv ...any) Logger {
	return &zerologWrapper{logger: l.logger.With().Fields(kv).Logger()}
}

var (
	defaultLoggerOnce  sync.Once
	defaultLoggerValue *zerologWrapper
)

func defaultLogger() *zerologWrapper {
	defaultLoggerOnce.Do(func() {
		defaultLoggerValue = &zerologWrapper{logger: zerolog.New(humanWriter(os.Stderr)).Level(zerolog.InfoLevel)}
	})
	return defaultLoggerValue
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() Logger {
	return &zerologWrapper{logger: zerolog.Nop()}
}
