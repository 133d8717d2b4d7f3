package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/akolanti/FAQBot/internal/config"
)

type Logger struct {
	inner *slog.Logger
}

// Options selects the handler installed by Configure.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// Init installs the default development handler.
func Init() {
	Configure(Options{})
}

func Configure(opts Options) {
	options := &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if config.IS_PROD || strings.EqualFold(opts.Format, "json") {
		if config.IS_PROD {
			options.Level = config.LOG_LEVEL_PROD
		}
		handler = slog.NewJSONHandler(out, options)
	} else {
		handler = slog.NewTextHandler(out, options)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func NewLogger(section string) *Logger {
	return &Logger{
		inner: slog.Default().With("component", section),
	}
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	l.inner.Log(context.Background(), level, msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		inner: l.inner.With(args...),
	}
}

// FromContext attaches the trace and user ids carried by ctx, when present.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	out := l
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		out = out.With("traceId", trace)
	}
	if user, ok := ctx.Value(config.USER_ID_KEY).(int64); ok {
		out = out.With("userId", user)
	}
	return out
}
