package observability

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the process-wide zerolog logger. Development
// gets a human-readable console writer at debug level; everything else
// emits JSON with caller info at info level. LOG_LEVEL overrides the
// per-environment default.
func InitLogger(serviceName, env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(logLevel(env))

	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	builder := zerolog.New(out).With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env)
	if env != "development" {
		builder = builder.Caller()
	}
	log.Logger = builder.Logger()
}

func logLevel(env string) zerolog.Level {
	fallback := zerolog.InfoLevel
	if env == "development" {
		fallback = zerolog.DebugLevel
	}

	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return fallback
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return fallback
	}
	return level
}

// LoggerFromContext returns a request-scoped logger carrying the active
// trace and span ids. Without a valid span it falls back to the global
// logger.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return &log.Logger
	}

	logger := log.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &logger
}
