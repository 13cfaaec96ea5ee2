package observability

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	t.Run("development defaults to debug", func(t *testing.T) {
		os.Unsetenv("LOG_LEVEL")
		assert.Equal(t, zerolog.DebugLevel, logLevel("development"))
	})

	t.Run("production defaults to info", func(t *testing.T) {
		os.Unsetenv("LOG_LEVEL")
		assert.Equal(t, zerolog.InfoLevel, logLevel("production"))
	})

	t.Run("LOG_LEVEL overrides the default", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "warn")
		defer os.Unsetenv("LOG_LEVEL")
		assert.Equal(t, zerolog.WarnLevel, logLevel("development"))
	})

	t.Run("unknown LOG_LEVEL falls back", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "chatty")
		defer os.Unsetenv("LOG_LEVEL")
		assert.Equal(t, zerolog.InfoLevel, logLevel("production"))
	})
}

func TestLoggerFromContext_NoSpan(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	assert.Equal(t, &log.Logger, logger)
}
