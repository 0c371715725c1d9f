// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowdesk/voice-console/internal/config"
)

// New builds the root logger from configuration. Development environments
// get colorized console output; everything else gets JSON.
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var log zerolog.Logger
	if cfg.Environment == "development" {
		log = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		log = zerolog.New(os.Stderr)
	}

	return log.With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger().
		Level(level)
}
