/**
 * Logger setup for the bill analysis service
 *
 * All components log through zerolog; this package owns the single place
 * where the root logger is configured. The pretty console writer is for
 * local development only, production output stays line-oriented JSON.
 */

package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the root logger every component derives from
func New(service, level string, pretty bool) zerolog.Logger {
	lvl := parseLevel(level)

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// parseLevel maps a level name to a zerolog level, defaulting to info on
// anything unrecognized rather than failing startup
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
