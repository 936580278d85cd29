package archport

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/archport/pkg/archport/core"
)

var logger = DefaultLogger()

// Logger returns the package logger.
func Logger() *zerolog.Logger {
	return &logger
}

// SetLogger replaces the package logger. Transfers started afterwards log
// through l.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// NewLogger creates a console logger writing to w at level.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("lib", "archport").
		Logger()
}

// LevelForVerbosity maps a repeated -v count to a level: none is warn, then
// info, debug and trace.
func LevelForVerbosity(verbose int) zerolog.Level {
	switch {
	case verbose <= 0:
		return zerolog.WarnLevel
	case verbose == 1:
		return zerolog.InfoLevel
	case verbose == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// LogLevelFromString parses a level name, ignoring case.
func LogLevelFromString(levelStr string) (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
}

// DefaultLogger logs warnings and errors to stderr.
func DefaultLogger() zerolog.Logger {
	return NewLogger(os.Stderr, zerolog.WarnLevel)
}

// componentLogger tags the package logger with the transfer it serves.
func componentLogger(component string) core.Logger {
	l := logger.With().Str("component", component).Logger()
	return NewLoggerAdapter(&l)
}
