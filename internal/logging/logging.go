// Package logging constructs named zerolog loggers with a shared console
// output format.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Field keys shared across pipeline log events.
const (
	RunIDKey    = "runID"
	FileKey     = "file"
	HandKey     = "hand"
	PlayerIDKey = "playerID"
)

// New returns a logger tagged with the component name. A nil out defaults
// to stdout.
func New(name string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
}

// ParseLevel maps a config level string to a zerolog level, defaulting to
// info for unknown values.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
