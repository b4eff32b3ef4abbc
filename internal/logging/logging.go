// Package logging sets up the zerolog console logger for the CLI.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console logger writing to out (normally stderr, keeping
// stdout clean for command output). verbose lowers the level to debug.
func New(out io.Writer, app string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
}
