package loomreport

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog.Logger writing to stderr. Standard output is
// kept free for the JSON status line each command prints.
func NewLogger(level, appEnv string) zerolog.Logger {
	return newLogger(os.Stderr, level, appEnv)
}

func newLogger(w io.Writer, level, appEnv string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if appEnv == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
