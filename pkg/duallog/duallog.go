// Package duallog splits the CLI's two output streams: STDOUT carries
// command results (configuration text, diffs, JSON capability
// reports) and stays machine-readable, while all structured logs go
// to STDERR.
package duallog

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Setup configures the global logger to write human-readable log
// lines to STDERR at the given level.
func Setup(level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	zlog.Logger = zerolog.New(writer).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
}

// Logger returns the configured global logger for injection into
// adapters and transports.
func Logger() zerolog.Logger {
	return zlog.Logger
}

// Result prints a command result to STDOUT, untouched by any log
// formatting.
func Result(text string) {
	fmt.Fprintln(os.Stdout, text)
}
