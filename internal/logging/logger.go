// Package logging builds the zerolog loggers used by the registry.
package logging

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Environment knobs. The registry is a debug facility and, like most
// debug facilities, is switched on through the environment rather than
// code changes in the host runtime.
const (
	EnvLogLevel  = "JITDEBUG_LOG_LEVEL"
	EnvLogPretty = "JITDEBUG_LOG_PRETTY"
)

// Config contains logger configuration.
type Config struct {
	// Level sets the logging level (trace, debug, info, warn, error).
	// Empty disables logging entirely.
	Level string
	// Pretty enables human-readable console output.
	Pretty bool
	// Output sets the output writer (defaults to os.Stderr).
	Output io.Writer
}

// New creates a zerolog logger from cfg. An empty level yields a
// disabled logger, the right default for a library.
func New(cfg Config) zerolog.Logger {
	if cfg.Level == "" {
		return zerolog.Nop()
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.TimeOnly,
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// FromEnv builds the logger described by the JITDEBUG_* environment
// variables. With nothing set the logger is disabled.
func FromEnv() zerolog.Logger {
	cfg := Config{Level: os.Getenv(EnvLogLevel)}
	if pretty, err := strconv.ParseBool(os.Getenv(EnvLogPretty)); err == nil {
		cfg.Pretty = pretty
	}
	return New(cfg)
}
