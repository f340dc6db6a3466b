// Package logging builds the service's zerolog logger from env config.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config is loaded from env vars as part of the service config.
type Config struct {
	// Level is the minimum level written, default info.
	Level Level `default:"info"`
	// Pretty switches to human readable console output.
	Pretty bool `default:"false"`
}

// Level wraps zerolog.Level so it can implement envconfig.Decoder.
type Level zerolog.Level

// Decode implements envconfig.Decoder.
func (l *Level) Decode(value string) error {
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return fmt.Errorf("zerolog.ParseLevel: %w", err)
	}
	*l = Level(level)
	return nil
}

func (l Level) String() string {
	return zerolog.Level(l).String()
}

// New returns a logger writing to w, or stderr when w is nil.
func New(cfg Config, service string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.DurationFieldUnit = time.Millisecond

	return zerolog.New(w).
		Level(zerolog.Level(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
