// Package logx provides the shared structured logger used across the
// emulator core. Every subsystem that once reported state through ad-hoc
// fmt.Printf traces now logs through a *zerolog.Logger injected at
// construction; logging is advisory only and never alters behavior.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Disabled is a logger that discards everything; it is the default for
// subsystems constructed without an explicit logger so that behavior never
// depends on whether logging is configured.
var Disabled = zerolog.New(io.Discard).Level(zerolog.Disabled)

// New builds a JSON logger with timestamps writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a CLI/config string to a zerolog level, defaulting to
// Disabled on an unrecognized or empty value.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.Disabled
	}
	return lvl
}
