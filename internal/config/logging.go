package config

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger builds a JSON logger tagged with service. Unparseable levels
// fall back to info.
func NewLogger(service, level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
