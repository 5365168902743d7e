// Package obs provides the logging seam threaded optionally through the
// solver: a zerolog.Logger, defaulting to a no-op sink so library code
// never forces output on a caller that hasn't configured one.
package obs

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a human-readable console logger at level, writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// Default returns the package-wide default logger: info level to stderr.
func Default() zerolog.Logger {
	return New(os.Stderr, zerolog.InfoLevel)
}

// Nop returns a logger that discards everything, the zero value callers get
// when they don't wire one in explicitly.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
