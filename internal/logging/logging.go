// Package logging configures the global zerolog logger for the binaries.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sets the global level and installs a console writer on stderr.
// Colour is only used when stderr is a terminal.
func Setup(level string) error {
	return SetupWriter(level, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

func SetupWriter(level string, out io.Writer, color bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "parse log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !color,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
	return nil
}
