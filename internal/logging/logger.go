package logging

import (
	"io"
	"os"
	"time"

	"github.com/fadedpez/coinpurse/internal/types"
	"github.com/rs/zerolog"
)

// Options controls logger construction
type Options struct {
	Level string
	// Pretty selects the human readable console writer over JSON lines
	Pretty bool
	Out    io.Writer
}

// New builds the application logger
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// LogError logs err, expanding coded game errors into fields
func LogError(log zerolog.Logger, err error) {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		event := log.Error().
			Str("code", string(gameErr.Code)).
			Str("detail", gameErr.Message)
		if gameErr.Err != nil {
			event = event.AnErr("cause", gameErr.Err)
		}
		event.Msg("Game error occurred")
		return
	}
	log.Error().Err(err).Msg("Unexpected error")
}
