// Package logging configura o logger global do zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup ajusta o nível global e o formato da saída (json ou console).
// Um nível inválido cai para info.
func Setup(level, format string) {
	SetupWriter(os.Stderr, level, format)
}

func SetupWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", "quizduel").Logger()

	if err != nil {
		log.Warn().Str("level", level).Msg("invalid log level, using info")
	}
}
