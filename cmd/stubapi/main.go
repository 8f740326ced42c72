package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/stubapi"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	app := stubapi.NewApp(stubapi.NewStore())

	addr := config.StubAPIAddr()
	log.Info().Str("addr", addr).Msg("stub api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
