package main

import (
	"os"

	"contrast/config"
	"contrast/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(config.LogLevel())

	port := config.ServerPort(os.Args[1:])
	srv := server.New()
	if err := srv.ListenAndServe(port); err != nil {
		log.Error().Err(err).Msg("fatal server error")
		os.Exit(1)
	}
}
