package main

import (
	"fmt"
	"os"
	"strconv"

	"contrast/client"
	"contrast/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: contrast-client <role> <name> <model> [num_games]

  role       X, O, spec, or - for auto-assignment
  model      -, manual, random, greedy, rule, rulebased1, rulebased2,
             ntuple, alphabeta[:depth], ab[:depth], mcts[:iterations]
  num_games  play this many games back to back (default 1)

The server address comes from CONTRAST_SERVER_HOST and CONTRAST_SERVER_PORT
(default 127.0.0.1:%d).
`, config.DefaultServerPort)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(config.LogLevel())

	args := os.Args[1:]
	if len(args) < 3 {
		usage()
		os.Exit(1)
	}

	numGames := 1
	if len(args) > 3 {
		if n, err := strconv.Atoi(args[3]); err == nil && n > 0 {
			numGames = n
		}
	}

	host := os.Getenv("CONTRAST_SERVER_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	addr := fmt.Sprintf("%s:%d", host, config.ServerPort(nil))

	c, err := client.New(client.Options{
		Addr:     addr,
		Role:     args[0],
		Name:     args[1],
		Model:    args[2],
		NumGames: numGames,
	})
	if err != nil {
		log.Error().Err(err).Msg("cannot build client")
		os.Exit(1)
	}

	if err := c.Run(); err != nil {
		log.Error().Err(err).Msg("client failed")
		os.Exit(1)
	}
}
