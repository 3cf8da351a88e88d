// Package config concentrates environment-driven settings; apart from the
// client binary's own CONTRAST_SERVER_HOST lookup, the rest of the stack never
// reads os.Getenv directly.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const DefaultServerPort = 8765

// ServerPort resolves the listen port: an explicit --port argument wins, then
// CONTRAST_SERVER_PORT, then the default. Out-of-range values fall back.
func ServerPort(args []string) int {
	for i, arg := range args {
		if arg == "--port" && i+1 < len(args) {
			return parsePort(args[i+1])
		}
		const prefix = "--port="
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return parsePort(arg[len(prefix):])
		}
	}
	if env := os.Getenv("CONTRAST_SERVER_PORT"); env != "" {
		return parsePort(env)
	}
	return DefaultServerPort
}

func parsePort(s string) int {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return DefaultServerPort
	}
	return port
}

// MoveTime is the default alpha-beta time budget from CONTRAST_MOVE_TIME
// (seconds, decimal). Zero means no budget.
func MoveTime() time.Duration {
	env := os.Getenv("CONTRAST_MOVE_TIME")
	if env == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(env, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// LogBoard reports whether the server should render each move's board.
func LogBoard() bool {
	return os.Getenv("CONTRAST_SERVER_LOG_BOARD") == "1"
}

// WeightsFile is the network weight file used by the ntuple-backed agents.
func WeightsFile() string {
	if env := os.Getenv("CONTRAST_WEIGHTS"); env != "" {
		return env
	}
	return "ntuple_weights.bin"
}

// LogLevel maps the verbosity environment variables to a zerolog level:
// CONTRAST_DEBUG wins, then CONTRAST_SILENT, then CONTRAST_MINIMAL.
func LogLevel() zerolog.Level {
	if os.Getenv("CONTRAST_DEBUG") != "" {
		return zerolog.DebugLevel
	}
	if os.Getenv("CONTRAST_SILENT") != "" {
		return zerolog.ErrorLevel
	}
	if os.Getenv("CONTRAST_MINIMAL") != "" {
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}
