package server

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

type gameStats struct {
	totalGames int
	xWins      int
	oWins      int
	draws      int
	xName      string
	oName      string
}

func (s *Server) openResultsLog() {
	f, err := os.OpenFile(s.ResultsLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn().Err(err).Msg("could not open results log")
		return
	}
	s.logFile = f
	fmt.Fprintf(f, "\n=== New session started at %s ===\n", time.Now().Format(time.RFC1123))
}

func (s *Server) closeResultsLog() {
	if s.logFile != nil {
		_ = s.logFile.Close()
		s.logFile = nil
	}
}

// recordResult tallies the finished game and appends one line to the results
// log. Callers hold gameMu; clientsMu nests inside it here.
func (s *Server) recordResult(winner string) {
	elapsed := time.Since(s.gameStart).Round(10 * time.Millisecond)

	s.clientsMu.Lock()
	s.stats.totalGames++
	switch winner {
	case "X":
		s.stats.xWins++
	case "O":
		s.stats.oWins++
	default:
		s.stats.draws++
	}
	for _, c := range s.sessions {
		if !c.active {
			continue
		}
		if c.role == roleX {
			s.stats.xName = c.name
		}
		if c.role == roleO {
			s.stats.oName = c.name
		}
	}
	stats := s.stats
	s.clientsMu.Unlock()

	if s.logFile != nil {
		fmt.Fprintf(s.logFile, "Game %d | Winner: %s | X(%s) vs O(%s) | Time: %s\n",
			stats.totalGames, winner, stats.xName, stats.oName, elapsed)
	}

	log.Info().
		Int("game", stats.totalGames).
		Str("winner", winner).
		Int("x_wins", stats.xWins).
		Int("o_wins", stats.oWins).
		Int("draws", stats.draws).
		Str("x", stats.xName).
		Str("o", stats.oName).
		Dur("duration", elapsed).
		Msg("game finished")
}

func (s *Server) statsLine() string {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return fmt.Sprintf("STATS games=%d x_wins=%d o_wins=%d draws=%d\n",
		s.stats.totalGames, s.stats.xWins, s.stats.oWins, s.stats.draws)
}
