// Package server implements the authoritative match server: one game at a
// time, strict game_id/move_id discipline, and a STATE resync after every
// rejected player move that parses.
package server

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"contrast/config"
	"contrast/game"
	"contrast/protocol"

	"github.com/rs/zerolog/log"
)

const resultsLogName = "game_results.log"

// autoRematchDelay gives clients a beat to display the final position before
// the reset snapshot lands.
const autoRematchDelay = 200 * time.Millisecond

type Server struct {
	// clientsMu guards the session registry and the per-session role, name,
	// ready, and multi flags. When both locks are needed, gameMu comes
	// first.
	clientsMu sync.Mutex
	sessions  []*session

	// gameMu guards the game state and everything derived from it.
	gameMu     sync.Mutex
	state      game.GameState
	gameID     uint64
	lastMove   string
	status     string
	lastMoveID map[string]uint64
	gameStart  time.Time

	stats   gameStats // guarded by clientsMu
	logFile *os.File

	// ResultsLog is the append-only per-game results file. Set before Serve.
	ResultsLog string
}

func New() *Server {
	return &Server{
		state:      game.NewGameState(),
		gameID:     1,
		status:     statusOngoing,
		lastMoveID: map[string]uint64{"X": 0, "O": 0},
		gameStart:  time.Now(),
		ResultsLog: resultsLogName,
	}
}

// ListenAndServe binds the port and accepts connections until the listener
// fails fatally.
func (s *Server) ListenAndServe(port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}
	log.Info().Int("port", port).Msg("server listening")
	return s.Serve(listener)
}

// Serve accepts connections from an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.openResultsLog()
	defer s.closeResultsLog()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		sess := s.register(conn)
		go s.serveSession(sess)
	}
}

// register adds the connection to the registry with the first unfilled of
// X and O, else as a spectator.
func (s *Server) register(conn net.Conn) *session {
	sess := newSession(conn)

	s.clientsMu.Lock()
	sess.role = s.unfilledRoleLocked()
	s.sessions = append(s.sessions, sess)
	s.clientsMu.Unlock()

	log.Info().Str("session", sess.id).Str("role", sess.role).Msg("client connected")
	return sess
}

func (s *Server) unfilledRoleLocked() string {
	hasX, hasO := false, false
	for _, c := range s.sessions {
		if !c.active {
			continue
		}
		if c.role == roleX {
			hasX = true
		}
		if c.role == roleO {
			hasO = true
		}
	}
	if !hasX {
		return roleX
	}
	if !hasO {
		return roleO
	}
	return roleSpectator
}

func (s *Server) roleInUseLocked(role string, requester *session) bool {
	if role != roleX && role != roleO {
		return false
	}
	for _, c := range s.sessions {
		if !c.active || c == requester {
			continue
		}
		if c.role == role {
			return true
		}
	}
	return false
}

func (s *Server) removeSession(sess *session) {
	s.clientsMu.Lock()
	sess.close()
	for i, c := range s.sessions {
		if c == sess {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			break
		}
	}
	noPlayers := true
	for _, c := range s.sessions {
		if c.active && (c.role == roleX || c.role == roleO) {
			noPlayers = false
			break
		}
	}
	s.clientsMu.Unlock()

	log.Info().Str("session", sess.id).Str("role", sess.role).Str("name", sess.name).Msg("client disconnected")

	if noPlayers {
		// soft reset: clean position for the next pair, game_id kept
		s.gameMu.Lock()
		s.state.Reset()
		s.lastMove = ""
		s.status = statusOngoing
		s.lastMoveID[roleX] = 0
		s.lastMoveID[roleO] = 0
		s.gameStart = time.Now()
		s.gameMu.Unlock()
	}
}

// broadcast sends the snapshot to every active session; a failed send closes
// that session and drops it from the registry.
func (s *Server) broadcast(snap protocol.Snapshot) {
	msg := protocol.BuildStateMessage(snap)

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	kept := s.sessions[:0]
	for _, c := range s.sessions {
		if !c.active {
			continue
		}
		if err := c.send(msg); err != nil {
			log.Warn().Str("session", c.id).Err(err).Msg("broadcast failed, dropping session")
			c.close()
			continue
		}
		kept = append(kept, c)
	}
	s.sessions = kept
}

// buildSnapshotLocked requires gameMu.
func (s *Server) buildSnapshotLocked() protocol.Snapshot {
	return protocol.BuildSnapshot(&s.state, s.gameID, s.status, s.lastMove)
}

// resetGameLocked requires gameMu. clearReady is false on the multi-game
// auto-rematch path so the next game starts without another READY.
func (s *Server) resetGameLocked(clearReady bool) {
	s.state.Reset()
	s.lastMove = ""
	s.status = statusOngoing
	s.gameID++
	s.lastMoveID[roleX] = 0
	s.lastMoveID[roleO] = 0
	s.gameStart = time.Now()

	if clearReady {
		s.clientsMu.Lock()
		for _, c := range s.sessions {
			c.ready = false
		}
		s.clientsMu.Unlock()
	}
}

func (s *Server) allPlayersReady() bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	hasX, hasO, readyX, readyO := false, false, false, false
	for _, c := range s.sessions {
		if !c.active {
			continue
		}
		if c.role == roleX {
			hasX, readyX = true, c.ready
		}
		if c.role == roleO {
			hasO, readyO = true, c.ready
		}
	}
	return hasX && hasO && readyX && readyO
}

func (s *Server) bothPlayersMultiGame() bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	x, o := false, false
	for _, c := range s.sessions {
		if !c.active {
			continue
		}
		if c.role == roleX {
			x = c.multiGame
		}
		if c.role == roleO {
			o = c.multiGame
		}
	}
	return x && o
}

// resyncSession pushes the authoritative snapshot to the sender first, then
// broadcasts it.
func (s *Server) resyncSession(sess *session, tag string) {
	s.gameMu.Lock()
	snap := s.buildSnapshotLocked()
	s.gameMu.Unlock()

	log.Debug().Str("tag", tag).Uint64("game_id", snap.GameID).Str("last", snap.LastMove).Msg("state resync")
	if err := sess.sendState(snap); err != nil {
		log.Warn().Str("session", sess.id).Err(err).Msg("resync send failed")
	}
	s.broadcast(snap)
}

func (s *Server) maybeLogBoard(snap protocol.Snapshot) {
	if config.LogBoard() {
		fmt.Printf("\n%s\n", protocol.RenderBoard(snap.Pieces, snap.Tiles))
	}
}
