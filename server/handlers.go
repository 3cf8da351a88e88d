package server

import (
	"fmt"
	"strings"
	"time"

	"contrast/game"
	"contrast/protocol"

	"github.com/rs/zerolog/log"
)

const (
	statusOngoing = "ongoing"
	statusXWin    = "X_win"
	statusOWin    = "O_win"
	statusDraw    = "draw"
)

func roleToPlayer(role string) game.Player {
	switch role {
	case roleX:
		return game.Black
	case roleO:
		return game.White
	default:
		return game.NoPlayer
	}
}

// handleMove runs the authoritative discipline: stale game_id, duplicate
// move_id, wrong turn, exact membership in the legal move list; every rejection
// that can leave the sender stale is followed by a STATE resync.
func (s *Server) handleMove(sess *session, payload string) {
	if sess.role != roleX && sess.role != roleO {
		_ = sess.sendError("Spectators cannot submit moves")
		return
	}

	wire, err := protocol.ParseMove(payload)
	if err != nil {
		_ = sess.sendError(err.Error())
		return
	}
	player := roleToPlayer(sess.role)

	log.Info().
		Str("role", sess.role).
		Str("name", sess.name).
		Str("move", protocol.FormatMove(wire)).
		Uint64("game_id", wire.GameID).
		Uint64("move_id", wire.MoveID).
		Msg("move received")

	s.gameMu.Lock()

	if wire.GameID != 0 && wire.GameID != s.gameID {
		s.gameMu.Unlock()
		_ = sess.sendError("Stale or mismatched game_id; resyncing state")
		s.resyncSession(sess, "stale_game_id")
		return
	}

	// the duplicate check runs before the turn check: a replayed move
	// usually arrives after the original flipped the turn
	if wire.MoveID != 0 && wire.MoveID <= s.lastMoveID[sess.role] {
		snap := s.buildSnapshotLocked()
		s.gameMu.Unlock()
		_ = sess.sendError("Duplicate or old move_id; resyncing state")
		_ = sess.sendState(snap)
		s.broadcast(snap)
		return
	}

	if sess.role[0] != protocol.PlayerSymbol(s.state.ToMove()) {
		turn := protocol.PlayerSymbol(s.state.ToMove())
		snap := s.buildSnapshotLocked()
		s.gameMu.Unlock()
		_ = sess.sendError(fmt.Sprintf("It is %c's turn", turn))
		_ = sess.sendState(snap)
		return
	}

	desired, err := protocol.ToGameMove(wire)
	if err != nil {
		s.gameMu.Unlock()
		_ = sess.sendError(err.Error())
		return
	}

	legal := game.LegalMoves(&s.state)
	matched := false
	for _, lm := range legal {
		if lm.Equal(desired) {
			matched = true
			break
		}
	}
	if !matched {
		reason := s.illegalReasonLocked(desired, player)
		snap := s.buildSnapshotLocked()
		s.gameMu.Unlock()

		log.Warn().
			Str("role", sess.role).
			Str("move", protocol.FormatMove(wire)).
			Str("reason", reason).
			Int("legal_count", len(legal)).
			Msg("illegal move rejected")

		_ = sess.sendError("Illegal move: " + reason + "; resyncing state")
		_ = sess.sendState(snap)
		s.broadcast(snap)
		return
	}

	s.state.ApplyMove(desired)
	s.lastMove = protocol.FormatMove(wire)
	if wire.MoveID != 0 {
		s.lastMoveID[sess.role] = wire.MoveID
	}
	s.updateStatusLocked(player)
	snap := s.buildSnapshotLocked()

	gameEnded := s.status != statusOngoing
	if gameEnded {
		winner := ""
		switch s.status {
		case statusXWin:
			winner = "X"
		case statusOWin:
			winner = "O"
		case statusDraw:
			winner = "Draw"
		}
		if winner != "" {
			s.recordResult(winner)
		}
	}
	s.gameMu.Unlock()

	s.maybeLogBoard(snap)
	s.broadcast(snap)

	if gameEnded && s.bothPlayersMultiGame() {
		time.Sleep(autoRematchDelay)
		s.gameMu.Lock()
		// continuous rematch: ready flags survive across games
		s.resetGameLocked(false)
		next := s.buildSnapshotLocked()
		s.gameMu.Unlock()
		log.Info().Uint64("game_id", next.GameID).Msg("auto rematch")
		s.broadcast(next)
	}
}

// updateStatusLocked requires gameMu; lastPlayer just moved.
func (s *Server) updateStatusLocked(lastPlayer game.Player) {
	if game.IsWin(&s.state, lastPlayer) {
		s.status = winStatus(lastPlayer)
		return
	}
	// the opponent is now to move; trapped means lastPlayer wins
	if game.IsLoss(&s.state) {
		s.status = winStatus(lastPlayer)
		return
	}
	if game.IsDraw(&s.state) {
		s.status = statusDraw
		return
	}
	s.status = statusOngoing
}

func winStatus(p game.Player) string {
	if p == game.Black {
		return statusXWin
	}
	return statusOWin
}

// illegalReasonLocked derives a best-effort human-readable rejection; gameMu
// must be held.
func (s *Server) illegalReasonLocked(m game.Move, player game.Player) string {
	b := s.state.Board()
	switch {
	case !b.InBounds(m.SX, m.SY) || !b.InBounds(m.DX, m.DY):
		return "Origin or target coordinate out of bounds"
	case b.At(m.SX, m.SY).Occupant != player:
		occ := b.At(m.SX, m.SY).Occupant
		has := "none"
		if occ != game.NoPlayer {
			has = fmt.Sprintf("%c", protocol.PlayerSymbol(occ))
		}
		return fmt.Sprintf("Origin does not contain player's piece (has %s)", has)
	case b.At(m.DX, m.DY).Occupant != game.NoPlayer:
		return fmt.Sprintf("Destination occupied by %c", protocol.PlayerSymbol(b.At(m.DX, m.DY).Occupant))
	case m.PlaceTile:
		if !b.InBounds(m.TX, m.TY) {
			return "Tile placement coordinate out of bounds"
		}
		if b.At(m.TX, m.TY).Tile != game.NoTile {
			return fmt.Sprintf("Tile target %s already has a tile", protocol.FormatCoord(m.TX, m.TY))
		}
		inv := s.state.Inventory(player)
		if m.Tile == game.BlackTile && inv.Black <= 0 {
			return "No black tiles available in inventory"
		}
		if m.Tile == game.GrayTile && inv.Gray <= 0 {
			return "No gray tiles available in inventory"
		}
	}
	return "Move not present in generated legal moves"
}

// handleRole processes "ROLE <role> <name> <model> [multi]"; a re-assignment
// succeeds only when the target role is unheld.
func (s *Server) handleRole(sess *session, payload string) {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		_ = sess.sendError("ROLE requires a target role")
		return
	}
	name := "-"
	if len(fields) > 1 {
		name = fields[1]
	}
	multi := false
	if len(fields) > 3 {
		token := fields[3]
		multi = token == "multi" || token == "multi_game"
	}

	var requested string
	switch strings.ToUpper(fields[0]) {
	case "-":
		requested = ""
	case roleX, roleO:
		requested = strings.ToUpper(fields[0])
	case "SPECTATOR", "SPEC":
		requested = roleSpectator
	default:
		_ = sess.sendError("Unknown role: " + fields[0])
		return
	}

	s.clientsMu.Lock()
	if requested == "" {
		requested = sess.role
	}
	if s.roleInUseLocked(requested, sess) {
		s.clientsMu.Unlock()
		_ = sess.sendError(requested + " already taken")
		return
	}
	sess.role = requested
	if name != "-" {
		sess.name = name
	}
	sess.multiGame = multi
	s.clientsMu.Unlock()

	_ = sess.sendInfo(fmt.Sprintf("You are %s (%s)", sess.role, sess.name))

	s.gameMu.Lock()
	snap := s.buildSnapshotLocked()
	s.gameMu.Unlock()
	_ = sess.sendState(snap)
}

// handleReady marks the player ready; once both players are ready a fresh
// game starts and the ready flags are cleared.
func (s *Server) handleReady(sess *session) {
	if sess.role != roleX && sess.role != roleO {
		_ = sess.sendError("Spectators cannot ready up")
		return
	}
	s.clientsMu.Lock()
	sess.ready = true
	s.clientsMu.Unlock()
	_ = sess.sendInfo("Ready acknowledged")

	if !s.allPlayersReady() {
		return
	}

	log.Info().Msg("both players ready, starting new game")

	s.gameMu.Lock()
	s.resetGameLocked(true)
	snap := s.buildSnapshotLocked()
	s.gameMu.Unlock()
	s.broadcast(snap)
}
