package server

import (
	"bufio"
	"net"
	"strings"
	"sync"

	"contrast/protocol"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	roleX         = "X"
	roleO         = "O"
	roleSpectator = "spectator"
)

type session struct {
	id   string
	conn net.Conn

	// writeMu serializes writes: the session's own worker and broadcasts
	// from other workers share the socket.
	writeMu sync.Mutex

	// role, name, ready, and multiGame are guarded by Server.clientsMu.
	role      string
	name      string
	active    bool
	ready     bool
	multiGame bool
}

func newSession(conn net.Conn) *session {
	return &session{
		id:     uuid.NewString(),
		conn:   conn,
		role:   roleSpectator,
		name:   "anon",
		active: true,
	}
}

func (c *session) send(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write([]byte(text))
	return err
}

func (c *session) sendInfo(text string) error {
	return c.send("INFO " + text + "\n")
}

func (c *session) sendError(text string) error {
	return c.send("ERROR " + text + "\n")
}

func (c *session) sendState(snap protocol.Snapshot) error {
	return c.send(protocol.BuildStateMessage(snap))
}

func (c *session) close() {
	c.active = false
	_ = c.conn.Close()
}

// serveSession is the per-connection worker: read a line, dispatch, repeat.
func (s *Server) serveSession(sess *session) {
	defer s.removeSession(sess)

	scanner := bufio.NewScanner(sess.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<16)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		log.Debug().Str("session", sess.id).Str("line", line).Msg("recv")

		switch {
		case strings.HasPrefix(line, "MOVE "):
			s.handleMove(sess, line[len("MOVE "):])
		case strings.HasPrefix(line, "ROLE "):
			s.handleRole(sess, line[len("ROLE "):])
		case line == "READY":
			s.handleReady(sess)
		case line == "GET_STATE":
			s.gameMu.Lock()
			snap := s.buildSnapshotLocked()
			s.gameMu.Unlock()
			if err := sess.sendState(snap); err != nil {
				return
			}
		case line == "GET_STATS":
			if err := sess.send(s.statsLine()); err != nil {
				return
			}
		default:
			if err := sess.sendError("Unknown command: " + line); err != nil {
				return
			}
		}
	}
}
