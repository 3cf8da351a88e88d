package server

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contrast/game"
	"contrast/protocol"

	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New()
	srv.ResultsLog = filepath.Join(t.TempDir(), "game_results.log")
	go func() { _ = srv.Serve(listener) }()
	t.Cleanup(func() { _ = listener.Close() })

	return srv, listener.Addr().String()
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(c.t, err)
}

func (c *testClient) readLine() string {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	line, err := c.r.ReadString('\n')
	require.NoError(c.t, err)
	return strings.TrimRight(line, "\n")
}

// expect reads one line and requires the given prefix.
func (c *testClient) expect(prefix string) string {
	c.t.Helper()
	line := c.readLine()
	require.True(c.t, strings.HasPrefix(line, prefix), "want %q prefix, got %q", prefix, line)
	return line
}

// readState consumes a full STATE ... END block.
func (c *testClient) readState() protocol.Snapshot {
	c.t.Helper()
	c.expect("STATE")
	var lines []string
	for {
		line := c.readLine()
		if line == "END" {
			break
		}
		lines = append(lines, line)
	}
	snap, err := protocol.ParseStateBlock(lines)
	require.NoError(c.t, err)
	return snap
}

// handshake performs ROLE and consumes the INFO and STATE responses.
func (c *testClient) handshake(role, name string, multi bool) protocol.Snapshot {
	c.t.Helper()
	cmd := "ROLE " + role + " " + name + " -"
	if multi {
		cmd += " multi"
	}
	c.send(cmd)
	c.expect("INFO You are " + role)
	return c.readState()
}

func TestRoleAssignment(t *testing.T) {
	_, addr := startTestServer(t)

	x := dial(t, addr)
	snap := x.handshake("X", "alice", false)
	require.Equal(t, uint64(1), snap.GameID)

	o := dial(t, addr)
	o.handshake("O", "bob", false)

	t.Run("taken role is refused", func(t *testing.T) {
		m := dial(t, addr)
		m.send("ROLE X mallory -")
		m.expect("ERROR X already taken")
	})
}

func TestUnknownCommand(t *testing.T) {
	_, addr := startTestServer(t)
	c := dial(t, addr)
	c.send("FROBNICATE")
	c.expect("ERROR Unknown command")
}

func TestSpectatorCannotPlay(t *testing.T) {
	_, addr := startTestServer(t)
	x := dial(t, addr)
	x.handshake("X", "alice", false)
	o := dial(t, addr)
	o.handshake("O", "bob", false)

	spec := dial(t, addr)
	spec.handshake("spec", "watcher", false)

	spec.send("MOVE a5,a4 -1")
	spec.expect("ERROR Spectators cannot submit moves")

	spec.send("READY")
	spec.expect("ERROR Spectators cannot ready up")
}

func TestReadyHandshakeStartsGame(t *testing.T) {
	_, addr := startTestServer(t)
	x := dial(t, addr)
	x.handshake("X", "alice", false)
	o := dial(t, addr)
	o.handshake("O", "bob", false)

	x.send("READY")
	x.expect("INFO Ready acknowledged")
	o.send("READY")
	o.expect("INFO Ready acknowledged")

	snapX := x.readState()
	snapO := o.readState()
	require.Equal(t, uint64(2), snapX.GameID, "game_id bumps on the fresh game")
	require.Equal(t, uint64(2), snapO.GameID)
	require.Equal(t, byte('X'), snapX.Turn)
}

func TestMoveFlow(t *testing.T) {
	_, addr := startTestServer(t)
	x := dial(t, addr)
	x.handshake("X", "alice", false)
	o := dial(t, addr)
	o.handshake("O", "bob", false)

	// a5 is internal (0,0): Black's corner piece stepping forward
	x.send("MOVE a5,a4 -1 1 1")
	snapX := x.readState()
	snapO := o.readState()

	t.Run("snapshot after the move", func(t *testing.T) {
		require.Equal(t, byte('O'), snapX.Turn)
		require.Equal(t, "ongoing", snapX.Status)
		require.Equal(t, "a5,a4 -1", snapX.LastMove)
		require.Equal(t, byte('X'), snapX.Pieces["a4"])
		require.NotContains(t, snapX.Pieces, "a5")
		require.Equal(t, 3, snapX.StockBlack['X'], "inventories unchanged")
		require.Equal(t, snapX, snapO, "both sessions see the same snapshot")
	})

	t.Run("wrong turn is rejected with resync", func(t *testing.T) {
		x.send("MOVE b5,b4 -1 1 2")
		x.expect("ERROR It is O's turn")
		resync := x.readState()
		require.Equal(t, snapX.Pieces, resync.Pieces)
	})

	t.Run("illegal move reason", func(t *testing.T) {
		o.send("MOVE c1,c3 -1 1 1")
		line := o.expect("ERROR Illegal move")
		require.Contains(t, line, "resyncing state")
		o.readState() // direct resync
		o.readState() // broadcast
		x.readState() // broadcast reaches the other player too
	})
}

func TestDuplicateMoveID(t *testing.T) {
	_, addr := startTestServer(t)
	x := dial(t, addr)
	x.handshake("X", "alice", false)
	o := dial(t, addr)
	o.handshake("O", "bob", false)

	x.send("MOVE a5,a4 -1 1 1")
	first := x.readState()
	o.readState()

	// same (game_id, move_id) again: duplicate, not wrong-turn
	x.send("MOVE a5,a4 -1 1 1")
	x.expect("ERROR Duplicate or old move_id")
	direct := x.readState()
	require.Equal(t, first.Pieces, direct.Pieces, "snapshot identical to the post-apply one")
	require.Equal(t, first.Turn, direct.Turn)

	x.readState() // broadcast copy
	o.readState()
}

func TestStaleGameID(t *testing.T) {
	srv, addr := startTestServer(t)
	x := dial(t, addr)
	x.handshake("X", "alice", false)
	o := dial(t, addr)
	o.handshake("O", "bob", false)

	x.send("READY")
	x.expect("INFO Ready acknowledged")
	o.send("READY")
	o.expect("INFO Ready acknowledged")
	x.readState()
	o.readState() // game_id now 2

	x.send("MOVE a5,a4 -1 1 1") // game_id = current-1
	x.expect("ERROR Stale or mismatched game_id")
	snap := x.readState()
	require.Equal(t, uint64(2), snap.GameID)
	require.Equal(t, byte('X'), snap.Pieces["a5"], "position unchanged")
	x.readState() // broadcast copy
	o.readState()

	srv.gameMu.Lock()
	require.Equal(t, game.Black, srv.state.ToMove(), "no state change")
	srv.gameMu.Unlock()
}

// fabricate a position one move from an X win
func forceWinInOne(srv *Server) {
	var b game.Board
	b.SetOccupant(2, 3, game.Black) // c2 on the wire
	b.SetOccupant(4, 1, game.White)

	srv.gameMu.Lock()
	srv.state = game.NewGameStateFrom(b, game.TileInventory{}, game.TileInventory{}, game.Black)
	srv.gameMu.Unlock()
}

func TestWinDetection(t *testing.T) {
	srv, addr := startTestServer(t)
	x := dial(t, addr)
	x.handshake("X", "alice", false)
	o := dial(t, addr)
	o.handshake("O", "bob", false)

	forceWinInOne(srv)

	// internal (2,3) -> (2,4) is wire c2 -> c1
	x.send("MOVE c2,c1 -1")
	snap := x.readState()
	require.Equal(t, "X_win", snap.Status)
	o.readState()
}

func TestMultiGameAutoRematch(t *testing.T) {
	srv, addr := startTestServer(t)
	x := dial(t, addr)
	x.handshake("X", "alice", true)
	o := dial(t, addr)
	o.handshake("O", "bob", true)

	forceWinInOne(srv)

	x.send("MOVE c2,c1 -1 1 1")
	final := x.readState()
	require.Equal(t, "X_win", final.Status)
	o.readState()

	// the reset arrives unprompted: game_id bumped exactly once, initial
	// layout restored
	reset := x.readState()
	require.Equal(t, uint64(2), reset.GameID)
	require.Equal(t, "ongoing", reset.Status)
	require.Equal(t, byte('X'), reset.Turn)
	require.Len(t, reset.Pieces, 10)
	require.Equal(t, byte('X'), reset.Pieces["c5"])
	o.readState()

	t.Run("black moves without a new ready", func(t *testing.T) {
		x.send("MOVE a5,a4 -1 2 1")
		snap := x.readState()
		require.Equal(t, "ongoing", snap.Status)
		require.Equal(t, byte('X'), snap.Pieces["a4"])
		o.readState()
	})

	t.Run("result recorded", func(t *testing.T) {
		x.send("GET_STATS")
		stats := x.expect("STATS ")
		require.Contains(t, stats, "games=1")
		require.Contains(t, stats, "x_wins=1")
	})

	t.Run("results log line", func(t *testing.T) {
		data, err := os.ReadFile(srv.ResultsLog)
		require.NoError(t, err)
		require.Contains(t, string(data), "Game 1 | Winner: X | X(alice) vs O(bob)")
	})
}

func TestGetState(t *testing.T) {
	_, addr := startTestServer(t)
	c := dial(t, addr)
	c.send("GET_STATE")
	snap := c.readState()
	require.Equal(t, uint64(1), snap.GameID)
	require.Len(t, snap.Pieces, 10)
}
