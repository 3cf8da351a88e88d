// Package client connects an agent (or a human on stdin) to the match server
// over the line protocol.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"contrast/game"
	"contrast/protocol"
	"contrast/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Options configure a client session. Model "-" or "manual" reads moves from
// stdin; anything else goes through agent.Parse.
type Options struct {
	Addr     string
	Role     string
	Name     string
	Model    string
	NumGames int
}

var ErrUnknownModel = errors.New("unknown model")

type Client struct {
	opts   Options
	agent  agent.Agent // nil in manual mode
	conn   net.Conn
	reader *bufio.Reader
	stdin  *bufio.Reader

	role        byte // assigned by the server
	gameID      uint64
	moveID      uint64
	gamesPlayed int
}

// New resolves the model before any connection is made.
func New(opts Options) (*Client, error) {
	if opts.NumGames < 1 {
		opts.NumGames = 1
	}
	c := &Client{
		opts:  opts,
		stdin: bufio.NewReader(os.Stdin),
	}

	model := strings.ToLower(opts.Model)
	if model != "-" && model != "manual" {
		a, err := agent.Parse(opts.Model, uint64(time.Now().UnixNano()))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModel, opts.Model)
		}
		c.agent = a
	}
	return c, nil
}

// Run connects, performs the handshake, and reacts to server messages until
// the configured number of games has finished or the connection drops.
func (c *Client) Run() error {
	conn, err := net.Dial("tcp", c.opts.Addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.opts.Addr, err)
	}
	defer conn.Close()
	c.conn = conn
	c.reader = bufio.NewReader(conn)

	handshake := fmt.Sprintf("ROLE %s %s %s", c.opts.Role, c.opts.Name, c.opts.Model)
	if c.opts.NumGames > 1 {
		handshake += " multi"
	}
	if err := c.sendLine(handshake); err != nil {
		return err
	}
	if err := c.sendLine("READY"); err != nil {
		return err
	}

	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Msg("server closed the connection")
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "STATE":
			snap, err := c.readStateBlock()
			if err != nil {
				return err
			}
			done, err := c.handleSnapshot(snap)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case strings.HasPrefix(line, "INFO "):
			c.handleInfo(line[len("INFO "):])
		case strings.HasPrefix(line, "ERROR "):
			log.Warn().Str("error", line[len("ERROR "):]).Msg("server rejected")
		case strings.HasPrefix(line, "STATS "):
			log.Info().Str("stats", line[len("STATS "):]).Msg("server stats")
		case line == "":
		default:
			log.Debug().Str("line", line).Msg("unhandled server line")
		}
	}
}

func (c *Client) sendLine(line string) error {
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

func (c *Client) readStateBlock() (protocol.Snapshot, error) {
	var lines []string
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return protocol.Snapshot{}, fmt.Errorf("read state block: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "END" {
			break
		}
		lines = append(lines, line)
	}
	return protocol.ParseStateBlock(lines)
}

// handleInfo picks the assigned role out of the ROLE acknowledgement.
func (c *Client) handleInfo(text string) {
	log.Info().Str("info", text).Msg("server")
	const prefix = "You are "
	if strings.HasPrefix(text, prefix) && len(text) > len(prefix) {
		switch text[len(prefix)] {
		case 'X':
			c.role = 'X'
		case 'O':
			c.role = 'O'
		default:
			c.role = 0 // spectator
		}
	}
}

func (c *Client) handleSnapshot(snap protocol.Snapshot) (bool, error) {
	if snap.GameID != c.gameID {
		c.gameID = snap.GameID
		c.moveID = 0
	}

	log.Info().
		Uint64("game_id", snap.GameID).
		Str("status", snap.Status).
		Str("turn", fmt.Sprintf("%c", snap.Turn)).
		Str("last", snap.LastMove).
		Msg("state")
	fmt.Printf("\n%s\n", protocol.RenderBoard(snap.Pieces, snap.Tiles))

	if snap.Status != "ongoing" {
		c.gamesPlayed++
		log.Info().Str("result", snap.Status).Int("played", c.gamesPlayed).Int("target", c.opts.NumGames).Msg("game over")
		if c.gamesPlayed >= c.opts.NumGames {
			return true, nil
		}
		return false, nil
	}

	if c.role == 0 || snap.Turn != c.role {
		return false, nil
	}

	state := SnapshotToState(snap)
	wire, ok := c.chooseMove(&state)
	if !ok {
		log.Warn().Msg("no legal move available")
		return false, nil
	}

	c.moveID++
	payload := fmt.Sprintf("MOVE %s %d %d", protocol.FormatMove(wire), snap.GameID, c.moveID)
	return false, c.sendLine(payload)
}

func (c *Client) chooseMove(state *game.GameState) (protocol.Move, bool) {
	if c.agent != nil {
		move, ok := c.agent.FindMove(state)
		if !ok {
			return protocol.Move{}, false
		}
		return protocol.FromGameMove(move), true
	}
	return c.promptMove(state)
}

// promptMove loops until stdin yields a legal move in wire format.
func (c *Client) promptMove(state *game.GameState) (protocol.Move, bool) {
	legal := game.LegalMoves(state)
	if len(legal) == 0 {
		return protocol.Move{}, false
	}
	for {
		fmt.Printf("your move (e.g. a5,a4 -1 or b5,b4 c3g): ")
		text, err := c.stdin.ReadString('\n')
		if err != nil {
			return protocol.Move{}, false
		}
		wire, err := protocol.ParseMove(strings.TrimSpace(text))
		if err != nil {
			fmt.Printf("cannot parse move: %v\n", err)
			continue
		}
		gm, err := protocol.ToGameMove(wire)
		if err != nil {
			fmt.Printf("cannot parse move: %v\n", err)
			continue
		}
		for _, lm := range legal {
			if lm.Equal(gm) {
				return wire, true
			}
		}
		fmt.Println("that move is not legal here")
	}
}

// SnapshotToState rebuilds a playable state from a wire snapshot. The
// repetition history restarts at the snapshot position.
func SnapshotToState(snap protocol.Snapshot) game.GameState {
	var board game.Board
	for coord, symbol := range snap.Pieces {
		if x, y, err := protocol.ParseCoord(coord); err == nil {
			board.SetOccupant(x, y, protocol.SymbolToPlayer(symbol))
		}
	}
	for coord, color := range snap.Tiles {
		if x, y, err := protocol.ParseCoord(coord); err == nil {
			board.SetTile(x, y, protocol.TileFromChar(color))
		}
	}
	invBlack := game.TileInventory{Black: snap.StockBlack['X'], Gray: snap.StockGray['X']}
	invWhite := game.TileInventory{Black: snap.StockBlack['O'], Gray: snap.StockGray['O']}
	return game.NewGameStateFrom(board, invBlack, invWhite, protocol.SymbolToPlayer(snap.Turn))
}
