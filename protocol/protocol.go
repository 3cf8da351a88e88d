// Package protocol implements the text wire format: two-character board
// coordinates, MOVE payloads, and the multi-line STATE snapshot.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"contrast/game"
)

var (
	ErrBadCoord = errors.New("invalid board coordinate")
	ErrBadTile  = errors.New("invalid tile descriptor")
	ErrBadMove  = errors.New("invalid move payload")
)

// Coordinates are file a..e plus rank 1..5; rank 1 is the bottom row from
// White's seat, which is internal y=4.

// ParseCoord maps a wire coordinate to internal (x, y).
func ParseCoord(coord string) (int, int, error) {
	coord = strings.ToLower(coord)
	if len(coord) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCoord, coord)
	}
	x := int(coord[0] - 'a')
	rank := int(coord[1] - '1')
	if x < 0 || x >= game.BoardWidth || rank < 0 || rank >= game.BoardHeight {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCoord, coord)
	}
	return x, game.BoardHeight - 1 - rank, nil
}

// FormatCoord maps internal (x, y) to the wire coordinate.
func FormatCoord(x, y int) string {
	return string([]byte{byte('a' + x), byte('1' + (game.BoardHeight - 1 - y))})
}

// TilePlacement is the optional third segment of a MOVE: "-1" to skip or
// "<coord><color>" with color b or g.
type TilePlacement struct {
	Skip  bool
	Coord string
	Color byte
}

func ParseTile(text string) (TilePlacement, error) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "-1" {
		return TilePlacement{Skip: true}, nil
	}
	if len(trimmed) != 3 {
		return TilePlacement{}, fmt.Errorf("%w: %q must look like c3b or -1", ErrBadTile, text)
	}
	if _, _, err := ParseCoord(trimmed[:2]); err != nil {
		return TilePlacement{}, err
	}
	color := trimmed[2]
	if color != 'b' && color != 'g' {
		return TilePlacement{}, fmt.Errorf("%w: unsupported color %q", ErrBadTile, color)
	}
	return TilePlacement{Coord: trimmed[:2], Color: color}, nil
}

// Move is a wire-format move. GameID and MoveID are optional trailing
// integers; zero means "not supplied".
type Move struct {
	Origin string
	Target string
	Tile   TilePlacement
	GameID uint64
	MoveID uint64
}

// ParseMove decodes "<origin>,<target> <tile|-1> [game_id move_id]".
func ParseMove(text string) (Move, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) < 2 {
		return Move{}, fmt.Errorf("%w: need displacement and tile segments", ErrBadMove)
	}

	displacement := fields[0]
	parts := strings.Split(displacement, ",")
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("%w: need exactly one comma between origin and target", ErrBadMove)
	}

	var m Move
	if _, _, err := ParseCoord(parts[0]); err != nil {
		return Move{}, err
	}
	if _, _, err := ParseCoord(parts[1]); err != nil {
		return Move{}, err
	}
	m.Origin = strings.ToLower(parts[0])
	m.Target = strings.ToLower(parts[1])

	tile, err := ParseTile(fields[1])
	if err != nil {
		return Move{}, err
	}
	m.Tile = tile

	if len(fields) >= 4 {
		gid, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return Move{}, fmt.Errorf("%w: bad game_id %q", ErrBadMove, fields[2])
		}
		mid, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return Move{}, fmt.Errorf("%w: bad move_id %q", ErrBadMove, fields[3])
		}
		m.GameID = gid
		m.MoveID = mid
	}
	return m, nil
}

// FormatMove encodes the move without the id suffix.
func FormatMove(m Move) string {
	var sb strings.Builder
	sb.WriteString(m.Origin)
	sb.WriteByte(',')
	sb.WriteString(m.Target)
	sb.WriteByte(' ')
	if m.Tile.Skip {
		sb.WriteString("-1")
	} else {
		sb.WriteString(m.Tile.Coord)
		sb.WriteByte(m.Tile.Color)
	}
	return sb.String()
}

// PlayerSymbol maps Black to X and White to O.
func PlayerSymbol(p game.Player) byte {
	switch p {
	case game.Black:
		return 'X'
	case game.White:
		return 'O'
	default:
		return '?'
	}
}

func SymbolToPlayer(symbol byte) game.Player {
	switch symbol {
	case 'X', 'x':
		return game.Black
	case 'O', 'o':
		return game.White
	default:
		return game.NoPlayer
	}
}

func TileToChar(t game.TileType) byte {
	switch t {
	case game.BlackTile:
		return 'b'
	case game.GrayTile:
		return 'g'
	default:
		return '-'
	}
}

func TileFromChar(c byte) game.TileType {
	switch c {
	case 'b', 'B':
		return game.BlackTile
	case 'g', 'G':
		return game.GrayTile
	default:
		return game.NoTile
	}
}

// ToGameMove converts a wire move to board coordinates.
func ToGameMove(m Move) (game.Move, error) {
	sx, sy, err := ParseCoord(m.Origin)
	if err != nil {
		return game.Move{}, err
	}
	dx, dy, err := ParseCoord(m.Target)
	if err != nil {
		return game.Move{}, err
	}
	out := game.Move{SX: sx, SY: sy, DX: dx, DY: dy}
	if !m.Tile.Skip {
		tx, ty, err := ParseCoord(m.Tile.Coord)
		if err != nil {
			return game.Move{}, err
		}
		out.PlaceTile = true
		out.TX, out.TY = tx, ty
		out.Tile = TileFromChar(m.Tile.Color)
	}
	return out, nil
}

// FromGameMove converts board coordinates to a wire move.
func FromGameMove(m game.Move) Move {
	out := Move{
		Origin: FormatCoord(m.SX, m.SY),
		Target: FormatCoord(m.DX, m.DY),
		Tile:   TilePlacement{Skip: true},
	}
	if m.PlaceTile {
		out.Tile = TilePlacement{
			Coord: FormatCoord(m.TX, m.TY),
			Color: TileToChar(m.Tile),
		}
	}
	return out
}
