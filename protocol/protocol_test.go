package protocol

import (
	"strings"
	"testing"

	"contrast/game"

	"github.com/stretchr/testify/require"
)

func TestCoordMapping(t *testing.T) {
	t.Run("rank one is the bottom row", func(t *testing.T) {
		x, y, err := ParseCoord("a1")
		require.NoError(t, err)
		require.Equal(t, 0, x)
		require.Equal(t, 4, y)
	})

	t.Run("rank five is the top row", func(t *testing.T) {
		x, y, err := ParseCoord("e5")
		require.NoError(t, err)
		require.Equal(t, 4, x)
		require.Equal(t, 0, y)
	})

	t.Run("case insensitive", func(t *testing.T) {
		x, y, err := ParseCoord("C3")
		require.NoError(t, err)
		require.Equal(t, 2, x)
		require.Equal(t, 2, y)
	})

	t.Run("round trip", func(t *testing.T) {
		for y := 0; y < game.BoardHeight; y++ {
			for x := 0; x < game.BoardWidth; x++ {
				px, py, err := ParseCoord(FormatCoord(x, y))
				require.NoError(t, err)
				require.Equal(t, x, px)
				require.Equal(t, y, py)
			}
		}
	})

	t.Run("rejects out of bounds", func(t *testing.T) {
		for _, coord := range []string{"f1", "a6", "a", "a12", ""} {
			_, _, err := ParseCoord(coord)
			require.ErrorIs(t, err, ErrBadCoord, coord)
		}
	})
}

func TestParseMove(t *testing.T) {
	t.Run("plain move", func(t *testing.T) {
		m, err := ParseMove("a5,a4 -1")
		require.NoError(t, err)
		require.Equal(t, "a5", m.Origin)
		require.Equal(t, "a4", m.Target)
		require.True(t, m.Tile.Skip)
		require.Zero(t, m.GameID)
		require.Zero(t, m.MoveID)
	})

	t.Run("tile placement", func(t *testing.T) {
		m, err := ParseMove("b5,b4 c3g")
		require.NoError(t, err)
		require.False(t, m.Tile.Skip)
		require.Equal(t, "c3", m.Tile.Coord)
		require.Equal(t, byte('g'), m.Tile.Color)
	})

	t.Run("id suffix", func(t *testing.T) {
		m, err := ParseMove("a5,a4 -1 7 12")
		require.NoError(t, err)
		require.Equal(t, uint64(7), m.GameID)
		require.Equal(t, uint64(12), m.MoveID)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, text := range []string{"", "a5a4 -1", "a5,a4,b2 -1", "a5,a4", "a5,a4 c3x", "z9,a4 -1"} {
			_, err := ParseMove(text)
			require.Error(t, err, text)
		}
	})
}

// parse(format(m)) == m over the whole legal move set
func TestMoveRoundTrip(t *testing.T) {
	s := game.NewGameState()
	for _, gm := range game.LegalMoves(&s) {
		wire := FromGameMove(gm)
		parsed, err := ParseMove(FormatMove(wire))
		require.NoError(t, err)

		back, err := ToGameMove(parsed)
		require.NoError(t, err)
		require.True(t, gm.Equal(back), "move %+v", gm)
	}
}

func TestStateMessage(t *testing.T) {
	s := game.NewGameState()
	snap := BuildSnapshot(&s, 3, "ongoing", "a5,a4 -1")

	msg := BuildStateMessage(snap)

	t.Run("framing", func(t *testing.T) {
		require.True(t, strings.HasPrefix(msg, "STATE\n"))
		require.True(t, strings.HasSuffix(msg, "END\n"))
		require.Contains(t, msg, "game_id=3\n")
		require.Contains(t, msg, "turn=X\n")
		require.Contains(t, msg, "status=ongoing\n")
	})

	t.Run("round trip", func(t *testing.T) {
		lines := strings.Split(strings.TrimSuffix(msg, "\n"), "\n")
		parsed, err := ParseStateBlock(lines[1 : len(lines)-1])
		require.NoError(t, err)

		require.Equal(t, snap.GameID, parsed.GameID)
		require.Equal(t, snap.Turn, parsed.Turn)
		require.Equal(t, snap.Status, parsed.Status)
		require.Equal(t, snap.LastMove, parsed.LastMove)
		require.Equal(t, snap.Pieces, parsed.Pieces)
		require.Equal(t, snap.Tiles, parsed.Tiles)
		require.Equal(t, snap.StockBlack, parsed.StockBlack)
		require.Equal(t, snap.StockGray, parsed.StockGray)
	})

	t.Run("initial layout", func(t *testing.T) {
		// Black on rank 5 (internal row 0), White on rank 1
		require.Equal(t, byte('X'), snap.Pieces["a5"])
		require.Equal(t, byte('O'), snap.Pieces["a1"])
		require.Len(t, snap.Pieces, 10)
		require.Empty(t, snap.Tiles)
		require.Equal(t, 3, snap.StockBlack['X'])
		require.Equal(t, 1, snap.StockGray['O'])
	})
}

func TestRenderBoard(t *testing.T) {
	s := game.NewGameState()
	snap := BuildSnapshot(&s, 1, "ongoing", "")

	out := RenderBoard(snap.Pieces, snap.Tiles)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	require.Contains(t, lines[0], "5|")
	require.Contains(t, lines[0], "X")
	require.Contains(t, lines[4], "O")
	require.Contains(t, lines[5], "a")

	t.Run("tiles render as glyphs", func(t *testing.T) {
		out := RenderBoard(map[string]byte{}, map[string]byte{"c3": 'b', "d3": 'g'})
		require.Contains(t, out, "[]")
		require.Contains(t, out, "()")
	})
}
