package ntuple

import (
	"testing"

	"contrast/game"

	"github.com/stretchr/testify/require"
)

func TestPolicyPick(t *testing.T) {
	t.Run("returns a legal move", func(t *testing.T) {
		p := NewPolicy(NewNetwork(Separate), 1)
		s := game.NewGameState()

		m, ok := p.Pick(&s)
		require.True(t, ok)

		legal := game.LegalMoves(&s)
		found := false
		for _, lm := range legal {
			if lm.Equal(m) {
				found = true
				break
			}
		}
		require.True(t, found)
	})

	t.Run("no moves", func(t *testing.T) {
		var b game.Board
		b.SetOccupant(0, 2, game.Black)
		b.SetOccupant(1, 2, game.White)
		b.SetOccupant(0, 1, game.White)
		b.SetOccupant(0, 3, game.White)
		s := game.NewGameStateFrom(b, game.TileInventory{}, game.TileInventory{}, game.Black)

		p := NewPolicy(NewNetwork(Separate), 1)
		_, ok := p.Pick(&s)
		require.False(t, ok)
	})

	t.Run("prefers the trained-up move", func(t *testing.T) {
		net := NewNetwork(Separate)
		s := game.NewGameState()

		// teach the network that the position after the center push is
		// terrible for the player who then moves (White), i.e. great for
		// us; the center move is its own mirror image, so no other child
		// shares its canonical form
		next := s.Clone()
		want := game.Move{SX: 2, SY: 0, DX: 2, DY: 1}
		next.ApplyMove(want)
		for i := 0; i < 200; i++ {
			net.TDUpdate(&next, -2.0, 0.3)
		}

		p := NewPolicy(net, 3)
		got, ok := p.Pick(&s)
		require.True(t, ok)
		require.True(t, want.Equal(got))
	})
}
