package agent

import (
	"testing"

	"contrast/game"

	"github.com/stretchr/testify/require"
)

func allAgents(t *testing.T) []Agent {
	t.Helper()
	return []Agent{
		NewRandom(1),
		NewGreedy(2),
		NewRuleBased1(3),
		NewRuleBased2(4),
		NewNTuple("", 5),
		NewAlphaBeta("", 2),
		NewMCTS("", 50),
	}
}

func TestAgentsReturnLegalMoves(t *testing.T) {
	for _, a := range allAgents(t) {
		t.Run(a.Name(), func(t *testing.T) {
			s := game.NewGameState()
			for ply := 0; ply < 6; ply++ {
				move, ok := a.FindMove(&s)
				require.True(t, ok)

				legal := game.LegalMoves(&s)
				found := false
				for _, lm := range legal {
					if lm.Equal(move) {
						found = true
						break
					}
				}
				require.True(t, found, "ply %d: %+v not in legal set", ply, move)

				s.ApplyMove(move)
				if game.IsWin(&s, game.Black) || game.IsWin(&s, game.White) {
					break
				}
			}
		})
	}
}

func TestRuleBasedTakesTheWin(t *testing.T) {
	var b game.Board
	b.SetOccupant(2, 3, game.Black)
	b.SetOccupant(4, 1, game.White)
	s := game.NewGameStateFrom(b, game.TileInventory{Black: 3, Gray: 1}, game.TileInventory{}, game.Black)

	for _, a := range []Agent{NewRuleBased1(1), NewRuleBased2(1)} {
		t.Run(a.Name(), func(t *testing.T) {
			move, ok := a.FindMove(&s)
			require.True(t, ok)

			next := s.Clone()
			next.ApplyMove(move)
			require.True(t, game.IsWin(&next, game.Black))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("model aliases", func(t *testing.T) {
		for _, model := range []string{"random", "rule", "rulebased", "rulebased2", "rulebased1", "ntuple", "alphabeta", "ab", "mcts", "greedy"} {
			a, err := Parse(model, 1)
			require.NoError(t, err, model)
			require.NotNil(t, a)
		}
	})

	t.Run("budget suffix", func(t *testing.T) {
		a, err := Parse("alphabeta:7", 1)
		require.NoError(t, err)
		require.Equal(t, "alphabeta:7", a.Name())

		a, err = Parse("mcts:1000", 1)
		require.NoError(t, err)
		require.Equal(t, "mcts:1000", a.Name())
	})

	t.Run("out of range budgets fall back", func(t *testing.T) {
		a, err := Parse("alphabeta:0", 1)
		require.NoError(t, err)
		require.Equal(t, "alphabeta:5", a.Name())

		a, err = Parse("mcts:notanumber", 1)
		require.NoError(t, err)
		require.Equal(t, "mcts:400", a.Name())
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := Parse("chess960", 1)
		require.Error(t, err)
	})
}
