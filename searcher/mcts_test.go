package searcher

import (
	"testing"

	"contrast/game"
	"contrast/ntuple"

	"github.com/stretchr/testify/require"
)

func TestMCTSFindsWinInOne(t *testing.T) {
	m := NewMCTS(ntuple.NewNetwork(ntuple.Separate))
	s := winInOneState()

	move, ok := m.Search(&s, 400, 0)
	require.True(t, ok)

	next := s.Clone()
	next.ApplyMove(move)
	require.True(t, game.IsWin(&next, game.Black), "winning child gets the visits")
}

func TestMCTSVisitMonotonicity(t *testing.T) {
	m := NewMCTS(ntuple.NewNetwork(ntuple.Separate))
	s := game.NewGameState()

	const iterations = 200
	tree := newMCTSTree(s.Clone())
	m.expand(tree, 0)
	for i := 0; i < iterations; i++ {
		leaf := m.selectNode(tree, 0)
		if tree.nodes[leaf].visits > 0 && !tree.nodes[leaf].terminal {
			m.expand(tree, leaf)
			if kids := tree.nodes[leaf].children; len(kids) > 0 {
				leaf = kids[0]
			}
		}
		value := m.simulate(&tree.nodes[leaf])
		backpropagate(tree, leaf, value)
	}

	require.Equal(t, iterations, tree.nodes[0].visits)
	sum := 0
	for _, ci := range tree.nodes[0].children {
		sum += tree.nodes[ci].visits
	}
	require.Equal(t, iterations, sum, "each iteration increments exactly one root child path")
}

func TestMCTSNoMoves(t *testing.T) {
	var b game.Board
	b.SetOccupant(0, 2, game.Black)
	b.SetOccupant(1, 2, game.White)
	b.SetOccupant(0, 1, game.White)
	b.SetOccupant(0, 3, game.White)
	s := game.NewGameStateFrom(b, game.TileInventory{}, game.TileInventory{}, game.Black)

	m := NewMCTS(ntuple.NewNetwork(ntuple.Separate))
	_, ok := m.Search(&s, 50, 0)
	require.False(t, ok)
}

func TestMCTSReturnsLegalMove(t *testing.T) {
	m := NewMCTS(ntuple.NewNetwork(ntuple.Separate))
	s := game.NewGameState()

	move, ok := m.Search(&s, 100, 0)
	require.True(t, ok)
	require.True(t, containsLegal(&s, move))
}

func TestUCB1(t *testing.T) {
	s := game.NewGameState()
	tree := newMCTSTree(s.Clone())
	child := tree.addChild(0, game.Move{SX: 0, SY: 0, DX: 0, DY: 1}, s.Clone(), false)

	t.Run("unvisited child scores infinity", func(t *testing.T) {
		require.True(t, tree.ucb1(child, DefaultExploration) > 1e18)
	})

	t.Run("negates the child average", func(t *testing.T) {
		tree.nodes[0].visits = 10
		tree.nodes[child].visits = 4
		tree.nodes[child].totalValue = 2.0 // good for the child's side

		score := tree.ucb1(child, 0) // exploration off isolates exploitation
		require.InDelta(t, -0.5, score, 1e-9, "good for the child is bad for the parent")
	})
}
