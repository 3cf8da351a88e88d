package searcher

import (
	"math"
	"time"

	"contrast/game"
	"contrast/ntuple"

	"github.com/rs/zerolog/log"
)

// DefaultExploration is the UCB1 exploration constant.
const DefaultExploration = 1.414

type MCTSOption func(*MCTS)

func WithExploration(c float64) MCTSOption {
	return func(m *MCTS) {
		if c > 0 {
			m.exploration = c
		}
	}
}

// MCTS runs UCB1 tree search with network-backed leaf evaluation and negamax
// backpropagation. The tree is discarded at the end of each Search call.
type MCTS struct {
	net         *ntuple.Network
	exploration float64
}

func NewMCTS(net *ntuple.Network, options ...MCTSOption) *MCTS {
	m := &MCTS{
		net:         net,
		exploration: DefaultExploration,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search runs the given number of iterations (bounded by limit when nonzero)
// and returns the root child with the most visits, ties to the first
// encountered. false means the side to move has no legal moves.
func (m *MCTS) Search(s *game.GameState, iterations int, limit time.Duration) (game.Move, bool) {
	tree := newMCTSTree(s.Clone())
	// expanding the root up front means every iteration lands on a root
	// child path, so the children's visit counts sum to the iteration count
	m.expand(tree, 0)

	var deadline time.Time
	if limit > 0 {
		deadline = time.Now().Add(limit)
	}

	for i := 0; i < iterations; i++ {
		if limit > 0 && !time.Now().Before(deadline) {
			break
		}
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

	root := &tree.nodes[0]
	if len(root.children) == 0 {
		return game.Move{}, false
	}

	bestIdx := root.children[0]
	for _, ci := range root.children[1:] {
		if tree.nodes[ci].visits > tree.nodes[bestIdx].visits {
			bestIdx = ci
		}
	}
	best := &tree.nodes[bestIdx]

	log.Debug().
		Int("visits", best.visits).
		Float64("avg_value", best.totalValue/math.Max(float64(best.visits), 1)).
		Int("tree_size", len(tree.nodes)).
		Msg("mcts search complete")

	return best.move, true
}

// selectNode descends while the node is expanded and non-terminal, following
// the maximum UCB1 child.
func (m *MCTS) selectNode(tree *mctsTree, idx int) int {
	for {
		node := &tree.nodes[idx]
		if node.terminal || !node.expanded || len(node.children) == 0 {
			return idx
		}
		bestChild := -1
		bestScore := math.Inf(-1)
		for _, ci := range node.children {
			score := tree.ucb1(ci, m.exploration)
			if score > bestScore {
				bestScore = score
				bestChild = ci
			}
		}
		idx = bestChild
	}
}

// expand creates one child per legal move. A leaf with no legal moves is
// marked terminal instead.
func (m *MCTS) expand(tree *mctsTree, idx int) {
	if tree.nodes[idx].terminal || tree.nodes[idx].expanded {
		return
	}
	moves := game.LegalMoves(&tree.nodes[idx].state)
	if len(moves) == 0 {
		tree.nodes[idx].terminal = true
		tree.nodes[idx].expanded = true
		return
	}
	for _, move := range moves {
		next := tree.nodes[idx].state.Clone()
		next.ApplyMove(move)
		terminal := isDecided(&next)
		tree.addChild(idx, move, next, terminal)
	}
	tree.nodes[idx].expanded = true
}

// simulate scores a leaf in its own side-to-move viewpoint: ±1 at terminals,
// otherwise the squashed network evaluation.
func (m *MCTS) simulate(node *mctsNode) float64 {
	if node.terminal {
		return terminalReward(&node.state)
	}
	return math.Tanh(float64(m.net.Evaluate(&node.state)) / 3.0)
}

func backpropagate(tree *mctsTree, idx int, value float64) {
	for idx >= 0 {
		node := &tree.nodes[idx]
		node.visits++
		node.totalValue += value
		value = -value
		idx = node.parent
	}
}

func isDecided(s *game.GameState) bool {
	if game.IsWin(s, game.Black) || game.IsWin(s, game.White) {
		return true
	}
	return len(game.LegalMoves(s)) == 0
}

// terminalReward is from the side-to-move's viewpoint at the leaf.
func terminalReward(s *game.GameState) float64 {
	p := s.ToMove()
	if game.IsWin(s, game.Black) {
		if p == game.Black {
			return 1
		}
		return -1
	}
	if game.IsWin(s, game.White) {
		if p == game.White {
			return 1
		}
		return -1
	}
	// no legal moves: the side to move loses
	return -1
}
