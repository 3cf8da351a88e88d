package ntuple

import (
	"contrast/game"

	"golang.org/x/exp/rand"
)

const tieEpsilon = 1e-6

// Policy plays the network greedily: it picks the move whose resulting
// position scores best for us (one-ply negamax), breaking ties uniformly at
// random.
type Policy struct {
	net *Network
	rng *rand.Rand
}

func NewPolicy(net *Network, seed uint64) *Policy {
	return &Policy{
		net: net,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (p *Policy) Network() *Network { return p.net }

// Pick returns the greedy move, or false when the side to move has none.
func (p *Policy) Pick(s *game.GameState) (game.Move, bool) {
	moves := game.LegalMoves(s)
	if len(moves) == 0 {
		return game.Move{}, false
	}

	best := float32(-1e9)
	var bestMoves []game.Move
	for _, m := range moves {
		next := s.Clone()
		next.ApplyMove(m)
		// the child evaluates for the opponent; negate to our viewpoint
		value := -p.net.Evaluate(&next)

		switch {
		case value > best+tieEpsilon:
			best = value
			bestMoves = bestMoves[:0]
			bestMoves = append(bestMoves, m)
		case value > best-tieEpsilon:
			bestMoves = append(bestMoves, m)
		}
	}
	return bestMoves[p.rng.Intn(len(bestMoves))], true
}
