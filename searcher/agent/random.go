package agent

import (
	"contrast/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandom picks uniformly among all legal moves.
func NewRandom(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) Name() string { return "random" }

func (a *randomAgent) FindMove(s *game.GameState) (game.Move, bool) {
	moves := game.LegalMoves(s)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	return moves[a.rng.Intn(len(moves))], true
}
