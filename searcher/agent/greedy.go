package agent

import (
	"contrast/game"

	"golang.org/x/exp/rand"
)

type greedyAgent struct {
	rng *rand.Rand
}

// NewGreedy advances: it prefers a random forward base move, then any base
// move, and places tiles only when nothing else is legal.
func NewGreedy(seed uint64) Agent {
	return &greedyAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *greedyAgent) Name() string { return "greedy" }

func (a *greedyAgent) FindMove(s *game.GameState) (game.Move, bool) {
	moves := game.LegalMoves(s)
	if len(moves) == 0 {
		return game.Move{}, false
	}

	forward := 1
	if s.ToMove() == game.White {
		forward = -1
	}

	var base []game.Move
	for _, m := range moves {
		if !m.PlaceTile {
			base = append(base, m)
		}
	}
	if len(base) == 0 {
		base = moves
	}

	var ahead []game.Move
	for _, m := range base {
		if (m.DY-m.SY)*forward > 0 {
			ahead = append(ahead, m)
		}
	}
	if len(ahead) > 0 {
		return ahead[a.rng.Intn(len(ahead))], true
	}
	return base[a.rng.Intn(len(base))], true
}
