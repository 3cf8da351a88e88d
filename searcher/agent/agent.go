// Package agent collects the decision-making policies that can sit behind a
// client: random, heuristic, network-greedy, and the two searchers.
package agent

import "contrast/game"

// Agent produces a legal move for any reachable state. ok is false only when
// the side to move has no legal moves.
type Agent interface {
	FindMove(s *game.GameState) (move game.Move, ok bool)
	Name() string
}
