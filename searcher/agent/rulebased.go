package agent

import (
	"contrast/game"

	"golang.org/x/exp/rand"
)

// The two rule-based families share the distance-race machinery: Manhattan
// distance from a piece to the nearest empty cell of its goal row.

func distanceToNearestEmptyGoal(s *game.GameState, x, y int, p game.Player) int {
	goal := p.GoalRow()
	best := 1000
	for gx := 0; gx < game.BoardWidth; gx++ {
		if s.Board().At(gx, goal).Occupant == game.NoPlayer {
			dist := abs(x-gx) + abs(y-goal)
			if dist < best {
				best = dist
			}
		}
	}
	if best == 1000 {
		best = abs(y - goal)
	}
	return best
}

func minDistanceToEmptyGoal(s *game.GameState, p game.Player) int {
	best := 1000
	for y := 0; y < game.BoardHeight; y++ {
		for x := 0; x < game.BoardWidth; x++ {
			if s.Board().At(x, y).Occupant == p {
				if d := distanceToNearestEmptyGoal(s, x, y, p); d < best {
					best = d
				}
			}
		}
	}
	return best
}

func winsNow(s *game.GameState, m game.Move) bool {
	next := s.Clone()
	next.ApplyMove(m)
	return game.IsWin(&next, s.ToMove())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type ruleBased1 struct {
	rng *rand.Rand
}

// NewRuleBased1 is the first heuristic family: take an immediate win, else
// push the piece closest to the goal forward, with a mild preference for the
// center.
func NewRuleBased1(seed uint64) Agent {
	return &ruleBased1{rng: rand.New(rand.NewSource(seed))}
}

func (a *ruleBased1) Name() string { return "rulebased1" }

func (a *ruleBased1) FindMove(s *game.GameState) (game.Move, bool) {
	moves := game.LegalMoves(s)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	p := s.ToMove()

	for _, m := range moves {
		if !m.PlaceTile && winsNow(s, m) {
			return m, true
		}
	}

	bestScore := -1 << 30
	var best []game.Move
	for _, m := range moves {
		if m.PlaceTile {
			continue
		}
		before := distanceToNearestEmptyGoal(s, m.SX, m.SY, p)
		after := distanceToNearestEmptyGoal(s, m.DX, m.DY, p)
		closeness := (5 - before) * 10
		progress := before - after
		central := -(abs(m.DX-2) + abs(m.DY-2))
		score := closeness + progress*5 + central
		switch {
		case score > bestScore:
			bestScore = score
			best = best[:0]
			best = append(best, m)
		case score == bestScore:
			best = append(best, m)
		}
	}
	if len(best) == 0 {
		return moves[a.rng.Intn(len(moves))], true
	}
	return best[a.rng.Intn(len(best))], true
}

type ruleBased2 struct {
	rng *rand.Rand
}

// NewRuleBased2 is the stronger family: win now, otherwise race by the
// nearest-empty-goal distance of the position a move leaves behind. While the
// opponent is within two steps of an empty goal cell, every tile-placing move
// gets a bonus; the tile's cell is not chosen to block the opponent's path.
func NewRuleBased2(seed uint64) Agent {
	return &ruleBased2{rng: rand.New(rand.NewSource(seed))}
}

func (a *ruleBased2) Name() string { return "rulebased2" }

func (a *ruleBased2) FindMove(s *game.GameState) (game.Move, bool) {
	moves := game.LegalMoves(s)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	p := s.ToMove()
	opp := p.Opponent()

	for _, m := range moves {
		if !m.PlaceTile && winsNow(s, m) {
			return m, true
		}
	}

	// race score: our distance minus theirs, after the move; smaller ours,
	// larger theirs is better
	bestScore := -1 << 30
	var best []game.Move
	threatened := minDistanceToEmptyGoal(s, opp) <= 2

	for _, m := range moves {
		next := s.Clone()
		next.ApplyMove(m)
		if game.IsWin(&next, opp) {
			continue
		}
		ours := minDistanceToEmptyGoal(&next, p)
		theirs := minDistanceToEmptyGoal(&next, opp)
		score := (theirs - ours) * 10

		if m.PlaceTile {
			if threatened {
				// a tile dropped while the opponent is closing in is
				// usually the only way to change the race
				score += 4
			} else {
				score -= 6 // hold the stock otherwise
			}
		}
		switch {
		case score > bestScore:
			bestScore = score
			best = best[:0]
			best = append(best, m)
		case score == bestScore:
			best = append(best, m)
		}
	}
	if len(best) == 0 {
		// every move hands the opponent the win; play anything
		return moves[a.rng.Intn(len(moves))], true
	}
	return best[a.rng.Intn(len(best))], true
}
