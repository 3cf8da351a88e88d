package searcher

import (
	"math"
	"sort"
	"time"

	"contrast/config"
	"contrast/game"
	"contrast/ntuple"

	"github.com/rs/zerolog/log"
)

const winScore = 10000

// Stats are reset at the start of every Search call.
type Stats struct {
	Nodes       int64
	TTHits      int64
	TTCutoffs   int64
	BetaCutoffs int64
	TimeMS      int64
	Depth       int
}

type ABOption func(*AlphaBeta)

func WithoutTranspositionTable() ABOption {
	return func(ab *AlphaBeta) { ab.useTT = false }
}

func WithoutMoveOrdering() ABOption {
	return func(ab *AlphaBeta) { ab.useOrdering = false }
}

// AlphaBeta is an iterative-deepening negamax searcher with a transposition
// table and one-ply move ordering, using the N-tuple network at the leaves.
// It is single-threaded; one instance serves one game at a time.
type AlphaBeta struct {
	net         *ntuple.Network
	tt          transpositionTable
	useTT       bool
	useOrdering bool
	stats       Stats

	deadline time.Time
	timed    bool
	aborted  bool
}

func NewAlphaBeta(net *ntuple.Network, options ...ABOption) *AlphaBeta {
	ab := &AlphaBeta{
		net:         net,
		tt:          make(transpositionTable),
		useTT:       true,
		useOrdering: true,
	}
	for _, option := range options {
		option(ab)
	}
	return ab
}

func (ab *AlphaBeta) Stats() Stats { return ab.stats }

// Search returns the best move for the side to move. maxDepth bounds the
// iterative deepening; a negative maxDepth selects time-only mode. A zero
// limit falls back to CONTRAST_MOVE_TIME; when a limit applies, the move from
// the deepest fully completed depth is returned and the in-flight depth is
// discarded at the deadline.
func (ab *AlphaBeta) Search(s *game.GameState, maxDepth int, limit time.Duration) (game.Move, bool) {
	ab.stats = Stats{}
	ab.tt = make(transpositionTable)

	if limit <= 0 {
		limit = config.MoveTime()
	}

	start := time.Now()
	var best game.Move
	var found bool
	if limit > 0 {
		best, found = ab.deepenTimed(s, start.Add(limit), maxDepth)
	} else {
		if maxDepth < 0 {
			// time-only mode with no budget anywhere: fall back to a
			// single shallow iteration rather than spin forever
			maxDepth = 1
		}
		best, found = ab.deepen(s, maxDepth)
	}
	ab.stats.TimeMS = time.Since(start).Milliseconds()

	log.Debug().
		Int("depth", ab.stats.Depth).
		Int64("nodes", ab.stats.Nodes).
		Int64("tt_hits", ab.stats.TTHits).
		Int64("beta_cutoffs", ab.stats.BetaCutoffs).
		Int64("ms", ab.stats.TimeMS).
		Msg("alphabeta search complete")

	return best, found
}

func (ab *AlphaBeta) deepen(s *game.GameState, maxDepth int) (game.Move, bool) {
	ab.timed = false
	var best game.Move
	var found bool
	for d := 1; d <= maxDepth; d++ {
		value, move, ok := ab.searchRoot(s, d)
		if !ok {
			break
		}
		best, found = move, true
		ab.stats.Depth = d
		log.Debug().Int("depth", d).Float32("value", value).Int64("nodes", ab.stats.Nodes).Msg("depth complete")
	}
	return best, found
}

func (ab *AlphaBeta) deepenTimed(s *game.GameState, deadline time.Time, maxDepth int) (game.Move, bool) {
	ab.timed = true
	ab.deadline = deadline

	var best game.Move
	var found bool
	for d := 1; maxDepth < 0 || d <= maxDepth; d++ {
		if !time.Now().Before(deadline) {
			break
		}
		ab.aborted = false
		value, move, ok := ab.searchRoot(s, d)
		if ab.aborted || !ok {
			// partial depth: keep the previous fully completed result
			break
		}
		best, found = move, true
		ab.stats.Depth = d
		log.Debug().Int("depth", d).Float32("value", value).Int64("nodes", ab.stats.Nodes).Msg("depth complete")
	}
	return best, found
}

func (ab *AlphaBeta) searchRoot(s *game.GameState, depth int) (float32, game.Move, bool) {
	moves := game.LegalMoves(s)
	if len(moves) == 0 {
		return -winScore, game.Move{}, false
	}
	ab.orderMoves(moves, s, game.Move{})

	alpha := float32(math.Inf(-1))
	beta := float32(math.Inf(1))
	best := moves[0]
	bestValue := float32(math.Inf(-1))

	for _, m := range moves {
		next := s.Clone()
		next.ApplyMove(m)
		value := -ab.negamax(&next, depth-1, -beta, -alpha)
		if ab.aborted {
			return 0, game.Move{}, false
		}
		if value > bestValue {
			bestValue = value
			best = m
		}
		if value > alpha {
			alpha = value
		}
	}
	return bestValue, best, true
}

func (ab *AlphaBeta) negamax(s *game.GameState, depth int, alpha, beta float32) float32 {
	ab.stats.Nodes++
	if ab.timed && ab.stats.Nodes%1024 == 0 && !time.Now().Before(ab.deadline) {
		ab.aborted = true
		return 0
	}

	moves := game.LegalMoves(s)
	if len(moves) == 0 {
		return -winScore
	}
	if v, terminal := terminalValue(s); terminal {
		return v
	}
	if depth <= 0 {
		return ab.net.Evaluate(s)
	}

	alpha0 := alpha
	hash := s.Hash()
	var ttMove game.Move
	if ab.useTT {
		entry, hit, usable := ab.tt.probe(hash, depth, alpha, beta)
		if hit {
			ab.stats.TTHits++
			ttMove = entry.best
		}
		if usable {
			ab.stats.TTCutoffs++
			return entry.value
		}
	}

	ab.orderMoves(moves, s, ttMove)

	best := float32(math.Inf(-1))
	bestMove := moves[0]
	for _, m := range moves {
		next := s.Clone()
		next.ApplyMove(m)
		value := -ab.negamax(&next, depth-1, -beta, -alpha)
		if ab.aborted {
			return 0
		}
		if value > best {
			best = value
			bestMove = m
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			ab.stats.BetaCutoffs++
			break
		}
	}

	if ab.useTT {
		flag := ttExact
		if best <= alpha0 {
			flag = ttUpper
		} else if best >= beta {
			flag = ttLower
		}
		ab.tt.store(hash, best, depth, flag, bestMove)
	}
	return best
}

// terminalValue detects a decided position: ±winScore scaled so that winning
// for the side to move is positive.
func terminalValue(s *game.GameState) (float32, bool) {
	p := s.ToMove()
	if game.IsWin(s, game.Black) {
		if p == game.Black {
			return winScore, true
		}
		return -winScore, true
	}
	if game.IsWin(s, game.White) {
		if p == game.White {
			return winScore, true
		}
		return -winScore, true
	}
	return 0, false
}

// orderMoves sorts by the one-ply negamax score, best first; a known TT move
// goes to the front regardless.
func (ab *AlphaBeta) orderMoves(moves []game.Move, s *game.GameState, ttMove game.Move) {
	if ab.useOrdering && len(moves) > 1 {
		type scored struct {
			move  game.Move
			value float32
		}
		arr := make([]scored, len(moves))
		for i, m := range moves {
			next := s.Clone()
			next.ApplyMove(m)
			arr[i] = scored{move: m, value: -ab.net.Evaluate(&next)}
		}
		sort.SliceStable(arr, func(i, j int) bool {
			return arr[i].value > arr[j].value
		})
		for i := range arr {
			moves[i] = arr[i].move
		}
	}

	if ttMove != (game.Move{}) {
		for i, m := range moves {
			if m.Equal(ttMove) {
				copy(moves[1:i+1], moves[:i])
				moves[0] = ttMove
				break
			}
		}
	}
}
