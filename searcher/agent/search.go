package agent

import (
	"fmt"

	"contrast/game"
	"contrast/ntuple"
	"contrast/searcher"

	"github.com/rs/zerolog/log"
)

type alphaBetaAgent struct {
	engine *searcher.AlphaBeta
	depth  int
}

// NewAlphaBeta searches to depth with the iterative-deepening negamax
// engine; CONTRAST_MOVE_TIME turns the budget time-bounded.
func NewAlphaBeta(weightsPath string, depth int) Agent {
	net := ntuple.NewNetwork(ntuple.Separate)
	if weightsPath != "" {
		if err := net.Load(weightsPath); err != nil {
			log.Warn().Err(err).Str("path", weightsPath).Msg("ntuple weights not loaded")
		}
	}
	return &alphaBetaAgent{engine: searcher.NewAlphaBeta(net), depth: depth}
}

func (a *alphaBetaAgent) Name() string { return fmt.Sprintf("alphabeta:%d", a.depth) }

func (a *alphaBetaAgent) FindMove(s *game.GameState) (game.Move, bool) {
	return a.engine.Search(s, a.depth, 0)
}

type mctsAgent struct {
	engine     *searcher.MCTS
	iterations int
}

// NewMCTS runs the UCB1 tree search for the given number of iterations.
func NewMCTS(weightsPath string, iterations int) Agent {
	net := ntuple.NewNetwork(ntuple.Separate)
	if weightsPath != "" {
		if err := net.Load(weightsPath); err != nil {
			log.Warn().Err(err).Str("path", weightsPath).Msg("ntuple weights not loaded")
		}
	}
	return &mctsAgent{engine: searcher.NewMCTS(net), iterations: iterations}
}

func (a *mctsAgent) Name() string { return fmt.Sprintf("mcts:%d", a.iterations) }

func (a *mctsAgent) FindMove(s *game.GameState) (game.Move, bool) {
	return a.engine.Search(s, a.iterations, 0)
}
