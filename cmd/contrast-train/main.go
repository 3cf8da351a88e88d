// contrast-train runs offline TD(0) self-play: the network plays both seats,
// every ply is nudged toward the next ply's evaluation (or the ±1 terminal),
// and weights are checkpointed periodically.
package main

import (
	"flag"
	"os"

	"contrast/config"
	"contrast/game"
	"contrast/ntuple"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(config.LogLevel())

	games := flag.Int("games", 10000, "self-play games to run")
	learningRate := flag.Float64("lr", 0.01, "TD learning rate")
	epsilon := flag.Float64("epsilon", 0.1, "exploration: fraction of random moves")
	checkpoint := flag.Int("checkpoint", 1000, "save weights every N games")
	maxPlies := flag.Int("max-plies", 200, "abandon games longer than this")
	weightsPath := flag.String("weights", config.WeightsFile(), "weight file to load and save")
	seed := flag.Uint64("seed", 1, "rng seed")
	flag.Parse()

	net := ntuple.NewNetwork(ntuple.Separate)
	if err := net.Load(*weightsPath); err != nil {
		log.Info().Str("path", *weightsPath).Msg("starting from fresh weights")
	}

	rng := rand.New(rand.NewSource(*seed))
	policy := ntuple.NewPolicy(net, rng.Uint64())

	var xWins, oWins, draws int
	for g := 1; g <= *games; g++ {
		result := playTrainingGame(net, policy, rng, float32(*learningRate), *epsilon, *maxPlies)
		switch result {
		case game.Black:
			xWins++
		case game.White:
			oWins++
		default:
			draws++
		}

		if g%*checkpoint == 0 {
			if err := net.Save(*weightsPath); err != nil {
				log.Error().Err(err).Msg("checkpoint failed")
				os.Exit(1)
			}
			log.Info().
				Int("games", g).
				Int("x_wins", xWins).
				Int("o_wins", oWins).
				Int("draws", draws).
				Msg("checkpoint saved")
		}
	}

	if err := net.Save(*weightsPath); err != nil {
		log.Error().Err(err).Msg("final save failed")
		os.Exit(1)
	}
	log.Info().Int("games", *games).Str("path", *weightsPath).Msg("training complete")
}

// playTrainingGame plays one game, updating after every ply with the next
// state's evaluation as target. Returns the winner, or NoPlayer for a draw.
func playTrainingGame(net *ntuple.Network, policy *ntuple.Policy, rng *rand.Rand,
	lr float32, epsilon float64, maxPlies int) game.Player {
	s := game.NewGameState()

	for ply := 0; ply < maxPlies; ply++ {
		moves := game.LegalMoves(&s)
		if len(moves) == 0 {
			// side to move is trapped and loses
			net.TDUpdate(&s, -1, lr)
			return s.ToMove().Opponent()
		}
		if game.IsDraw(&s) {
			net.TDUpdate(&s, 0, lr)
			return game.NoPlayer
		}

		var move game.Move
		if rng.Float64() < epsilon {
			move = moves[rng.Intn(len(moves))]
		} else {
			move, _ = policy.Pick(&s)
		}

		next := s.Clone()
		next.ApplyMove(move)

		mover := s.ToMove()
		if game.IsWin(&next, mover) {
			net.TDUpdate(&s, 1, lr)
			return mover
		}
		// bootstrap: the next state's value is the opponent's, so negate
		net.TDUpdate(&s, -net.Evaluate(&next), lr)
		s = next
	}
	return game.NoPlayer
}
