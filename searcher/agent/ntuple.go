package agent

import (
	"contrast/game"
	"contrast/ntuple"

	"github.com/rs/zerolog/log"
)

type ntupleAgent struct {
	policy *ntuple.Policy
}

// NewNTuple plays the network greedily. Weights load best-effort from
// weightsPath; a missing or mismatched file leaves the fresh network in
// place.
func NewNTuple(weightsPath string, seed uint64) Agent {
	net := ntuple.NewNetwork(ntuple.Separate)
	if weightsPath != "" {
		if err := net.Load(weightsPath); err != nil {
			log.Warn().Err(err).Str("path", weightsPath).Msg("ntuple weights not loaded")
		}
	}
	return &ntupleAgent{policy: ntuple.NewPolicy(net, seed)}
}

// NewNTupleWithNetwork shares a prepared network, e.g. one under training.
func NewNTupleWithNetwork(net *ntuple.Network, seed uint64) Agent {
	return &ntupleAgent{policy: ntuple.NewPolicy(net, seed)}
}

func (a *ntupleAgent) Name() string { return "ntuple" }

func (a *ntupleAgent) FindMove(s *game.GameState) (game.Move, bool) {
	return a.policy.Pick(s)
}
