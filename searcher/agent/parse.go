package agent

import (
	"fmt"
	"strconv"
	"strings"

	"contrast/config"
)

const (
	DefaultDepth      = 5
	DefaultIterations = 400

	maxDepth      = 50
	maxIterations = 1_000_000
)

// Parse maps a model string from the client command line to an agent.
// Search budgets ride after a colon ("alphabeta:7", "mcts:1000");
// out-of-range budgets fall back to the defaults. "-" and "manual" are the
// caller's business, not a model.
func Parse(model string, seed uint64) (Agent, error) {
	normalized := strings.ToLower(strings.TrimSpace(model))
	name, budget := normalized, ""
	if i := strings.IndexByte(normalized, ':'); i >= 0 {
		name, budget = normalized[:i], normalized[i+1:]
	}

	weights := config.WeightsFile()

	switch name {
	case "random":
		return NewRandom(seed), nil
	case "greedy":
		return NewGreedy(seed), nil
	case "rule", "rulebase", "rulebased", "rulebased2", "policy2":
		return NewRuleBased2(seed), nil
	case "rulebased1", "policy1":
		return NewRuleBased1(seed), nil
	case "ntuple", "ntuple_big", "ntuplebig":
		return NewNTuple(weights, seed), nil
	case "alphabeta", "ab":
		return NewAlphaBeta(weights, parseBudget(budget, DefaultDepth, maxDepth)), nil
	case "mcts":
		return NewMCTS(weights, parseBudget(budget, DefaultIterations, maxIterations)), nil
	default:
		return nil, fmt.Errorf("unknown model %q", model)
	}
}

func parseBudget(s string, fallback, max int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return fallback
	}
	return n
}
