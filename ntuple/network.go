package ntuple

import (
	"contrast/game"
)

const handStates = 8

// Network is the N-tuple value function: one weight table per pattern, an
// 8-entry hand table, and (with the Separate encoding) a second set of tables
// over the tile field. Weights are learned in Black's viewpoint; Evaluate
// flips the sign for White so callers always see the side-to-move viewpoint.
//
// A Network is not safe for concurrent TDUpdate; during play weights are
// read-only and a Clone gives an agent its own snapshot.
type Network struct {
	encoding    Encoding
	tuples      []Tuple
	weights     [][]float32
	handWeights []float32
	tileTuples  []Tuple
	tileWeights [][]float32
}

// NewNetwork builds the sixteen-pattern network. Tables start at a small
// uniform positive value rather than zero.
func NewNetwork(encoding Encoding) *Network {
	n := &Network{
		encoding: encoding,
		tuples:   basePatterns(),
	}

	initial := float32(0.5) / float32(len(n.tuples)+1)

	base := int64(9)
	if encoding == Separate {
		base = 3
	}
	n.weights = make([][]float32, len(n.tuples))
	for i, t := range n.tuples {
		n.weights[i] = newTable(t.numStates(base), initial)
	}

	n.handWeights = newTable(handStates, initial)

	if encoding == Separate {
		n.tileTuples = basePatterns()
		n.tileWeights = make([][]float32, len(n.tileTuples))
		for i, t := range n.tileTuples {
			n.tileWeights[i] = newTable(t.numStates(3), initial)
		}
	}
	return n
}

func newTable(size int64, initial float32) []float32 {
	w := make([]float32, size)
	for i := range w {
		w[i] = initial
	}
	return w
}

func (n *Network) Encoding() Encoding { return n.encoding }

// Clone returns an independent copy sharing nothing with the receiver.
func (n *Network) Clone() *Network {
	c := &Network{
		encoding:    n.encoding,
		tuples:      n.tuples,
		tileTuples:  n.tileTuples,
		weights:     make([][]float32, len(n.weights)),
		handWeights: append([]float32(nil), n.handWeights...),
		tileWeights: make([][]float32, len(n.tileWeights)),
	}
	for i, w := range n.weights {
		c.weights[i] = append([]float32(nil), w...)
	}
	for i, w := range n.tileWeights {
		c.tileWeights[i] = append([]float32(nil), w...)
	}
	return c
}

// NumWeights is the total entry count across all tables.
func (n *Network) NumWeights() int {
	total := len(n.handWeights)
	for _, w := range n.weights {
		total += len(w)
	}
	for _, w := range n.tileWeights {
		total += len(w)
	}
	return total
}

func handIndex(inv game.TileInventory) int {
	b := inv.Black
	if b > 3 {
		b = 3
	}
	g := inv.Gray
	if g > 1 {
		g = 1
	}
	return b*2 + g
}

// rawSum is the pattern sum before the viewpoint sign flip.
func (n *Network) rawSum(board *game.Board, p game.Player, inv game.TileInventory) float32 {
	var value float32
	if n.encoding == Separate {
		for i, t := range n.tuples {
			value += n.weights[i][t.pieceIndex(board, p)]
		}
		for i, t := range n.tileTuples {
			value += n.tileWeights[i][t.tileIndex(board)]
		}
	} else {
		for i, t := range n.tuples {
			value += n.weights[i][t.combinedIndex(board, p)]
		}
	}
	value += n.handWeights[handIndex(inv)]
	return value
}

// Evaluate scores the state from the side-to-move's viewpoint: positive is
// good for whoever is about to move. The board is canonicalized first so
// mirrored positions share weights.
func (n *Network) Evaluate(s *game.GameState) float32 {
	board := game.CanonicalBoard(s.Board())
	p := s.ToMove()
	value := n.rawSum(&board, p, s.Inventory(p))
	if p == game.White {
		value = -value
	}
	return value
}

// TDUpdate nudges every weight touched by the state toward target, a value in
// the side-to-move's viewpoint (the next ply's evaluation, or a ±1 terminal).
// The learning rate is split evenly across the contributing feature sources.
func (n *Network) TDUpdate(s *game.GameState, target, learningRate float32) {
	board := game.CanonicalBoard(s.Board())
	p := s.ToMove()
	inv := s.Inventory(p)

	raw := n.rawSum(&board, p, inv)
	current := raw
	if p == game.White {
		current = -current
	}

	err := target - current
	// weights live in Black's viewpoint
	if p == game.White {
		err = -err
	}

	components := len(n.tuples) + 1 + len(n.tileTuples)
	step := learningRate / float32(components) * err

	if n.encoding == Separate {
		for i, t := range n.tuples {
			n.weights[i][t.pieceIndex(&board, p)] += step
		}
		for i, t := range n.tileTuples {
			n.tileWeights[i][t.tileIndex(&board)] += step
		}
	} else {
		for i, t := range n.tuples {
			n.weights[i][t.combinedIndex(&board, p)] += step
		}
	}
	n.handWeights[handIndex(inv)] += step
}
