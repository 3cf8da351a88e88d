package ntuple

import "contrast/game"

// Encoding selects how cells map to weight-table digits.
//
// Separate keeps one alphabet-3 table per pattern for pieces and another for
// tiles (~MB of weights). Combined uses a single alphabet-9 table per pattern
// (~GB) and exists for research runs only.
type Encoding int

const (
	Separate Encoding = iota
	Combined
)

// Tuple is a fixed set of up to 25 cell indices (y*5+x).
type Tuple struct {
	cells []int
}

func (t Tuple) numStates(base int64) int64 {
	n := int64(1)
	for range t.cells {
		n *= base
	}
	return n
}

// pieceIndex folds the occupant digits (0 empty, 1 mine, 2 opponent) seen
// from p's viewpoint.
func (t Tuple) pieceIndex(b *game.Board, p game.Player) int64 {
	var idx int64
	for _, ci := range t.cells {
		x, y := ci%game.BoardWidth, ci/game.BoardWidth
		idx = idx*3 + int64(encodePiece(b.At(x, y), p))
	}
	return idx
}

// tileIndex folds the tile digits (0 none, 1 black, 2 gray); tiles are not
// viewpoint dependent.
func (t Tuple) tileIndex(b *game.Board) int64 {
	var idx int64
	for _, ci := range t.cells {
		x, y := ci%game.BoardWidth, ci/game.BoardWidth
		idx = idx*3 + int64(b.At(x, y).Tile)
	}
	return idx
}

// combinedIndex folds piece*3+tile digits in base 9.
func (t Tuple) combinedIndex(b *game.Board, p game.Player) int64 {
	var idx int64
	for _, ci := range t.cells {
		x, y := ci%game.BoardWidth, ci/game.BoardWidth
		cell := b.At(x, y)
		idx = idx*9 + int64(encodePiece(cell, p)*3+int(cell.Tile))
	}
	return idx
}

func encodePiece(c game.Cell, p game.Player) int {
	switch c.Occupant {
	case game.NoPlayer:
		return 0
	case p:
		return 1
	default:
		return 2
	}
}

// basePatterns returns the sixteen pattern shapes: four horizontal 5x2
// strips, three vertical 5x2 strips, six overlapping 3x3 squares, and three
// mixed T/diagonal nine-cell shapes.
func basePatterns() []Tuple {
	shapes := [][]int{
		/*
		  0,  1,  2,  3,  4,
		  5,  6,  7,  8,  9,
		 10, 11, 12, 13, 14,
		 15, 16, 17, 18, 19,
		 20, 21, 22, 23, 24,
		*/

		// horizontal 5x2 strips
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
		{10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
		{15, 16, 17, 18, 19, 20, 21, 22, 23, 24},

		// vertical 5x2 strips
		{0, 5, 10, 15, 20, 1, 6, 11, 16, 21},
		{1, 6, 11, 16, 21, 2, 7, 12, 17, 22},
		{2, 7, 12, 17, 22, 3, 8, 13, 18, 23},

		// 3x3 squares
		{0, 1, 2, 5, 6, 7, 10, 11, 12},
		{1, 2, 3, 6, 7, 8, 11, 12, 13},
		{5, 6, 7, 10, 11, 12, 15, 16, 17},
		{6, 7, 8, 11, 12, 13, 16, 17, 18},
		{10, 11, 12, 15, 16, 17, 20, 21, 22},
		{11, 12, 13, 16, 17, 18, 21, 22, 23},

		// T and diagonal shapes
		{0, 1, 2, 3, 4, 5, 10, 15, 20},
		{0, 1, 2, 3, 4, 6, 11, 16, 21},
		{0, 1, 2, 3, 4, 7, 12, 17, 22},
	}

	tuples := make([]Tuple, len(shapes))
	for i, s := range shapes {
		tuples[i] = Tuple{cells: s}
	}
	return tuples
}
