package game

// Symmetry is an element of the board's two-element symmetry group. The goal
// rows distinguish top from bottom, so only the horizontal flip remains.
type Symmetry uint8

const (
	Identity Symmetry = iota
	FlipH
)

// TransformBoard returns the image of b under sym.
func TransformBoard(b *Board, sym Symmetry) Board {
	if sym == Identity {
		return *b
	}
	var out Board
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			out.cells[y*BoardWidth+x] = b.At(BoardWidth-1-x, y)
		}
	}
	return out
}

// cellHash is a base-9 fold of occupant and tile over the cells in row-major
// order, used only to order the two symmetry images.
func cellHash(b *Board) uint64 {
	var h uint64
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			cell := b.At(x, y)
			h = h*9 + uint64(cell.Occupant)*3 + uint64(cell.Tile)
		}
	}
	return h
}

// CanonicalSymmetry picks the symmetry whose image has the smaller cell hash,
// with ties going to Identity.
func CanonicalSymmetry(b *Board) Symmetry {
	flipped := TransformBoard(b, FlipH)
	if cellHash(&flipped) < cellHash(b) {
		return FlipH
	}
	return Identity
}

// CanonicalBoard returns the canonical representative of b's symmetry class.
func CanonicalBoard(b *Board) Board {
	return TransformBoard(b, CanonicalSymmetry(b))
}
