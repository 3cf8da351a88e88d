package game

// fnv-1a style fold over the raw position
const (
	hashOffset = 1469598103934665603
	hashPrime  = 1099511628211
)

// GameState owns a board, both tile inventories, the side to move, and the
// repetition history (position hash -> times seen). It must be mutated only
// through ApplyMove; searchers work on copies made with Clone.
type GameState struct {
	board    Board
	invBlack TileInventory
	invWhite TileInventory
	toMove   Player
	history  map[uint64]int
}

// NewGameState returns the initial position with Black to move and the
// initial hash already counted once in the history.
func NewGameState() GameState {
	var s GameState
	s.Reset()
	return s
}

// NewGameStateFrom builds a state from externally supplied components, e.g. a
// board reconstructed from a wire snapshot. The history starts fresh with the
// given position counted once.
func NewGameStateFrom(board Board, invBlack, invWhite TileInventory, toMove Player) GameState {
	s := GameState{
		board:    board,
		invBlack: invBlack,
		invWhite: invWhite,
		toMove:   toMove,
	}
	s.history = map[uint64]int{s.Hash(): 1}
	return s
}

func (s *GameState) Reset() {
	s.board.Reset()
	s.invBlack = newTileInventory()
	s.invWhite = newTileInventory()
	s.toMove = Black
	s.history = map[uint64]int{s.Hash(): 1}
}

func (s *GameState) Board() *Board  { return &s.board }
func (s *GameState) ToMove() Player { return s.toMove }

// Inventory returns the unplaced tiles of p.
func (s *GameState) Inventory(p Player) TileInventory {
	if p == Black {
		return s.invBlack
	}
	return s.invWhite
}

// WithToMove returns a copy of the state with the side to move overridden.
// Evaluation-symmetry tooling needs this; game play never does.
func (s *GameState) WithToMove(p Player) GameState {
	c := s.Clone()
	c.toMove = p
	return c
}

// Clone deep-copies the state, including the repetition history.
func (s *GameState) Clone() GameState {
	c := *s
	c.history = make(map[uint64]int, len(s.history))
	for h, n := range s.history {
		c.history[h] = n
	}
	return c
}

// HistoryCount reports how many times the position hash h has occurred.
func (s *GameState) HistoryCount(h uint64) int {
	return s.history[h]
}

// ApplyMove transfers the occupant, deposits the tile if the placement cell
// ends up empty and tileless, flips the side to move, and counts the new
// position in the history. It must only be called with moves produced by
// LegalMoves; out-of-bounds coordinates make it a no-op.
func (s *GameState) ApplyMove(m Move) {
	if !s.board.InBounds(m.SX, m.SY) || !s.board.InBounds(m.DX, m.DY) {
		return
	}
	p := s.toMove

	s.board.SetOccupant(m.DX, m.DY, s.board.At(m.SX, m.SY).Occupant)
	s.board.SetOccupant(m.SX, m.SY, NoPlayer)

	if m.PlaceTile && s.board.InBounds(m.TX, m.TY) {
		cell := s.board.At(m.TX, m.TY)
		if cell.Tile == NoTile && cell.Occupant == NoPlayer {
			s.board.SetTile(m.TX, m.TY, m.Tile)
			s.spendTile(p, m.Tile)
		}
	}

	s.toMove = s.toMove.Opponent()
	s.history[s.Hash()]++
}

func (s *GameState) spendTile(p Player, t TileType) {
	inv := &s.invBlack
	if p == White {
		inv = &s.invWhite
	}
	switch t {
	case BlackTile:
		if inv.Black > 0 {
			inv.Black--
		}
	case GrayTile:
		if inv.Gray > 0 {
			inv.Gray--
		}
	}
}

// Hash folds the 25 (occupant, tile) pairs and the side to move into a 64-bit
// position hash.
func (s *GameState) Hash() uint64 {
	h := uint64(hashOffset)
	mix := func(v uint64) {
		h ^= v
		h *= hashPrime
	}
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			cell := s.board.At(x, y)
			mix(uint64(cell.Occupant))
			mix(uint64(cell.Tile))
		}
	}
	mix(uint64(s.toMove))
	return h
}
