package game

// Move is a piece displacement plus an optional tile placement. Coordinates
// are board-internal (x right, y down from Black's home row).
type Move struct {
	SX, SY int // origin
	DX, DY int // destination
	// optional tile placement after the piece has moved
	PlaceTile bool
	TX, TY    int
	Tile      TileType
}

// Equal compares two moves; tile fields are ignored when neither places.
func (m Move) Equal(o Move) bool {
	if m.SX != o.SX || m.SY != o.SY || m.DX != o.DX || m.DY != o.DY {
		return false
	}
	if m.PlaceTile != o.PlaceTile {
		return false
	}
	if !m.PlaceTile {
		return true
	}
	return m.TX == o.TX && m.TY == o.TY && m.Tile == o.Tile
}
