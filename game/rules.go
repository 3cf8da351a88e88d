package game

var (
	orthoDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingDirs  = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// LegalMoves generates the fully expanded move list for the side to move:
// every base move, plus one variant per legal tile placement cell for each
// tile color still in stock. A placement cell must be tileless, must not be
// the destination, and must be empty once the piece has moved (the vacated
// origin qualifies).
func LegalMoves(s *GameState) []Move {
	b := s.Board()
	p := s.ToMove()

	var base []Move
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			if b.At(x, y).Occupant != p {
				continue
			}
			var dirs [][2]int
			switch b.At(x, y).Tile {
			case NoTile:
				dirs = orthoDirs[:]
			case BlackTile:
				dirs = diagDirs[:]
			default:
				dirs = kingDirs[:]
			}
			for _, d := range dirs {
				tx, ty := x+d[0], y+d[1]
				if !b.InBounds(tx, ty) {
					continue
				}
				switch b.At(tx, ty).Occupant {
				case NoPlayer:
					base = append(base, Move{SX: x, SY: y, DX: tx, DY: ty})
				case p:
					// slide over consecutive friendly pieces; opponent blocks
					jx, jy := tx, ty
					for b.InBounds(jx, jy) && b.At(jx, jy).Occupant == p {
						jx += d[0]
						jy += d[1]
					}
					if b.InBounds(jx, jy) && b.At(jx, jy).Occupant == NoPlayer {
						base = append(base, Move{SX: x, SY: y, DX: jx, DY: jy})
					}
				}
			}
		}
	}

	inv := s.Inventory(p)
	out := make([]Move, 0, len(base)*(1+2*BoardWidth*BoardHeight))
	for _, bm := range base {
		out = append(out, bm)
		if inv.Black > 0 {
			out = appendPlacements(out, b, bm, BlackTile)
		}
		if inv.Gray > 0 {
			out = appendPlacements(out, b, bm, GrayTile)
		}
	}
	return out
}

func appendPlacements(out []Move, b *Board, base Move, tile TileType) []Move {
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			if !placementLegal(b, base, x, y) {
				continue
			}
			m := base
			m.PlaceTile = true
			m.TX, m.TY = x, y
			m.Tile = tile
			out = append(out, m)
		}
	}
	return out
}

func placementLegal(b *Board, base Move, x, y int) bool {
	if b.At(x, y).Tile != NoTile {
		return false
	}
	if x == base.DX && y == base.DY {
		return false
	}
	// empty after the move: currently empty, or the vacated origin
	if x == base.SX && y == base.SY {
		return true
	}
	return b.At(x, y).Occupant == NoPlayer
}

// IsWin reports whether p has a piece on the opponent's home row.
func IsWin(s *GameState, p Player) bool {
	b := s.Board()
	row := p.GoalRow()
	for x := 0; x < BoardWidth; x++ {
		if b.At(x, row).Occupant == p {
			return true
		}
	}
	return false
}

// IsLoss reports whether the side to move has no legal moves.
func IsLoss(s *GameState) bool {
	return len(LegalMoves(s)) == 0
}

// IsDraw reports the repetition draw: the current position hash has been seen
// at least four times.
func IsDraw(s *GameState) bool {
	return s.HistoryCount(s.Hash()) >= 4
}
