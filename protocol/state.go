package protocol

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"contrast/game"
)

// Snapshot is the authoritative state block pushed to clients. Map keys are
// wire coordinates; stock keys are the role symbols X and O.
type Snapshot struct {
	GameID     uint64
	Turn       byte
	Status     string
	LastMove   string
	Pieces     map[string]byte
	Tiles      map[string]byte
	StockBlack map[byte]int
	StockGray  map[byte]int
}

// BuildSnapshot captures a game state plus the server-side bookkeeping
// fields.
func BuildSnapshot(s *game.GameState, gameID uint64, status, lastMove string) Snapshot {
	snap := Snapshot{
		GameID:   gameID,
		Turn:     PlayerSymbol(s.ToMove()),
		Status:   status,
		LastMove: lastMove,
		Pieces:   map[string]byte{},
		Tiles:    map[string]byte{},
	}
	b := s.Board()
	for y := 0; y < game.BoardHeight; y++ {
		for x := 0; x < game.BoardWidth; x++ {
			cell := b.At(x, y)
			coord := FormatCoord(x, y)
			if cell.Occupant != game.NoPlayer {
				snap.Pieces[coord] = PlayerSymbol(cell.Occupant)
			}
			if cell.Tile != game.NoTile {
				snap.Tiles[coord] = TileToChar(cell.Tile)
			}
		}
	}
	invX := s.Inventory(game.Black)
	invO := s.Inventory(game.White)
	snap.StockBlack = map[byte]int{'X': invX.Black, 'O': invO.Black}
	snap.StockGray = map[byte]int{'X': invX.Gray, 'O': invO.Gray}
	return snap
}

// BuildStateMessage renders the STATE block, terminated by END.
func BuildStateMessage(snap Snapshot) string {
	var sb strings.Builder
	sb.WriteString("STATE\n")
	fmt.Fprintf(&sb, "game_id=%d\n", snap.GameID)
	fmt.Fprintf(&sb, "turn=%c\n", snap.Turn)
	fmt.Fprintf(&sb, "status=%s\n", snap.Status)
	fmt.Fprintf(&sb, "last=%s\n", snap.LastMove)
	fmt.Fprintf(&sb, "pieces=%s\n", joinEntries(snap.Pieces))
	fmt.Fprintf(&sb, "tiles=%s\n", joinEntries(snap.Tiles))
	fmt.Fprintf(&sb, "stock_b=%s\n", joinCounts(snap.StockBlack))
	fmt.Fprintf(&sb, "stock_g=%s\n", joinCounts(snap.StockGray))
	sb.WriteString("END\n")
	return sb.String()
}

// ParseStateBlock decodes the key=value lines between STATE and END.
func ParseStateBlock(lines []string) (Snapshot, error) {
	snap := Snapshot{
		Pieces:     map[string]byte{},
		Tiles:      map[string]byte{},
		StockBlack: map[byte]int{},
		StockGray:  map[byte]int{},
	}
	for _, line := range lines {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		var err error
		switch key {
		case "game_id":
			snap.GameID, err = strconv.ParseUint(value, 10, 64)
		case "turn":
			if value != "" {
				snap.Turn = value[0]
			}
		case "status":
			snap.Status = value
		case "last":
			snap.LastMove = value
		case "pieces":
			snap.Pieces, err = parseEntries(value)
		case "tiles":
			snap.Tiles, err = parseEntries(value)
		case "stock_b":
			snap.StockBlack, err = parseCounts(value)
		case "stock_g":
			snap.StockGray, err = parseCounts(value)
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("state block %s: %w", key, err)
		}
	}
	return snap, nil
}

func joinEntries(entries map[string]byte) string {
	coords := make([]string, 0, len(entries))
	for coord := range entries {
		coords = append(coords, coord)
	}
	sort.Strings(coords)

	var sb strings.Builder
	for i, coord := range coords {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(coord)
		sb.WriteByte(':')
		sb.WriteByte(entries[coord])
	}
	return sb.String()
}

func joinCounts(counts map[byte]int) string {
	var sb strings.Builder
	for i, role := range []byte{'O', 'X'} {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%c:%d", role, counts[role])
	}
	return sb.String()
}

func parseEntries(text string) (map[string]byte, error) {
	entries := map[string]byte{}
	if text == "" {
		return entries, nil
	}
	for _, item := range strings.Split(text, ",") {
		coord, value, found := strings.Cut(item, ":")
		if !found || value == "" {
			return nil, fmt.Errorf("malformed entry %q", item)
		}
		if _, _, err := ParseCoord(coord); err != nil {
			return nil, err
		}
		entries[strings.ToLower(coord)] = value[0]
	}
	return entries, nil
}

func parseCounts(text string) (map[byte]int, error) {
	counts := map[byte]int{}
	if text == "" {
		return counts, nil
	}
	for _, item := range strings.Split(text, ",") {
		role, value, found := strings.Cut(item, ":")
		if !found || role == "" {
			return nil, fmt.Errorf("malformed inventory entry %q", item)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("malformed inventory entry %q", item)
		}
		counts[role[0]] = n
	}
	return counts, nil
}
