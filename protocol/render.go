package protocol

import "strings"

// RenderBoard draws the position with rank 5 on top: piece symbols as-is,
// black tiles as [], gray tiles as ().
func RenderBoard(pieces, tiles map[string]byte) string {
	var sb strings.Builder
	for rank := byte('5'); rank >= '1'; rank-- {
		sb.WriteByte(rank)
		sb.WriteByte('|')
		for file := byte('a'); file <= 'e'; file++ {
			coord := string([]byte{file, rank})
			if piece, ok := pieces[coord]; ok {
				sb.WriteByte(' ')
				sb.WriteByte(piece)
				sb.WriteByte(' ')
				continue
			}
			switch tiles[coord] {
			case 'b':
				sb.WriteString(" []")
			case 'g':
				sb.WriteString(" ()")
			default:
				sb.WriteString("  .")
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("   ")
	for file := byte('a'); file <= 'e'; file++ {
		sb.WriteByte(' ')
		sb.WriteByte(file)
		sb.WriteByte(' ')
	}
	return sb.String()
}
