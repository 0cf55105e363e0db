package board

import "strings"

// Load parses a text grid: eight lines, rank 8 first, each holding eight
// space-separated tokens. '.' is an empty cell and P, N, B, R, Q, K name a
// piece, uppercase for White. Parsing is best-effort: blank lines are
// skipped, unknown tokens leave the cell empty and extra rows or columns are
// ignored.
func Load(text string) *Position {
	p := NewPosition()
	row := 7
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if row < 0 {
			break
		}
		for col, token := range strings.Fields(line) {
			if col > 7 {
				break
			}
			if piece := PieceFromChar(token[0]); piece != nil {
				p.mustPlace(NewCell(row, col), piece)
			}
		}
		row--
	}
	return p
}

// Render returns the text grid accepted by Load.
func (p *Position) Render() string {
	var sb strings.Builder
	for row := 7; row >= 0; row-- {
		for col := 0; col < 8; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(CharOf(p.cells[row][col]))
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
