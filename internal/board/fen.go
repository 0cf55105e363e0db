package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position without castling rights.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// ParseFEN reads the piece placement and side to move of a FEN string.
// Castling, en passant and the move counters are accepted but ignored.
func ParseFEN(fen string) (*Position, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, NoColor, fmt.Errorf("invalid FEN: empty string")
	}

	pos := NewPosition()
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, NoColor, err
	}

	side := White
	if len(parts) > 1 {
		switch parts[1] {
		case "w":
			side = White
		case "b":
			side = Black
		default:
			return nil, NoColor, fmt.Errorf("invalid side to move: %s", parts[1])
		}
	}

	return pos, side, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		row := 7 - i // FEN starts from rank 8
		col := 0

		for _, c := range rankStr {
			if col > 7 {
				return fmt.Errorf("too many squares in rank %d", row+1)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == nil {
				return fmt.Errorf("invalid piece character: %c", c)
			}
			if err := pos.Place(NewCell(row, col), piece); err != nil {
				return err
			}
			col++
		}

		if col != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", row+1, col)
		}
	}

	return nil
}

// FEN returns a FEN string for the position with the given side to move.
// No castling or en passant rights are ever written.
func (p *Position) FEN(side Color) string {
	var sb strings.Builder

	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := p.cells[row][col]
			if piece == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if side == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}
	sb.WriteString(" - - 0 1")

	return sb.String()
}
