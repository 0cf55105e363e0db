// Package board implements the chess board model: cells, pieces, the
// 8x8 position grid, per-kind movement rules and the legality filter.
package board

import "fmt"

// Cell is a (row, column) board coordinate. Row 0 is rank 1 (White's home
// rank), column 0 is file a. Coordinates outside [0,7] are representable so
// movement rules can produce off-board candidates and discard them.
type Cell struct {
	Row int
	Col int
}

// NoCell marks the absence of a cell.
var NoCell = Cell{Row: -1, Col: -1}

// NewCell creates a cell from row and column.
func NewCell(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

// IsValid returns true if both row and column are within [0,7].
func (c Cell) IsValid() bool {
	return c.Row >= 0 && c.Row <= 7 && c.Col >= 0 && c.Col <= 7
}

// Add returns the cell shifted by the given offset.
func (c Cell) Add(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Mirror returns the cell reflected across the board's horizontal midline.
func (c Cell) Mirror() Cell {
	return Cell{Row: 7 - c.Row, Col: c.Col}
}

// RelativeRow returns the row from a given color's perspective.
// For White, row 0 is the 1st rank; for Black, row 0 is the 8th rank.
func (c Cell) RelativeRow(color Color) int {
	if color == White {
		return c.Row
	}
	return 7 - c.Row
}

// String returns the algebraic notation for the cell (e.g., "e4").
func (c Cell) String() string {
	if !c.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+c.Col, '1'+c.Row)
}

// ParseCell parses algebraic notation (e.g., "e4") into a Cell.
func ParseCell(s string) (Cell, error) {
	if len(s) != 2 {
		return NoCell, fmt.Errorf("invalid cell: %s", s)
	}

	col := int(s[0]) - 'a'
	row := int(s[1]) - '1'

	c := Cell{Row: row, Col: col}
	if err := c.check(); err != nil {
		return NoCell, err
	}
	return c, nil
}

// check returns a RangeError if the cell is off the board.
func (c Cell) check() error {
	if c.Row < 0 || c.Row > 7 {
		return &RangeError{Row: c.Row, Col: c.Col, Err: ErrInvalidRow}
	}
	if c.Col < 0 || c.Col > 7 {
		return &RangeError{Row: c.Row, Col: c.Col, Err: ErrInvalidColumn}
	}
	return nil
}
