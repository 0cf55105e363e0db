package board

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CheckCache memoizes check detection results. Keys are digests of a
// position fingerprint and the color being tested, so entries never go stale.
type CheckCache interface {
	Get(key uint64) (inCheck bool, ok bool)
	Set(key uint64, inCheck bool)
}

// Position is the 8x8 grid of optional pieces. Index as cells[row][col].
// A Position is not safe for concurrent use: move simulation mutates it in place.
type Position struct {
	cells [8][8]*Piece

	checks CheckCache
}

// NewPosition creates an empty position.
func NewPosition() *Position {
	return &Position{}
}

// NewStartPosition creates the standard starting position.
func NewStartPosition() *Position {
	p := NewPosition()
	p.ResetToStandardStart()
	return p
}

// SetCheckCache installs a cache consulted by IsKingInCheck. Nil disables caching.
func (p *Position) SetCheckCache(c CheckCache) {
	p.checks = c
}

// CheckCache returns the installed check cache, or nil.
func (p *Position) CheckCache() CheckCache {
	return p.checks
}

// Get returns the piece on the cell, or nil if the cell is empty or off the board.
func (p *Position) Get(c Cell) *Piece {
	if !c.IsValid() {
		return nil
	}
	return p.cells[c.Row][c.Col]
}

// Place puts piece on the cell. If the piece already sits on another cell
// that cell is vacated first. A nil piece clears the cell. Any piece that is
// overwritten loses its cell reference.
func (p *Position) Place(c Cell, piece *Piece) error {
	if err := c.check(); err != nil {
		return err
	}

	if occupant := p.cells[c.Row][c.Col]; occupant != nil && occupant != piece {
		occupant.cell = NoCell
	}

	if piece != nil {
		old := piece.cell
		if old.IsValid() && old != c && p.cells[old.Row][old.Col] == piece {
			p.cells[old.Row][old.Col] = nil
		}
		piece.cell = c
	}

	p.cells[c.Row][c.Col] = piece
	return nil
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	for row := range p.cells {
		for col, piece := range p.cells[row] {
			if piece != nil {
				piece.cell = NoCell
			}
			p.cells[row][col] = nil
		}
	}
}

// backRank is the piece order on the first and eighth rank, file a to h.
var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// ResetToStandardStart clears the board and places all 32 pieces.
func (p *Position) ResetToStandardStart() {
	p.Clear()
	for col := 0; col < 8; col++ {
		p.mustPlace(NewCell(1, col), NewPiece(Pawn, White))
		p.mustPlace(NewCell(6, col), NewPiece(Pawn, Black))
		p.mustPlace(NewCell(0, col), NewPiece(backRank[col], White))
		p.mustPlace(NewCell(7, col), NewPiece(backRank[col], Black))
	}
}

// mustPlace is Place for cells known to be on the board.
func (p *Position) mustPlace(c Cell, piece *Piece) {
	if err := p.Place(c, piece); err != nil {
		panic(err)
	}
}

// Pieces returns the pieces of the given color in row-major order (a1 first).
// The result is a snapshot, so callers may mutate the position while ranging over it.
func (p *Position) Pieces(c Color) []*Piece {
	pieces := make([]*Piece, 0, 16)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := p.cells[row][col]; piece != nil && piece.Color == c {
				pieces = append(pieces, piece)
			}
		}
	}
	return pieces
}

// FindKing returns the king of the given color, or nil if there is none.
func (p *Position) FindKing(c Color) *Piece {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := p.cells[row][col]; piece != nil && piece.Kind == King && piece.Color == c {
				return piece
			}
		}
	}
	return nil
}

// Count returns the number of pieces on the board.
func (p *Position) Count() int {
	n := 0
	for row := range p.cells {
		for _, piece := range p.cells[row] {
			if piece != nil {
				n++
			}
		}
	}
	return n
}

// IsEmpty returns true if the cell is on the board and holds no piece.
func (p *Position) IsEmpty(c Cell) bool {
	return c.IsValid() && p.cells[c.Row][c.Col] == nil
}

// CanEnter returns true if piece could be placed on the cell: the cell is on
// the board and is either empty or holds an opposing piece.
func (p *Position) CanEnter(piece *Piece, c Cell) bool {
	if !c.IsValid() {
		return false
	}
	other := p.cells[c.Row][c.Col]
	return other == nil || other.Color != piece.Color
}

// CanHit returns true if the cell is on the board and holds an opposing piece.
func (p *Position) CanHit(piece *Piece, c Cell) bool {
	if !c.IsValid() {
		return false
	}
	other := p.cells[c.Row][c.Col]
	return other != nil && other.Color != piece.Color
}

// Fingerprint returns the grid as 64 characters, rank 8 first, '.' for empty cells.
// Two positions with equal fingerprints hold the same kinds and colors on the same cells.
func (p *Position) Fingerprint() string {
	var sb strings.Builder
	sb.Grow(64)
	for row := 7; row >= 0; row-- {
		for col := 0; col < 8; col++ {
			sb.WriteByte(CharOf(p.cells[row][col]))
		}
	}
	return sb.String()
}

// Hash returns a 64-bit digest of the fingerprint.
func (p *Position) Hash() uint64 {
	return xxhash.Sum64String(p.Fingerprint())
}

// Equal reports whether both positions hold the same pieces on the same cells.
func (p *Position) Equal(other *Position) bool {
	return p.Fingerprint() == other.Fingerprint()
}

// Clone creates a deep copy of the position with fresh piece values.
// The check cache is shared.
func (p *Position) Clone() *Position {
	clone := &Position{checks: p.checks}
	for row := range p.cells {
		for col, piece := range p.cells[row] {
			if piece != nil {
				clone.mustPlace(NewCell(row, col), NewPiece(piece.Kind, piece.Color))
			}
		}
	}
	return clone
}

// Mirror returns a copy reflected across the horizontal midline with colors swapped.
func (p *Position) Mirror() *Position {
	mirror := &Position{}
	for row := range p.cells {
		for col, piece := range p.cells[row] {
			if piece != nil {
				mirror.mustPlace(NewCell(row, col).Mirror(), NewPiece(piece.Kind, piece.Color.Other()))
			}
		}
	}
	return mirror
}

// String returns the text grid of the position.
func (p *Position) String() string {
	return p.Render()
}
