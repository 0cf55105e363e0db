package board

import "github.com/cespare/xxhash/v2"

// LegalCells returns the reachable cells of piece whose resulting position
// does not leave the piece's own king attacked. Each candidate is simulated
// on the position and undone before the next one.
func (p *Position) LegalCells(piece *Piece) []Cell {
	reachable := p.ReachableCells(piece)
	legal := make([]Cell, 0, len(reachable))
	for _, c := range reachable {
		inCheck := false
		p.tryPiece(piece, c, func() {
			inCheck = p.IsKingInCheck(piece.Color)
		})
		if !inCheck {
			legal = append(legal, c)
		}
	}
	return legal
}

// HasLegalMoves returns true if any piece of the color has a legal move.
func (p *Position) HasLegalMoves(c Color) bool {
	for _, piece := range p.Pieces(c) {
		if len(p.LegalCells(piece)) > 0 {
			return true
		}
	}
	return false
}

// IsKingInCheck returns true if any opposing piece can reach the king of the
// given color. A side without a king is never in check.
func (p *Position) IsKingInCheck(c Color) bool {
	if p.checks == nil {
		return p.isKingInCheck(c)
	}

	key := p.checkKey(c)
	if inCheck, ok := p.checks.Get(key); ok {
		return inCheck
	}
	inCheck := p.isKingInCheck(c)
	p.checks.Set(key, inCheck)
	return inCheck
}

// isKingInCheck tests raw reachability of the opposing pieces, not their
// legal moves, so check detection never recurses into the legality filter.
func (p *Position) isKingInCheck(c Color) bool {
	king := p.FindKing(c)
	if king == nil {
		return false
	}
	target := king.cell
	for _, piece := range p.Pieces(c.Other()) {
		for _, reachable := range p.ReachableCells(piece) {
			if reachable == target {
				return true
			}
		}
	}
	return false
}

// checkKey digests the fingerprint with the color being tested.
func (p *Position) checkKey(c Color) uint64 {
	suffix := "-w"
	if c == Black {
		suffix = "-b"
	}
	return xxhash.Sum64String(p.Fingerprint() + suffix)
}
