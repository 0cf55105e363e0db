package engine

import (
	"fmt"

	"github.com/hailam/cellchess/internal/board"
)

// Extreme scores reported when the side to move has no legal move.
// Always from White's perspective.
const (
	WhiteLostScore = -1e10
	BlackLostScore = 1e10
)

// Move is an evaluated move. It holds the moving piece by value so a Move
// found on one Position applies to any Position with the same fingerprint.
type Move struct {
	Kind    board.Kind
	Color   board.Color
	From    board.Cell
	To      board.Cell
	Capture bool
	Score   float64 // White-positive; meaningful only after evaluation
}

// NoMove returns the sentinel move with no piece and no cells.
func NoMove(score float64) Move {
	return Move{
		Kind:  board.NoKind,
		Color: board.NoColor,
		From:  board.NoCell,
		To:    board.NoCell,
		Score: score,
	}
}

// lostScore returns the score of a position where side has no legal move.
func lostScore(side board.Color) float64 {
	if side == board.White {
		return WhiteLostScore
	}
	return BlackLostScore
}

// IsNone returns true for the sentinel move.
func (m Move) IsNone() bool {
	return m.Kind == board.NoKind
}

// Make plays the move on the position.
func (m Move) Make(pos *board.Position) (board.UndoInfo, error) {
	return pos.MakeMove(m.From, m.To)
}

// String returns short notation with the score, for example "Nb1.c3(12.00)".
// A capture uses 'x' in place of '.'. Checks are not marked.
func (m Move) String() string {
	if m.IsNone() {
		return fmt.Sprintf("none(%.2f)", m.Score)
	}
	center := "."
	if m.Capture {
		center = "x"
	}
	return fmt.Sprintf("%c%s%s%s(%.2f)", m.Kind.Char(), m.From, center, m.To, m.Score)
}
