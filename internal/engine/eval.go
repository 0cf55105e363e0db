// Package engine implements the chess AI: position evaluation and a cached,
// fixed-depth minimax search over the legal moves of a board.Position.
package engine

import (
	"github.com/hailam/cellchess/internal/board"
)

// Evaluation constants (material)
const (
	PawnValue   = 100
	KnightValue = 350
	BishopValue = 350
	RookValue   = 525
	QueenValue  = 1000
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [7]float64{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Piece-square tables, written from White's side with the 8th rank on top:
// pieceSquare[kind][0] is the 8th rank for White and the 1st rank for Black.
// Kings have no table: they score material only, so two kings alone cancel.
var pieceSquare = [board.King][8][8]float64{
	board.Pawn: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	board.Knight: {
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	},
	board.Bishop: {
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	},
	board.Rook: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{0, 0, 0, 5, 5, 0, 0, 0},
	},
	board.Queen: {
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	},
}

// Evaluator scores a position. Positive favors White.
type Evaluator interface {
	Evaluate(pos *board.Position) float64
}

// TableEvaluator scores material plus a piece-square bonus.
type TableEvaluator struct{}

// Evaluate implements Evaluator.
func (TableEvaluator) Evaluate(pos *board.Position) float64 {
	return Evaluate(pos)
}

// Evaluate returns the sum of White's piece scores minus the sum of Black's.
func Evaluate(pos *board.Position) float64 {
	var score float64
	for _, piece := range pos.Pieces(board.White) {
		score += PieceScore(piece)
	}
	for _, piece := range pos.Pieces(board.Black) {
		score -= PieceScore(piece)
	}
	return score
}

// PieceScore returns the color-independent value of a placed piece: its
// material plus, for every kind but the king, the table bonus for its cell
// as seen from its own side.
// A white piece on a cell and a black piece of the same kind on the mirrored
// cell score the same.
func PieceScore(piece *board.Piece) float64 {
	if piece == nil || piece.Kind >= board.NoKind {
		return 0
	}
	score := pieceValues[piece.Kind]
	c := piece.Cell()
	if piece.Kind == board.King || !c.IsValid() {
		return score
	}
	row := 7 - c.RelativeRow(piece.Color)
	return score + pieceSquare[piece.Kind][row][c.Col]
}
