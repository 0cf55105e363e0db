package engine

import (
	"testing"

	"github.com/hailam/cellchess/internal/board"
)

func TestEvaluateStartIsBalanced(t *testing.T) {
	if score := Evaluate(board.NewStartPosition()); score != 0 {
		t.Errorf("Start position score = %.2f, want 0", score)
	}
}

func TestEvaluateLoneKings(t *testing.T) {
	fens := []string{
		"4k3/8/8/8/8/8/8/4K3 w",
		"7k/8/8/8/8/8/8/K7 w",
		"8/8/8/3k4/8/8/8/4K3 w",
		"k7/8/8/8/8/8/8/7K w",
		"8/8/2k5/8/8/5K2/8/8 b",
		"8/8/8/8/8/8/6k1/K7 w",
	}

	for _, fen := range fens {
		pos, _ := parseFEN(t, fen)
		if score := Evaluate(pos); score != 0 {
			t.Errorf("%s: score = %.2f, want 0", fen, score)
		}
		if pos.IsKingInCheck(board.White) || pos.IsKingInCheck(board.Black) {
			t.Errorf("%s: lone kings reported in check", fen)
		}
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	fens := []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w",
		"3r3k/8/8/8/8/8/8/K2Q4 w",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w",
		"7k/8/8/8/8/8/8/K7 w",
	}

	for _, fen := range fens {
		pos, _ := parseFEN(t, fen)
		score := Evaluate(pos)
		mirrored := Evaluate(pos.Mirror())
		if score != -mirrored {
			t.Errorf("%s: score %.2f, mirrored %.2f", fen, score, mirrored)
		}
	}
}

func TestPieceScoreMirrors(t *testing.T) {
	for kind := board.Pawn; kind < board.NoKind; kind++ {
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				pos := board.NewPosition()
				white := board.NewPiece(kind, board.White)
				black := board.NewPiece(kind, board.Black)
				c := board.NewCell(row, col)
				if err := pos.Place(c, white); err != nil {
					t.Fatal(err)
				}

				other := board.NewPosition()
				if err := other.Place(c.Mirror(), black); err != nil {
					t.Fatal(err)
				}
				if PieceScore(white) != PieceScore(black) {
					t.Fatalf("%s on %s = %.2f, %s on %s = %.2f",
						white, c, PieceScore(white), black, c.Mirror(), PieceScore(black))
				}
			}
		}
	}
}

func TestPieceScoreMaterial(t *testing.T) {
	tests := []struct {
		kind board.Kind
		cell string
		want float64
	}{
		{board.Pawn, "e2", PawnValue - 20},
		{board.Pawn, "e4", PawnValue + 20},
		{board.Knight, "a1", KnightValue - 50},
		{board.Queen, "d1", QueenValue - 5},
		{board.King, "g1", KingValue},
	}

	for _, tt := range tests {
		pos := board.NewPosition()
		piece := board.NewPiece(tt.kind, board.White)
		c, err := board.ParseCell(tt.cell)
		if err != nil {
			t.Fatal(err)
		}
		if err := pos.Place(c, piece); err != nil {
			t.Fatal(err)
		}
		if got := PieceScore(piece); got != tt.want {
			t.Errorf("%s on %s = %.2f, want %.2f", tt.kind, tt.cell, got, tt.want)
		}
	}

	if PieceScore(nil) != 0 {
		t.Error("nil piece should score 0")
	}
	if got := PieceScore(board.NewPiece(board.Rook, board.Black)); got != RookValue {
		t.Errorf("unplaced rook = %.2f, want %d", got, RookValue)
	}
}

func TestEvaluateFavorsMaterial(t *testing.T) {
	pos, _ := parseFEN(t, "3r3k/8/8/8/8/8/8/K2Q4 w")
	if score := Evaluate(pos); score <= 0 {
		t.Errorf("Queen against rook should favor White, got %.2f", score)
	}
}

type constEvaluator float64

func (c constEvaluator) Evaluate(*board.Position) float64 { return float64(c) }

func TestSetEvaluatorClearsCache(t *testing.T) {
	eng := newTestEngine(t, 2)
	pos := board.NewStartPosition()
	eng.SuggestMove(pos)

	eng.SetEvaluator(constEvaluator(7))
	if eng.MoveCache().Len() != 0 {
		t.Errorf("Expected empty cache after SetEvaluator, got %d entries", eng.MoveCache().Len())
	}
	if move := eng.SuggestMove(pos); move.Score != 7 {
		t.Errorf("Expected score from custom evaluator, got %.2f", move.Score)
	}
	if got := eng.Evaluate(pos); got != 7 {
		t.Errorf("Evaluate = %.2f, want 7", got)
	}
}

func TestCheckCache(t *testing.T) {
	cache, err := NewCheckCache(128)
	if err != nil {
		t.Fatalf("NewCheckCache: %v", err)
	}
	defer cache.Close()

	if _, ok := cache.Get(42); ok {
		t.Error("Expected miss on empty cache")
	}

	cache.Set(42, true)
	cache.Wait()
	inCheck, ok := cache.Get(42)
	if !ok || !inCheck {
		t.Errorf("Get(42) = %v, %v; want true, true", inCheck, ok)
	}

	cache.Clear()
	if _, ok := cache.Get(42); ok {
		t.Error("Expected miss after Clear")
	}
}

func TestCheckCacheMatchesUncached(t *testing.T) {
	cache, err := NewCheckCache(1 << 10)
	if err != nil {
		t.Fatalf("NewCheckCache: %v", err)
	}
	defer cache.Close()

	pos, _ := parseFEN(t, "4k3/8/8/8/1b6/8/8/4K3 w")
	plain := pos.Clone()
	pos.SetCheckCache(cache)

	for i := 0; i < 3; i++ {
		if got, want := pos.IsKingInCheck(board.White), plain.IsKingInCheck(board.White); got != want {
			t.Errorf("pass %d: cached %v, uncached %v", i, got, want)
		}
		cache.Wait()
	}
}
