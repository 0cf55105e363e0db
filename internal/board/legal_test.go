package board

import "testing"

// mapCache is a CheckCache that counts lookups.
type mapCache struct {
	entries map[uint64]bool
	hits    int
}

func (m *mapCache) Get(key uint64) (bool, bool) {
	v, ok := m.entries[key]
	if ok {
		m.hits++
	}
	return v, ok
}

func (m *mapCache) Set(key uint64, inCheck bool) {
	m.entries[key] = inCheck
}

// assertConsistent verifies every piece's back-reference matches the grid.
func assertConsistent(t *testing.T, pos *Position) {
	t.Helper()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c := NewCell(row, col)
			if piece := pos.Get(c); piece != nil && piece.Cell() != c {
				t.Fatalf("piece %s on %s thinks it is on %s", piece, c, piece.Cell())
			}
		}
	}
}

func TestLegalCellsPinnedPiece(t *testing.T) {
	// The knight on e2 is pinned against the king by the rook on e8.
	pos := mustParse(t, "4r2k/8/8/8/8/8/4N3/4K3 w")
	knight := pieceAt(t, pos, "e2")

	if got := pos.LegalCells(knight); len(got) != 0 {
		t.Errorf("pinned knight has legal cells %v", cellSet(got))
	}
	if got := pos.ReachableCells(knight); len(got) == 0 {
		t.Error("pinned knight should still have reachable cells")
	}
}

func TestLegalCellsKingAvoidsAttackedCells(t *testing.T) {
	pos := mustParse(t, "k7/8/8/8/8/8/r7/4K3 w")
	king := pieceAt(t, pos, "e1")

	if got := pos.LegalCells(king); !sameCells(got, "d1", "f1") {
		t.Errorf("king legal cells = %v, want [d1 f1]", cellSet(got))
	}
}

func TestLegalCellsCaptureOutOfCheck(t *testing.T) {
	pos := mustParse(t, "k7/8/8/8/8/8/3q4/4K3 w")
	king := pieceAt(t, pos, "e1")

	// The queen covers d1, e2 and f2; f1 is off its lines and d2 captures it.
	if got := pos.LegalCells(king); !sameCells(got, "d2", "f1") {
		t.Errorf("king legal cells = %v, want [d2 f1]", cellSet(got))
	}
}

func TestLegalCellsRestoresPosition(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w",
		"4r2k/8/8/8/8/8/4N3/4K3 w",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen)
		before := pos.Fingerprint()
		for _, color := range []Color{White, Black} {
			for _, piece := range pos.Pieces(color) {
				from := piece.Cell()
				pos.LegalCells(piece)
				if piece.Cell() != from {
					t.Fatalf("%s moved from %s to %s", piece, from, piece.Cell())
				}
			}
		}
		if after := pos.Fingerprint(); after != before {
			t.Errorf("LegalCells changed the position\nbefore %s\nafter  %s", before, after)
		}
		assertConsistent(t, pos)
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	pos := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w")
	before := pos.Fingerprint()

	moves := 0
	for _, color := range []Color{White, Black} {
		for _, piece := range pos.Pieces(color) {
			for _, to := range pos.LegalCells(piece) {
				from := piece.Cell()
				captured := pos.Get(to)

				undo, err := pos.MakeMove(from, to)
				if err != nil {
					t.Fatalf("MakeMove(%s, %s): %v", from, to, err)
				}
				if pos.Get(to) != piece || pos.Get(from) != nil {
					t.Fatalf("MakeMove(%s, %s) did not move the piece", from, to)
				}
				pos.UnmakeMove(undo)
				moves++

				if got := pos.Fingerprint(); got != before {
					t.Fatalf("round trip %s%s changed the position: %s", from, to, got)
				}
				if pos.Get(to) != captured {
					t.Fatalf("round trip %s%s lost the captured piece", from, to)
				}
				if captured != nil && captured.Cell() != to {
					t.Fatalf("captured piece has cell %s, want %s", captured.Cell(), to)
				}
			}
		}
	}
	assertConsistent(t, pos)
	t.Logf("checked %d moves", moves)
}

func TestMakeMoveErrors(t *testing.T) {
	pos := NewStartPosition()

	if _, err := pos.MakeMove(NewCell(3, 3), NewCell(4, 3)); err != ErrEmptyCell {
		t.Errorf("MakeMove from empty cell error = %v, want ErrEmptyCell", err)
	}
	if _, err := pos.MakeMove(NewCell(1, 0), NewCell(1, 8)); err == nil {
		t.Error("MakeMove off the board should fail")
	}
	if !pos.Equal(NewStartPosition()) {
		t.Error("failed MakeMove modified the position")
	}
}

func TestTryMoveRestoresOnPanic(t *testing.T) {
	pos := NewStartPosition()
	before := pos.Fingerprint()

	func() {
		defer func() { recover() }()
		pos.TryMove(NewCell(1, 4), NewCell(3, 4), func() {
			panic("boom")
		})
	}()

	if pos.Fingerprint() != before {
		t.Error("TryMove did not restore the position after panic")
	}
}

func TestKingInCheckMirrorSymmetry(t *testing.T) {
	fens := []string{
		StartFEN,
		"4k3/8/8/8/8/8/3p4/4K3 w",      // pawn checks white king
		"4k3/8/8/8/8/5n2/8/4K3 w",      // knight check
		"4k3/8/8/8/8/8/8/r3K3 w",       // rook check along the rank
		"4k3/8/8/8/1b6/8/8/4K3 w",      // bishop check
		"4k3/8/8/8/1b6/8/3P4/4K3 w",    // bishop blocked
		"8/8/8/8/8/8/8/4K3 w",          // no black king
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen)
		mirror := pos.Mirror()
		for _, color := range []Color{White, Black} {
			if pos.IsKingInCheck(color) != mirror.IsKingInCheck(color.Other()) {
				t.Errorf("%s: IsKingInCheck(%v) = %v but mirrored IsKingInCheck(%v) = %v",
					fen, color, pos.IsKingInCheck(color), color.Other(), mirror.IsKingInCheck(color.Other()))
			}
		}
	}
}

func TestKingInCheckDetection(t *testing.T) {
	tests := []struct {
		fen   string
		color Color
		want  bool
	}{
		{"4k3/8/8/8/8/8/3p4/4K3 w", White, true},
		{"4k3/8/8/8/8/8/4p3/4K3 w", White, false}, // pawn straight ahead does not attack
		{"4k3/8/8/8/8/5n2/8/4K3 w", White, true},
		{"4k3/8/8/8/1b6/8/8/4K3 w", White, true},
		{"4k3/8/8/8/1b6/8/3P4/4K3 w", White, false},
		{"4k3/8/8/8/8/8/8/r3K3 w", White, true},
		{"4k3/4R3/8/8/8/8/8/4K3 b", Black, true},
		{StartFEN, White, false},
		{StartFEN, Black, false},
	}

	for _, tt := range tests {
		pos := mustParse(t, tt.fen)
		if got := pos.IsKingInCheck(tt.color); got != tt.want {
			t.Errorf("%s: IsKingInCheck(%v) = %v, want %v", tt.fen, tt.color, got, tt.want)
		}
	}
}

func TestMissingKingIsNotInCheck(t *testing.T) {
	pos := mustParse(t, "8/8/8/8/8/8/8/q6K w")
	if pos.IsKingInCheck(Black) {
		t.Error("side without a king must not be in check")
	}
	if pos.FindKing(Black) != nil {
		t.Error("FindKing should return nil")
	}
}

func TestLoneKings(t *testing.T) {
	pos := mustParse(t, "8/8/8/3k4/8/8/8/4K3 w")
	if pos.IsKingInCheck(White) || pos.IsKingInCheck(Black) {
		t.Error("lone, non-adjacent kings must not be in check")
	}
}

func TestCheckCacheIsUsed(t *testing.T) {
	cache := &mapCache{entries: map[uint64]bool{}}
	pos := mustParse(t, "4k3/8/8/8/8/8/3p4/4K3 w")
	pos.SetCheckCache(cache)

	if !pos.IsKingInCheck(White) {
		t.Fatal("expected check")
	}
	if !pos.IsKingInCheck(White) {
		t.Fatal("expected cached check")
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
	if pos.IsKingInCheck(Black) {
		t.Error("black must not be in check")
	}
	if len(cache.entries) != 2 {
		t.Errorf("cache entries = %d, want 2 (one per color)", len(cache.entries))
	}
}
