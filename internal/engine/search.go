package engine

import (
	"sort"

	"github.com/hailam/cellchess/internal/board"
)

// SearchState is the remaining depth in plies and the side to move.
type SearchState struct {
	Depth int
	Side  board.Color
}

// Next returns the state one ply deeper: depth minus one, other side to move.
func (st SearchState) Next() SearchState {
	return SearchState{Depth: st.Depth - 1, Side: st.Side.Other()}
}

// search is the cached minimax entry used at every ply.
func (e *Engine) search(pos *board.Position, st SearchState) Move {
	key := cacheKey(pos, st)
	if m, ok := e.cache.Probe(key); ok {
		return m
	}
	best := e.minimax(pos, st)
	e.cache.Store(key, best)
	return best
}

// minimax returns the best move for st.Side. At depth 1 the statically
// scored candidates decide; deeper, the best candidates of the static pass
// are rescored with the opponent's best reply and sorted again.
func (e *Engine) minimax(pos *board.Position, st SearchState) Move {
	moves := e.scoreMoves(pos, st.Side)
	if len(moves) == 0 {
		return NoMove(lostScore(st.Side))
	}
	if st.Depth <= 1 {
		return moves[0]
	}

	if e.cfg.MaxMoves > 0 && len(moves) > e.cfg.MaxMoves {
		moves = moves[:e.cfg.MaxMoves]
	}

	next := st.Next()
	for i := range moves {
		undo, err := moves[i].Make(pos)
		if err != nil {
			// Generated from this position, so unreachable.
			panic(err)
		}
		moves[i].Score = e.search(pos, next).Score
		pos.UnmakeMove(undo)
	}

	sortMoves(moves, st.Side)
	return e.pick(moves)
}

// generateMoves collects every legal move of side, unscored.
func generateMoves(pos *board.Position, side board.Color) []Move {
	moves := make([]Move, 0, 48)
	for _, piece := range pos.Pieces(side) {
		from := piece.Cell()
		for _, to := range pos.LegalCells(piece) {
			moves = append(moves, Move{
				Kind:    piece.Kind,
				Color:   piece.Color,
				From:    from,
				To:      to,
				Capture: pos.Get(to) != nil,
			})
		}
	}
	return moves
}

// scoreMoves returns the legal moves of side, each scored by evaluating the
// position right after it, best first for side.
func (e *Engine) scoreMoves(pos *board.Position, side board.Color) []Move {
	moves := generateMoves(pos, side)
	for i := range moves {
		m := &moves[i]
		if err := pos.TryMove(m.From, m.To, func() {
			e.nodes++
			m.Score = e.eval.Evaluate(pos)
		}); err != nil {
			panic(err)
		}
	}
	sortMoves(moves, side)
	return moves
}

// sortMoves orders moves best first: descending for White, ascending for
// Black. Ties keep generation order.
func sortMoves(moves []Move, side board.Color) {
	if side == board.White {
		sort.SliceStable(moves, func(i, j int) bool { return moves[i].Score > moves[j].Score })
		return
	}
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].Score < moves[j].Score })
}

// pick returns the head of sorted moves, or a uniformly random one of the
// first TopChoices when randomization is enabled.
func (e *Engine) pick(moves []Move) Move {
	n := e.cfg.TopChoices
	if n <= 1 || len(moves) == 1 {
		return moves[0]
	}
	if n > len(moves) {
		n = len(moves)
	}
	return moves[e.rng.Intn(n)]
}
