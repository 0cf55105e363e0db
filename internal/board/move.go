package board

// UndoInfo stores what MakeMove changed so UnmakeMove can restore it exactly.
type UndoInfo struct {
	Piece    *Piece
	From     Cell
	To       Cell
	Captured *Piece // nil when the target was empty
}

// MakeMove moves the piece on from to to, capturing any occupant.
// The returned UndoInfo must be passed to UnmakeMove.
func (p *Position) MakeMove(from, to Cell) (UndoInfo, error) {
	if err := from.check(); err != nil {
		return UndoInfo{}, err
	}
	piece := p.cells[from.Row][from.Col]
	if piece == nil {
		return UndoInfo{}, ErrEmptyCell
	}
	return p.movePiece(piece, to)
}

// movePiece places a board piece on to and records the displaced occupant.
func (p *Position) movePiece(piece *Piece, to Cell) (UndoInfo, error) {
	if err := to.check(); err != nil {
		return UndoInfo{}, err
	}
	if !piece.Placed() {
		return UndoInfo{}, ErrEmptyCell
	}
	undo := UndoInfo{
		Piece:    piece,
		From:     piece.cell,
		To:       to,
		Captured: p.cells[to.Row][to.Col],
	}
	if err := p.Place(to, piece); err != nil {
		return UndoInfo{}, err
	}
	return undo, nil
}

// UnmakeMove restores the position saved in undo. The target cell is always
// rewritten, with nil when nothing was captured.
func (p *Position) UnmakeMove(undo UndoInfo) {
	p.mustPlace(undo.From, undo.Piece)
	p.mustPlace(undo.To, undo.Captured)
}

// TryMove applies the move, runs fn on the resulting position and restores
// the original position before returning, even if fn panics.
func (p *Position) TryMove(from, to Cell, fn func()) error {
	undo, err := p.MakeMove(from, to)
	if err != nil {
		return err
	}
	defer p.UnmakeMove(undo)
	fn()
	return nil
}

// tryPiece is TryMove for a piece already known to be on the board.
func (p *Position) tryPiece(piece *Piece, to Cell, fn func()) {
	undo, err := p.movePiece(piece, to)
	if err != nil {
		return
	}
	defer p.UnmakeMove(undo)
	fn()
}
