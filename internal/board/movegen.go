package board

// ruleFunc computes the cells a piece can geometrically reach, ignoring self-check.
type ruleFunc func(p *Position, piece *Piece) []Cell

// movementRules is indexed by Kind. The array length ties it to the set of kinds.
var movementRules = [NoKind]ruleFunc{
	Pawn:   pawnCells,
	Knight: knightCells,
	Bishop: bishopCells,
	Rook:   rookCells,
	Queen:  queenCells,
	King:   kingCells,
}

var (
	rookDirections   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirections  = append(append([][2]int{}, rookDirections...), bishopDirections...)

	knightOffsets = [][2]int{{2, 1}, {2, -1}, {1, 2}, {-1, 2}, {-2, 1}, {-2, -1}, {1, -2}, {-1, -2}}
	kingOffsets   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// ReachableCells returns the cells the piece can move to by its movement
// rule alone. It does not consider whether the own king ends up in check.
// An unplaced piece reaches nothing.
func (p *Position) ReachableCells(piece *Piece) []Cell {
	if piece == nil || !piece.Placed() || piece.Kind >= NoKind {
		return nil
	}
	return movementRules[piece.Kind](p, piece)
}

// pawnCells: one step forward onto an empty cell, two from the home row if
// both cells are empty, and diagonal forward captures.
func pawnCells(p *Position, piece *Piece) []Cell {
	direction, homeRow := 1, 1
	if piece.Color == Black {
		direction, homeRow = -1, 6
	}

	from := piece.cell
	cells := make([]Cell, 0, 4)

	oneStep := from.Add(direction, 0)
	if p.IsEmpty(oneStep) {
		cells = append(cells, oneStep)
		twoSteps := from.Add(2*direction, 0)
		if from.Row == homeRow && p.IsEmpty(twoSteps) {
			cells = append(cells, twoSteps)
		}
	}

	for _, dc := range [2]int{1, -1} {
		attack := from.Add(direction, dc)
		if p.CanHit(piece, attack) {
			cells = append(cells, attack)
		}
	}
	return cells
}

func rookCells(p *Position, piece *Piece) []Cell {
	return slide(p, piece, rookDirections)
}

func bishopCells(p *Position, piece *Piece) []Cell {
	return slide(p, piece, bishopDirections)
}

func queenCells(p *Position, piece *Piece) []Cell {
	return slide(p, piece, queenDirections)
}

func knightCells(p *Position, piece *Piece) []Cell {
	return step(p, piece, knightOffsets)
}

func kingCells(p *Position, piece *Piece) []Cell {
	return step(p, piece, kingOffsets)
}

// slide walks each ray until it leaves the board or meets a piece. The
// blocking cell is included only if it holds an opposing piece.
func slide(p *Position, piece *Piece, directions [][2]int) []Cell {
	cells := make([]Cell, 0, 14)
	for _, d := range directions {
		c := piece.cell.Add(d[0], d[1])
		for p.IsEmpty(c) {
			cells = append(cells, c)
			c = c.Add(d[0], d[1])
		}
		if p.CanHit(piece, c) {
			cells = append(cells, c)
		}
	}
	return cells
}

// step admits each fixed offset whose target is on the board and empty or opposing.
func step(p *Position, piece *Piece, offsets [][2]int) []Cell {
	cells := make([]Cell, 0, len(offsets))
	for _, d := range offsets {
		c := piece.cell.Add(d[0], d[1])
		if p.CanEnter(piece, c) {
			cells = append(cells, c)
		}
	}
	return cells
}
