package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Kind represents the kind of a chess piece.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind Kind = 6
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the uppercase letter for the kind.
func (k Kind) Char() byte {
	chars := []byte{'P', 'N', 'B', 'R', 'Q', 'K', ' '}
	if k > NoKind {
		return ' '
	}
	return chars[k]
}

// Piece is a single chess piece. A piece has identity: the Position keeps a
// back-reference to the cell it occupies and Place keeps both in sync.
type Piece struct {
	Kind  Kind
	Color Color

	cell Cell // NoCell while off the board
}

// NewPiece creates an unplaced piece.
func NewPiece(k Kind, c Color) *Piece {
	return &Piece{Kind: k, Color: c, cell: NoCell}
}

// Cell returns the cell the piece currently occupies, or NoCell.
func (p *Piece) Cell() Cell {
	return p.cell
}

// Placed reports whether the piece is on the board.
func (p *Piece) Placed() bool {
	return p.cell.IsValid()
}

// IsWhite reports whether the piece is white.
func (p *Piece) IsWhite() bool {
	return p.Color == White
}

// Char returns the board character for the piece.
// Uppercase for white, lowercase for black.
func (p *Piece) Char() byte {
	return pieceChar(p.Kind, p.Color)
}

// String returns the board character for the piece.
func (p *Piece) String() string {
	return string(p.Char())
}

func pieceChar(k Kind, c Color) byte {
	ch := k.Char()
	if c == Black && ch != ' ' {
		ch += 'a' - 'A'
	}
	return ch
}

// CharOf returns the board character of an optional piece, '.' for an empty cell.
func CharOf(p *Piece) byte {
	if p == nil {
		return '.'
	}
	return p.Char()
}

// PieceFromChar creates an unplaced piece from its board character.
// Returns nil for any character that does not name a piece.
func PieceFromChar(c byte) *Piece {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	switch c {
	case 'P':
		return NewPiece(Pawn, color)
	case 'N':
		return NewPiece(Knight, color)
	case 'B':
		return NewPiece(Bishop, color)
	case 'R':
		return NewPiece(Rook, color)
	case 'Q':
		return NewPiece(Queen, color)
	case 'K':
		return NewPiece(King, color)
	default:
		return nil
	}
}
