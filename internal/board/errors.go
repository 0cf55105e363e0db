package board

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRow    = errors.New("invalid row")
	ErrInvalidColumn = errors.New("invalid column")
	ErrEmptyCell     = errors.New("no piece on cell")
)

// RangeError reports a coordinate outside [0,7] passed to a mutating operation.
type RangeError struct {
	Row int
	Col int
	Err error // ErrInvalidRow or ErrInvalidColumn
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: (%d, %d)", e.Err, e.Row, e.Col)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}
