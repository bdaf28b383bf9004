// Package board implements the checkers rule engine: the 8x8 board, legal
// move generation with mandatory multi-jump captures, move execution and
// the any-move check used for terminal detection.
package board

import (
	"fmt"
	"strings"

	"checkers/internal/core"
)

const Size = 8

// StartingLayout is the opening position, row 0 first
const StartingLayout = ".l.l.l.l/l.l.l.l./.l.l.l.l/......../......../d.d.d.d./.d.d.d.d/d.d.d.d."

// Piece is a checker. The zero value is an empty square.
type Piece struct {
	Color core.Color
	King  bool
}

func (p Piece) Symbol() byte {
	var ch byte
	switch p.Color {
	case core.ColorLight:
		ch = 'l'
	case core.ColorDark:
		ch = 'd'
	default:
		return '.'
	}
	if p.King {
		ch -= 'a' - 'A'
	}
	return ch
}

// Coord addresses a square by row and column
type Coord struct {
	Row int
	Col int
}

func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// Dark reports whether the square is playable
func (c Coord) Dark() bool {
	return (c.Row+c.Col)%2 == 1
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

type Board struct {
	squares [Size][Size]Piece
}

// New returns a board in the starting position
func New() *Board {
	b := &Board{}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if (r+c)%2 != 1 {
				continue
			}
			switch {
			case r < 3:
				b.squares[r][c] = Piece{Color: core.ColorLight}
			case r > 4:
				b.squares[r][c] = Piece{Color: core.ColorDark}
			}
		}
	}
	return b
}

// Empty returns a board with no pieces
func Empty() *Board {
	return &Board{}
}

// Get returns the occupant of a square; out-of-range squares are empty
func (b *Board) Get(row, col int) (Piece, bool) {
	if !(Coord{row, col}).InBounds() {
		return Piece{}, false
	}
	p := b.squares[row][col]
	return p, p.Color != 0
}

// Place puts a piece on a dark square, for setting up positions
func (b *Board) Place(at Coord, p Piece) error {
	if !at.InBounds() {
		return fmt.Errorf("square %s out of range", at)
	}
	if !at.Dark() && p.Color != 0 {
		return fmt.Errorf("square %s is not playable", at)
	}
	b.squares[at.Row][at.Col] = p
	return nil
}

func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// Count returns the number of pieces of a color
func (b *Board) Count(color core.Color) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.squares[r][c].Color == color {
				n++
			}
		}
	}
	return n
}

// ParseLayout reads a layout string: eight rows separated by '/', row 0
// first, each row eight characters of '.', 'l', 'L', 'd' or 'D'.
func ParseLayout(layout string) (*Board, error) {
	rows := strings.Split(layout, "/")
	if len(rows) != Size {
		return nil, fmt.Errorf("invalid layout: expected %d rows, got %d", Size, len(rows))
	}

	b := &Board{}
	for r, row := range rows {
		if len(row) != Size {
			return nil, fmt.Errorf("invalid layout: row %d has %d squares", r, len(row))
		}
		for c := 0; c < Size; c++ {
			var p Piece
			switch row[c] {
			case '.':
				continue
			case 'l':
				p = Piece{Color: core.ColorLight}
			case 'L':
				p = Piece{Color: core.ColorLight, King: true}
			case 'd':
				p = Piece{Color: core.ColorDark}
			case 'D':
				p = Piece{Color: core.ColorDark, King: true}
			default:
				return nil, fmt.Errorf("invalid layout: unknown piece %q at %d,%d", row[c], r, c)
			}
			if err := b.Place(Coord{r, c}, p); err != nil {
				return nil, fmt.Errorf("invalid layout: %w", err)
			}
		}
	}
	return b, nil
}

// Layout encodes the board in the format read by ParseLayout
func (b *Board) Layout() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := 0; c < Size; c++ {
			sb.WriteByte(b.squares[r][c].Symbol())
		}
	}
	return sb.String()
}

// ToASCII creates an ASCII representation of the board, row 7 on top
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	for r := Size - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r))
		for c := 0; c < Size; c++ {
			sb.WriteByte(b.squares[r][c].Symbol())
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7")

	return sb.String()
}
