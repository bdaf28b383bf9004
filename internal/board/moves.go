package board

import (
	"fmt"
	"sort"
	"strings"

	"checkers/internal/core"
)

type direction struct {
	dr, dc int
}

var (
	lightForward = []direction{{1, -1}, {1, 1}}
	darkForward  = []direction{{-1, -1}, {-1, 1}}
	allDirs      = []direction{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}
)

func directionsFor(p Piece) []direction {
	switch {
	case p.King:
		return allDirs
	case p.Color == core.ColorLight:
		return lightForward
	default:
		return darkForward
	}
}

// Moves maps each reachable destination to the squares captured on the way.
// Simple moves have an empty path.
type Moves map[Coord][]Coord

// Move is one legal move with its capture path
type Move struct {
	From     Coord
	To       Coord
	Captures []Coord
}

func (m Move) IsCapture() bool {
	return len(m.Captures) > 0
}

// String renders "r,c-r,c" for simple moves and "r,cxr,c" for captures
func (m Move) String() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return m.From.String() + sep + m.To.String()
}

// Result describes an executed move
type Result struct {
	Move
	Piece    Piece // Moved piece after promotion
	Promoted bool
}

// GenerateMoves returns the legal destinations of the piece at (row, col).
// When any capture exists only capture destinations are returned.
func (b *Board) GenerateMoves(row, col int) Moves {
	piece, ok := b.Get(row, col)
	if !ok {
		return Moves{}
	}

	from := Coord{row, col}
	dirs := directionsFor(piece)

	captures := b.searchCaptures(from, dirs, nil, map[Coord]struct{}{}, piece.Color)
	if len(captures) > 0 {
		return captures
	}

	moves := Moves{}
	for _, d := range dirs {
		to := Coord{row + d.dr, col + d.dc}
		if !to.InBounds() {
			continue
		}
		if _, occupied := b.Get(to.Row, to.Col); !occupied {
			moves[to] = []Coord{}
		}
	}
	return moves
}

// searchCaptures finds the end squares of every capture sequence starting at
// `at`. Only sequences that cannot be extended are kept. path and visited are
// copied before each recursion so sibling branches never share state.
// When two sequences end on the same square the later one in direction order
// wins.
func (b *Board) searchCaptures(at Coord, dirs []direction, path []Coord, visited map[Coord]struct{}, color core.Color) Moves {
	res := Moves{}
	for _, d := range dirs {
		mid := Coord{at.Row + d.dr, at.Col + d.dc}
		land := Coord{at.Row + 2*d.dr, at.Col + 2*d.dc}
		if !land.InBounds() {
			continue
		}

		victim, ok := b.Get(mid.Row, mid.Col)
		if !ok || victim.Color == color {
			continue
		}
		if _, occupied := b.Get(land.Row, land.Col); occupied {
			continue
		}
		if _, seen := visited[mid]; seen {
			continue
		}

		nextPath := make([]Coord, len(path), len(path)+1)
		copy(nextPath, path)
		nextPath = append(nextPath, mid)

		nextVisited := make(map[Coord]struct{}, len(visited)+1)
		for k := range visited {
			nextVisited[k] = struct{}{}
		}
		nextVisited[mid] = struct{}{}

		sub := b.searchCaptures(land, dirs, nextPath, nextVisited, color)
		if len(sub) == 0 {
			res[land] = nextPath
			continue
		}
		for end, p := range sub {
			res[end] = p
		}
	}
	return res
}

// ExecuteMove plays a move if it is legal. On failure the board is untouched.
func (b *Board) ExecuteMove(sr, sc, dr, dc int) bool {
	_, ok := b.Apply(Coord{sr, sc}, Coord{dr, dc})
	return ok
}

// Apply plays a legal move and reports what happened
func (b *Board) Apply(from, to Coord) (Result, bool) {
	moves := b.GenerateMoves(from.Row, from.Col)
	path, ok := moves[to]
	if !ok {
		return Result{}, false
	}

	for _, sq := range path {
		b.squares[sq.Row][sq.Col] = Piece{}
	}

	piece := b.squares[from.Row][from.Col]
	b.squares[from.Row][from.Col] = Piece{}

	promoted := false
	if !piece.King && reachesFarRow(piece.Color, to.Row) {
		piece.King = true
		promoted = true
	}
	b.squares[to.Row][to.Col] = piece

	return Result{
		Move:     Move{From: from, To: to, Captures: path},
		Piece:    piece,
		Promoted: promoted,
	}, true
}

func reachesFarRow(color core.Color, row int) bool {
	return (color == core.ColorLight && row == Size-1) || (color == core.ColorDark && row == 0)
}

// HasAnyMove reports whether any piece of the color can move
func (b *Board) HasAnyMove(color core.Color) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.squares[r][c].Color != color {
				continue
			}
			if len(b.GenerateMoves(r, c)) > 0 {
				return true
			}
		}
	}
	return false
}

// AllMoves lists every legal move of a color ordered by source then
// destination, row-major.
func (b *Board) AllMoves(color core.Color) []Move {
	var all []Move
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.squares[r][c].Color != color {
				continue
			}
			all = append(all, b.GenerateMoves(r, c).List(Coord{r, c})...)
		}
	}
	return all
}

// List flattens the moves of one source square, ordered by destination
func (m Moves) List(from Coord) []Move {
	list := make([]Move, 0, len(m))
	for to, path := range m {
		list = append(list, Move{From: from, To: to, Captures: path})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].To.Row != list[j].To.Row {
			return list[i].To.Row < list[j].To.Row
		}
		return list[i].To.Col < list[j].To.Col
	})
	return list
}

// ParseMove reads the notation produced by Move.String
func ParseMove(s string) (from, to Coord, err error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, "-x")
	if sep < 0 {
		return Coord{}, Coord{}, fmt.Errorf("invalid move %q: missing separator", s)
	}
	if from, err = parseCoord(s[:sep]); err != nil {
		return Coord{}, Coord{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	if to, err = parseCoord(s[sep+1:]); err != nil {
		return Coord{}, Coord{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	return from, to, nil
}

func parseCoord(s string) (Coord, error) {
	var c Coord
	if _, err := fmt.Sscanf(s, "%d,%d", &c.Row, &c.Col); err != nil {
		return Coord{}, fmt.Errorf("bad square %q", s)
	}
	if !c.InBounds() {
		return Coord{}, fmt.Errorf("square %s out of range", c)
	}
	return c, nil
}
