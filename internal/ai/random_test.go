package ai

import (
	"testing"

	"checkers/internal/board"
	"checkers/internal/core"
)

func TestChooseReturnsLegalMove(t *testing.T) {
	r := NewRandom(1)
	b := board.New()

	for i := 0; i < 50; i++ {
		m, ok := r.Choose(b, core.ColorDark)
		if !ok {
			t.Fatalf("no move chosen from the opening position")
		}
		moves := b.GenerateMoves(m.From.Row, m.From.Col)
		if _, legal := moves[m.To]; !legal {
			t.Fatalf("chose illegal move %v", m)
		}
	}
}

func TestChooseForcedCapture(t *testing.T) {
	b := board.Empty()
	if err := b.Place(board.Coord{Row: 2, Col: 1}, board.Piece{Color: core.ColorLight}); err != nil {
		t.Fatal(err)
	}
	if err := b.Place(board.Coord{Row: 3, Col: 2}, board.Piece{Color: core.ColorDark}); err != nil {
		t.Fatal(err)
	}

	m, ok := NewRandom(7).Choose(b, core.ColorLight)
	if !ok || !m.IsCapture() || m.To != (board.Coord{Row: 4, Col: 3}) {
		t.Fatalf("expected the forced capture, got %v %v", m, ok)
	}
}

func TestChooseNoMoves(t *testing.T) {
	if _, ok := NewRandom(1).Choose(board.Empty(), core.ColorLight); ok {
		t.Fatalf("move chosen on an empty board")
	}
}

func TestChooseDeterministicPerSeed(t *testing.T) {
	b := board.New()
	a, c := NewRandom(42), NewRandom(42)
	for i := 0; i < 20; i++ {
		m1, _ := a.Choose(b, core.ColorLight)
		m2, _ := c.Choose(b, core.ColorLight)
		if m1.String() != m2.String() {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, m1, m2)
		}
	}
}

func TestNewSeeded(t *testing.T) {
	r, err := NewSeeded()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok := r.Choose(board.New(), core.ColorLight); !ok {
		t.Fatalf("seeded generator chose nothing")
	}
}
