// Package ai picks computer moves. There is no evaluation: every legal move
// of the side to move is equally likely.
package ai

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"

	"checkers/internal/board"
	"checkers/internal/core"
)

// Random picks a legal move uniformly at random. Safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// NewSeeded returns a Random seeded from crypto/rand
func NewSeeded() (*Random, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewRandom(seed), nil
}

// NewSeed returns a crypto-random seed
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Choose returns a random legal move for color, false if it has none
func (r *Random) Choose(b *board.Board, color core.Color) (board.Move, bool) {
	moves := b.AllMoves(color)
	if len(moves) == 0 {
		return board.Move{}, false
	}

	r.mu.Lock()
	i := r.rng.Intn(len(moves))
	r.mu.Unlock()

	return moves[i], true
}
