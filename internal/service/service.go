package service

import (
	"errors"
	"sync"
	"time"

	"checkers/internal/game"

	"github.com/google/uuid"
)

const DefaultMaxGames = 1000

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrTooManyGames = errors.New("game limit reached")
)

// Service is the in-memory game registry. Every access to a game happens
// under the service lock; callers get value snapshots.
type Service struct {
	games    map[string]*game.Game
	mu       sync.RWMutex
	waiter   *WaitRegistry
	maxGames int
}

// New creates a service holding at most maxGames games (0 for the default)
func New(maxGames int) *Service {
	if maxGames <= 0 {
		maxGames = DefaultMaxGames
	}
	return &Service{
		games:    make(map[string]*game.Game),
		waiter:   NewWaitRegistry(),
		maxGames: maxGames,
	}
}

// GameCount returns the number of live games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Close releases waiting clients and drops all games
func (s *Service) Close() error {
	err := s.waiter.Shutdown(5 * time.Second)

	s.mu.Lock()
	s.games = make(map[string]*game.Game)
	s.mu.Unlock()

	return err
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}
