package service

import (
	"context"
	"fmt"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
)

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, b *board.Board, light, dark *core.Player, startingTurn core.Color) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return game.View{}, fmt.Errorf("%w: %s", ErrGameExists, id)
	}
	if len(s.games) >= s.maxGames {
		return game.View{}, ErrTooManyGames
	}

	g := game.New(b, light, dark, startingTurn)
	s.games[id] = g
	return g.View(), nil
}

// GetGame returns a snapshot of a game
func (s *Service) GetGame(gameID string) (game.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.View{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.View(), nil
}

// Update runs fn on a game under the service lock and returns the resulting
// snapshot. Waiters are notified when fn succeeds, and also when it fails
// after changing the state or the move count.
func (s *Service) Update(gameID string, fn func(g *game.Game) error) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.View{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	before, beforeState := g.MoveCount(), g.State()
	err := fn(g)

	switch {
	case g.MoveCount() != before:
		s.waiter.NotifyGame(gameID, g.MoveCount())
	case err == nil || g.State() != beforeState:
		s.waiter.NotifyAll(gameID)
	}
	return g.View(), err
}

// Watch returns the current snapshot and a channel that closes on the next
// change after it. Both are taken under the lock writers notify under, so
// no change can slip between the read and the registration.
func (s *Service) Watch(ctx context.Context, gameID string) (game.View, <-chan struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.View{}, nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.View(), s.waiter.RegisterWait(ctx, gameID, g.MoveCount()), nil
}

// UpdatePlayers replaces players in an existing game
func (s *Service) UpdatePlayers(gameID string, light, dark *core.Player) (game.View, error) {
	return s.Update(gameID, func(g *game.Game) error {
		g.UpdatePlayers(light, dark)
		return nil
	})
}

// ApplyMove plays a move for the side to move
func (s *Service) ApplyMove(gameID string, from, to board.Coord) (*game.MoveResult, game.View, error) {
	var result *game.MoveResult
	view, err := s.Update(gameID, func(g *game.Game) error {
		res, err := g.Move(from, to)
		result = res
		return err
	})
	return result, view, err
}

// UpdateGameState sets the game state; terminal states are kept
func (s *Service) UpdateGameState(gameID string, state core.State) error {
	_, err := s.Update(gameID, func(g *game.Game) error {
		g.SetState(state)
		return nil
	})
	return err
}

// LegalMoves returns the destinations of one square for the side to move
func (s *Service) LegalMoves(gameID string, sq board.Coord) (board.Moves, core.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.LegalMoves(sq), g.NextTurn(), nil
}

// AllLegalMoves lists every move of the side to move
func (s *Service) AllLegalMoves(gameID string) ([]board.Move, core.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.AllLegalMoves(), g.NextTurn(), nil
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	// Notify and remove all waiters before deletion
	s.waiter.RemoveGame(gameID)

	delete(s.games, gameID)
	return nil
}
