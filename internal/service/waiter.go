package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling and streaming clients waiting for game
// state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates. Notify is
// closed once, on change, timeout, game removal or shutdown.
type WaitRequest struct {
	MoveCount int
	Notify    chan struct{}
	Timer     *time.Timer
	GameID    string
	once      sync.Once
}

func (r *WaitRequest) fire() {
	r.once.Do(func() { close(r.Notify) })
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client that knows moveCount moves. The returned
// channel closes when the game moves past that count, when the wait times
// out or when ctx is done.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &WaitRequest{
		MoveCount: moveCount,
		Notify:    make(chan struct{}),
		GameID:    gameID,
	}

	if w.closed {
		req.fire()
		return req.Notify
	}

	req.Timer = time.AfterFunc(WaitTimeout, req.fire)
	w.waiters[gameID] = append(w.waiters[gameID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			// Client disconnected
			req.fire()
		case <-req.Notify:
		case <-w.shutdown:
			req.fire()
		}
		w.removeWaiter(gameID, req)
	}()

	return req.Notify
}

// NotifyGame wakes clients whose known move count differs from the current one
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.Lock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.MoveCount != currentMoveCount {
			req.fire()
		}
	}
}

// NotifyAll wakes every client of a game, for changes that do not add moves
func (w *WaitRegistry) NotifyAll(gameID string) {
	w.mu.Lock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// RemoveGame wakes and drops all waiters of a game (called before deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}

	if req.Timer != nil {
		req.Timer.Stop()
	}
}
