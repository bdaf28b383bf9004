package processor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
)

// MoveChooser picks a move for a color, false when it has none
type MoveChooser interface {
	Choose(b *board.Board, color core.Color) (board.Move, bool)
}

// ComputerTask is a queued computer move
type ComputerTask struct {
	GameID   string
	Layout   string
	Color    core.Color
	Player   *core.Player // Think time comes from the player config
	Response chan<- ComputerResult
	Started  chan<- struct{} // Closed when a worker picks the task up
}

// ComputerResult contains the chosen move
type ComputerResult struct {
	GameID string
	Layout string // Position the move was chosen for
	Move   board.Move
	Found  bool
	Error  error
}

const defaultMoveTimeout = 5 * time.Second

// ComputerQueue runs computer moves on a small worker pool
type ComputerQueue struct {
	tasks   chan ComputerTask
	chooser MoveChooser
	workers int
	timeout time.Duration // Limit on choosing, counted from pickup
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// NewComputerQueue creates a queue with specified worker count
func NewComputerQueue(chooser MoveChooser, workerCount int) *ComputerQueue {
	if workerCount < 1 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &ComputerQueue{
		tasks:   make(chan ComputerTask, 100),
		chooser: chooser,
		workers: workerCount,
		timeout: defaultMoveTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

func (q *ComputerQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

func (q *ComputerQueue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case task := <-q.tasks:
			if task.Started != nil {
				close(task.Started)
			}
			result, ok := q.processTask(task)
			if !ok {
				return
			}

			// Send result if receiver still listening
			select {
			case task.Response <- result:
			case <-time.After(100 * time.Millisecond):
				log.Printf("Worker %d dropped result for game %s", id, task.GameID)
			}

		case <-q.ctx.Done():
			return
		}
	}
}

// processTask waits the player's think time then picks a move. It returns
// false when the queue shuts down during the wait.
func (q *ComputerQueue) processTask(task ComputerTask) (ComputerResult, bool) {
	result := ComputerResult{
		GameID: task.GameID,
		Layout: task.Layout,
	}

	if d := task.Player.ThinkTime(); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-q.ctx.Done():
			timer.Stop()
			return result, false
		}
	}

	b, err := board.ParseLayout(task.Layout)
	if err != nil {
		result.Error = fmt.Errorf("computer move: %w", err)
		return result, true
	}

	result.Move, result.Found = q.chooser.Choose(b, task.Color)
	return result, true
}

// Submit adds a task to the queue
func (q *ComputerQueue) Submit(task ComputerTask) error {
	select {
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down")
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return fmt.Errorf("queue is full")
	}
}

// SubmitAsync submits a task and hands the result to callback in the
// background. Time spent queued behind other games does not count against
// the timeout; only the think time and the choice itself do.
func (q *ComputerQueue) SubmitAsync(gameID, layout string, color core.Color, player *core.Player, callback func(ComputerResult)) error {
	respChan := make(chan ComputerResult, 1)
	started := make(chan struct{})

	task := ComputerTask{
		GameID:   gameID,
		Layout:   layout,
		Color:    color,
		Player:   player,
		Response: respChan,
		Started:  started,
	}

	if err := q.Submit(task); err != nil {
		return err
	}

	timeout := player.ThinkTime() + q.timeout
	go func() {
		select {
		case <-started:
		case <-q.ctx.Done():
			return
		}

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case result := <-respChan:
			callback(result)
		case <-timer.C:
			callback(ComputerResult{
				GameID: gameID,
				Layout: layout,
				Error:  errMoveTimeout,
			})
		case <-q.ctx.Done():
		}
	}()

	return nil
}

// Shutdown stops the workers; queued tasks are dropped
func (q *ComputerQueue) Shutdown(timeout time.Duration) error {
	q.once.Do(q.cancel)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
