package processor

import (
	"context"
	"sync"
	"testing"
	"time"

	"checkers/internal/ai"
	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/service"
)

func newProcessor(t *testing.T) (*Processor, *service.Service) {
	t.Helper()
	svc := service.New(0)
	p := New(svc, ai.NewRandom(1), 2)
	t.Cleanup(func() {
		p.Close()
		svc.Close()
	})
	return p, svc
}

func computer(delay int) core.PlayerConfig {
	return core.PlayerConfig{Type: core.PlayerComputer, Delay: &delay}
}

var human = core.PlayerConfig{Type: core.PlayerHuman}

func createGame(t *testing.T, p *Processor, req core.CreateGameRequest) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(req))
	if !resp.Success {
		t.Fatalf("create failed: %+v", resp.Error)
	}
	return resp.Data.(core.GameResponse)
}

func waitForMoves(t *testing.T, svc *service.Service, gameID string, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		v, err := svc.GetGame(gameID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(v.Moves) >= n && v.State != core.StatePending {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("game %s did not reach %d moves", gameID, n)
}

func square(r, c int) *core.Square {
	return &core.Square{Row: r, Col: c}
}

func TestCreateGameDefaults(t *testing.T) {
	p, _ := newProcessor(t)
	g := createGame(t, p, core.CreateGameRequest{Light: human, Dark: human})

	if g.Layout != board.StartingLayout || g.Turn != "l" || g.State != "ongoing" {
		t.Fatalf("unexpected game %+v", g)
	}
	if g.Players.Light.Type != core.PlayerHuman || g.Players.Dark.Type != core.PlayerHuman {
		t.Fatalf("players = %+v", g.Players)
	}
}

func TestCreateGameWithLayout(t *testing.T) {
	p, _ := newProcessor(t)

	g := createGame(t, p, core.CreateGameRequest{
		Light:  human,
		Dark:   human,
		Layout: ".l....../......../......../......../......../......../......../........",
	})
	if g.State != "light wins" || g.Winner != "Light" {
		t.Fatalf("state = %q winner = %q", g.State, g.Winner)
	}

	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Light: human, Dark: human, Layout: "bad"}))
	if resp.Success || resp.Error.Code != core.ErrInvalidLayout {
		t.Fatalf("bad layout accepted: %+v", resp)
	}
}

func TestHumanMoveFlow(t *testing.T) {
	p, _ := newProcessor(t)
	g := createGame(t, p, core.CreateGameRequest{Light: human, Dark: human})

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{From: square(2, 1), To: square(3, 2)}))
	if !resp.Success {
		t.Fatalf("move failed: %+v", resp.Error)
	}
	after := resp.Data.(core.GameResponse)
	if after.Turn != "d" || len(after.Moves) != 1 || after.LastMove.Move != "2,1-3,2" {
		t.Fatalf("unexpected game %+v", after)
	}

	cases := []struct {
		name     string
		req      core.MoveRequest
		wantCode string
	}{
		{"wrong side", core.MoveRequest{From: square(3, 2), To: square(4, 3)}, core.ErrInvalidMove},
		{"illegal", core.MoveRequest{From: square(5, 0), To: square(3, 0)}, core.ErrInvalidMove},
		{"not computer turn", core.MoveRequest{Computer: true}, core.ErrNotHumanTurn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := p.Execute(NewMakeMoveCommand(g.GameID, tc.req))
			if resp.Success || resp.Error.Code != tc.wantCode {
				t.Fatalf("resp = %+v, want code %s", resp, tc.wantCode)
			}
		})
	}
}

func TestComputerRepliesAfterHumanMove(t *testing.T) {
	p, svc := newProcessor(t)
	g := createGame(t, p, core.CreateGameRequest{Light: human, Dark: computer(0)})

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{From: square(2, 1), To: square(3, 2)}))
	if !resp.Success {
		t.Fatalf("move failed: %+v", resp.Error)
	}
	if !resp.Pending {
		t.Fatalf("computer reply not queued")
	}

	waitForMoves(t, svc, g.GameID, 2)

	v, _ := svc.GetGame(g.GameID)
	if v.Turn != core.ColorLight || v.LastResult.PlayerColor != core.ColorDark {
		t.Fatalf("computer did not move for Dark: %+v", v)
	}
}

func TestComputerMovesFirst(t *testing.T) {
	p, svc := newProcessor(t)
	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Light: computer(0), Dark: human}))
	if !resp.Success || !resp.Pending {
		t.Fatalf("create = %+v", resp)
	}
	g := resp.Data.(core.GameResponse)
	waitForMoves(t, svc, g.GameID, 1)
}

// slowChooser stalls on its first call, then defers to next
type slowChooser struct {
	mu    sync.Mutex
	calls int
	stall time.Duration
	next  MoveChooser
}

func (c *slowChooser) Choose(b *board.Board, color core.Color) (board.Move, bool) {
	c.mu.Lock()
	c.calls++
	first := c.calls == 1
	c.mu.Unlock()

	if first {
		time.Sleep(c.stall)
	}
	return c.next.Choose(b, color)
}

func TestComputerMoveRetriedAfterTimeout(t *testing.T) {
	svc := service.New(0)
	chooser := &slowChooser{stall: 500 * time.Millisecond, next: ai.NewRandom(1)}
	p := New(svc, chooser, 1)
	p.queue.timeout = 50 * time.Millisecond
	t.Cleanup(func() {
		p.Close()
		svc.Close()
	})

	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Light: computer(0), Dark: human}))
	if !resp.Success || !resp.Pending {
		t.Fatalf("create = %+v", resp)
	}
	g := resp.Data.(core.GameResponse)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, changed, err := svc.Watch(ctx, g.GameID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// The timeout resets the game before the stalled chooser returns
	select {
	case <-changed:
	case <-time.After(300 * time.Millisecond):
		t.Fatalf("watchers not told about the timed out move")
	}

	waitForMoves(t, svc, g.GameID, 1)

	v, _ := svc.GetGame(g.GameID)
	if v.Turn != core.ColorDark || v.State != core.StateOngoing {
		t.Fatalf("after retry: turn=%v state=%v", v.Turn, v.State)
	}

	moves, _, err := svc.AllLegalMoves(g.GameID)
	if err != nil || len(moves) == 0 {
		t.Fatalf("dark moves = %v, %v", moves, err)
	}
	m := moves[0]
	resp = p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{
		From: square(m.From.Row, m.From.Col),
		To:   square(m.To.Row, m.To.Col),
	}))
	if !resp.Success {
		t.Fatalf("dark move after retry: %+v", resp.Error)
	}
}

func TestPendingBlocksHumanActions(t *testing.T) {
	p, _ := newProcessor(t)
	g := createGame(t, p, core.CreateGameRequest{Light: computer(5000), Dark: human})

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{From: square(2, 1), To: square(3, 2)}))
	if resp.Success || resp.Error.Code != core.ErrInvalidRequest {
		t.Fatalf("move during pending = %+v", resp)
	}

	resp = p.Execute(NewConfigurePlayersCommand(g.GameID, core.ConfigurePlayersRequest{Light: human, Dark: human}))
	if resp.Success {
		t.Fatalf("players changed while pending")
	}

	resp = p.Execute(NewDeleteGameCommand(g.GameID))
	if resp.Success {
		t.Fatalf("game deleted while pending")
	}
}

func TestConfigurePlayersTriggersComputer(t *testing.T) {
	p, svc := newProcessor(t)
	g := createGame(t, p, core.CreateGameRequest{Light: human, Dark: human})

	resp := p.Execute(NewConfigurePlayersCommand(g.GameID, core.ConfigurePlayersRequest{Light: computer(0), Dark: human}))
	if !resp.Success || !resp.Pending {
		t.Fatalf("configure = %+v", resp)
	}
	waitForMoves(t, svc, g.GameID, 1)
}

func TestGetMoves(t *testing.T) {
	p, _ := newProcessor(t)
	g := createGame(t, p, core.CreateGameRequest{Light: human, Dark: human})

	resp := p.Execute(NewGetMovesCommand(g.GameID, MovesQuery{}))
	if !resp.Success {
		t.Fatalf("moves failed: %+v", resp.Error)
	}
	if m := resp.Data.(core.MovesResponse); m.Turn != "l" || len(m.Moves) != 7 {
		t.Fatalf("moves = %+v", m)
	}

	sq := board.Coord{Row: 2, Col: 1}
	resp = p.Execute(NewGetMovesCommand(g.GameID, MovesQuery{Square: &sq}))
	m := resp.Data.(core.MovesResponse)
	if len(m.Moves) != 2 || m.Moves[0].To != (core.Square{Row: 3, Col: 0}) {
		t.Fatalf("moves for 2,1 = %+v", m.Moves)
	}
}

func TestBoardAndDelete(t *testing.T) {
	p, _ := newProcessor(t)
	g := createGame(t, p, core.CreateGameRequest{Light: human, Dark: human})

	resp := p.Execute(NewGetBoardCommand(g.GameID))
	if !resp.Success || resp.Data.(core.BoardResponse).Layout != board.StartingLayout {
		t.Fatalf("board = %+v", resp)
	}

	if resp := p.Execute(NewDeleteGameCommand(g.GameID)); !resp.Success {
		t.Fatalf("delete failed: %+v", resp.Error)
	}
	resp = p.Execute(NewGetGameCommand(g.GameID))
	if resp.Success || resp.Error.Code != core.ErrGameNotFound {
		t.Fatalf("deleted game still found: %+v", resp)
	}
}
