package processor

import (
	"errors"
	"fmt"
	"log"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/service"
)

var (
	errComputerPending = errors.New("computer move in progress")
	errNotHumanTurn    = errors.New("not human player's turn")
	errNotComputerTurn = errors.New("not computer player's turn")
	errStaleResult     = errors.New("position changed while computer was thinking")
	errMoveTimeout     = errors.New("computer move timeout")
)

// Processor handles command execution and coordinates the service with the
// computer move queue
type Processor struct {
	svc   *service.Service
	queue *ComputerQueue
}

// New creates a processor running computer moves on workers goroutines
func New(svc *service.Service, chooser MoveChooser, workers int) *Processor {
	return &Processor{
		svc:   svc,
		queue: NewComputerQueue(chooser, workers),
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdConfigurePlayers:
		return p.handleConfigurePlayers(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdGetMoves:
		return p.handleGetMoves(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// handleCreateGame creates a new game and queues a computer move if the
// computer is to move first
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b := board.New()
	if args.Layout != "" {
		parsed, err := board.ParseLayout(args.Layout)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidLayout)
		}
		b = parsed
	}

	turn := core.ColorLight
	if args.Turn != "" {
		c, ok := core.ParseColor(args.Turn)
		if !ok {
			return p.errorResponse(fmt.Sprintf("invalid turn %q", args.Turn), core.ErrInvalidRequest)
		}
		turn = c
	}

	light := core.NewPlayer(args.Light, core.ColorLight)
	dark := core.NewPlayer(args.Dark, core.ColorDark)

	gameID := p.svc.GenerateGameID()
	if _, err := p.svc.CreateGame(gameID, b, light, dark, turn); err != nil {
		return p.serviceError(err)
	}

	pending := p.triggerComputerMove(gameID)

	v, err := p.svc.GetGame(gameID)
	if err != nil {
		return p.errorResponse("game creation failed", core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Pending: pending,
		Data:    p.buildGameResponse(gameID, v),
	}
}

// handleConfigurePlayers updates player configuration mid-game
func (p *Processor) handleConfigurePlayers(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ConfigurePlayersRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	light := core.NewPlayer(args.Light, core.ColorLight)
	dark := core.NewPlayer(args.Dark, core.ColorDark)

	_, err := p.svc.Update(cmd.GameID, func(g *game.Game) error {
		// Block configuration changes during computer move
		if g.State() == core.StatePending {
			return errComputerPending
		}
		g.UpdatePlayers(light, dark)
		return nil
	})
	if err != nil {
		return p.serviceError(err)
	}

	pending := p.triggerComputerMove(cmd.GameID)

	v, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}
	return ProcessorResponse{
		Success: true,
		Pending: pending,
		Data:    p.buildGameResponse(cmd.GameID, v),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	v, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Pending: v.State == core.StatePending,
		Data:    p.buildGameResponse(cmd.GameID, v),
	}
}

// handleMakeMove plays a human move, or queues a computer move when the
// request asks for one
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if args.Computer {
		return p.handleComputerRequest(cmd.GameID)
	}

	if args.From == nil || args.To == nil {
		return p.errorResponse("from and to are required", core.ErrInvalidRequest)
	}
	from := board.Coord{Row: args.From.Row, Col: args.From.Col}
	to := board.Coord{Row: args.To.Row, Col: args.To.Col}

	v, err := p.svc.Update(cmd.GameID, func(g *game.Game) error {
		if err := checkPlayable(g); err != nil {
			return err
		}
		if g.NextPlayer().Type != core.PlayerHuman {
			return errNotHumanTurn
		}
		_, err := g.Move(from, to)
		return err
	})
	if err != nil {
		return p.serviceError(err)
	}

	pending := p.triggerComputerMove(cmd.GameID)
	if pending {
		if fresh, err := p.svc.GetGame(cmd.GameID); err == nil {
			v = fresh
		}
	}

	return ProcessorResponse{
		Success: true,
		Pending: pending,
		Data:    p.buildGameResponse(cmd.GameID, v),
	}
}

func (p *Processor) handleComputerRequest(gameID string) ProcessorResponse {
	v, err := p.svc.GetGame(gameID)
	if err != nil {
		return p.serviceError(err)
	}
	switch {
	case v.State.IsOver():
		return p.serviceError(game.ErrGameOver)
	case v.State == core.StatePending:
		return p.serviceError(errComputerPending)
	case playerOf(v, v.Turn).Type != core.PlayerComputer:
		return p.serviceError(errNotComputerTurn)
	}

	if !p.triggerComputerMove(gameID) {
		return p.errorResponse("failed to queue computer move", core.ErrInternalError)
	}

	v, err = p.svc.GetGame(gameID)
	if err != nil {
		return p.serviceError(err)
	}
	resp := p.buildGameResponse(gameID, v)
	resp.LastMove = &core.MoveInfo{
		PlayerColor: v.Turn.String(),
	}

	return ProcessorResponse{
		Success: true,
		Pending: true,
		Data:    resp,
	}
}

func (p *Processor) handleGetMoves(cmd Command) ProcessorResponse {
	q, _ := cmd.Args.(MovesQuery)

	var (
		moves []board.Move
		turn  core.Color
		err   error
	)
	if q.Square != nil {
		var m board.Moves
		m, turn, err = p.svc.LegalMoves(cmd.GameID, *q.Square)
		moves = m.List(*q.Square)
	} else {
		moves, turn, err = p.svc.AllLegalMoves(cmd.GameID)
	}
	if err != nil {
		return p.serviceError(err)
	}

	resp := core.MovesResponse{
		Turn:  turn.String(),
		Moves: make([]core.LegalMove, 0, len(moves)),
	}
	for _, m := range moves {
		resp.Moves = append(resp.Moves, core.LegalMove{
			From:     toSquare(m.From),
			To:       toSquare(m.To),
			Captures: toSquares(m.Captures),
		})
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	v, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	// Only block deletion if actively computing
	if v.State == core.StatePending {
		return p.errorResponse("cannot delete game while computer move is in progress", core.ErrInvalidRequest)
	}

	if err = p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
	}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	v, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError(err)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Layout: v.Layout,
			Board:  v.Board.ToASCII(),
		},
	}
}

// triggerComputerMove marks the game pending and queues a move when a
// computer player is to move. It reports whether a move was queued.
func (p *Processor) triggerComputerMove(gameID string) bool {
	var (
		layout string
		color  core.Color
		player core.Player
	)
	_, err := p.svc.Update(gameID, func(g *game.Game) error {
		if g.State() != core.StateOngoing {
			return errComputerPending
		}
		next := g.NextPlayer()
		if next == nil || next.Type != core.PlayerComputer {
			return errNotComputerTurn
		}
		g.SetState(core.StatePending)
		layout = g.Layout()
		color = g.NextTurn()
		player = *next
		return nil
	})
	if err != nil {
		return false
	}

	err = p.queue.SubmitAsync(gameID, layout, color, &player, p.applyComputerResult)
	if err != nil {
		log.Printf("Failed to queue computer move for game %s: %v", gameID, err)
		p.svc.UpdateGameState(gameID, core.StateOngoing)
		return false
	}
	return true
}

// applyComputerResult plays a queued move if the game still waits for it,
// then chains the next computer move. A failed or timed out attempt puts the
// game back to ongoing and queues a fresh one.
func (p *Processor) applyComputerResult(result ComputerResult) {
	_, err := p.svc.Update(result.GameID, func(g *game.Game) error {
		if g.State() != core.StatePending || g.Layout() != result.Layout {
			return errStaleResult
		}
		g.SetState(core.StateOngoing)

		if result.Error != nil {
			return result.Error
		}
		if !result.Found {
			return nil
		}
		_, err := g.Move(result.Move.From, result.Move.To)
		return err
	})
	if errors.Is(err, service.ErrGameNotFound) || errors.Is(err, errStaleResult) {
		return
	}
	if err != nil {
		log.Printf("Computer move for game %s failed, retrying: %v", result.GameID, err)
	}

	p.triggerComputerMove(result.GameID)
}

func checkPlayable(g *game.Game) error {
	switch {
	case g.State().IsOver():
		return game.ErrGameOver
	case g.State() == core.StatePending:
		return errComputerPending
	}
	return nil
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(gameID string, v game.View) core.GameResponse {
	light, dark := v.Light, v.Dark
	resp := core.GameResponse{
		GameID: gameID,
		Layout: v.Layout,
		Turn:   v.Turn.String(),
		State:  v.State.String(),
		Winner: v.State.Winner(),
		Moves:  v.Moves,
		Players: core.PlayersResponse{
			Light: &light,
			Dark:  &dark,
		},
	}

	if r := v.LastResult; r != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        r.Move.String(),
			PlayerColor: r.PlayerColor.String(),
			Captured:    toSquares(r.Move.Captures),
			Promoted:    r.Promoted,
		}
	}

	return resp
}

// serviceError maps service, game and processor errors to error responses
func (p *Processor) serviceError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, service.ErrTooManyGames):
		return p.errorResponse(err.Error(), core.ErrResourceLimit)
	case errors.Is(err, game.ErrGameOver):
		return p.errorResponse(err.Error(), core.ErrGameOver)
	case errors.Is(err, game.ErrNoPiece),
		errors.Is(err, game.ErrNotYourPiece),
		errors.Is(err, game.ErrIllegalMove):
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	case errors.Is(err, errNotHumanTurn), errors.Is(err, errNotComputerTurn):
		return p.errorResponse(err.Error(), core.ErrNotHumanTurn)
	case errors.Is(err, errComputerPending):
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	default:
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the computer workers
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}

func playerOf(v game.View, c core.Color) core.Player {
	if c == core.ColorDark {
		return v.Dark
	}
	return v.Light
}

func toSquare(c board.Coord) core.Square {
	return core.Square{Row: c.Row, Col: c.Col}
}

func toSquares(cs []board.Coord) []core.Square {
	out := make([]core.Square, 0, len(cs))
	for _, c := range cs {
		out = append(out, toSquare(c))
	}
	return out
}
