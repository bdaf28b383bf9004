package game

import (
	"errors"
	"fmt"

	"checkers/internal/board"
	"checkers/internal/core"
)

var (
	ErrGameOver     = errors.New("game is over")
	ErrNoPiece      = errors.New("no piece on source square")
	ErrNotYourPiece = errors.New("piece belongs to the other side")
	ErrIllegalMove  = errors.New("illegal move")
)

// Snapshot is one position in the game history
type Snapshot struct {
	Layout   string      // Board after the move (initial layout for entry 0)
	Move     *board.Move // Move that created this position, nil for the initial one
	Mover    core.Color  // Color that played Move
	Promoted bool        // Moved piece was crowned
	NextTurn core.Color  // Side to move at this position
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        board.Move
	PlayerColor core.Color
	GameState   core.State
	Promoted    bool
}

// Game owns a board, the side to move and the history. It is not safe for
// concurrent use; the service layer serialises access.
type Game struct {
	board      *board.Board
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	state      core.State
	lastResult *MoveResult
}

// New starts a game from b with the given side to move. Terminal detection
// runs immediately so a position without moves is over from the start.
func New(b *board.Board, light, dark *core.Player, startingTurn core.Color) *Game {
	g := &Game{
		board: b,
		snapshots: []Snapshot{
			{Layout: b.Layout(), NextTurn: startingTurn},
		},
		players: map[core.Color]*core.Player{
			core.ColorLight: light,
			core.ColorDark:  dark,
		},
		state: core.StateOngoing,
	}
	g.updateState()
	return g
}

// NewStandard starts a game from the opening position, Light to move
func NewStandard(light, dark *core.Player) *Game {
	return New(board.New(), light, dark, core.ColorLight)
}

// Move plays from -> to for the side to move
func (g *Game) Move(from, to board.Coord) (*MoveResult, error) {
	if g.state.IsOver() {
		return nil, ErrGameOver
	}

	turn := g.NextTurn()
	piece, ok := g.board.Get(from.Row, from.Col)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if piece.Color != turn {
		return nil, fmt.Errorf("%w: %s", ErrNotYourPiece, from)
	}

	res, ok := g.board.Apply(from, to)
	if !ok {
		return nil, fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}

	move := res.Move
	g.snapshots = append(g.snapshots, Snapshot{
		Layout:   g.board.Layout(),
		Move:     &move,
		Mover:    turn,
		Promoted: res.Promoted,
		NextTurn: core.OppositeColor(turn),
	})
	g.updateState()

	g.lastResult = &MoveResult{
		Move:        move,
		PlayerColor: turn,
		GameState:   g.state,
		Promoted:    res.Promoted,
	}
	return g.lastResult, nil
}

// updateState applies the terminal rule: if neither side can move the game
// is drawn, otherwise a side without moves loses.
func (g *Game) updateState() {
	if g.state.IsOver() {
		return
	}
	lightCan := g.board.HasAnyMove(core.ColorLight)
	darkCan := g.board.HasAnyMove(core.ColorDark)
	switch {
	case !lightCan && !darkCan:
		g.state = core.StateDraw
	case !lightCan:
		g.state = core.StateDarkWins
	case !darkCan:
		g.state = core.StateLightWins
	}
}

// LegalMoves returns the destinations of the piece on sq if it belongs to
// the side to move, otherwise an empty set
func (g *Game) LegalMoves(sq board.Coord) board.Moves {
	if g.state.IsOver() {
		return board.Moves{}
	}
	p, ok := g.board.Get(sq.Row, sq.Col)
	if !ok || p.Color != g.NextTurn() {
		return board.Moves{}
	}
	return g.board.GenerateMoves(sq.Row, sq.Col)
}

// AllLegalMoves lists every move available to the side to move
func (g *Game) AllLegalMoves() []board.Move {
	if g.state.IsOver() {
		return nil
	}
	return g.board.AllMoves(g.NextTurn())
}

// Board returns a copy of the current position
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) Layout() string {
	return g.CurrentSnapshot().Layout
}

func (g *Game) InitialLayout() string {
	return g.snapshots[0].Layout
}

func (g *Game) NextTurn() core.Color {
	return g.CurrentSnapshot().NextTurn
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurn()]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

// SetPlayer replaces the player of one color
func (g *Game) SetPlayer(color core.Color, p *core.Player) {
	g.players[color] = p
}

func (g *Game) UpdatePlayers(light, dark *core.Player) {
	g.players[core.ColorLight] = light
	g.players[core.ColorDark] = dark
}

// History returns all snapshots after the initial position
func (g *Game) History() []Snapshot {
	out := make([]Snapshot, len(g.snapshots)-1)
	copy(out, g.snapshots[1:])
	return out
}

// Moves returns the played moves in notation
func (g *Game) Moves() []string {
	moves := []string{}
	for _, s := range g.snapshots[1:] {
		if s.Move != nil {
			moves = append(moves, s.Move.String())
		}
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) State() core.State {
	return g.state
}

// SetState is used by the processor to mark a queued computer move. Terminal
// states are final.
func (g *Game) SetState(s core.State) {
	if g.state.IsOver() {
		return
	}
	g.state = s
}

// View is a detached copy of a game for concurrent readers
type View struct {
	Layout     string
	Turn       core.Color
	State      core.State
	Moves      []string
	History    []Snapshot
	Light      core.Player
	Dark       core.Player
	LastResult *MoveResult
	Board      *board.Board
}

// View returns a value copy of the game
func (g *Game) View() View {
	v := View{
		Layout:  g.Layout(),
		Turn:    g.NextTurn(),
		State:   g.state,
		Moves:   g.Moves(),
		History: g.History(),
		Board:   g.board.Clone(),
	}
	if p := g.players[core.ColorLight]; p != nil {
		v.Light = *p
	}
	if p := g.players[core.ColorDark]; p != nil {
		v.Dark = *p
	}
	if g.lastResult != nil {
		r := *g.lastResult
		v.LastResult = &r
	}
	return v
}
