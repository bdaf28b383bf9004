package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
)

// MoveChooser picks the computer's moves
type MoveChooser interface {
	Choose(b *board.Board, color core.Color) (board.Move, bool)
}

// Session is a local game driven by typed commands
type Session struct {
	view     *CLI
	chooser  MoveChooser
	aiColor  core.Color
	aiOn     bool
	aiDelay  time.Duration
	game     *game.Game
	selected *board.Coord
	commands map[string]*Command
	order    []*Command
}

// Command defines a terminal command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(s *Session, args []string) error
}

var errQuit = errors.New("quit")

// NewSession starts a game with Light human. The computer plays Dark when the
// AI is toggled on and waits aiDelay before each move.
func NewSession(view *CLI, chooser MoveChooser, aiOn bool, aiDelay time.Duration) *Session {
	s := &Session{
		view:     view,
		chooser:  chooser,
		aiColor:  core.ColorDark,
		aiOn:     aiOn,
		aiDelay:  aiDelay,
		commands: make(map[string]*Command),
	}
	s.registerCommands()
	s.newGame()
	return s
}

func (s *Session) Register(cmd *Command) {
	s.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		s.commands[cmd.ShortName] = cmd
	}
	s.order = append(s.order, cmd)
}

func (s *Session) registerCommands() {
	s.Register(&Command{Name: "new", ShortName: "n", Description: "Start a new game", Usage: "new", Handler: newHandler})
	s.Register(&Command{Name: "select", ShortName: "s", Description: "Select a piece and show its moves", Usage: "select <row> <col>", Handler: selectHandler})
	s.Register(&Command{Name: "move", ShortName: "m", Description: "Move a piece", Usage: "move <row> <col> <row> <col> | move <r,c-r,c>", Handler: moveHandler})
	s.Register(&Command{Name: "moves", ShortName: "v", Description: "List legal moves of the side to move", Usage: "moves", Handler: movesHandler})
	s.Register(&Command{Name: "ai", ShortName: "a", Description: "Toggle the computer for Dark", Usage: "ai", Handler: aiHandler})
	s.Register(&Command{Name: "board", ShortName: "b", Description: "Show the board", Usage: "board", Handler: boardHandler})
	s.Register(&Command{Name: "history", ShortName: "h", Description: "Show the moves played", Usage: "history", Handler: historyHandler})
	s.Register(&Command{Name: "color", ShortName: "c", Description: "Set board colors", Usage: "color <off|brown|green|gray>", Handler: colorHandler})
	s.Register(&Command{Name: "help", ShortName: "?", Description: "Show available commands", Usage: "help [command]", Handler: helpHandler})
	s.Register(&Command{Name: "quit", ShortName: "x", Description: "Exit", Usage: "quit", Handler: quitHandler})
}

// Execute runs one input line and reports whether the session continues.
// "r c" selects a piece, or moves the selected piece there.
func (s *Session) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	var err error
	if len(parts) == 2 && isNumber(parts[0]) {
		err = s.pick(parts)
	} else {
		cmd, ok := s.commands[parts[0]]
		if !ok {
			s.view.ShowMessage(fmt.Sprintf("Unknown command: %s", parts[0]))
			s.view.ShowMessage("Type 'help' for available commands")
			return true
		}
		err = cmd.Handler(s, parts[1:])
	}

	if errors.Is(err, errQuit) {
		return false
	}
	if err != nil {
		s.view.ShowError(err)
	}
	return true
}

// Prompt names the side to move
func (s *Session) Prompt() string {
	if s.game.State().IsOver() {
		return "checkers [over] > "
	}
	return fmt.Sprintf("checkers [%s] > ", s.game.NextTurn().Name())
}

func (s *Session) Game() *game.Game {
	return s.game
}

func (s *Session) AIEnabled() bool {
	return s.aiOn
}

func (s *Session) Selected() *board.Coord {
	return s.selected
}

func (s *Session) newGame() {
	light := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.ColorLight)
	dark := core.NewPlayer(s.aiConfig(), core.ColorDark)
	s.game = game.NewStandard(light, dark)
	s.selected = nil
}

func (s *Session) aiConfig() core.PlayerConfig {
	if !s.aiOn {
		return core.PlayerConfig{Type: core.PlayerHuman}
	}
	delay := int(s.aiDelay / time.Millisecond)
	return core.PlayerConfig{Type: core.PlayerComputer, Delay: &delay}
}

func (s *Session) show() {
	hl := Highlight{}
	if s.selected != nil {
		hl.Selected = s.selected
		hl.Targets = s.game.LegalMoves(*s.selected)
	}
	s.view.DisplayBoard(s.game.Board(), hl)
	if s.game.State().IsOver() {
		s.view.ShowGameOver(s.game.State())
		return
	}
	s.view.ShowHUD(s.game.NextTurn(), s.aiOn)
}

func (s *Session) checkHumanTurn() error {
	if s.game.State().IsOver() {
		return game.ErrGameOver
	}
	if s.aiOn && s.game.NextTurn() == s.aiColor {
		return fmt.Errorf("the computer plays %s", s.aiColor.Name())
	}
	return nil
}

// pick mirrors a click: select an own piece, or try the selected piece's
// move and clear the selection either way
func (s *Session) pick(args []string) error {
	sq, err := parseSquare(args)
	if err != nil {
		return err
	}
	if s.selected == nil {
		return s.selectSquare(sq)
	}

	from := *s.selected
	s.selected = nil
	return s.play(from, sq)
}

func (s *Session) selectSquare(sq board.Coord) error {
	if err := s.checkHumanTurn(); err != nil {
		return err
	}
	piece, ok := s.game.Board().Get(sq.Row, sq.Col)
	if !ok || piece.Color != s.game.NextTurn() {
		s.selected = nil
		return fmt.Errorf("no %s piece on %s", s.game.NextTurn().Name(), sq)
	}

	s.selected = &sq
	s.show()
	moves := s.game.LegalMoves(sq)
	s.view.ShowMoves(moves.List(sq))
	return nil
}

func (s *Session) play(from, to board.Coord) error {
	if err := s.checkHumanTurn(); err != nil {
		return err
	}
	if _, err := s.game.Move(from, to); err != nil {
		s.show()
		return err
	}
	s.show()
	s.computerTurn()
	return nil
}

// computerTurn plays the computer's moves while it is to move
func (s *Session) computerTurn() {
	for s.aiOn && !s.game.State().IsOver() && s.game.NextTurn() == s.aiColor {
		if s.aiDelay > 0 {
			s.view.ShowMessage(fmt.Sprintf("%s is thinking...", s.aiColor.Name()))
			time.Sleep(s.aiDelay)
		}
		m, ok := s.chooser.Choose(s.game.Board(), s.aiColor)
		if !ok {
			return
		}
		res, err := s.game.Move(m.From, m.To)
		if err != nil {
			s.view.ShowError(err)
			return
		}
		s.view.ShowComputerMove(res)
		s.show()
	}
}

func newHandler(s *Session, args []string) error {
	s.newGame()
	s.show()
	s.computerTurn()
	return nil
}

func selectHandler(s *Session, args []string) error {
	sq, err := parseSquare(args)
	if err != nil {
		return err
	}
	return s.selectSquare(sq)
}

func moveHandler(s *Session, args []string) error {
	from, to, err := parseMoveArgs(args)
	if err != nil {
		return err
	}
	s.selected = nil
	return s.play(from, to)
}

// parseMoveArgs accepts "r c r c" or the "r,c-r,c" notation shown in listings
func parseMoveArgs(args []string) (from, to board.Coord, err error) {
	switch len(args) {
	case 1:
		return board.ParseMove(args[0])
	case 4:
		if from, err = parseSquare(args[:2]); err != nil {
			return
		}
		to, err = parseSquare(args[2:])
		return
	}
	return board.Coord{}, board.Coord{}, fmt.Errorf("usage: move <row> <col> <row> <col>")
}

func movesHandler(s *Session, args []string) error {
	if s.game.State().IsOver() {
		return game.ErrGameOver
	}
	s.view.ShowMessage(fmt.Sprintf("%s to move:", s.game.NextTurn().Name()))
	s.view.ShowMoves(s.game.AllLegalMoves())
	return nil
}

func aiHandler(s *Session, args []string) error {
	s.aiOn = !s.aiOn
	s.game.SetPlayer(s.aiColor, core.NewPlayer(s.aiConfig(), s.aiColor))
	s.view.ShowHUD(s.game.NextTurn(), s.aiOn)
	s.computerTurn()
	return nil
}

func boardHandler(s *Session, args []string) error {
	s.show()
	return nil
}

func historyHandler(s *Session, args []string) error {
	s.view.ShowGameHistory(s.game.View(), s.game.InitialLayout())
	return nil
}

func colorHandler(s *Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: color <off|brown|green|gray>")
	}
	if err := s.view.SetTheme(ColorTheme(args[0])); err != nil {
		return err
	}
	s.show()
	return nil
}

func helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, ok := s.commands[args[0]]
		if !ok {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.view.ShowMessage(fmt.Sprintf("%s - %s", cmd.Name, cmd.Description))
		if cmd.ShortName != "" {
			s.view.ShowMessage(fmt.Sprintf("Short form: %s", cmd.ShortName))
		}
		s.view.ShowMessage(fmt.Sprintf("Usage: %s", cmd.Usage))
		return nil
	}

	cmds := append([]*Command(nil), s.order...)
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	s.view.ShowMessage("Commands:")
	for _, cmd := range cmds {
		s.view.ShowMessage(fmt.Sprintf("  [%s] %-8s %s", cmd.ShortName, cmd.Name, cmd.Description))
	}
	s.view.ShowMessage("  <row> <col>  Select a piece, then pick its destination")
	return nil
}

func quitHandler(s *Session, args []string) error {
	return errQuit
}

func parseSquare(args []string) (board.Coord, error) {
	if len(args) != 2 {
		return board.Coord{}, fmt.Errorf("expected <row> <col>")
	}
	row, errRow := strconv.Atoi(args[0])
	col, errCol := strconv.Atoi(args[1])
	sq := board.Coord{Row: row, Col: col}
	if errRow != nil || errCol != nil || !sq.InBounds() {
		return board.Coord{}, fmt.Errorf("invalid square %s %s", args[0], args[1])
	}
	return sq, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
