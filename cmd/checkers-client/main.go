// Package main is an interactive client for a running checkers server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"checkers/internal/board"
	"checkers/internal/cli"
	"checkers/internal/client"
	"checkers/internal/core"

	"github.com/chzyer/readline"
)

const requestTimeout = 35 * time.Second

type remote struct {
	api    *client.Client
	view   *cli.CLI
	gameID string
	last   *core.GameResponse
}

type command struct {
	usage   string
	desc    string
	handler func(ctx context.Context, r *remote, args []string) error
}

var commands = map[string]command{
	"new":      {"new [computer-dark]", "Create a game, optionally with the computer as Dark", newGame},
	"join":     {"join <game-id>", "Follow an existing game", joinGame},
	"show":     {"show", "Fetch and show the current game", showGame},
	"move":     {"move <row> <col> <row> <col> | move <r,c-r,c>", "Play a move", makeMove},
	"computer": {"computer", "Ask the computer to move for the side to move", computerMove},
	"moves":    {"moves [<row> <col>]", "List legal moves", listMoves},
	"wait":     {"wait", "Block until the game changes", waitGame},
	"delete":   {"delete", "Delete the current game", deleteGame},
	"health":   {"health", "Check the server", health},
	"server":   {"server <url>", "Switch to another server", switchServer},
}

func main() {
	server := flag.String("server", "http://localhost:8080", "Checkers server URL")
	verbose := flag.Bool("v", false, "Log requests and responses")
	flag.Parse()

	r := &remote{api: client.New(*server), view: cli.New(os.Stdout)}
	r.api.Verbose = *verbose

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "checkers-client > ",
		HistoryFile:     ".checkers_client_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("Checkers client for %s\nType 'help' for commands\n\n", *server)

	for {
		rl.SetPrompt(r.prompt())
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if parts[0] == "exit" || parts[0] == "quit" || parts[0] == "x" {
			break
		}
		if parts[0] == "help" || parts[0] == "?" {
			for name, cmd := range commands {
				fmt.Printf("  %-9s %-30s %s\n", name, cmd.usage, cmd.desc)
			}
			continue
		}

		cmd, ok := commands[parts[0]]
		if !ok {
			fmt.Printf("Unknown command: %s\n", parts[0])
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		if err := cmd.handler(ctx, r, parts[1:]); err != nil {
			r.view.ShowError(err)
		}
		cancel()
	}
}

func (r *remote) prompt() string {
	if r.gameID == "" {
		return "checkers-client > "
	}
	return fmt.Sprintf("checkers-client [%s] > ", r.gameID[:8])
}

func (r *remote) needGame() error {
	if r.gameID == "" {
		return fmt.Errorf("no game, use 'new' or 'join'")
	}
	return nil
}

func (r *remote) show(g *core.GameResponse) error {
	r.last = g
	b, err := board.ParseLayout(g.Layout)
	if err != nil {
		return err
	}
	r.view.DisplayBoard(b, cli.Highlight{})
	if g.LastMove != nil {
		r.view.ShowMessage(fmt.Sprintf("Last move: %s", g.LastMove.Move))
	}
	if g.Winner != "" {
		r.view.ShowMessage("Game Over - Winner: " + g.Winner)
		return nil
	}
	turn, _ := core.ParseColor(g.Turn)
	r.view.ShowMessage(fmt.Sprintf("Turn: %s | State: %s", turn.Name(), g.State))
	return nil
}

func newGame(ctx context.Context, r *remote, args []string) error {
	req := core.CreateGameRequest{
		Light: core.PlayerConfig{Type: core.PlayerHuman},
		Dark:  core.PlayerConfig{Type: core.PlayerHuman},
	}
	if len(args) > 0 && args[0] == "computer-dark" {
		req.Dark.Type = core.PlayerComputer
	}
	g, err := r.api.CreateGame(ctx, req)
	if err != nil {
		return err
	}
	r.gameID = g.GameID
	r.view.ShowMessage("Game " + g.GameID)
	return r.show(g)
}

func joinGame(ctx context.Context, r *remote, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: join <game-id>")
	}
	g, err := r.api.GetGame(ctx, args[0])
	if err != nil {
		return err
	}
	r.gameID = g.GameID
	return r.show(g)
}

func showGame(ctx context.Context, r *remote, args []string) error {
	if err := r.needGame(); err != nil {
		return err
	}
	g, err := r.api.GetGame(ctx, r.gameID)
	if err != nil {
		return err
	}
	return r.show(g)
}

func makeMove(ctx context.Context, r *remote, args []string) error {
	if err := r.needGame(); err != nil {
		return err
	}
	from, to, err := parseMoveArgs(args)
	if err != nil {
		return err
	}
	g, err := r.api.MakeMove(ctx, r.gameID, from, to)
	if err != nil {
		return err
	}
	return r.show(g)
}

func computerMove(ctx context.Context, r *remote, args []string) error {
	if err := r.needGame(); err != nil {
		return err
	}
	g, err := r.api.RequestComputerMove(ctx, r.gameID)
	if err != nil {
		return err
	}
	r.view.ShowMessage(fmt.Sprintf("Computer move queued (state: %s), use 'wait'", g.State))
	r.last = g
	return nil
}

func listMoves(ctx context.Context, r *remote, args []string) error {
	if err := r.needGame(); err != nil {
		return err
	}
	var sq *core.Square
	if len(args) > 0 {
		s, err := parseSquare(args)
		if err != nil {
			return err
		}
		sq = &s
	}
	resp, err := r.api.LegalMoves(ctx, r.gameID, sq)
	if err != nil {
		return err
	}
	if len(resp.Moves) == 0 {
		r.view.ShowMessage("No legal moves")
	}
	for _, m := range resp.Moves {
		line := fmt.Sprintf("  %d,%d-%d,%d", m.From.Row, m.From.Col, m.To.Row, m.To.Col)
		if len(m.Captures) > 0 {
			line += fmt.Sprintf("  captures %d", len(m.Captures))
		}
		r.view.ShowMessage(line)
	}
	return nil
}

func waitGame(ctx context.Context, r *remote, args []string) error {
	if err := r.needGame(); err != nil {
		return err
	}
	count := -1
	if r.last != nil {
		count = len(r.last.Moves)
	}
	g, err := r.api.WaitGame(ctx, r.gameID, count)
	if err != nil {
		return err
	}
	return r.show(g)
}

func deleteGame(ctx context.Context, r *remote, args []string) error {
	if err := r.needGame(); err != nil {
		return err
	}
	if err := r.api.DeleteGame(ctx, r.gameID); err != nil {
		return err
	}
	r.view.ShowMessage("Deleted " + r.gameID)
	r.gameID, r.last = "", nil
	return nil
}

func health(ctx context.Context, r *remote, args []string) error {
	h, err := r.api.Health(ctx)
	if err != nil {
		return err
	}
	r.view.ShowMessage(fmt.Sprintf("%s, %d games", h.Status, h.Games))
	return nil
}

func switchServer(ctx context.Context, r *remote, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: server <url>")
	}
	r.api.SetBaseURL(args[0])
	r.gameID, r.last = "", nil
	r.view.ShowMessage("Server " + r.api.BaseURL)
	return nil
}

func parseMoveArgs(args []string) (from, to core.Square, err error) {
	switch len(args) {
	case 1:
		f, t, err := board.ParseMove(args[0])
		if err != nil {
			return core.Square{}, core.Square{}, err
		}
		return core.Square{Row: f.Row, Col: f.Col}, core.Square{Row: t.Row, Col: t.Col}, nil
	case 4:
		if from, err = parseSquare(args[:2]); err != nil {
			return
		}
		to, err = parseSquare(args[2:])
		return
	}
	return core.Square{}, core.Square{}, fmt.Errorf("usage: move <row> <col> <row> <col>")
}

func parseSquare(args []string) (core.Square, error) {
	if len(args) != 2 {
		return core.Square{}, fmt.Errorf("expected <row> <col>")
	}
	row, errRow := strconv.Atoi(args[0])
	col, errCol := strconv.Atoi(args[1])
	if errRow != nil || errCol != nil || row < 0 || row > 7 || col < 0 || col > 7 {
		return core.Square{}, fmt.Errorf("invalid square %s %s", args[0], args[1])
	}
	return core.Square{Row: row, Col: col}, nil
}
