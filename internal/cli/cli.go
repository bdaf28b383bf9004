package cli

import (
	"fmt"
	"io"
	"strings"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
)

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg    string
	darkBg     string
	selectedBg string
	targetBg   string
	light      string
	dark       string
	reset      string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:    "\033[48;5;230m", // Beige
		darkBg:     "\033[48;5;94m",  // Brown
		selectedBg: "\033[48;5;226m", // Yellow
		targetBg:   "\033[48;5;34m",  // Green
		light:      "\033[97m",
		dark:       "\033[30m",
		reset:      "\033[0m",
	},
	ThemeGreen: {
		lightBg:    "\033[48;5;157m", // Light green
		darkBg:     "\033[48;5;22m",  // Dark green
		selectedBg: "\033[48;5;226m",
		targetBg:   "\033[48;5;33m", // Blue
		light:      "\033[97m",
		dark:       "\033[30m",
		reset:      "\033[0m",
	},
	ThemeGray: {
		lightBg:    "\033[48;5;251m", // Light gray
		darkBg:     "\033[48;5;240m", // Dark gray
		selectedBg: "\033[48;5;226m",
		targetBg:   "\033[48;5;34m",
		light:      "\033[97m",
		dark:       "\033[30m",
		reset:      "\033[0m",
	},
}

// Highlight marks a selected piece and its destinations
type Highlight struct {
	Selected *board.Coord
	Targets  board.Moves
}

// CLI renders games to a terminal
type CLI struct {
	output io.Writer
	theme  ColorTheme
}

func New(output io.Writer) *CLI {
	return &CLI{
		output: output,
		theme:  ThemeOff,
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard draws the board with row 7 on top. Without colors the selected
// piece is followed by '<' and destinations show '*'.
func (c *CLI) DisplayBoard(b *board.Board, hl Highlight) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  0 1 2 3 4 5 6 7\n")

	for r := board.Size - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r))
		for col := 0; col < board.Size; col++ {
			sq := board.Coord{Row: r, Col: col}
			piece, occupied := b.Get(r, col)
			_, target := hl.Targets[sq]
			selected := hl.Selected != nil && *hl.Selected == sq

			if c.theme == ThemeOff {
				switch {
				case target:
					sb.WriteString("* ")
				case occupied && selected:
					sb.WriteString(fmt.Sprintf("%c<", piece.Symbol()))
				case occupied:
					sb.WriteString(fmt.Sprintf("%c ", piece.Symbol()))
				case sq.Dark():
					sb.WriteString(". ")
				default:
					sb.WriteString("  ")
				}
				continue
			}

			bg := theme.lightBg
			if sq.Dark() {
				bg = theme.darkBg
			}
			switch {
			case selected:
				bg = theme.selectedBg
			case target:
				bg = theme.targetBg
			}

			if !occupied {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			fg := theme.dark
			if piece.Color == core.ColorLight {
				fg = theme.light
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, piece.Symbol(), theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	c.ShowMessage(sb.String())
}

// HUD returns the status line
func HUD(turn core.Color, aiOn bool) string {
	ai := "Off"
	if aiOn {
		ai = "On"
	}
	return fmt.Sprintf("Turn: %s | AI: %s", turn.Name(), ai)
}

func (c *CLI) ShowHUD(turn core.Color, aiOn bool) {
	c.ShowMessage(HUD(turn, aiOn))
}

// GameOverBanner names the winner, or "Draw"
func GameOverBanner(state core.State) string {
	return fmt.Sprintf("Game Over - Winner: %s", state.Winner())
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage("\n" + GameOverBanner(state))
	c.ShowMessage("Start a new game with 'new' or leave with 'quit'.")
}

// ShowMoves lists moves one per line
func (c *CLI) ShowMoves(moves []board.Move) {
	if len(moves) == 0 {
		c.ShowMessage("No legal moves")
		return
	}
	for _, m := range moves {
		line := m.String()
		if m.IsCapture() {
			caps := make([]string, len(m.Captures))
			for i, sq := range m.Captures {
				caps[i] = sq.String()
			}
			line += "  captures " + strings.Join(caps, " ")
		}
		c.ShowMessage("  " + line)
	}
}

func (c *CLI) ShowGameHistory(v game.View, initial string) {
	c.ShowMessage(fmt.Sprintf("Starting layout: %s\n", initial))

	for i, s := range v.History {
		line := fmt.Sprintf("%3d. %-5s %s", i+1, s.Mover.Name(), s.Move)
		if s.Promoted {
			line += " (crowned)"
		}
		c.ShowMessage(line)
	}
	c.ShowMessage(fmt.Sprintf("\nCurrent layout: %s", v.Layout))
	c.ShowMessage(fmt.Sprintf("Game state: %s", v.State))
}

func (c *CLI) ShowComputerMove(result *game.MoveResult) {
	msg := fmt.Sprintf("Computer (%s): %s", result.PlayerColor.Name(), result.Move)
	if result.Promoted {
		msg += " (crowned)"
	}
	c.ShowMessage(msg)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Checkers!")
	c.ShowMessage("Light (l) moves first from rows 0-2, Dark (d) starts on rows 5-7. Kings are capitals.")
	c.ShowMessage("Pick a piece with 'r c', then its destination with 'r c'. Type 'help' for all commands.")
	c.ShowMessage("")
}
