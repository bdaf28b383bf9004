package core

type State int

const (
	StateOngoing State = iota
	StatePending       // Computer is picking a move
	StateLightWins
	StateDarkWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLightWins:
		return "light wins"
	case StateDarkWins:
		return "dark wins"
	case StateDraw:
		return "draw"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether the state is terminal
func (s State) IsOver() bool {
	return s == StateLightWins || s == StateDarkWins || s == StateDraw
}

// Winner names the outcome for game-over banners
func (s State) Winner() string {
	switch s {
	case StateLightWins:
		return "Light"
	case StateDarkWins:
		return "Dark"
	case StateDraw:
		return "Draw"
	default:
		return ""
	}
}

type Color byte

const (
	ColorLight Color = iota + 1
	ColorDark
)

func (c Color) String() string {
	switch c {
	case ColorLight:
		return "l"
	case ColorDark:
		return "d"
	default:
		return "-"
	}
}

// Name returns the display name of the color
func (c Color) Name() string {
	switch c {
	case ColorLight:
		return "Light"
	case ColorDark:
		return "Dark"
	default:
		return "None"
	}
}

// ParseColor accepts "l"/"light" and "d"/"dark"
func ParseColor(s string) (Color, bool) {
	switch s {
	case "l", "light":
		return ColorLight, true
	case "d", "dark":
		return ColorDark, true
	default:
		return 0, false
	}
}

func OppositeColor(c Color) Color {
	if c == ColorLight {
		return ColorDark
	}
	return ColorLight
}
