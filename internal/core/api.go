package core

// Request types

type CreateGameRequest struct {
	Light  PlayerConfig `json:"light" validate:"required"`
	Dark   PlayerConfig `json:"dark" validate:"required"`
	Layout string       `json:"layout,omitempty" validate:"omitempty,len=71"`
	Turn   string       `json:"turn,omitempty" validate:"omitempty,oneof=l d"`
}

type ConfigurePlayersRequest struct {
	Light PlayerConfig `json:"light" validate:"required"`
	Dark  PlayerConfig `json:"dark" validate:"required"`
}

type Square struct {
	Row int `json:"row" validate:"min=0,max=7"`
	Col int `json:"col" validate:"min=0,max=7"`
}

// MoveRequest carries either a from/to pair or a computer move trigger
type MoveRequest struct {
	From     *Square `json:"from,omitempty" validate:"required_without=Computer"`
	To       *Square `json:"to,omitempty" validate:"required_without=Computer"`
	Computer bool    `json:"computer,omitempty"`
}

// Response types

type GameResponse struct {
	GameID   string          `json:"gameId"`
	Layout   string          `json:"layout"`
	Turn     string          `json:"turn"`  // "l" or "d"
	State    string          `json:"state"` // "ongoing", "light wins", etc
	Winner   string          `json:"winner,omitempty"`
	Moves    []string        `json:"moves"`
	Players  PlayersResponse `json:"players"`
	LastMove *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string   `json:"move"`
	PlayerColor string   `json:"playerColor"` // "l" or "d"
	Captured    []Square `json:"captured,omitempty"`
	Promoted    bool     `json:"promoted,omitempty"`
}

// LegalMove is one destination reachable from a square
type LegalMove struct {
	From     Square   `json:"from"`
	To       Square   `json:"to"`
	Captures []Square `json:"captures"`
}

type MovesResponse struct {
	Turn  string      `json:"turn"`
	Moves []LegalMove `json:"moves"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
