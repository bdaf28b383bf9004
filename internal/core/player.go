package core

import (
	"time"

	"github.com/google/uuid"
)

const DefaultComputerDelay = 1000 // ms

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerComputer
)

func (t PlayerType) String() string {
	if t == PlayerComputer {
		return "computer"
	}
	return "human"
}

// Player is the complete game entity with all state
type Player struct {
	ID    string     `json:"id"`
	Color Color      `json:"color"`
	Type  PlayerType `json:"type"`
	Delay int        `json:"delay,omitempty"` // Only for computer, ms before it moves
}

// ThinkTime returns how long a computer player waits before moving
func (p *Player) ThinkTime() time.Duration {
	if p == nil || p.Type != PlayerComputer {
		return 0
	}
	return time.Duration(p.Delay) * time.Millisecond
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Type  PlayerType `json:"type" validate:"required,oneof=1 2"`
	Delay *int       `json:"delay,omitempty" validate:"omitempty,min=0,max=10000"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	Light *Player `json:"light"`
	Dark  *Player `json:"dark"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, color Color) *Player {
	player := &Player{
		ID:    uuid.New().String(),
		Color: color,
		Type:  config.Type,
	}

	if config.Type == PlayerComputer {
		player.Delay = DefaultComputerDelay
		if config.Delay != nil {
			player.Delay = *config.Delay
		}
	}

	return player
}
