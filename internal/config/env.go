// Package config loads checkers settings from CHECKERS_* environment
// variables. Command-line flags take these values as their defaults.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Server configures the checkers HTTP server
type Server struct {
	Host      string `env:"CHECKERS_HOST" envDefault:"localhost"`
	Port      int    `env:"CHECKERS_PORT" envDefault:"8080"`
	Dev       bool   `env:"CHECKERS_DEV"`
	Logging   bool   `env:"CHECKERS_LOG_REQUESTS" envDefault:"true"`
	RateLimit int    `env:"CHECKERS_RATE_LIMIT" envDefault:"10"`
	MaxGames  int    `env:"CHECKERS_MAX_GAMES" envDefault:"1000"`
	Workers   int    `env:"CHECKERS_WORKERS" envDefault:"2"`
	PIDFile   string `env:"CHECKERS_PID_FILE"`
	PIDLock   bool   `env:"CHECKERS_PID_LOCK"`
}

// Client configures the terminal game
type Client struct {
	AI          bool   `env:"CHECKERS_AI" envDefault:"true"`
	AIDelayMS   int    `env:"CHECKERS_AI_DELAY_MS" envDefault:"1000"`
	Theme       string `env:"CHECKERS_THEME" envDefault:"off"`
	HistoryFile string `env:"CHECKERS_HISTORY_FILE" envDefault:"/tmp/checkers_history"`
	Seed        int64  `env:"CHECKERS_SEED"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer returns the server settings with defaults applied
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, cfg.Validate()
}

// LoadClient returns the terminal settings with defaults applied
func LoadClient() (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}
	if cfg.AIDelayMS < 0 || cfg.AIDelayMS > 10000 {
		return Client{}, fmt.Errorf("ai delay must be between 0 and 10000 ms, got %d", cfg.AIDelayMS)
	}
	return cfg, nil
}

// Validate checks ranges and flag combinations
func (s Server) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port out of range: %d", s.Port)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", s.Workers)
	}
	if s.MaxGames < 1 {
		return fmt.Errorf("max games must be positive, got %d", s.MaxGames)
	}
	if s.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive, got %d", s.RateLimit)
	}
	if s.PIDLock && s.PIDFile == "" {
		return fmt.Errorf("pid lock requires a pid file")
	}
	return nil
}

// Addr is host:port for listening
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
