// Package main runs a local checkers game in the terminal, with an optional
// computer opponent for Dark.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"checkers/internal/ai"
	"checkers/internal/cli"
	"checkers/internal/config"

	"github.com/chzyer/readline"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}

	var (
		aiOn    = flag.Bool("ai", cfg.AI, "Computer plays Dark")
		delayMS = flag.Int("ai-delay", cfg.AIDelayMS, "Computer delay after a human move in milliseconds")
		theme   = flag.String("color", cfg.Theme, "Board colors: off, brown, green, gray")
		history = flag.String("history", cfg.HistoryFile, "Readline history file")
		seed    = flag.Int64("seed", cfg.Seed, "Computer move seed, 0 for random")
	)
	flag.Parse()

	var chooser *ai.Random
	if *seed != 0 {
		chooser = ai.NewRandom(*seed)
	} else if chooser, err = ai.NewSeeded(); err != nil {
		fmt.Printf("Failed to seed computer player: %v\n", err)
		os.Exit(1)
	}

	view := cli.New(os.Stdout)
	if err := view.SetTheme(cli.ColorTheme(*theme)); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "checkers > ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	view.ShowWelcome()
	s := cli.NewSession(view, chooser, *aiOn, time.Duration(*delayMS)*time.Millisecond)
	s.Execute("board")

	for {
		rl.SetPrompt(s.Prompt())

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			break
		}

		if !s.Execute(strings.TrimSpace(line)) {
			break
		}
	}
	view.ShowMessage("Goodbye!")
}
