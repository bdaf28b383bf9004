// Package main runs the checkers game server with its REST and websocket API.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkers/internal/ai"
	"checkers/internal/config"
	"checkers/internal/http"
	"checkers/internal/processor"
	"checkers/internal/service"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Flags override the environment
	flag.StringVar(&cfg.Host, "api-host", cfg.Host, "API server host")
	flag.IntVar(&cfg.Port, "api-port", cfg.Port, "API server port")
	flag.BoolVar(&cfg.Dev, "dev", cfg.Dev, "Development mode (relaxed rate limits)")
	flag.BoolVar(&cfg.Logging, "log-requests", cfg.Logging, "Log every request")
	flag.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second per client")
	flag.IntVar(&cfg.MaxGames, "max-games", cfg.MaxGames, "Maximum concurrent games")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Computer move workers")
	flag.StringVar(&cfg.PIDFile, "pid", cfg.PIDFile, "Optional path to write PID file")
	flag.BoolVar(&cfg.PIDLock, "pid-lock", cfg.PIDLock, "Lock PID file to allow only one instance (requires -pid)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.PIDFile != "" {
		cleanup, err := managePIDFile(cfg.PIDFile, cfg.PIDLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", cfg.PIDFile, cfg.PIDLock)
	}

	chooser, err := ai.NewSeeded()
	if err != nil {
		log.Fatalf("Failed to seed computer player: %v", err)
	}

	svc := service.New(cfg.MaxGames)
	proc := processor.New(svc, chooser, cfg.Workers)
	app := http.NewFiberApp(proc, svc, http.Options{
		DevMode:   cfg.Dev,
		RateLimit: cfg.RateLimit,
		Logging:   cfg.Logging,
	})

	addr := cfg.Addr()
	go func() {
		log.Printf("Checkers API Server starting...")
		log.Printf("API Listening on: http://%s", addr)
		log.Printf("Max games: %d, computer workers: %d", cfg.MaxGames, cfg.Workers)
		if cfg.Dev {
			log.Printf("Rate Limit: %d requests/second per IP (DEV MODE)", cfg.RateLimit*2)
		} else {
			log.Printf("Rate Limit: %d requests/second per IP", cfg.RateLimit)
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", addr)
		log.Printf("Game stream: ws://%s/ws/games/:gameId", addr)
		log.Printf("Health: http://%s/health", addr)

		if err := app.Listen(addr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Release long-polls before draining connections
	err = errors.Join(
		svc.Close(),
		app.ShutdownWithContext(shutdownCtx),
		proc.Close(),
	)
	if err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	log.Println("Server exited")
}
