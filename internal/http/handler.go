package http

import (
	"context"
	"strconv"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/processor"
	"checkers/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

const rateLimitRate = 10 // req/sec

// Options tune the fiber app
type Options struct {
	DevMode   bool // Doubles the rate limit
	RateLimit int  // Requests per second per client, 0 for the default
	Logging   bool // Request logging
}

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, opts Options) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          35 * time.Second, // Above the long-poll timeout
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	if opts.Logging {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	maxReq := opts.RateLimit
	if maxReq <= 0 {
		maxReq = rateLimitRate
	}
	if opts.DevMode {
		maxReq *= 2
	}

	api := app.Group("/api/v1")
	api.Use(rateLimiter(maxReq))
	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Put("/games/:gameId/players", h.ConfigurePlayers)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Get("/games/:gameId/moves", h.GetMoves)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Get("/games/:gameId/board", h.GetBoard)

	app.Get("/ws/games/:gameId", websocketUpgrade, websocket.New(h.StreamGame))

	return app
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
		"games":  h.svc.GameCount(),
	})
}

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: err.Error(),
		Code:  core.ErrInternalError,
	})
}

// respond writes a processor response with the given success status
func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// CreateGame creates a new game with specified player types
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return internalError(c, err)
	}

	resp := h.proc.Execute(processor.NewCreateGameCommand(req))
	return respond(c, resp, fiber.StatusCreated)
}

// ConfigurePlayers updates player configuration mid-game
func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	req, err := validatedBody[core.ConfigurePlayersRequest](c)
	if err != nil {
		return internalError(c, err)
	}

	resp := h.proc.Execute(processor.NewConfigurePlayersCommand(gameID, req))
	return respond(c, resp, fiber.StatusOK)
}

// GetGame retrieves current game state. With wait=true it blocks until the
// game has a move count other than moveCount, or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	ctx, cancel := context.WithCancel(c.Context())
	defer cancel()

	// Registered before the read so a change in between still wakes us
	v, notify, err := h.svc.Watch(ctx, gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// Already behind, return immediately
	if moveCount != len(v.Moves) {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	select {
	case <-notify:
		// Changed, timed out or deleted
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

// MakeMove submits a move, or requests a computer move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return internalError(c, err)
	}

	resp := h.proc.Execute(processor.NewMakeMoveCommand(gameID, req))
	if resp.Success && resp.Pending {
		return c.Status(fiber.StatusAccepted).JSON(resp.Data)
	}
	return respond(c, resp, fiber.StatusOK)
}

// GetMoves lists legal moves of the side to move, optionally for one square
func (h *HTTPHandler) GetMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	var q processor.MovesQuery
	rowStr, colStr := c.Query("row"), c.Query("col")
	if rowStr != "" || colStr != "" {
		row, errRow := strconv.Atoi(rowStr)
		col, errCol := strconv.Atoi(colStr)
		sq := board.Coord{Row: row, Col: col}
		if errRow != nil || errCol != nil || !sq.InBounds() {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid square",
				Code:    core.ErrInvalidRequest,
				Details: "row and col must both be between 0 and 7",
			})
		}
		q.Square = &sq
	}

	return respond(c, h.proc.Execute(processor.NewGetMovesCommand(gameID, q)), fiber.StatusOK)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	resp := h.proc.Execute(processor.NewDeleteGameCommand(gameID))
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}
