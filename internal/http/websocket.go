package http

import (
	"context"
	"encoding/json"
	"log"
	"reflect"
	"sync"

	"checkers/internal/core"
	"checkers/internal/processor"

	"github.com/gofiber/websocket/v2"
)

// StreamGame pushes the game state to the socket on every change. Text
// messages from the client are read as move requests.
func (h *HTTPHandler) StreamGame(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writeMu sync.Mutex
	send := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return c.WriteJSON(v)
	}

	go h.readMoves(ctx, cancel, c, gameID, send)

	var last *core.GameResponse
	for {
		_, changed, err := h.svc.Watch(ctx, gameID)
		if err != nil {
			send(core.ErrorResponse{Error: "game not found", Code: core.ErrGameNotFound})
			return
		}

		resp := h.proc.Execute(processor.NewGetGameCommand(gameID))
		if !resp.Success {
			send(resp.Error)
			return
		}

		state := resp.Data.(core.GameResponse)
		if last == nil || !reflect.DeepEqual(*last, state) {
			if err := send(state); err != nil {
				return
			}
			last = &state
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return
		}
	}
}

// readMoves runs until the client goes away, then cancels ctx
func (h *HTTPHandler) readMoves(ctx context.Context, cancel context.CancelFunc, c *websocket.Conn, gameID string, send func(any) error) {
	defer cancel()

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error for game %s: %v", gameID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var req core.MoveRequest
		if err := json.Unmarshal(message, &req); err != nil {
			send(core.ErrorResponse{Error: "invalid message", Code: core.ErrInvalidRequest, Details: err.Error()})
			continue
		}
		if err := validate.Struct(&req); err != nil {
			send(core.ErrorResponse{Error: "validation failed", Code: core.ErrInvalidRequest, Details: describeValidation(err)})
			continue
		}

		// Successful moves reach the client through the state stream
		resp := h.proc.Execute(processor.NewMakeMoveCommand(gameID, req))
		if !resp.Success {
			send(resp.Error)
		}

		if ctx.Err() != nil {
			return
		}
	}
}
