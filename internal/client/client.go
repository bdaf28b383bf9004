// Package client talks to a checkers server over its REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"checkers/internal/core"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	Status int
	core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.ErrorResponse.Error, e.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.ErrorResponse.Error)
}

type HealthResponse struct {
	Status string `json:"status"`
	Time   int64  `json:"time"`
	Games  int    `json:"games"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
		if c.Verbose {
			log.Printf("[API] %s %s %s", method, path, data)
		}
	} else if c.Verbose {
		log.Printf("[API] %s %s", method, path)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if c.Verbose {
		log.Printf("[API] %d %s", resp.StatusCode, respBody)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.ErrorResponse); err != nil {
			apiErr.ErrorResponse = core.ErrorResponse{Error: string(respBody)}
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(ctx context.Context, req core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// WaitGame long-polls until the game's move count differs from moveCount.
// The server answers with the current state after its own timeout.
func (c *Client) WaitGame(ctx context.Context, gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount)
	err := c.doRequest(ctx, http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) ConfigurePlayers(ctx context.Context, gameID string, req core.ConfigurePlayersRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(ctx, http.MethodPut, "/api/v1/games/"+gameID+"/players", req, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) MakeMove(ctx context.Context, gameID string, from, to core.Square) (*core.GameResponse, error) {
	req := core.MoveRequest{From: &from, To: &to}
	var resp core.GameResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/moves", req, &resp)
	return &resp, err
}

// RequestComputerMove queues the computer's move. The returned state is
// pending until the move lands.
func (c *Client) RequestComputerMove(ctx context.Context, gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/moves", core.MoveRequest{Computer: true}, &resp)
	return &resp, err
}

// LegalMoves lists moves of the side to move, only from sq when it is set
func (c *Client) LegalMoves(ctx context.Context, gameID string, sq *core.Square) (*core.MovesResponse, error) {
	path := "/api/v1/games/" + gameID + "/moves"
	if sq != nil {
		path += fmt.Sprintf("?row=%d&col=%d", sq.Row, sq.Col)
	}
	var resp core.MovesResponse
	err := c.doRequest(ctx, http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) GetBoard(ctx context.Context, gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}
