package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"checkers/internal/ai"
	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/processor"
	"checkers/internal/service"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.New(0)
	proc := processor.New(svc, ai.NewRandom(1), 1)
	t.Cleanup(func() {
		proc.Close()
		svc.Close()
	})
	return NewFiberApp(proc, svc, Options{RateLimit: 1000})
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func createHumanGame(t *testing.T, app *fiber.App) core.GameResponse {
	t.Helper()
	resp, body := do(t, app, http.MethodPost, "/api/v1/games", `{"light":{"type":1},"dark":{"type":1}}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var g core.GameResponse
	if err := json.Unmarshal(body, &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return g
}

func decodeError(t *testing.T, body []byte) core.ErrorResponse {
	t.Helper()
	var e core.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error: %v (%s)", err, body)
	}
	return e
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, http.MethodGet, "/health", "")
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), "healthy") {
		t.Fatalf("health = %d %s", resp.StatusCode, body)
	}
}

func TestCreateAndGetGame(t *testing.T) {
	app := newTestApp(t)
	g := createHumanGame(t, app)

	if g.Layout != board.StartingLayout || g.Turn != "l" || g.State != "ongoing" {
		t.Fatalf("unexpected game %+v", g)
	}

	resp, body := do(t, app, http.MethodGet, "/api/v1/games/"+g.GameID, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get status = %d: %s", resp.StatusCode, body)
	}
}

func TestMoveFlow(t *testing.T) {
	app := newTestApp(t)
	g := createHumanGame(t, app)
	path := "/api/v1/games/" + g.GameID + "/moves"

	resp, body := do(t, app, http.MethodPost, path, `{"from":{"row":2,"col":1},"to":{"row":3,"col":2}}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("move status = %d: %s", resp.StatusCode, body)
	}
	var after core.GameResponse
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Turn != "d" || after.LastMove == nil || after.LastMove.Move != "2,1-3,2" {
		t.Fatalf("unexpected game %+v", after)
	}

	resp, body = do(t, app, http.MethodPost, path, `{"from":{"row":5,"col":0},"to":{"row":3,"col":0}}`)
	if resp.StatusCode != fiber.StatusBadRequest || decodeError(t, body).Code != core.ErrInvalidMove {
		t.Fatalf("illegal move = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, app, http.MethodPost, path, `{"computer":true}`)
	if resp.StatusCode != fiber.StatusConflict || decodeError(t, body).Code != core.ErrNotHumanTurn {
		t.Fatalf("computer request = %d %s", resp.StatusCode, body)
	}
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(t)
	g := createHumanGame(t, app)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"bad player type", http.MethodPost, "/api/v1/games", `{"light":{"type":3},"dark":{"type":1}}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"short layout", http.MethodPost, "/api/v1/games", `{"light":{"type":1},"dark":{"type":1},"layout":"l/d"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad turn", http.MethodPost, "/api/v1/games", `{"light":{"type":1},"dark":{"type":1},"turn":"x"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"missing squares", http.MethodPost, "/api/v1/games/" + g.GameID + "/moves", `{}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"square out of range", http.MethodPost, "/api/v1/games/" + g.GameID + "/moves", `{"from":{"row":9,"col":1},"to":{"row":3,"col":2}}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"malformed json", http.MethodPost, "/api/v1/games", `{"light":`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"invalid id", http.MethodGet, "/api/v1/games/not-a-uuid", "", fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"unknown game", http.MethodGet, "/api/v1/games/00000000-0000-0000-0000-000000000000", "", fiber.StatusNotFound, core.ErrGameNotFound},
		{"bad square query", http.MethodGet, "/api/v1/games/" + g.GameID + "/moves?row=1", "", fiber.StatusBadRequest, core.ErrInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, app, tc.method, tc.path, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tc.status, body)
			}
			if e := decodeError(t, body); e.Code != tc.code {
				t.Fatalf("code = %s, want %s", e.Code, tc.code)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestCreateWithLayout(t *testing.T) {
	app := newTestApp(t)

	layout := ".l....../......../......../......../......../......../......../........"
	resp, body := do(t, app, http.MethodPost, "/api/v1/games", `{"light":{"type":1},"dark":{"type":1},"layout":"`+layout+`"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var g core.GameResponse
	if err := json.Unmarshal(body, &g); err != nil {
		t.Fatal(err)
	}
	if g.State != "light wins" || g.Winner != "Light" {
		t.Fatalf("state = %q winner = %q", g.State, g.Winner)
	}

	// Right length, piece on a light square
	bad := "l......./......../......../......../......../......../......../........"
	resp, body = do(t, app, http.MethodPost, "/api/v1/games", `{"light":{"type":1},"dark":{"type":1},"layout":"`+bad+`"}`)
	if resp.StatusCode != fiber.StatusBadRequest || decodeError(t, body).Code != core.ErrInvalidLayout {
		t.Fatalf("bad layout = %d %s", resp.StatusCode, body)
	}
}

func TestMovesBoardAndDelete(t *testing.T) {
	app := newTestApp(t)
	g := createHumanGame(t, app)
	base := "/api/v1/games/" + g.GameID

	resp, body := do(t, app, http.MethodGet, base+"/moves?row=2&col=1", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("moves = %d %s", resp.StatusCode, body)
	}
	var moves core.MovesResponse
	if err := json.Unmarshal(body, &moves); err != nil {
		t.Fatal(err)
	}
	if len(moves.Moves) != 2 {
		t.Fatalf("moves for 2,1 = %+v", moves.Moves)
	}

	resp, body = do(t, app, http.MethodGet, base+"/board", "")
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), board.StartingLayout) {
		t.Fatalf("board = %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, http.MethodDelete, base, "")
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("delete = %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodGet, base, "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete = %d", resp.StatusCode)
	}
}

func TestConfigurePlayers(t *testing.T) {
	app := newTestApp(t)
	g := createHumanGame(t, app)

	resp, body := do(t, app, http.MethodPut, "/api/v1/games/"+g.GameID+"/players", `{"light":{"type":1},"dark":{"type":2,"delay":0}}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("configure = %d %s", resp.StatusCode, body)
	}
	var after core.GameResponse
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatal(err)
	}
	if after.Players.Dark.Type != core.PlayerComputer {
		t.Fatalf("dark player = %+v", after.Players.Dark)
	}
}

func TestLongPollReturnsWhenBehind(t *testing.T) {
	app := newTestApp(t)
	g := createHumanGame(t, app)

	resp, body := do(t, app, http.MethodGet, "/api/v1/games/"+g.GameID+"?wait=true&moveCount=5", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("wait = %d %s", resp.StatusCode, body)
	}
}
